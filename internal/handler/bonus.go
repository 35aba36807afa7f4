package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
	"github.com/Dramirezponce/walkergestion-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

type BonusHandler struct {
	Service service.BonusService
	Repo    repository.BonusRepository
}

func (h BonusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/bonuses", h.list)
	r.Post("/bonuses/calculate", h.calculate)
	r.Put("/bonuses/{id}/status", h.updateStatus)
}

func (h BonusHandler) calculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessUnitID int64  `json:"businessUnitId"`
		Month          string `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BusinessUnitID == 0 || req.Month == "" {
		writeError(w, http.StatusBadRequest, "businessUnitId and month are required")
		return
	}
	actor := authctx.FromContext(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	b, err := h.Service.Calculate(r.Context(), *actor, req.BusinessUnitID, req.Month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bonusJSON(*b))
}

func (h BonusHandler) list(w http.ResponseWriter, r *http.Request) {
	var f repository.BonusFilter
	if v := r.URL.Query().Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unitId")
			return
		}
		f.BusinessUnitID = &id
	}
	if v := r.URL.Query().Get("month"); v != "" {
		f.Month = &v
	}
	items, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, b := range items {
		resp = append(resp, bonusJSON(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BonusHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	actor := authctx.FromContext(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var b *domain.Bonus
	switch domain.BonusStatus(req.Status) {
	case domain.BonusApproved:
		b, err = h.Service.Approve(r.Context(), *actor, id)
	case domain.BonusPaid:
		b, err = h.Service.MarkPaid(r.Context(), *actor, id)
	default:
		writeError(w, http.StatusBadRequest, "status must be approved or paid")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bonusJSON(*b))
}

func bonusJSON(b domain.Bonus) map[string]any {
	return map[string]any{
		"id":                 b.ID,
		"businessUnitId":     b.BusinessUnitID,
		"month":              b.Month,
		"goalAmount":         b.GoalAmount.Amount,
		"actualAmount":       b.ActualAmount.Amount,
		"percentageAchieved": b.PercentageAchieved,
		"amount":             b.Amount.Amount,
		"status":             string(b.Status),
		"createdAt":          b.CreatedAt,
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

type GoalHandler struct {
	Repo     repository.GoalRepository
	Currency string
}

func (h GoalHandler) RegisterRoutes(r chi.Router) {
	r.Get("/goals", h.list)
}

func (h GoalHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/units/{id}/goals/{month}", h.upsert)
}

func (h GoalHandler) list(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	items, err := h.Repo.ListByMonth(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, g := range items {
		resp = append(resp, goalJSON(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h GoalHandler) upsert(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	month := chi.URLParam(r, "month")
	if _, err := time.Parse("2006-01", month); err != nil {
		writeError(w, http.StatusBadRequest, "invalid month (use YYYY-MM)")
		return
	}
	var req struct {
		TargetAmount    int64   `json:"targetAmount"`
		BonusPercentage float64 `json:"bonusPercentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TargetAmount <= 0 {
		writeError(w, http.StatusBadRequest, "targetAmount must be positive")
		return
	}
	if req.BonusPercentage == 0 {
		req.BonusPercentage = 10
	}
	if err := service.ValidateBonusPercentage(req.BonusPercentage); err != nil {
		writeDomainError(w, err)
		return
	}

	g, err := h.Repo.Upsert(r.Context(), domain.Goal{
		BusinessUnitID:  unitID,
		Month:           month,
		TargetAmount:    domain.Money{Amount: req.TargetAmount, Currency: h.Currency},
		BonusPercentage: req.BonusPercentage,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, goalJSON(*g))
}

func goalJSON(g domain.Goal) map[string]any {
	return map[string]any{
		"id":              g.ID,
		"businessUnitId":  g.BusinessUnitID,
		"month":           g.Month,
		"targetAmount":    g.TargetAmount.Amount,
		"bonusPercentage": g.BonusPercentage,
	}
}

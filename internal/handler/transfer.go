package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type TransferHandler struct {
	Repo repository.TransferRepository
}

func (h TransferHandler) RegisterRoutes(r chi.Router) {
	r.Get("/transfers", h.list)
	r.Get("/transfers/{id}", h.get)
	r.Post("/transfers", h.create)
	r.Post("/transfers/{id}/receive", h.receive)
}

func (h TransferHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessUnitID int64  `json:"businessUnitId"`
		Amount         int64  `json:"amount"`
		Week           string `json:"week"`
		Notes          string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BusinessUnitID == 0 {
		writeError(w, http.StatusBadRequest, "businessUnitId is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Week == "" {
		writeError(w, http.StatusBadRequest, "week is required")
		return
	}

	var fromUserID *int64
	if actor := authctx.FromContext(r.Context()); actor != nil {
		fromUserID = &actor.ID
	}
	t, err := h.Repo.Create(r.Context(), repository.CreateTransferInput{
		FromUserID:     fromUserID,
		BusinessUnitID: req.BusinessUnitID,
		Amount:         req.Amount,
		Week:           req.Week,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, transferJSON(*t))
}

func (h TransferHandler) list(w http.ResponseWriter, r *http.Request) {
	var f repository.TransferFilter
	if v := r.URL.Query().Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unitId")
			return
		}
		f.BusinessUnitID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TransferStatus(v)
		f.Status = &status
	}
	if v := r.URL.Query().Get("week"); v != "" {
		f.Week = &v
	}
	items, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, t := range items {
		resp = append(resp, transferJSON(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h TransferHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.Repo.GetTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferJSON(*t))
}

// receive confirms that the destination unit has the cash in custody,
// moving the transfer from pending to received.
func (h TransferHandler) receive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.AdvanceStatus(r.Context(), id, domain.TransferPending, domain.TransferReceived); err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := h.Repo.GetTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferJSON(*t))
}

func transferJSON(t domain.Transfer) map[string]any {
	return map[string]any{
		"id":             t.ID,
		"fromUserId":     t.FromUserID,
		"businessUnitId": t.BusinessUnitID,
		"amount":         t.Amount.Amount,
		"week":           t.Week,
		"status":         string(t.Status),
		"notes":          t.Notes,
		"createdAt":      t.CreatedAt,
		"updatedAt":      t.UpdatedAt,
	}
}

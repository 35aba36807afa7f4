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

type RenditionHandler struct {
	Service  service.RenditionService
	Repo     repository.RenditionRepository
	Currency string
}

func (h RenditionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/renditions", h.list)
	r.Get("/renditions/{id}", h.get)
	r.Post("/renditions", h.create)
	r.Put("/renditions/{id}/status", h.updateStatus)
	r.Delete("/renditions/{id}", h.delete)
}

func (h RenditionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransferID int64  `json:"transferId"`
		Notes      string `json:"notes"`
		Expenses   []struct {
			Description string `json:"description"`
			Amount      int64  `json:"amount"`
			Category    string `json:"category"`
			Date        string `json:"date"`
		} `json:"expenses"`
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

	expenses := make([]domain.Expense, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		dt, err := parseDateField("expenses.date", e.Date)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		category := e.Category
		if category == "" {
			category = "other"
		}
		expenses = append(expenses, domain.Expense{
			Description: e.Description,
			Amount:      domain.Money{Amount: e.Amount, Currency: h.Currency},
			Category:    category,
			Date:        dt,
		})
	}

	rd, err := h.Service.Create(r.Context(), *actor, service.CreateRenditionInput{
		TransferID: req.TransferID,
		Expenses:   expenses,
		Notes:      req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renditionJSON(*rd, true))
}

func (h RenditionHandler) list(w http.ResponseWriter, r *http.Request) {
	var f repository.RenditionFilter
	if v := r.URL.Query().Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unitId")
			return
		}
		f.BusinessUnitID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.RenditionStatus(v)
		f.Status = &status
	}
	items, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, rd := range items {
		resp = append(resp, renditionJSON(rd, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RenditionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rd, err := h.Repo.GetRendition(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renditionJSON(*rd, true))
}

func (h RenditionHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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
	rd, err := h.Service.UpdateStatus(r.Context(), *actor, id, domain.RenditionStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renditionJSON(*rd, false))
}

func (h RenditionHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	actor := authctx.FromContext(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.Service.Delete(r.Context(), *actor, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func renditionJSON(rd domain.Rendition, withExpenses bool) map[string]any {
	resp := map[string]any{
		"id":              rd.ID,
		"transferId":      rd.TransferID,
		"businessUnitId":  rd.BusinessUnitID,
		"submittedBy":     rd.SubmittedBy,
		"week":            rd.Week,
		"transferAmount":  rd.TransferAmount.Amount,
		"totalExpenses":   rd.TotalExpenses.Amount,
		"remainingAmount": rd.RemainingAmount.Amount,
		"status":          string(rd.Status),
		"notes":           rd.Notes,
		"createdAt":       rd.CreatedAt,
	}
	if withExpenses {
		expenses := make([]map[string]any, 0, len(rd.Expenses))
		for _, e := range rd.Expenses {
			expenses = append(expenses, map[string]any{
				"id":          e.ID,
				"description": e.Description,
				"amount":      e.Amount.Amount,
				"category":    e.Category,
				"date":        e.Date.Format(dateLayout),
			})
		}
		resp["expenses"] = expenses
	}
	return resp
}

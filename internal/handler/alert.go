package handler

import (
	"net/http"
	"strconv"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type AlertHandler struct {
	Repo repository.AlertRepository
}

func (h AlertHandler) RegisterRoutes(r chi.Router) {
	r.Get("/alerts", h.list)
	r.Put("/alerts/{id}/read", h.markRead)
}

// list returns recent alerts. Non-admin callers only see alerts for their own
// unit (plus global ones).
func (h AlertHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := authctx.FromContext(r.Context())
	var unitID *int64
	if actor != nil && actor.Role != domain.RoleAdmin {
		unitID = actor.BusinessUnitID
	}
	items, err := h.Repo.List(r.Context(), unitID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, a := range items {
		resp = append(resp, map[string]any{
			"id":             a.ID,
			"title":          a.Title,
			"message":        a.Message,
			"type":           string(a.Type),
			"businessUnitId": a.BusinessUnitID,
			"createdAt":      a.CreatedAt,
			"read":           a.ReadAt != nil,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h AlertHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.MarkRead(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type BusinessUnitHandler struct {
	Repo repository.BusinessUnitRepository
}

func (h BusinessUnitHandler) RegisterRoutes(r chi.Router) {
	r.Get("/units", h.list)
	r.Get("/units/{id}", h.get)
}

func (h BusinessUnitHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/units", h.create)
}

func (h BusinessUnitHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, unitJSON(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BusinessUnitHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	u, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unitJSON(*u))
}

func (h BusinessUnitHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	u, err := h.Repo.Create(r.Context(), req.Name, req.Address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, unitJSON(*u))
}

func unitJSON(u domain.BusinessUnit) map[string]any {
	return map[string]any{
		"id":      u.ID,
		"name":    u.Name,
		"address": u.Address,
		"active":  u.Active,
	}
}

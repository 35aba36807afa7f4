package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// UserHandler manages accounts. Admin only.
type UserHandler struct {
	Repo    repository.UserRepository
	Service *service.AuthService
}

func (h UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Post("/users", h.create)
}

func (h UserHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, map[string]any{
			"id":             u.ID,
			"name":           u.Name,
			"email":          u.Email,
			"role":           string(u.Role),
			"businessUnitId": u.BusinessUnitID,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Password       string `json:"password"`
		Role           string `json:"role"`
		BusinessUnitID *int64 `json:"businessUnitId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	user, err := h.Service.CreateUser(r.Context(), service.CreateUserInput{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		Password:       req.Password,
		Role:           domain.UserRole(req.Role),
		BusinessUnitID: req.BusinessUnitID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           string(user.Role),
		"businessUnitId": user.BusinessUnitID,
	})
}

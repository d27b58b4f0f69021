package handlers

import (
	"net/http"

	"grievance-portal/internal/service"
	"grievance-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type UserHTTP struct {
	svc *service.AuthService
}

func NewUserHTTP(s *service.AuthService) *UserHTTP {
	return &UserHTTP{svc: s}
}

// GET /api/users/{id} (self or staff)
func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.svc.User(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// PATCH /api/users/{id}/role
func (h *UserHTTP) UpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role       string `json:"role"`
			Department string `json:"department"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := h.svc.UpdateUserRole(r.Context(), chi.URLParam(r, "id"), req.Role, req.Department)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

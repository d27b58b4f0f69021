package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/service"
	"grievance-portal/internal/utils"
)

// GrievanceHTTP wires HTTP endpoints to the grievance service.
type GrievanceHTTP struct {
	svc *service.GrievanceService
}

func NewGrievanceHTTP(s *service.GrievanceService) *GrievanceHTTP {
	return &GrievanceHTTP{svc: s}
}

// -----------------------------------------------------------------------------
// GET /api/grievances?status=&category=&department=&ownerId=&page=&pageSize=
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.GrievanceFilter{
			OwnerID:    utils.QueryString(qv, "ownerId", "citizenId"),
			Status:     utils.QueryString(qv, "status"),
			Category:   utils.QueryString(qv, "category"),
			Department: utils.QueryString(qv, "department"),
			Page:       utils.QueryInt(qv, 1, "page"),
			PageSize:   utils.QueryInt(qv, repository.DefaultPageSize, "pageSize", "limit"),
		}
		page, err := h.svc.List(r.Context(), f)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
		utils.JSON(w, http.StatusOK, page)
	}
}

// -----------------------------------------------------------------------------
// GET /api/grievances/{id}
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, g)
	}
}

// -----------------------------------------------------------------------------
// POST /api/grievances
// Status, comments and timestamps in the body are ignored.
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateGrievanceInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		g, err := h.svc.Create(r.Context(), in)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, g)
	}
}

// -----------------------------------------------------------------------------
// PUT /api/grievances/{id}/status
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) UpdateStatus() http.HandlerFunc {
	type inDTO struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
		Version int    `json:"version"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := decodeJSON(w, r, &in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		g, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), models.Status(in.Status), in.Comment, in.Version)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, g)
	}
}

// -----------------------------------------------------------------------------
// PUT /api/grievances/{id}/assign
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) Assign() http.HandlerFunc {
	type inDTO struct {
		AssignedTo string `json:"assignedTo"`
		Version    int    `json:"version"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := decodeJSON(w, r, &in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		g, err := h.svc.Assign(r.Context(), chi.URLParam(r, "id"), in.AssignedTo, in.Version)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, g)
	}
}

// -----------------------------------------------------------------------------
// POST /api/grievances/{id}/comments
// -----------------------------------------------------------------------------
func (h *GrievanceHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Message    string `json:"message"`
		IsInternal bool   `json:"isInternal"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := decodeJSON(w, r, &in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		c, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), in.Message, in.IsInternal)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

// GET /api/departments
func (h *GrievanceHTTP) Departments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depts, err := h.svc.Departments(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, depts)
	}
}

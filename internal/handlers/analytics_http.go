package handlers

import (
	"net/http"

	"grievance-portal/internal/service"
	"grievance-portal/internal/utils"
)

type AnalyticsHTTP struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHTTP(s *service.AnalyticsService) *AnalyticsHTTP { return &AnalyticsHTTP{svc: s} }

// GET /api/analytics?timeframe=7d|30d|90d|1y
func (h *AnalyticsHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := h.svc.Analytics(r.Context(), r.URL.Query().Get("timeframe"))
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, a)
	}
}

package http

import (
	"net/http"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/dashboard"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns the counters of the requests in the caller's view
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard/stats
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

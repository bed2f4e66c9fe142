package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboardData returns the task distribution over all tasks
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	dashboard, err := h.dashboardService.Global(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGlobalDashboardDTO(dashboard))
}

// GetUserDashboardData returns the dashboard of the current user
func (h *DashboardHandler) GetUserDashboardData(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.ForUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDashboardDTO(dashboard))
}

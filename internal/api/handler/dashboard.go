package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Summary 仪表盘汇总
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.dashboardService.Summary()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, sum)
}

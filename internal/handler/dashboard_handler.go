package handler

import (
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the landing screen payload, scoped by role
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetDashboard(actorFromCtx(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(data)
}

package handler

import (
	"go-catalog-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StatisticsHandler struct {
	service service.StatisticsService
}

func NewStatisticsHandler(s service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: s}
}

// GetStatistics returns the composite catalog summaries
// GET /api/v1/products/statistics
func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

package handlers

import (
	"josenian-borrowease/internal/core/services"
	"josenian-borrowease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles dashboard summary endpoints
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// ============================================================
// GET /api/v1/stats/summary — per-status counters
// ============================================================
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.statsService.Summary(c.Context())
	if err != nil {
		return mapDomainError(c, err, "Failed to get summary")
	}
	return response.Success(c, "Summary retrieved", summary)
}

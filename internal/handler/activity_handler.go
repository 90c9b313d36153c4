package handler

import (
	"strconv"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	log *repository.ActivityLog
}

func NewActivityHandler(log *repository.ActivityLog) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// GetLogs returns activity entries matching the optional query filters.
// GET /api/v1/activity-logs
func (h *ActivityHandler) GetLogs(c *fiber.Ctx) error {
	filter := repository.ActivityFilter{
		UserID:     c.Query("user_id"),
		Type:       model.ActivityType(c.Query("type")),
		EntityType: model.EntityType(c.Query("entity_type")),
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "start_date must be RFC3339"})
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "end_date must be RFC3339"})
		}
		filter.EndDate = &t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "limit must be a non-negative integer"})
		}
		filter.Limit = n
	}

	logs := h.log.Query(filter)
	return c.JSON(fiber.Map{
		"success": true,
		"logs":    logs,
		"total":   len(logs),
	})
}

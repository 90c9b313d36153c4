package handler

import (
	"bytes"
	"fmt"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PriceHandler struct {
	service    service.PriceService
	csvService *service.PriceCSVService
}

func NewPriceHandler(s service.PriceService, csvService *service.PriceCSVService) *PriceHandler {
	return &PriceHandler{service: s, csvService: csvService}
}

// getActor pulls the authenticated staff identity out of the request context
// (set by RequireAuth middleware)
func getActor(c *fiber.Ctx) model.Actor {
	actor := model.Actor{ID: "system", Name: "Unknown"}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	return actor
}

// GetPublic returns published prices in their trimmed public shape.
// GET /api/v1/prices/public
func (h *PriceHandler) GetPublic(c *fiber.Ctx) error {
	published := h.service.FetchPublished(c.Context())

	prices := make([]model.PublicPrice, 0, len(published))
	for _, p := range published {
		prices = append(prices, p.ToPublic())
	}

	c.Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	return c.JSON(fiber.Map{
		"prices":     prices,
		"fetched_at": time.Now().UTC(),
	})
}

// GetAll returns every record with full override bookkeeping. Staff only.
// GET /api/v1/prices
func (h *PriceHandler) GetAll(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"prices":     h.service.FetchAll(c.Context()),
		"fetched_at": time.Now().UTC(),
	})
}

// Update applies a staff price mutation.
// POST /api/v1/prices/update
func (h *PriceHandler) Update(c *fiber.Ctx) error {
	var req service.UpdatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.PriceID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "price_id is required"})
	}

	prices, err := h.service.ApplyUpdate(c.Context(), req, getActor(c))
	if err != nil {
		if service.IsNotFound(err) {
			return c.Status(404).JSON(fiber.Map{"error": "Price record not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update price"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"prices":  prices,
	})
}

// Export streams the full record set as a CSV attachment.
// GET /api/v1/export/prices
func (h *PriceHandler) Export(c *fiber.Ctx) error {
	data, err := h.csvService.Export(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export prices"})
	}

	filename := fmt.Sprintf("prices-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// Import applies a CSV upload row by row, best effort.
// POST /api/v1/import/prices
func (h *PriceHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file provided"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to read file"})
	}

	result, err := h.csvService.Import(c.Context(), &buf, getActor(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"imported":      result.Imported,
		"errors":        result.Errors,
		"error_details": result.ErrorDetails,
	})
}

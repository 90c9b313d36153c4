package handler

import (
	"fmt"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists the whole catalog. Public.
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"products": products})
}

// GetProductsByCategory filters the catalog by category. Public.
// GET /api/v1/products/category/:category
func (h *ProductHandler) GetProductsByCategory(c *fiber.Ctx) error {
	category := model.ProductCategory(c.Params("category"))
	if !model.ValidCategory(category) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown category"})
	}

	products, err := h.service.GetByCategory(category)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"products": products})
}

// GetProduct returns one catalog item. Public.
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"product": product})
}

// CreateProduct adds a catalog item. Staff only.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&product, getActor(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "product": product})
}

// UpdateProduct changes the provided fields of a catalog item. Staff only.
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var update model.ProductUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Update(c.Params("id"), update, getActor(c))
	if err != nil {
		if service.IsNotFound(err) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "product": product})
}

// DeleteProduct removes a catalog item. Staff only.
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id"), getActor(c)); err != nil {
		if service.IsNotFound(err) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// Export streams the catalog as a CSV attachment. Staff only.
// GET /api/v1/export/products
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export products"})
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

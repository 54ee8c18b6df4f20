package handler

import (
	"errors"
	"strings"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// respondError maps service sentinels onto HTTP statuses
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrMaterialNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrSKUImmutable):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// GetProducts handles the filtered, paginated listing
// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	params := service.ListParams{
		SKU:   c.Query("SKU"),
		Name:  c.Query("product_name"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	if v := c.Query("status"); v != "" {
		if v != string(model.StatusActive) && v != string(model.StatusInactive) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
		}
		params.Status = model.ProductStatus(v)
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		params.CategoryID = id
	}
	if v := c.Query("material_ids"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "Invalid material_ids"})
			}
			params.MaterialIDs = append(params.MaterialIDs, id)
		}
	}

	page, err := h.service.ListProducts(params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetProduct returns one product with relations resolved
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// CreateProduct handles product creation
// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(&req)
	if err != nil {
		// An unknown reference in the body is a client mistake, not a missing
		// resource on the request path.
		if errors.Is(err, service.ErrCategoryNotFound) || errors.Is(err, service.ErrMaterialNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.Status(201).JSON(product)
}

// UpdateProduct applies a partial update
// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) || errors.Is(err, service.ErrMaterialNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct removes a product and its media records
// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// AddMedia attaches a media record to a product
// POST /api/v1/products/:id/media
func (h *CatalogHandler) AddMedia(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	media, err := h.service.AddMedia(id, req.URL)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(media)
}

// GetMedia lists a product's media records
// GET /api/v1/products/:id/media
func (h *CatalogHandler) GetMedia(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	media, err := h.service.ListMedia(id)
	if err != nil {
		return respondError(c, err)
	}
	if media == nil {
		media = []model.ProductMedia{}
	}
	return c.JSON(media)
}

package handler

import (
	"errors"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceHandler serves the plain CRUD for categories and materials.
// Simple enough to sit directly on the repositories.
type ReferenceHandler struct {
	categoryRepo repository.CategoryRepository
	materialRepo repository.MaterialRepository
}

func NewReferenceHandler(cRepo repository.CategoryRepository, mRepo repository.MaterialRepository) *ReferenceHandler {
	return &ReferenceHandler{categoryRepo: cRepo, materialRepo: mRepo}
}

// GetCategories returns all categories
// GET /api/v1/categories
func (h *ReferenceHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return c.JSON(categories)
}

// CreateCategory adds a category with a unique name
// POST /api/v1/categories
func (h *ReferenceHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&category); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Category name is required"})
	}

	if err := h.categoryRepo.Create(&category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(400).JSON(fiber.Map{"error": "Category name already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(201).JSON(category)
}

// DeleteCategory removes a category unless a product still references it
// DELETE /api/v1/categories/:id
func (h *ReferenceHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if _, err := h.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	inUse, err := h.categoryRepo.InUse(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if inUse {
		return c.Status(400).JSON(fiber.Map{"error": "Category is referenced by existing products"})
	}

	if err := h.categoryRepo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// GetMaterials returns all materials
// GET /api/v1/materials
func (h *ReferenceHandler) GetMaterials(c *fiber.Ctx) error {
	materials, err := h.materialRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if materials == nil {
		materials = []model.Material{}
	}
	return c.JSON(materials)
}

// CreateMaterial adds a material with a unique name
// POST /api/v1/materials
func (h *ReferenceHandler) CreateMaterial(c *fiber.Ctx) error {
	var material model.Material
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&material); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Material name is required"})
	}

	if err := h.materialRepo.Create(&material); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(400).JSON(fiber.Map{"error": "Material name already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(201).JSON(material)
}

// DeleteMaterial removes a material unless a product still references it
// DELETE /api/v1/materials/:id
func (h *ReferenceHandler) DeleteMaterial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	if _, err := h.materialRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Material not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	inUse, err := h.materialRepo.InUse(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if inUse {
		return c.Status(400).JSON(fiber.Map{"error": "Material is referenced by existing products"})
	}

	if err := h.materialRepo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Material deleted successfully"})
}

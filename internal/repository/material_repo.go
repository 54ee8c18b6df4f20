package repository

import (
	"go-catalog-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindAll() ([]model.Material, error)
	FindByID(id uuid.UUID) (*model.Material, error)
	FindByIDs(ids []uuid.UUID) ([]model.Material, error)
	// InUse reports whether any live product still references the material.
	InUse(id uuid.UUID) (bool, error)
	Delete(id uuid.UUID) error
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Create(material).Error
}

func (r *materialRepo) FindAll() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := r.db.First(&material, "id = ?", id).Error
	return &material, err
}

func (r *materialRepo) FindByIDs(ids []uuid.UUID) ([]model.Material, error) {
	var materials []model.Material
	if len(ids) == 0 {
		return materials, nil
	}
	err := r.db.Find(&materials, "id IN ?", ids).Error
	return materials, err
}

func (r *materialRepo) InUse(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Table("product_materials").
		Joins("JOIN products ON products.id = product_materials.product_id AND products.deleted_at IS NULL").
		Where("product_materials.material_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Permanent delete, so the unique name stays reusable.
func (r *materialRepo) Delete(id uuid.UUID) error {
	return r.db.Unscoped().Delete(&model.Material{}, "id = ?", id).Error
}

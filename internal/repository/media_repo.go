package repository

import (
	"go-catalog-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaRepository interface {
	Create(media *model.ProductMedia) error
	FindByProduct(productID uuid.UUID) ([]model.ProductMedia, error)
	// DeleteByProduct takes a *gorm.DB so the cascade can run inside the
	// product-deletion transaction.
	DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error
}

type mediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) MediaRepository {
	return &mediaRepo{db}
}

func (r *mediaRepo) Create(media *model.ProductMedia) error {
	return r.db.Create(media).Error
}

func (r *mediaRepo) FindByProduct(productID uuid.UUID) ([]model.ProductMedia, error) {
	var media []model.ProductMedia
	err := r.db.Order("created_at ASC").Find(&media, "product_id = ?", productID).Error
	return media, err
}

func (r *mediaRepo) DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Unscoped().Delete(&model.ProductMedia{}, "product_id = ?", productID).Error
}

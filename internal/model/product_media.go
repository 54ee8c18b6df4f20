package model

import "github.com/google/uuid"

// ProductMedia is owned by its product and is removed in the same
// transaction that deletes the product.
type ProductMedia struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	URL       string    `gorm:"type:text;not null" json:"url" validate:"required"`
}

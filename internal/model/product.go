package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
)

// Product stores the SKU encrypted. The SKU field holds ciphertext at rest;
// the catalog service decrypts it before a record leaves the service layer.
// SKUIndex is a deterministic blind index of the plaintext SKU and carries
// the uniqueness constraint, since two encryptions of the same plaintext
// never compare equal.
type Product struct {
	BaseModel
	SKU      string          `gorm:"column:sku;type:text;not null" json:"sku"`
	SKUIndex string          `gorm:"column:sku_index;type:char(64);uniqueIndex;not null" json:"-"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Status   ProductStatus   `gorm:"type:varchar(10);not null;default:'active'" json:"status"`
	MediaURL string          `gorm:"type:text" json:"media_url,omitempty"`

	// Relations
	CategoryID uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category      `json:"category,omitempty"`
	Materials  []Material     `gorm:"many2many:product_materials;" json:"materials,omitempty"`
	Media      []ProductMedia `json:"-"`
}

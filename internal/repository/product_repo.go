package repository

import (
	"strings"

	"go-catalog-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter describes the storage-expressible predicate for listings.
// A zero field imposes no constraint. The SKU fragment is intentionally
// absent: it can only be matched against decrypted values, which is the
// service layer's job.
type ProductFilter struct {
	Name        string
	CategoryID  uuid.UUID
	MaterialIDs []uuid.UUID
	Status      model.ProductStatus
}

// CategoryPriceStat is one row of the per-category maxima summary.
type CategoryPriceStat struct {
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	HighestPrice decimal.Decimal `json:"highestPrice"`
}

// PriceRangeCount reports the fixed price-bucket histogram.
type PriceRangeCount struct {
	Low  int64 `json:"0-500"`
	Mid  int64 `json:"501-1000"`
	High int64 `json:"1000+"`
}

// ProductWithoutMedia is one row of the missing-media summary.
type ProductWithoutMedia struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	// FindForUpdate locks the row for the remainder of the transaction.
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindBySKUIndex(index string) (*model.Product, error)
	// Search returns the window [offset, offset+limit) of products matching
	// the filter, ordered by creation time, plus the unwindowed total.
	// A negative limit disables windowing and returns every match.
	Search(filter ProductFilter, offset, limit int) ([]model.Product, int64, error)
	Update(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	ReplaceMaterials(tx *gorm.DB, product *model.Product, materials []model.Material) error
	Delete(tx *gorm.DB, id uuid.UUID) error

	CountAll() (int64, error)
	CategoryHighestPrices() ([]CategoryPriceStat, error)
	PriceRangeCounts() (*PriceRangeCount, error)
	FindWithoutMedia() ([]ProductWithoutMedia, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Materials").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKUIndex(index string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku_index = ?", index).Error
	return &product, err
}

func (r *productRepo) Search(filter ProductFilter, offset, limit int) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.CategoryID != uuid.Nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if len(filter.MaterialIDs) > 0 {
		// Membership via subquery keeps the row set free of join duplicates
		query = query.Where(
			"products.id IN (SELECT product_id FROM product_materials WHERE material_id IN ?)",
			filter.MaterialIDs,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Category").Preload("Materials").
		Order("created_at ASC, id ASC")
	if limit >= 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Update takes a *gorm.DB so it can participate in the caller's transaction
func (r *productRepo) Update(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) ReplaceMaterials(tx *gorm.DB, product *model.Product, materials []model.Material) error {
	return tx.Model(product).Association("Materials").Replace(materials)
}

// Delete removes the row permanently; the unique sku_index must not keep
// blocking a re-created SKU after its product is gone.
func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CountAll() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).Count(&total).Error
	return total, err
}

func (r *productRepo) CategoryHighestPrices() ([]CategoryPriceStat, error) {
	var stats []CategoryPriceStat
	err := r.db.Model(&model.Product{}).
		Select("products.category_id AS category_id, categories.name AS category_name, MAX(products.price) AS highest_price").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("products.category_id, categories.name").
		Having("MAX(products.price) > 0").
		Order("category_name ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *productRepo) PriceRangeCounts() (*PriceRangeCount, error) {
	var counts PriceRangeCount

	base := func() *gorm.DB { return r.db.Model(&model.Product{}) }
	if err := base().Where("price >= 0 AND price <= 500").Count(&counts.Low).Error; err != nil {
		return nil, err
	}
	if err := base().Where("price > 500 AND price <= 1000").Count(&counts.Mid).Error; err != nil {
		return nil, err
	}
	if err := base().Where("price > 1000").Count(&counts.High).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *productRepo) FindWithoutMedia() ([]ProductWithoutMedia, error) {
	var results []ProductWithoutMedia
	err := r.db.Model(&model.Product{}).
		Select("products.id, products.name, products.price, products.category_id, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.media_url IS NULL OR products.media_url = ''").
		Order("products.name ASC").
		Scan(&results).Error
	return results, err
}

package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/codec"
	"go-catalog-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventPublisher pushes catalog change notifications to connected clients.
type EventPublisher interface {
	Publish(action string, payload interface{})
}

// TxRunner is the slice of *gorm.DB the service needs for multi-statement
// operations. *gorm.DB satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type CreateProductRequest struct {
	SKU         string              `json:"sku" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	CategoryID  uuid.UUID           `json:"category_id" validate:"uuid_required"`
	MaterialIDs []uuid.UUID         `json:"material_ids"`
	Price       decimal.Decimal     `json:"price"`
	Status      model.ProductStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	MediaURL    string              `json:"media_url"`
}

// UpdateProductRequest carries a partial update; nil fields are untouched.
// SKU is present only so a payload trying to change it can be rejected.
type UpdateProductRequest struct {
	SKU         *string              `json:"sku"`
	Name        *string              `json:"name"`
	CategoryID  *uuid.UUID           `json:"category_id"`
	MaterialIDs *[]uuid.UUID         `json:"material_ids"`
	Price       *decimal.Decimal     `json:"price"`
	Status      *model.ProductStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	MediaURL    *string              `json:"media_url"`
}

type ListParams struct {
	SKU         string
	Name        string
	CategoryID  uuid.UUID
	MaterialIDs []uuid.UUID
	Status      model.ProductStatus
	Page        int
	Limit       int
}

type ProductPage struct {
	Products      []model.Product `json:"products"`
	TotalProducts int64           `json:"totalProducts"`
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
}

type CatalogService interface {
	CreateProduct(req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(params ListParams) (*ProductPage, error)
	AddMedia(productID uuid.UUID, url string) (*model.ProductMedia, error)
	ListMedia(productID uuid.UUID) ([]model.ProductMedia, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	materialRepo repository.MaterialRepository
	mediaRepo    repository.MediaRepository
	db           TxRunner
	codec        *codec.Codec
	events       EventPublisher
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	cRepo repository.CategoryRepository,
	mRepo repository.MaterialRepository,
	mediaRepo repository.MediaRepository,
	db TxRunner,
	skuCodec *codec.Codec,
	events EventPublisher,
) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		materialRepo: mRepo,
		mediaRepo:    mediaRepo,
		db:           db,
		codec:        skuCodec,
		events:       events,
	}
}

func (s *catalogService) CreateProduct(req *CreateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrValidation)
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	materials, err := s.resolveMaterials(req.MaterialIDs)
	if err != nil {
		return nil, err
	}

	// Pre-insert duplicate check via the blind index. The unique index on
	// sku_index backstops the race between this check and the insert.
	index := s.codec.BlindIndex(req.SKU)
	existing, err := s.productRepo.FindBySKUIndex(index)
	if err == nil && existing != nil && existing.ID != uuid.Nil {
		return nil, ErrDuplicateSKU
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	encrypted, err := s.codec.Encrypt(req.SKU)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	product := &model.Product{
		SKU:        encrypted,
		SKUIndex:   index,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Materials:  materials,
		Price:      req.Price,
		Status:     status,
		MediaURL:   req.MediaURL,
	}
	if err := s.productRepo.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}

	created, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return nil, err
	}
	created.SKU = s.codec.Decrypt(created.SKU)

	s.events.Publish("product_created", eventPayload(created))
	return created, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if req.SKU != nil {
		return nil, ErrSKUImmutable
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.CategoryID != nil {
			if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}
			updates["category_id"] = *req.CategoryID
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.MediaURL != nil {
			updates["media_url"] = *req.MediaURL
		}

		if req.MaterialIDs != nil {
			materials, err := s.resolveMaterials(*req.MaterialIDs)
			if err != nil {
				return err
			}
			if err := s.productRepo.ReplaceMaterials(tx, existing, materials); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := s.productRepo.Update(tx, id, updates); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	updated.SKU = s.codec.Decrypt(updated.SKU)

	s.events.Publish("product_updated", eventPayload(updated))
	return updated, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	// Media rows go down with the product, atomically.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.mediaRepo.DeleteByProduct(tx, id); err != nil {
			return err
		}
		return s.productRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}

	s.events.Publish("product_deleted", map[string]interface{}{
		"id":   product.ID,
		"name": product.Name,
	})
	return nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	product.SKU = s.codec.Decrypt(product.SKU)
	return product, nil
}

func (s *catalogService) ListProducts(params ListParams) (*ProductPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	filter := repository.ProductFilter{
		Name:        params.Name,
		CategoryID:  params.CategoryID,
		MaterialIDs: params.MaterialIDs,
		Status:      params.Status,
	}

	var (
		products []model.Product
		total    int64
	)
	if params.SKU == "" {
		var err error
		products, total, err = s.productRepo.Search(filter, offset, limit)
		if err != nil {
			return nil, err
		}
		for i := range products {
			products[i].SKU = s.codec.Decrypt(products[i].SKU)
		}
	} else {
		// The SKU fragment cannot be matched in storage: ciphertexts of equal
		// plaintexts differ. Fetch every candidate, decrypt, filter, then
		// window in memory.
		all, _, err := s.productRepo.Search(filter, 0, -1)
		if err != nil {
			return nil, err
		}
		fragment := strings.ToLower(params.SKU)
		matched := make([]model.Product, 0, len(all))
		for i := range all {
			plain := s.codec.Decrypt(all[i].SKU)
			if strings.Contains(strings.ToLower(plain), fragment) {
				all[i].SKU = plain
				matched = append(matched, all[i])
			}
		}
		total = int64(len(matched))
		start := offset
		if start > len(matched) {
			start = len(matched)
		}
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		products = matched[start:end]
	}

	if products == nil {
		products = []model.Product{}
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ProductPage{
		Products:      products,
		TotalProducts: total,
		CurrentPage:   page,
		TotalPages:    totalPages,
	}, nil
}

func (s *catalogService) AddMedia(productID uuid.UUID, url string) (*model.ProductMedia, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	media := &model.ProductMedia{ProductID: productID, URL: url}
	if err := s.mediaRepo.Create(media); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *catalogService) ListMedia(productID uuid.UUID) ([]model.ProductMedia, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.mediaRepo.FindByProduct(productID)
}

// resolveMaterials loads the referenced materials and fails when any id is
// unknown, so join rows never point at nothing.
func (s *catalogService) resolveMaterials(ids []uuid.UUID) ([]model.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	materials, err := s.materialRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(materials) != len(dedupe(ids)) {
		return nil, ErrMaterialNotFound
	}
	return materials, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// eventPayload trims a product down to the fields worth broadcasting.
func eventPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":     p.ID,
		"sku":    p.SKU,
		"name":   p.Name,
		"price":  p.Price,
		"status": p.Status,
	}
}

package service

import (
	"testing"

	"go-catalog-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsProduct(category uuid.UUID, name string, price float64, mediaURL string) *model.Product {
	return &model.Product{
		BaseModel:  model.BaseModel{ID: uuid.New()},
		SKU:        "enc-" + name,
		SKUIndex:   "idx-" + name,
		Name:       name,
		CategoryID: category,
		Price:      decimal.NewFromFloat(price),
		Status:     model.StatusActive,
		MediaURL:   mediaURL,
	}
}

func TestGetStatisticsHistogramCompleteness(t *testing.T) {
	catA := uuid.New()
	repo := &mockProductRepo{products: []*model.Product{
		statsProduct(catA, "zero", 0, "x"),
		statsProduct(catA, "edge-low", 500, "x"),
		statsProduct(catA, "just-over-low", 500.01, "x"),
		statsProduct(catA, "edge-mid", 1000, "x"),
		statsProduct(catA, "just-over-mid", 1000.01, "x"),
		statsProduct(catA, "small", 250, "x"),
	}}
	svc := NewStatisticsService(repo)

	stats, err := svc.GetStatistics()
	require.NoError(t, err)

	counts := stats.PriceRangeCount
	require.NotNil(t, counts)
	assert.Equal(t, int64(3), counts.Low, "[0,500] holds 0, 250, 500")
	assert.Equal(t, int64(2), counts.Mid, "(500,1000] holds 500.01 and 1000")
	assert.Equal(t, int64(1), counts.High, "(1000,inf) holds 1000.01")

	// The buckets partition the full set.
	assert.Equal(t, stats.TotalProducts, counts.Low+counts.Mid+counts.High)
}

func TestGetStatisticsCategoryMaxima(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	catEmpty := uuid.New()
	repo := &mockProductRepo{products: []*model.Product{
		statsProduct(catA, "cheap", 100, "x"),
		statsProduct(catA, "dear", 750, "x"),
		statsProduct(catB, "free", 0, "x"),
	}}
	svc := NewStatisticsService(repo)

	stats, err := svc.GetStatistics()
	require.NoError(t, err)

	require.Len(t, stats.CategoryHighestPrice, 1, "zero-max and empty categories are excluded")
	assert.Equal(t, catA, stats.CategoryHighestPrice[0].CategoryID)
	assert.True(t, stats.CategoryHighestPrice[0].HighestPrice.Equal(decimal.NewFromInt(750)))

	for _, stat := range stats.CategoryHighestPrice {
		assert.NotEqual(t, catEmpty, stat.CategoryID)
	}
}

func TestGetStatisticsMissingMedia(t *testing.T) {
	cat := uuid.New()
	repo := &mockProductRepo{products: []*model.Product{
		statsProduct(cat, "bravo", 10, ""),
		statsProduct(cat, "alpha", 20, ""),
		statsProduct(cat, "covered", 30, "https://cdn.example.com/c.png"),
	}}
	svc := NewStatisticsService(repo)

	stats, err := svc.GetStatistics()
	require.NoError(t, err)

	require.Len(t, stats.ProductsWithNoMedia, 2)
	assert.Equal(t, "alpha", stats.ProductsWithNoMedia[0].Name, "sorted by name ascending")
	assert.Equal(t, "bravo", stats.ProductsWithNoMedia[1].Name)
}

func TestGetStatisticsEmptyCatalog(t *testing.T) {
	svc := NewStatisticsService(&mockProductRepo{})

	stats, err := svc.GetStatistics()
	require.NoError(t, err)

	assert.NotNil(t, stats.CategoryHighestPrice)
	assert.Empty(t, stats.CategoryHighestPrice)
	assert.NotNil(t, stats.ProductsWithNoMedia)
	assert.Empty(t, stats.ProductsWithNoMedia)
	require.NotNil(t, stats.PriceRangeCount)
	assert.Equal(t, int64(0), stats.PriceRangeCount.Low)
	assert.Equal(t, int64(0), stats.TotalProducts)
}

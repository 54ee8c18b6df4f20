package service

import (
	"go-catalog-api/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Statistics is the composite response of the three catalog summaries.
type Statistics struct {
	CategoryHighestPrice []repository.CategoryPriceStat   `json:"categoryHighestPrice"`
	PriceRangeCount      *repository.PriceRangeCount      `json:"priceRangeCount"`
	ProductsWithNoMedia  []repository.ProductWithoutMedia `json:"productsWithNoMedia"`
	TotalProducts        int64                            `json:"totalProducts"`
}

type StatisticsService interface {
	GetStatistics() (*Statistics, error)
}

type statisticsService struct {
	productRepo repository.ProductRepository
}

func NewStatisticsService(pRepo repository.ProductRepository) StatisticsService {
	return &statisticsService{productRepo: pRepo}
}

// GetStatistics computes the summaries concurrently; they are independent
// read-only queries over the same collection.
func (s *statisticsService) GetStatistics() (*Statistics, error) {
	var stats Statistics

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		stats.CategoryHighestPrice, err = s.productRepo.CategoryHighestPrices()
		return err
	})
	g.Go(func() error {
		var err error
		stats.PriceRangeCount, err = s.productRepo.PriceRangeCounts()
		return err
	})
	g.Go(func() error {
		var err error
		stats.ProductsWithNoMedia, err = s.productRepo.FindWithoutMedia()
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalProducts, err = s.productRepo.CountAll()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.CategoryHighestPrice == nil {
		stats.CategoryHighestPrice = []repository.CategoryPriceStat{}
	}
	if stats.ProductsWithNoMedia == nil {
		stats.ProductsWithNoMedia = []repository.ProductWithoutMedia{}
	}
	return &stats, nil
}

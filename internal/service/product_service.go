package service

import (
	"context"
	"fmt"

	"perk-store/internal/model"
	"perk-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// DefaultPageSize is the product listing page size when none is requested.
const DefaultPageSize = 50

// List retrieves active products. A product whose stock has hit zero is
// substituted by its configured backup product when that backup is active and
// in stock; otherwise the original is listed as-is.
func (s *productService) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	for i := range products {
		if products[i].Stock > 0 || products[i].BackupProductID == nil {
			continue
		}

		backup, err := s.productRepo.GetByID(ctx, *products[i].BackupProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve backup product: %w", err)
		}
		if backup == nil || !backup.Active || backup.Stock == 0 {
			continue
		}

		s.logger.Debug().
			Str("product_id", products[i].ID.String()).
			Str("backup_product_id", backup.ID.String()).
			Msg("substituting out-of-stock product with backup")
		products[i] = *backup
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

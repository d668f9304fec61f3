package service

import (
	"context"
	"fmt"
	"time"

	"perk-store/internal/model"
	"perk-store/internal/pricing"
	"perk-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	logger       zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		logger:       logger.With().Str("service", "cart").Logger(),
	}
}

// Add puts a product in the cart, merging with an existing line for the same
// (product, color) combination instead of creating a duplicate.
func (s *cartService) Add(ctx context.Context, employeeID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error) {
	if req == nil {
		return nil, fmt.Errorf("add to cart request is nil")
	}
	if req.Quantity < 1 {
		s.logger.Warn().
			Str("product_id", req.ProductID.String()).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil || !product.Active {
		return nil, model.ErrProductNotFound
	}

	existing, err := s.cartRepo.FindLine(ctx, employeeID, req.ProductID, req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	if existing != nil {
		combined := existing.Quantity + req.Quantity
		if combined > product.Stock {
			s.logger.Warn().
				Str("product_id", req.ProductID.String()).
				Int("combined_quantity", combined).
				Int("stock", product.Stock).
				Msg("merged quantity exceeds stock")
			return nil, model.ErrOutOfStock
		}
		if _, err := s.cartRepo.UpdateQuantity(ctx, existing.ID, combined); err != nil {
			return nil, fmt.Errorf("failed to merge cart line: %w", err)
		}
		existing.Quantity = combined

		s.logger.Debug().
			Str("line_id", existing.ID.String()).
			Int("quantity", combined).
			Msg("cart line merged")
		return existing, nil
	}

	if req.Quantity > product.Stock {
		s.logger.Warn().
			Str("product_id", req.ProductID.String()).
			Int("quantity", req.Quantity).
			Int("stock", product.Stock).
			Msg("requested quantity exceeds stock")
		return nil, model.ErrOutOfStock
	}

	now := time.Now()
	item := &model.CartItem{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		ProductID:  req.ProductID,
		Color:      req.Color,
		Quantity:   req.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.cartRepo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Info().
		Str("line_id", item.ID.String()).
		Str("product_id", req.ProductID.String()).
		Int("quantity", req.Quantity).
		Msg("product added to cart")

	return item, nil
}

// SetQuantity changes a line's quantity after re-checking stock.
func (s *cartService) SetQuantity(ctx context.Context, employeeID, lineID uuid.UUID, qty int) (*model.CartItem, error) {
	if qty < 1 {
		return nil, model.ErrInvalidQuantity
	}

	line, err := s.cartRepo.GetLine(ctx, employeeID, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	if line == nil {
		return nil, model.ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if qty > product.Stock {
		s.logger.Warn().
			Str("line_id", lineID.String()).
			Int("quantity", qty).
			Int("stock", product.Stock).
			Msg("requested quantity exceeds stock")
		return nil, model.ErrOutOfStock
	}

	updated, err := s.cartRepo.UpdateQuantity(ctx, lineID, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	if !updated {
		return nil, model.ErrCartItemNotFound
	}

	line.Quantity = qty
	return line, nil
}

// Remove deletes a line. Removing a line that no longer exists is reported as
// not-found, not treated as fatal.
func (s *cartService) Remove(ctx context.Context, employeeID, lineID uuid.UUID) error {
	deleted, err := s.cartRepo.Delete(ctx, employeeID, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if !deleted {
		s.logger.Debug().Str("line_id", lineID.String()).Msg("cart line already gone")
		return model.ErrCartItemNotFound
	}

	s.logger.Info().Str("line_id", lineID.String()).Msg("cart line removed")
	return nil
}

// List returns the cart with resolved prices, point costs and a co-pay
// preview against the employee's current balance.
func (s *cartService) List(ctx context.Context, employee *model.Employee) (*model.CartResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	items, err := s.cartRepo.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	resp := &model.CartResponse{
		Lines:           []model.CartLine{},
		AvailablePoints: employee.Points,
	}

	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to list cart: %w", err)
		}
		if product == nil {
			// Product deleted since it was carted; skip rather than fail the
			// whole listing.
			s.logger.Warn().
				Str("line_id", item.ID.String()).
				Str("product_id", item.ProductID.String()).
				Msg("cart line references missing product")
			continue
		}

		linePrice, err := pricing.ResolvePrice(*product, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to price cart line: %w", err)
		}
		linePoints := pricing.PointsRequired(linePrice, settings.CurrencyPerPoint)

		resp.Lines = append(resp.Lines, model.CartLine{
			Item:      item,
			Product:   *product,
			LinePrice: linePrice,
			Points:    linePoints,
		})
		resp.TotalPrice += linePrice
		resp.TotalPoints += linePoints
	}

	if shortfall := resp.TotalPoints - employee.Points; shortfall > 0 {
		resp.CoPayAmount = pricing.CoPayAmount(shortfall, settings.CurrencyPerPoint)
	}

	return resp, nil
}

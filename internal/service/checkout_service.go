package service

import (
	"context"
	"fmt"
	"time"

	"perk-store/internal/config"
	"perk-store/internal/model"
	"perk-store/internal/payment"
	"perk-store/internal/pricing"
	"perk-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	employeeRepo repository.EmployeeRepository
	settingsRepo repository.SettingsRepository
	attemptRepo  repository.PaymentAttemptRepository
	gateway      payment.Gateway
	paymentCfg   config.PaymentConfig
	logger       zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	employeeRepo repository.EmployeeRepository,
	settingsRepo repository.SettingsRepository,
	attemptRepo repository.PaymentAttemptRepository,
	gateway payment.Gateway,
	paymentCfg config.PaymentConfig,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		attemptRepo:  attemptRepo,
		gateway:      gateway,
		paymentCfg:   paymentCfg,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// checkoutLine is a validated cart line ready to commit.
type checkoutLine struct {
	item    model.CartItem
	product model.Product
	price   float64
	points  int
}

// allowSelection applies the selection-limit gate: deny when a configured
// maximum would be exceeded by checking out the whole cart.
func allowSelection(existingOrders, cartSize, max int) bool {
	if max == model.UnlimitedSelections {
		return true
	}
	return existingOrders+cartSize <= max
}

// Checkout converts the cart into confirmed orders paid entirely with points.
func (s *checkoutService) Checkout(ctx context.Context, employee *model.Employee, delivery model.DeliveryDetails) (*model.CheckoutResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	lines, totalPoints, err := s.validateCart(ctx, employee, settings)
	if err != nil {
		return nil, err
	}

	if employee.Points < totalPoints {
		s.logger.Info().
			Str("employee_id", employee.ID.String()).
			Int("required", totalPoints).
			Int("available", employee.Points).
			Msg("points balance insufficient, co-pay required")
		return nil, model.ErrInsufficientPoints
	}

	return s.commit(ctx, employee, lines, totalPoints, delivery, nil)
}

// InitiateCoPay validates the cart and opens a hosted payment session for the
// points shortfall. When the balance turns out to cover the cart it falls
// through to a plain checkout.
func (s *checkoutService) InitiateCoPay(ctx context.Context, employee *model.Employee, delivery model.DeliveryDetails) (*model.CoPayInitResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate co-pay: %w", err)
	}

	lines, totalPoints, err := s.validateCart(ctx, employee, settings)
	if err != nil {
		return nil, err
	}

	shortfall := totalPoints - employee.Points
	if shortfall <= 0 {
		resp, err := s.commit(ctx, employee, lines, totalPoints, delivery, nil)
		if err != nil {
			return nil, err
		}
		return &model.CoPayInitResponse{PaymentRequired: false, Checkout: resp}, nil
	}

	amount := pricing.CoPayAmount(shortfall, settings.CurrencyPerPoint)
	txnID := uuid.NewString()

	initResp, err := s.gateway.Initiate(ctx, payment.InitiateRequest{
		Amount:        amount,
		TransactionID: txnID,
		RedirectURL:   s.paymentCfg.RedirectURL,
		CallbackURL:   s.paymentCfg.CallbackURL,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("txn_id", txnID).
			Float64("amount", amount).
			Msg("payment initiation failed")
		return nil, model.ErrPaymentInitFailed
	}

	attempt := &model.PaymentAttempt{
		TxnID:           txnID,
		EmployeeID:      employee.ID,
		Amount:          amount,
		GatewayTxnID:    initResp.GatewayTxnID,
		DeliveryMethod:  delivery.Method,
		DeliveryAddress: delivery.Address,
		Status:          model.PaymentAttemptInitiated,
		CreatedAt:       time.Now(),
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		// The gateway session exists but cannot be verified without an
		// attempt record, so surface this as an initiation failure.
		s.logger.Error().Err(err).Str("txn_id", txnID).Msg("failed to record payment attempt")
		return nil, model.ErrPaymentInitFailed
	}

	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Str("txn_id", txnID).
		Int("shortfall_points", shortfall).
		Float64("copay_amount", amount).
		Msg("co-pay payment session initiated")

	return &model.CoPayInitResponse{
		PaymentRequired: true,
		PaymentURL:      initResp.PaymentURL,
		TransactionID:   txnID,
		CoPayAmount:     amount,
	}, nil
}

// VerifyCoPay completes a co-pay checkout after the gateway redirect. Cart,
// limit and points are revalidated from fresh state; the gateway's reported
// paid amount must equal the freshly recomputed shortfall.
func (s *checkoutService) VerifyCoPay(ctx context.Context, employee *model.Employee, txnID string) (*model.CheckoutResponse, error) {
	attempt, err := s.attemptRepo.Get(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify co-pay: %w", err)
	}
	if attempt == nil || attempt.EmployeeID != employee.ID || attempt.Status != model.PaymentAttemptInitiated {
		s.logger.Warn().
			Str("txn_id", txnID).
			Str("employee_id", employee.ID.String()).
			Msg("unknown, foreign or already consumed payment attempt")
		return nil, model.ErrPaymentNotVerified
	}

	result, err := s.gateway.Verify(ctx, txnID)
	if err != nil {
		s.logger.Error().Err(err).Str("txn_id", txnID).Msg("gateway verification failed")
		return nil, model.ErrPaymentNotVerified
	}
	if !result.Success() {
		s.logger.Warn().
			Str("txn_id", txnID).
			Str("status", result.Status).
			Msg("gateway reports payment not successful")
		return nil, model.ErrPaymentNotVerified
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify co-pay: %w", err)
	}

	// Client state is not trusted: the cart or points may have changed
	// between initiation and payment completion.
	lines, totalPoints, err := s.validateCart(ctx, employee, settings)
	if err != nil {
		return nil, err
	}

	shortfall := totalPoints - employee.Points
	if shortfall < 0 {
		shortfall = 0
	}
	expected := pricing.CoPayAmount(shortfall, settings.CurrencyPerPoint)
	if result.PaidAmount != expected {
		s.logger.Warn().
			Str("txn_id", txnID).
			Float64("paid", result.PaidAmount).
			Float64("expected", expected).
			Msg("paid amount does not match recomputed shortfall")
		return nil, model.ErrAmountMismatch
	}

	copay := &model.CoPayDetails{
		Amount:       result.PaidAmount,
		PaymentTxnID: txnID,
		GatewayTxnID: attempt.GatewayTxnID,
	}
	delivery := model.DeliveryDetails{
		Method:  attempt.DeliveryMethod,
		Address: attempt.DeliveryAddress,
	}

	return s.commit(ctx, employee, lines, totalPoints, delivery, copay)
}

// ListOrders retrieves the employee's orders, newest first.
func (s *checkoutService) ListOrders(ctx context.Context, employeeID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// validateCart loads the cart and runs the pre-commit checks shared by every
// checkout path: empty-cart, selection limit, per-line price resolution and a
// point-in-time stock check.
func (s *checkoutService) validateCart(ctx context.Context, employee *model.Employee, settings model.Settings) ([]checkoutLine, int, error) {
	items, err := s.cartRepo.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, 0, model.ErrEmptyCart
	}

	existing, err := s.orderRepo.CountByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if !allowSelection(existing, len(items), settings.MaxSelections) {
		s.logger.Warn().
			Str("employee_id", employee.ID.String()).
			Int("existing_orders", existing).
			Int("cart_size", len(items)).
			Int("max_selections", settings.MaxSelections).
			Msg("selection limit reached")
		return nil, 0, model.ErrSelectionLimitReached
	}

	lines := make([]checkoutLine, 0, len(items))
	totalPoints := 0
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to validate cart: %w", err)
		}
		if product == nil || !product.Active {
			return nil, 0, model.ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			s.logger.Warn().
				Str("product_id", product.ID.String()).
				Str("product_name", product.Name).
				Int("requested", item.Quantity).
				Int("stock", product.Stock).
				Msg("product unavailable at checkout")
			return nil, 0, model.NewProductUnavailableError(product.Name)
		}

		price, err := pricing.ResolvePrice(*product, item.Quantity)
		if err != nil {
			return nil, 0, err
		}
		points := pricing.PointsRequired(price, settings.CurrencyPerPoint)

		lines = append(lines, checkoutLine{
			item:    item,
			product: *product,
			price:   price,
			points:  points,
		})
		totalPoints += points
	}

	return lines, totalPoints, nil
}

// commit performs the atomic checkout: per-line guarded stock decrements and
// order inserts, the points mutation, and the cart clear, all in one
// transaction. A nil copay means a points-only checkout; otherwise the
// employee's balance is zeroed and every order carries the co-pay metadata.
func (s *checkoutService) commit(
	ctx context.Context,
	employee *model.Employee,
	lines []checkoutLine,
	totalPoints int,
	delivery model.DeliveryDetails,
	copay *model.CoPayDetails,
) (*model.CheckoutResponse, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	year := now.Year()

	var seq int
	seq, err = s.orderRepo.CountByYear(ctx, tx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	orders := make([]model.Order, 0, len(lines))
	for _, line := range lines {
		if err = s.productRepo.DecrementStock(ctx, tx, line.product.ID, line.item.Quantity); err != nil {
			if err == model.ErrOutOfStock {
				// Another checkout won the race since validation.
				err = model.NewProductUnavailableError(line.product.Name)
			}
			return nil, err
		}

		seq++
		order := model.Order{
			ID:          uuid.New(),
			OrderNumber: fmt.Sprintf("ORD-%d-%d", year, seq),
			EmployeeID:  employee.ID,
			ProductID:   line.product.ID,
			Color:       line.item.Color,
			Quantity:    line.item.Quantity,
			Status:      model.OrderStatusConfirmed,
			Metadata: model.OrderMetadata{
				UsedPoints: line.points,
				CoPay:      copay,
			},
			DeliveryMethod:  delivery.Method,
			DeliveryAddress: delivery.Address,
			OrderedAt:       now,
		}

		if err = s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
			return nil, fmt.Errorf("failed to checkout: %w", err)
		}
		orders = append(orders, order)
	}

	remaining := employee.Points - totalPoints
	if copay != nil {
		// The cash payment covered the shortfall; whatever balance the
		// employee had is consumed outright.
		if err = s.employeeRepo.ZeroPoints(ctx, tx, employee.ID); err != nil {
			return nil, err
		}
		remaining = 0
	} else {
		if err = s.employeeRepo.DeductPoints(ctx, tx, employee.ID, totalPoints); err != nil {
			return nil, err
		}
	}

	if err = s.cartRepo.ClearEmployee(ctx, tx, employee.ID); err != nil {
		return nil, err
	}

	if copay != nil {
		var consumed bool
		consumed, err = s.attemptRepo.MarkConsumed(ctx, tx, copay.PaymentTxnID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			err = model.ErrPaymentNotVerified
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).
			Str("employee_id", employee.ID.String()).
			Msg("failed to commit checkout transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Int("order_count", len(orders)).
		Int("used_points", totalPoints).
		Bool("copay", copay != nil).
		Msg("checkout committed")

	return &model.CheckoutResponse{
		Orders:          orders,
		RemainingPoints: remaining,
	}, nil
}

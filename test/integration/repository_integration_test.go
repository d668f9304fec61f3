package integration

import (
	"context"
	"testing"
	"time"

	"perk-store/internal/model"
	"perk-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	employeeRepo := repository.NewEmployeeRepository(testDB.Pool, logger)
	attemptRepo := repository.NewPaymentAttemptRepository(testDB.Pool, logger)

	t.Run("GetByID loads price slabs", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		productID := SeedProduct(t, testDB.Pool, "Coffee Mug", 100.00, 10)
		maxQty := 4
		SeedSlab(t, testDB.Pool, productID, 1, &maxQty, 380.00)
		SeedSlab(t, testDB.Pool, productID, 5, nil, 450.00)

		product, err := productRepo.GetByID(ctx, productID)
		require.NoError(t, err)
		require.NotNil(t, product)
		require.Len(t, product.Slabs, 2)
		assert.Equal(t, 1, product.Slabs[0].MinQty)
		require.NotNil(t, product.Slabs[0].MaxQty)
		assert.Equal(t, 4, *product.Slabs[0].MaxQty)
		assert.Nil(t, product.Slabs[1].MaxQty)
	})

	t.Run("DecrementStock refuses oversell", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		productID := SeedProduct(t, testDB.Pool, "Coffee Mug", 100.00, 3)

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = productRepo.DecrementStock(ctx, tx, productID, 5)
		assert.ErrorIs(t, err, model.ErrOutOfStock)

		err = productRepo.DecrementStock(ctx, tx, productID, 3)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, 0, ProductStock(t, testDB.Pool, productID))
	})

	t.Run("DeductPoints refuses overdraw", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		employeeID := SeedEmployee(t, testDB.Pool, "Asha", 100, false)

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = employeeRepo.DeductPoints(ctx, tx, employeeID, 150)
		assert.ErrorIs(t, err, model.ErrInsufficientPoints)

		err = employeeRepo.DeductPoints(ctx, tx, employeeID, 100)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, 0, EmployeePoints(t, testDB.Pool, employeeID))
	})

	t.Run("FindLine treats missing color as equal", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		employeeID := SeedEmployee(t, testDB.Pool, "Ravi", 100, false)
		productID := SeedProduct(t, testDB.Pool, "Coffee Mug", 100.00, 10)

		item := &model.CartItem{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			ProductID:  productID,
			Color:      nil,
			Quantity:   1,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		require.NoError(t, cartRepo.Insert(ctx, item))

		found, err := cartRepo.FindLine(ctx, employeeID, productID, nil)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, item.ID, found.ID)

		// A distinct color is a distinct line.
		red := "red"
		miss, err := cartRepo.FindLine(ctx, employeeID, productID, &red)
		require.NoError(t, err)
		assert.Nil(t, miss)
	})

	t.Run("MarkConsumed succeeds exactly once", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		employeeID := SeedEmployee(t, testDB.Pool, "Kiran", 100, false)

		attempt := &model.PaymentAttempt{
			TxnID:      uuid.NewString(),
			EmployeeID: employeeID,
			Amount:     150.0,
			Status:     model.PaymentAttemptInitiated,
			CreatedAt:  time.Now(),
		}
		require.NoError(t, attemptRepo.Create(ctx, attempt))

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		consumed, err := attemptRepo.MarkConsumed(ctx, tx, attempt.TxnID)
		require.NoError(t, err)
		assert.True(t, consumed)

		consumed, err = attemptRepo.MarkConsumed(ctx, tx, attempt.TxnID)
		require.NoError(t, err)
		assert.False(t, consumed)
	})
}

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"perk-store/internal/handler"
	"perk-store/internal/model"
	"perk-store/internal/repository"
	"perk-store/internal/router"
	"perk-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB, gatewayURL string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	employeeRepo := repository.NewEmployeeRepository(testDB.Pool, logger)

	cartService, checkoutService := buildServices(testDB, gatewayURL)
	productService := service.NewProductService(productRepo, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, logger)

	return router.New(productHandler, cartHandler, orderHandler, employeeRepo, logger)
}

func TestAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	gatewaySrv := newFakeGateway()
	defer gatewaySrv.Close()

	server := setupTestServer(t, testDB, gatewaySrv.URL)

	doJSON := func(method, target, token string, payload interface{}) *httptest.ResponseRecorder {
		var body *bytes.Buffer
		if payload != nil {
			b, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewBuffer(b)
		} else {
			body = bytes.NewBuffer(nil)
		}

		req := httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("X-Employee-Token", token)
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		return w
	}

	t.Run("Missing token is rejected", func(t *testing.T) {
		w := doJSON(http.MethodGet, "/api/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown token is rejected", func(t *testing.T) {
		w := doJSON(http.MethodGet, "/api/cart", uuid.NewString(), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Locked employee gets 423", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		lockedID := SeedEmployee(t, testDB.Pool, "Locked", 100, true)

		w := doJSON(http.MethodGet, "/api/cart", lockedID.String(), nil)
		assert.Equal(t, http.StatusLocked, w.Code)

		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, model.ErrCodeEmployeeLocked, errResp.Code)
	})

	t.Run("Health check needs no token", func(t *testing.T) {
		w := doJSON(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Browse, fill cart and checkout over HTTP", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		employeeID := SeedEmployee(t, testDB.Pool, "Asha", 500, false)
		productID := SeedProduct(t, testDB.Pool, "Coffee Mug", 100.00, 10)
		token := employeeID.String()

		// Browse the catalogue.
		w := doJSON(http.MethodGet, "/api/products", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 1)

		// Add two mugs.
		w = doJSON(http.MethodPost, "/api/cart", token, &model.AddToCartRequest{
			ProductID: productID,
			Quantity:  2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		// The cart shows resolved pricing.
		w = doJSON(http.MethodGet, "/api/cart", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var cart model.CartResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
		assert.Equal(t, 200, cart.TotalPoints)
		assert.Equal(t, 500, cart.AvailablePoints)
		assert.Zero(t, cart.CoPayAmount)

		// Checkout.
		w = doJSON(http.MethodPost, "/api/orders", token, &model.CheckoutRequest{})
		require.Equal(t, http.StatusCreated, w.Code)
		var checkout model.CheckoutResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&checkout))
		require.Len(t, checkout.Orders, 1)
		assert.Equal(t, 300, checkout.RemainingPoints)

		// Orders appear in the history.
		w = doJSON(http.MethodGet, "/api/orders/my-orders", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var orders []model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
		require.Len(t, orders, 1)
		assert.Equal(t, checkout.Orders[0].OrderNumber, orders[0].OrderNumber)
	})

	t.Run("Co-pay flow over HTTP", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		employeeID := SeedEmployee(t, testDB.Pool, "Kiran", 50, false)
		productID := SeedProduct(t, testDB.Pool, "Coffee Mug", 100.00, 10)
		token := employeeID.String()

		w := doJSON(http.MethodPost, "/api/cart", token, &model.AddToCartRequest{
			ProductID: productID,
			Quantity:  2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		// A plain checkout is refused.
		w = doJSON(http.MethodPost, "/api/orders", token, &model.CheckoutRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)

		// Initiation opens a payment session for the shortfall.
		w = doJSON(http.MethodPost, "/api/orders/create-copay-order", token, &model.CheckoutRequest{})
		require.Equal(t, http.StatusOK, w.Code)
		var initResp model.CoPayInitResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&initResp))
		require.True(t, initResp.PaymentRequired)
		assert.InDelta(t, 150.0, initResp.CoPayAmount, 0.0001)

		// Verification completes the checkout.
		w = doJSON(http.MethodPost, "/api/orders/verify-copay", token, &model.VerifyCoPayRequest{
			TransactionID: initResp.TransactionID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var checkout model.CheckoutResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&checkout))
		require.Len(t, checkout.Orders, 1)
		require.NotNil(t, checkout.Orders[0].Metadata.CoPay)
		assert.Equal(t, 0, checkout.RemainingPoints)

		// Replay is rejected.
		w = doJSON(http.MethodPost, "/api/orders/verify-copay", token, &model.VerifyCoPayRequest{
			TransactionID: initResp.TransactionID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

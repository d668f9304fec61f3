package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"perk-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmployeeRepository is a mock implementation of repository.EmployeeRepository.
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) DeductPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	args := m.Called(ctx, tx, id, points)
	return args.Error(0)
}

func (m *MockEmployeeRepository) ZeroPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, X-Employee-Token", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestEmployeeAuth(t *testing.T) {
	logger := zerolog.Nop()

	active := &model.Employee{ID: uuid.New(), Name: "Asha", Points: 100}
	locked := &model.Employee{ID: uuid.New(), Name: "Ravi", Locked: true}

	tests := []struct {
		name           string
		path           string
		token          string
		employee       *model.Employee
		expectedStatus int
		expectedCode   string
		expectHandler  bool
	}{
		{
			name:           "Valid token",
			path:           "/api/cart",
			token:          active.ID.String(),
			employee:       active,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing token",
			path:           "/api/cart",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
			expectHandler:  false,
		},
		{
			name:           "Malformed token",
			path:           "/api/cart",
			token:          "not-a-uuid",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
			expectHandler:  false,
		},
		{
			name:           "Unknown employee",
			path:           "/api/cart",
			token:          uuid.NewString(),
			employee:       nil,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
			expectHandler:  false,
		},
		{
			name:           "Locked employee",
			path:           "/api/cart",
			token:          locked.ID.String(),
			employee:       locked,
			expectedStatus: http.StatusLocked,
			expectedCode:   model.ErrCodeEmployeeLocked,
			expectHandler:  false,
		},
		{
			name:           "Health check bypasses auth",
			path:           "/health",
			token:          "",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEmployeeRepository)
			if id, err := uuid.Parse(tt.token); err == nil {
				mockRepo.On("GetByID", mock.Anything, id).Return(tt.employee, nil)
			}

			handlerCalled := false
			var seen *model.Employee
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				seen = EmployeeFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := EmployeeAuth(mockRepo, logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("X-Employee-Token", tt.token)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)

			if tt.expectHandler && tt.path != "/health" {
				require.NotNil(t, seen)
				assert.Equal(t, tt.employee.ID, seen.ID)
			}

			if tt.expectedCode != "" {
				var errResp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedCode, errResp.Code)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	handlerCalled := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	handler := Logging(logger)(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := Recovery(logger)(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code": "INTERNAL_ERROR", "message": "internal server error"}`, w.Body.String())
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"perk-store/internal/model"
	"perk-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contextKey is a private type for request context keys.
type contextKey int

const employeeKey contextKey = iota

// ContextWithEmployee returns a context carrying the authenticated employee.
func ContextWithEmployee(ctx context.Context, employee *model.Employee) context.Context {
	return context.WithValue(ctx, employeeKey, employee)
}

// EmployeeFromContext returns the authenticated employee stored by
// EmployeeAuth, or nil when the request was not authenticated.
func EmployeeFromContext(ctx context.Context) *model.Employee {
	employee, _ := ctx.Value(employeeKey).(*model.Employee)
	return employee
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Employee-Token")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// EmployeeAuth authenticates requests from the X-Employee-Token header and
// stores the employee on the request context. Unknown tokens get 401, locked
// accounts get 423 before any handler logic runs.
func EmployeeAuth(employeeRepo repository.EmployeeRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip authentication for health check endpoint
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-Employee-Token")
			if token == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing employee token")
				writeAuthError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing employee token")
				return
			}

			employeeID, err := uuid.Parse(token)
			if err != nil {
				logger.Warn().Str("path", r.URL.Path).Msg("malformed employee token")
				writeAuthError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid employee token")
				return
			}

			employee, err := employeeRepo.GetByID(r.Context(), employeeID)
			if err != nil {
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to load employee")
				writeAuthError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
				return
			}
			if employee == nil {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("employee_id", employeeID.String()).
					Msg("unknown employee token")
				writeAuthError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid employee token")
				return
			}
			if employee.Locked {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("employee_id", employee.ID.String()).
					Msg("locked employee rejected")
				writeAuthError(w, http.StatusLocked, model.ErrCodeEmployeeLocked, "employee account is locked")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithEmployee(r.Context(), employee)))
		})
	}
}

// writeAuthError writes the standard error envelope without depending on the
// handler package.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Code: code, Message: message})
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"code": "INTERNAL_ERROR", "message": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

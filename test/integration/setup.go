package integration

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"perk-store/internal/model"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema
// migrations and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	migrate(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// migrate applies the goose migrations the server runs at startup.
func migrate(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("failed to open migration connection: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("failed to set goose dialect: %v", err)
	}

	dir := filepath.Join("..", "..", "internal", "database", "migrations")
	if err := goose.Up(db, dir); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
}

// SeedEmployee inserts an employee and returns its id.
func SeedEmployee(t *testing.T, pool *pgxpool.Pool, name string, points int, locked bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO employees (id, name, email, points, locked)
		VALUES ($1, $2, $3, $4, $5)`,
		id, name, fmt.Sprintf("%s@example.com", id), points, locked,
	)
	if err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return id
}

// SeedProduct inserts a product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, unitPrice float64, stock int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, unit_price, stock, colors, images, active, csr_support)
		VALUES ($1, $2, $3, $4, '{}', '{}', TRUE, FALSE)`,
		id, name, unitPrice, stock,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return id
}

// SeedSlab inserts a price slab for a product.
func SeedSlab(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID, minQty int, maxQty *int, price float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO product_price_slabs (id, product_id, min_qty, max_qty, price)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), productID, minQty, maxQty, price,
	)
	if err != nil {
		t.Fatalf("failed to seed price slab: %v", err)
	}
}

// EmployeePoints reads an employee's current points balance.
func EmployeePoints(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()

	var points int
	if err := pool.QueryRow(context.Background(),
		"SELECT points FROM employees WHERE id = $1", id).Scan(&points); err != nil {
		t.Fatalf("failed to read employee points: %v", err)
	}
	return points
}

// ProductStock reads a product's current stock.
func ProductStock(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()

	var stock int
	if err := pool.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("failed to read product stock: %v", err)
	}
	return stock
}

// CartSize counts an employee's cart lines.
func CartSize(t *testing.T, pool *pgxpool.Pool, employeeID uuid.UUID) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM cart_items WHERE employee_id = $1", employeeID).Scan(&n); err != nil {
		t.Fatalf("failed to count cart lines: %v", err)
	}
	return n
}

// CleanupDB cleans all data from test tables and restores default settings.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"payment_attempts", "orders", "cart_items", "product_price_slabs", "products", "employees"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	if _, err := pool.Exec(ctx, `
		UPDATE settings SET currency_per_point = 1.0, max_selections = $1 WHERE id = 1`,
		model.UnlimitedSelections,
	); err != nil {
		t.Logf("failed to reset settings: %v", err)
	}
}

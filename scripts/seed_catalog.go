package main

import (
	"context"
	"fmt"
	"log"

	"perk-store/internal/config"
	"perk-store/internal/database"
	"perk-store/internal/model"
	"perk-store/internal/pricing"

	"github.com/google/uuid"
)

// seedCatalog loads a small demo catalogue, two employees and the default
// settings row so the API can be exercised locally.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	if err := database.RunMigrations(cfg.Database, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	mugID := uuid.New()
	bottleID := uuid.New()
	backupBottleID := uuid.New()

	products := []struct {
		id        uuid.UUID
		name      string
		unitPrice float64
		stock     int
		colors    []string
		backup    *uuid.UUID
	}{
		{mugID, "Coffee Mug", 100.00, 25, []string{"black", "white"}, nil},
		{backupBottleID, "Steel Bottle (1L)", 260.00, 40, []string{"silver"}, nil},
		{bottleID, "Steel Bottle", 250.00, 0, []string{"silver", "blue"}, &backupBottleID},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, unit_price, stock, colors, images, active, csr_support, backup_product_id)
			VALUES ($1, $2, $3, $4, $5, '{}', TRUE, FALSE, $6)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.unitPrice, p.stock, p.colors, p.backup,
		)
		if err != nil {
			log.Fatalf("Failed to insert product %s: %v", p.name, err)
		}
		fmt.Printf("Inserted product %s\n", p.name)
	}

	// Slab pricing for the mug: flat 380 for 1-4 units, flat 450 for 5+.
	slabs := []model.PriceSlab{
		{ID: uuid.New(), ProductID: mugID, MinQty: 1, MaxQty: intPtr(4), Price: 380.00},
		{ID: uuid.New(), ProductID: mugID, MinQty: 5, Price: 450.00},
	}
	if err := pricing.ValidateSlabs(slabs); err != nil {
		log.Fatalf("Invalid slab configuration: %v", err)
	}

	for _, s := range slabs {
		_, err := pool.Exec(ctx, `
			INSERT INTO product_price_slabs (id, product_id, min_qty, max_qty, price)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, s.ProductID, s.MinQty, s.MaxQty, s.Price,
		)
		if err != nil {
			log.Fatalf("Failed to insert price slab: %v", err)
		}
	}
	fmt.Println("Inserted price slabs")

	employees := []struct {
		name   string
		email  string
		points int
		locked bool
	}{
		{"Asha Nair", "asha.nair@example.com", 500, false},
		{"Ravi Kumar", "ravi.kumar@example.com", 120, false},
		{"Locked Account", "locked@example.com", 300, true},
	}

	for _, e := range employees {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `
			INSERT INTO employees (id, name, email, points, locked)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET points = EXCLUDED.points
			RETURNING id`,
			uuid.New(), e.name, e.email, e.points, e.locked,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to insert employee %s: %v", e.email, err)
		}
		fmt.Printf("Employee %s token: %s\n", e.email, id)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO settings (id, currency_per_point, max_selections)
		VALUES (1, 1.0, -1)
		ON CONFLICT (id) DO UPDATE SET currency_per_point = EXCLUDED.currency_per_point,
			max_selections = EXCLUDED.max_selections`)
	if err != nil {
		log.Fatalf("Failed to upsert settings: %v", err)
	}

	fmt.Println("\nCatalogue seeded successfully!")
}

func intPtr(v int) *int { return &v }

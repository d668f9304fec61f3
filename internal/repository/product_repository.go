package repository

import (
	"context"
	"fmt"

	"perk-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, unit_price, stock, colors, images, active, csr_support, backup_product_id, created_at, updated_at`

// List retrieves active products with pagination support, slabs included.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachSlabs(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product with its price slabs.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	products := []model.Product{p}
	if err := r.attachSlabs(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// DecrementStock decrements stock only when the current stock covers qty.
// The WHERE guard plus the affected-row check is what serialises concurrent
// checkouts against the same product.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, id, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", id.String()).
			Int("quantity", qty).
			Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("product_id", id.String()).
			Int("quantity", qty).
			Msg("stock decrement rejected")
		return model.ErrOutOfStock
	}

	return nil
}

// attachSlabs loads price slabs for the given products in one query.
func (r *productRepository) attachSlabs(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
	}

	query := `
		SELECT id, product_id, min_qty, max_qty, price
		FROM product_price_slabs
		WHERE product_id = ANY($1)
		ORDER BY min_qty
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query price slabs")
		return fmt.Errorf("failed to query price slabs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.PriceSlab
		if err := rows.Scan(&s.ID, &s.ProductID, &s.MinQty, &s.MaxQty, &s.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan price slab row")
			return fmt.Errorf("failed to scan price slab: %w", err)
		}
		if i, ok := index[s.ProductID]; ok {
			products[i].Slabs = append(products[i].Slabs, s)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating price slab rows")
		return fmt.Errorf("error iterating price slabs: %w", err)
	}

	return nil
}

// scanProduct scans one product row from either a pgx.Row or pgx.Rows.
func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.UnitPrice,
		&p.Stock,
		&p.Colors,
		&p.Images,
		&p.Active,
		&p.CSRSupport,
		&p.BackupProductID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a redeemable item in the catalogue.
type Product struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	UnitPrice       float64    `json:"unitPrice" db:"unit_price"`
	Stock           int        `json:"stock" db:"stock"`
	Colors          []string   `json:"colors" db:"colors"`
	Images          []string   `json:"images" db:"images"`
	Active          bool       `json:"active" db:"active"`
	CSRSupport      bool       `json:"csrSupport" db:"csr_support"`
	BackupProductID *uuid.UUID `json:"backupProductId,omitempty" db:"backup_product_id"`
	Slabs           []PriceSlab `json:"slabs,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// PriceSlab is a quantity-tiered price: a fixed total price applies to any
// quantity within [MinQty, MaxQty]. A nil MaxQty means the range is open-ended.
type PriceSlab struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	MinQty    int       `json:"minQty" db:"min_qty"`
	MaxQty    *int      `json:"maxQty,omitempty" db:"max_qty"`
	Price     float64   `json:"price" db:"price"`
}

// Contains reports whether qty falls within the slab's range.
func (s PriceSlab) Contains(qty int) bool {
	if qty < s.MinQty {
		return false
	}
	return s.MaxQty == nil || qty <= *s.MaxQty
}

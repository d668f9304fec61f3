package pricing

import (
	"fmt"

	"perk-store/internal/model"
)

// ValidateSlabs enforces the write-time invariants ResolvePrice relies on:
// ranges must not overlap, at most one slab may be open-ended, minimum
// quantities start at 1 and prices are non-negative.
func ValidateSlabs(slabs []model.PriceSlab) error {
	openEnded := 0
	for i, s := range slabs {
		if s.MinQty < 1 {
			return fmt.Errorf("slab %d: minimum quantity must be at least 1", i)
		}
		if s.MaxQty != nil && *s.MaxQty < s.MinQty {
			return fmt.Errorf("slab %d: maximum quantity %d is below minimum %d", i, *s.MaxQty, s.MinQty)
		}
		if s.Price < 0 {
			return fmt.Errorf("slab %d: price must not be negative", i)
		}
		if s.MaxQty == nil {
			openEnded++
		}
	}

	if openEnded > 1 {
		return fmt.Errorf("at most one slab may be open-ended, found %d", openEnded)
	}

	for i := range slabs {
		for j := i + 1; j < len(slabs); j++ {
			if slabsOverlap(slabs[i], slabs[j]) {
				return fmt.Errorf("slabs %d and %d overlap", i, j)
			}
		}
	}

	return nil
}

// slabsOverlap reports whether two slab ranges share any quantity.
func slabsOverlap(a, b model.PriceSlab) bool {
	if b.MaxQty != nil && a.MinQty > *b.MaxQty {
		return false
	}
	if a.MaxQty != nil && b.MinQty > *a.MaxQty {
		return false
	}
	return true
}

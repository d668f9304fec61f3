// Package pricing implements slab-aware price resolution and the
// currency/points conversion used by the cart and checkout flows. All
// functions are pure: the exchange rate and slab data are passed in
// explicitly rather than read from shared state.
package pricing

import (
	"math"

	"perk-store/internal/model"
)

// ResolvePrice computes the total price for qty units of the product.
//
// Products without slabs price linearly at unit price. When slabs exist, the
// single slab whose [minQty, maxQty] range contains the quantity supplies a
// fixed total price; a quantity matching no slab falls back to linear
// pricing. Slabs are validated non-overlapping at write time, so more than
// one match means the stored data is invalid and ErrAmbiguousPriceSlab is
// returned rather than picking a winner.
func ResolvePrice(p model.Product, qty int) (float64, error) {
	if qty < 1 {
		qty = 1
	}

	unit := p.UnitPrice
	if math.IsNaN(unit) || math.IsInf(unit, 0) || unit < 0 {
		unit = 0
	}

	if len(p.Slabs) == 0 {
		return unit * float64(qty), nil
	}

	var matched *model.PriceSlab
	for i := range p.Slabs {
		if !p.Slabs[i].Contains(qty) {
			continue
		}
		if matched != nil {
			return 0, model.ErrAmbiguousPriceSlab
		}
		matched = &p.Slabs[i]
	}

	if matched == nil {
		return unit * float64(qty), nil
	}
	return matched.Price, nil
}

// PointsRequired converts a currency amount into points at the given
// currency-per-point rate, always rounding up. A non-positive rate or
// amount yields zero.
func PointsRequired(amount, currencyPerPoint float64) int {
	if amount <= 0 || currencyPerPoint <= 0 {
		return 0
	}
	return int(math.Ceil(amount / currencyPerPoint))
}

// CoPayAmount converts a points shortfall back into currency at the given
// rate, rounding up to a whole currency unit. This is the inverse of
// PointsRequired and deliberately never rounds in the employee's favour.
func CoPayAmount(shortfallPoints int, currencyPerPoint float64) float64 {
	if shortfallPoints <= 0 || currencyPerPoint <= 0 {
		return 0
	}
	return math.Ceil(float64(shortfallPoints) * currencyPerPoint)
}

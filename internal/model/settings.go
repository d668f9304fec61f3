package model

// UnlimitedSelections is the MaxSelections sentinel meaning no cap on the
// number of orders an employee may place.
const UnlimitedSelections = -1

// Settings is the single-row deployment configuration. It is loaded per
// request and passed explicitly into the pricing and gating functions rather
// than read as ambient state.
type Settings struct {
	// CurrencyPerPoint is the exchange rate: how much currency one point buys.
	CurrencyPerPoint float64 `json:"currencyPerPoint" db:"currency_per_point"`
	// MaxSelections caps confirmed orders per employee; -1 means unlimited.
	MaxSelections int `json:"maxSelections" db:"max_selections"`
}

// DefaultSettings returns the settings used when no row has been configured.
func DefaultSettings() Settings {
	return Settings{
		CurrencyPerPoint: 1.0,
		MaxSelections:    UnlimitedSelections,
	}
}

package pricing

import "github.com/shopspring/decimal"

// Config carries the tunables the legacy flows hard-coded in two
// places with different values. The differing defaults are now one
// explicit decision made at startup.
type Config struct {
	// DefaultTaxRate applies when an order carries no tax rate of its
	// own. Percentage, e.g. 5 or 18.
	DefaultTaxRate decimal.Decimal

	// ClampDiscount caps the discount amount at the subtotal. Off by
	// default: a fixed discount larger than the subtotal produces a
	// negative taxable amount.
	ClampDiscount bool

	// ClampBalance floors the balance at zero. Off by default: an
	// advance larger than the total produces a negative balance.
	ClampBalance bool
}

func DefaultConfig() Config {
	return Config{DefaultTaxRate: decimal.NewFromInt(5)}
}

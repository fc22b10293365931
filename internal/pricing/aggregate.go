package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// OrderTotals is the order-level money summary. All amounts are signed:
// with clamping disabled a large fixed discount or advance payment can
// drive TaxableAmount or BalanceAmount negative.
type OrderTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AdvanceAmount  decimal.Decimal `json:"advance_amount"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`
	ItemBreakdowns []LineBreakdown `json:"item_breakdowns"`

	// UnpricedItems lists the indexes of items that could not be
	// priced. A non-empty list means Subtotal is incomplete; callers
	// must refuse to persist or invoice such an order.
	UnpricedItems []int `json:"unpriced_items,omitempty"`
}

// ComputeTotals derives the full money summary for an order. It is a
// pure function of its inputs: no I/O, no clock, no shared state, so
// the live estimator, the submission handler and the invoice authority
// all get bit-identical results from identical inputs.
//
// Steps run in a fixed order, each feeding the next: subtotal,
// discount, shipping, taxable amount, tax, total, balance.
func ComputeTotals(order OrderInput, catalog Catalog, cfg Config) OrderTotals {
	totals := OrderTotals{
		ItemBreakdowns: make([]LineBreakdown, 0, len(order.Items)),
	}

	for i, item := range order.Items {
		breakdown := PriceItem(item, order.OrderType, catalog)
		totals.ItemBreakdowns = append(totals.ItemBreakdowns, breakdown)
		if breakdown.Unpriced {
			totals.UnpricedItems = append(totals.UnpricedItems, i)
			continue
		}
		totals.Subtotal = totals.Subtotal.Add(breakdown.TotalPrice)
	}

	switch order.DiscountType {
	case DiscountPercentage:
		totals.DiscountAmount = totals.Subtotal.Mul(order.DiscountValue).Div(hundred)
	case DiscountFixed:
		totals.DiscountAmount = order.DiscountValue
	}
	if cfg.ClampDiscount && totals.DiscountAmount.GreaterThan(totals.Subtotal) {
		totals.DiscountAmount = totals.Subtotal
	}

	totals.ShippingCost = order.ShippingCost
	totals.TaxableAmount = totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.ShippingCost)

	taxRate := cfg.DefaultTaxRate
	if order.TaxRate != nil {
		taxRate = *order.TaxRate
	}
	totals.TaxAmount = totals.TaxableAmount.Mul(taxRate).Div(hundred)
	totals.TotalAmount = totals.TaxableAmount.Add(totals.TaxAmount)

	totals.AdvanceAmount = order.AdvancePayment
	totals.BalanceAmount = totals.TotalAmount.Sub(totals.AdvanceAmount)
	if cfg.ClampBalance && totals.BalanceAmount.IsNegative() {
		totals.BalanceAmount = decimal.Zero
	}

	return totals
}

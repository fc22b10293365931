package pricing

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

// Two stitching items at 1000 each, 10% discount, 100 shipping, 5% tax.
func referenceOrder() OrderInput {
	return OrderInput{
		OrderType: OrderTypeStitching,
		Items: []ItemInput{
			{ItemTypeID: 2, Quantity: 1},
			{ItemTypeID: 2, Quantity: 1},
		},
		DiscountType:   DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		TaxRate:        decPtr(5),
		ShippingCost:   decimal.NewFromInt(100),
		AdvancePayment: decimal.NewFromInt(500),
	}
}

func TestComputeTotalsReference(t *testing.T) {
	totals := ComputeTotals(referenceOrder(), testSnapshot(), DefaultConfig())

	checks := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"subtotal", totals.Subtotal, 2000},
		{"discount", totals.DiscountAmount, 200},
		{"taxable", totals.TaxableAmount, 1900},
		{"shipping", totals.ShippingCost, 100},
		{"tax", totals.TaxAmount, 95},
		{"total", totals.TotalAmount, 1995},
		{"advance", totals.AdvanceAmount, 500},
		{"balance", totals.BalanceAmount, 1495},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("%s = %s, want %d", c.name, c.got, c.want)
		}
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	order := referenceOrder()
	snapshot := testSnapshot()
	cfg := DefaultConfig()

	first := ComputeTotals(order, snapshot, cfg)
	second := ComputeTotals(order, snapshot, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over identical inputs diverged:\n%+v\n%+v", first, second)
	}
}

func TestComputeTotalsAggregationIdentity(t *testing.T) {
	totals := ComputeTotals(referenceOrder(), testSnapshot(), DefaultConfig())

	wantTotal := totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.ShippingCost).Add(totals.TaxAmount)
	if !totals.TotalAmount.Equal(wantTotal) {
		t.Errorf("total = %s, want subtotal - discount + shipping + tax = %s", totals.TotalAmount, wantTotal)
	}

	wantTax := totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.ShippingCost).
		Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(100))
	if !totals.TaxAmount.Equal(wantTax) {
		t.Errorf("tax = %s, want %s", totals.TaxAmount, wantTax)
	}
}

func TestComputeTotalsFixedDiscountUnclamped(t *testing.T) {
	order := referenceOrder()
	order.DiscountType = DiscountFixed
	order.DiscountValue = decimal.NewFromInt(5000)

	totals := ComputeTotals(order, testSnapshot(), DefaultConfig())
	// 2000 - 5000 + 100 = -2900; intentionally not clamped.
	if !totals.TaxableAmount.Equal(decimal.NewFromInt(-2900)) {
		t.Errorf("taxable = %s, want -2900", totals.TaxableAmount)
	}
}

func TestComputeTotalsClampDiscount(t *testing.T) {
	order := referenceOrder()
	order.DiscountType = DiscountFixed
	order.DiscountValue = decimal.NewFromInt(5000)

	cfg := DefaultConfig()
	cfg.ClampDiscount = true

	totals := ComputeTotals(order, testSnapshot(), cfg)
	if !totals.DiscountAmount.Equal(totals.Subtotal) {
		t.Errorf("discount = %s, want clamped to subtotal %s", totals.DiscountAmount, totals.Subtotal)
	}
}

func TestComputeTotalsOverpaidBalance(t *testing.T) {
	order := referenceOrder()
	order.AdvancePayment = decimal.NewFromInt(3000)

	totals := ComputeTotals(order, testSnapshot(), DefaultConfig())
	if !totals.BalanceAmount.Equal(decimal.NewFromInt(-1005)) {
		t.Errorf("balance = %s, want -1005", totals.BalanceAmount)
	}

	cfg := DefaultConfig()
	cfg.ClampBalance = true
	clamped := ComputeTotals(order, testSnapshot(), cfg)
	if !clamped.BalanceAmount.IsZero() {
		t.Errorf("clamped balance = %s, want 0", clamped.BalanceAmount)
	}
}

func TestComputeTotalsDefaultTaxRate(t *testing.T) {
	order := referenceOrder()
	order.TaxRate = nil

	cfg := DefaultConfig()
	cfg.DefaultTaxRate = decimal.NewFromInt(18)

	totals := ComputeTotals(order, testSnapshot(), cfg)
	// 1900 * 18% = 342
	if !totals.TaxAmount.Equal(decimal.NewFromInt(342)) {
		t.Errorf("tax = %s, want 342 with config default rate", totals.TaxAmount)
	}
}

func TestComputeTotalsSurfacesUnpricedItems(t *testing.T) {
	order := referenceOrder()
	order.Items = append(order.Items, ItemInput{ItemTypeID: 999, Quantity: 1})

	totals := ComputeTotals(order, testSnapshot(), DefaultConfig())
	if len(totals.UnpricedItems) != 1 || totals.UnpricedItems[0] != 2 {
		t.Fatalf("unpriced items = %v, want [2]", totals.UnpricedItems)
	}
	// The unpriced item is excluded from the subtotal, not priced as zero-and-hidden.
	if !totals.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("subtotal = %s, want 2000", totals.Subtotal)
	}
	if len(totals.ItemBreakdowns) != 3 {
		t.Errorf("breakdowns = %d, want one per item including the unpriced", len(totals.ItemBreakdowns))
	}
	if !totals.ItemBreakdowns[2].Unpriced {
		t.Errorf("breakdown 2 should be flagged unpriced")
	}
}

func TestComputeTotalsFabricOnlyQuantityPinned(t *testing.T) {
	order := OrderInput{
		OrderType: OrderTypeFabric,
		Items: []ItemInput{
			{FabricID: 10, FabricMeters: decimal.NewFromInt(2), Quantity: 7},
			{FabricID: 10, FabricMeters: decimal.NewFromInt(4), Quantity: 0},
		},
	}

	totals := ComputeTotals(order, testSnapshot(), DefaultConfig())
	for i, breakdown := range totals.ItemBreakdowns {
		if breakdown.Quantity != 1 {
			t.Errorf("item %d quantity = %d, want 1", i, breakdown.Quantity)
		}
	}
	// 500*2 + 500*4 = 3000
	if !totals.Subtotal.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("subtotal = %s, want 3000", totals.Subtotal)
	}
}

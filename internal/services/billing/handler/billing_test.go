package handler

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"darzi-system/internal/database/models"
	"darzi-system/internal/pricing"
)

func sampleBreakdowns() []pricing.LineBreakdown {
	return []pricing.LineBreakdown{
		{
			ItemName:   "Silk Blouse",
			Quantity:   2,
			UnitPrice:  decimal.NewFromInt(1575),
			TotalPrice: decimal.NewFromInt(3150),
			Components: []pricing.Component{
				{
					Kind:     pricing.ComponentFabric,
					Name:     "Raw Silk",
					Rate:     decimal.NewFromInt(500),
					Quantity: decimal.NewFromFloat(2.5),
					Unit:     "meter",
					Total:    decimal.NewFromInt(1250),
				},
				{
					Kind:     pricing.ComponentStitching,
					Name:     "Blouse",
					Rate:     decimal.NewFromInt(1000),
					Quantity: decimal.NewFromInt(2),
					Unit:     "piece",
					Total:    decimal.NewFromInt(2000),
				},
			},
		},
	}
}

func TestBillLinesSnapshotBreakdown(t *testing.T) {
	lines := billLines(sampleBreakdowns())

	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	line := lines[0]
	if line.ItemName != "Silk Blouse" || line.Quantity != 2 {
		t.Errorf("line header = %+v", line)
	}
	if line.UnitPrice != "1575.00" || line.TotalPrice != "3150.00" {
		t.Errorf("line amounts = %s / %s, want 1575.00 / 3150.00", line.UnitPrice, line.TotalPrice)
	}
	if len(line.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(line.Components))
	}
	fabric := line.Components[0]
	if fabric.Kind != "fabric" || fabric.Rate != "500.00" || fabric.Quantity != "2.5" || fabric.Total != "1250.00" {
		t.Errorf("fabric component = %+v", fabric)
	}
}

// The invoice payload must read the itemized lines from the bill
// record, not from a fresh catalog computation, so a price change made
// after generation cannot alter an issued invoice.
func TestInvoicePayloadUsesFrozenLines(t *testing.T) {
	frozen := billLines(sampleBreakdowns())
	bill := models.Bill{
		BillNumber: "B-20260831-00007",
		Subtotal:   "3150.00",
		LineItems:  frozen,
	}

	payload := (&BillingHandler{}).invoicePayload(bill, models.Order{})

	items, ok := payload["items"].(models.BillLines)
	if !ok {
		t.Fatalf("items payload has type %T, want models.BillLines", payload["items"])
	}
	if !reflect.DeepEqual(items, frozen) {
		t.Errorf("items = %+v, want the frozen lines %+v", items, frozen)
	}
}

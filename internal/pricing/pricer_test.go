package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testSnapshot() Snapshot {
	s := NewSnapshot()
	s.ItemTypes[1] = ItemTypeInfo{
		ID:              1,
		Name:            "Kurta",
		StitchingCharge: decimal.NewFromInt(800),
	}
	s.ItemTypes[2] = ItemTypeInfo{
		ID:              2,
		Name:            "Blouse",
		StitchingCharge: decimal.NewFromInt(1000),
	}
	s.Fabrics[10] = FabricInfo{
		ID:            10,
		Name:          "Raw Silk",
		PricePerMeter: decimal.NewFromInt(500),
	}
	return s
}

func TestPriceItemFabricOnly(t *testing.T) {
	snapshot := testSnapshot()
	item := ItemInput{
		FabricID:     10,
		FabricMeters: decimal.NewFromInt(3),
		Quantity:     5, // ignored for fabric-only orders
	}

	got := PriceItem(item, OrderTypeFabric, snapshot)
	if got.Unpriced {
		t.Fatalf("unexpected unpriced: %s", got.UnpricedReason)
	}
	if !got.TotalPrice.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("total = %s, want 1500", got.TotalPrice)
	}
	if got.Quantity != 1 {
		t.Errorf("quantity = %d, want 1 (pinned for fabric orders)", got.Quantity)
	}
	if !got.UnitPrice.Equal(got.TotalPrice) {
		t.Errorf("unit price = %s, want equal to total %s", got.UnitPrice, got.TotalPrice)
	}
	if len(got.Components) != 1 || got.Components[0].Kind != ComponentFabric {
		t.Errorf("components = %+v, want single fabric component", got.Components)
	}
	if got.Components[0].Unit != "meter" {
		t.Errorf("fabric component unit = %q, want meter", got.Components[0].Unit)
	}
}

func TestPriceItemFabricStitching(t *testing.T) {
	snapshot := testSnapshot()
	item := ItemInput{
		ItemTypeID:   1,
		FabricID:     10,
		FabricMeters: decimal.NewFromInt(3),
		Quantity:     2,
		Alteration:   decimal.NewFromInt(50),
	}

	got := PriceItem(item, OrderTypeFabricStitching, snapshot)
	if got.Unpriced {
		t.Fatalf("unexpected unpriced: %s", got.UnpricedReason)
	}
	// (500*3) + (800*2) + 50 = 3150
	if !got.TotalPrice.Equal(decimal.NewFromInt(3150)) {
		t.Errorf("total = %s, want 3150", got.TotalPrice)
	}
	if len(got.Components) != 3 {
		t.Fatalf("got %d components, want 3", len(got.Components))
	}
	kinds := []ComponentKind{got.Components[0].Kind, got.Components[1].Kind, got.Components[2].Kind}
	want := []ComponentKind{ComponentFabric, ComponentStitching, ComponentAlteration}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("component %d kind = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestPriceItemStitchingIgnoresFabric(t *testing.T) {
	snapshot := testSnapshot()
	item := ItemInput{
		ItemTypeID:   1,
		FabricID:     10,
		FabricMeters: decimal.NewFromInt(3),
		Quantity:     1,
	}

	for _, orderType := range []OrderType{OrderTypeStitching, OrderTypeReadymade} {
		got := PriceItem(item, orderType, snapshot)
		if got.Unpriced {
			t.Fatalf("%s: unexpected unpriced: %s", orderType, got.UnpricedReason)
		}
		if !got.TotalPrice.Equal(decimal.NewFromInt(800)) {
			t.Errorf("%s: total = %s, want 800 (fabric must not contribute)", orderType, got.TotalPrice)
		}
		for _, comp := range got.Components {
			if comp.Kind == ComponentFabric {
				t.Errorf("%s: unexpected fabric component", orderType)
			}
		}
	}
}

func TestPriceItemUnitPrice(t *testing.T) {
	snapshot := testSnapshot()
	item := ItemInput{ItemTypeID: 2, Quantity: 4}

	got := PriceItem(item, OrderTypeStitching, snapshot)
	if !got.TotalPrice.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("total = %s, want 4000", got.TotalPrice)
	}
	if !got.UnitPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unit price = %s, want 1000", got.UnitPrice)
	}
}

func TestPriceItemAddOnsApplyOnce(t *testing.T) {
	snapshot := testSnapshot()
	item := ItemInput{
		ItemTypeID:   1,
		Quantity:     3,
		Handwork:     decimal.NewFromInt(200),
		OtherCharges: decimal.NewFromInt(75),
	}

	got := PriceItem(item, OrderTypeStitching, snapshot)
	// 800*3 + 200 + 75: add-ons are flat, not per piece.
	if !got.TotalPrice.Equal(decimal.NewFromInt(2675)) {
		t.Errorf("total = %s, want 2675", got.TotalPrice)
	}
}

func TestPriceItemUnpriced(t *testing.T) {
	snapshot := testSnapshot()

	cases := []struct {
		name      string
		item      ItemInput
		orderType OrderType
	}{
		{"fabric order without fabric", ItemInput{Quantity: 1}, OrderTypeFabric},
		{"fabric order without meters", ItemInput{FabricID: 10}, OrderTypeFabric},
		{"stitching without item type", ItemInput{Quantity: 1}, OrderTypeStitching},
		{"unknown item type", ItemInput{ItemTypeID: 999, Quantity: 1}, OrderTypeStitching},
		{"unknown fabric", ItemInput{FabricID: 999, FabricMeters: decimal.NewFromInt(2)}, OrderTypeFabric},
	}

	for _, tc := range cases {
		got := PriceItem(tc.item, tc.orderType, snapshot)
		if !got.Unpriced {
			t.Errorf("%s: expected unpriced, got total %s", tc.name, got.TotalPrice)
		}
		if got.UnpricedReason == "" {
			t.Errorf("%s: missing unpriced reason", tc.name)
		}
	}
}

package validate

import (
	"testing"

	"github.com/shopspring/decimal"

	"darzi-system/internal/pricing"
)

const validGSTIN = "27AAECM1234F1Z5"

func TestValidGSTIN(t *testing.T) {
	if !ValidGSTIN(validGSTIN) {
		t.Fatalf("%s should be valid", validGSTIN)
	}

	invalid := []string{
		"27AAECM1234F1ZZ",  // literal Z position disturbed
		"09HGFED9876K3ZZ",  // trailing Z disturbs the marker regardless of prefix
		"27AAECM1234F10Z5", // too long
		"27AAECM1234F1Z",   // too short
		"27aaecm1234f1z5",  // lowercase
		"2XAAECM1234F1Z5",  // letter in state code
		"27AAEC11234F1Z5",  // digit in entity letters
		"27AAECMX234F1Z5",  // letter in entity digits
		"27AAECM123411Z5",  // digit where letter expected
		"27AAECM1234F0Z5",  // zero not allowed in 14th slot
		"",
	}
	for _, s := range invalid {
		if ValidGSTIN(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func validOrder() Order {
	return Order{
		OrderType: pricing.OrderTypeStitching,
		BranchID:  1,
		Client: ClientDetails{
			Name:    "Asha Rao",
			Mobile:  "9876543210",
			Address: "12 MG Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		Items: []pricing.ItemInput{
			{ItemTypeID: 1, Quantity: 1},
		},
	}
}

func TestCheckValidOrder(t *testing.T) {
	if failures := Check(validOrder(), Options{}); len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestCheckMissingItemType(t *testing.T) {
	order := validOrder()
	order.Items = []pricing.ItemInput{{Quantity: 1}}

	failures := Check(order, Options{})
	if len(failures) == 0 {
		t.Fatal("expected a failure for missing item type")
	}
	if failures[0].ItemIndex != 0 || failures[0].Field != "item_type_id" {
		t.Errorf("failure = %+v, want item 0 / item_type_id", failures[0])
	}
}

func TestCheckFabricOrderSkipsItemType(t *testing.T) {
	order := validOrder()
	order.OrderType = pricing.OrderTypeFabric
	order.Items = []pricing.ItemInput{
		{FabricID: 10, FabricMeters: decimal.NewFromInt(3)},
	}

	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Fatalf("fabric-only order should not require item type: %+v", failures)
	}
}

func TestCheckOrderLevelRequirements(t *testing.T) {
	failures := Check(Order{}, Options{})

	fields := make(map[string]bool)
	for _, f := range failures {
		fields[f.Field] = true
	}
	for _, want := range []string{"order_type", "branch_id", "items", "client.name"} {
		if !fields[want] {
			t.Errorf("missing failure for %s; got %+v", want, failures)
		}
	}
}

func TestCheckExistingClient(t *testing.T) {
	order := validOrder()
	order.UseExistingClient = true
	order.Client = ClientDetails{}

	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "client_id" {
		t.Errorf("failures = %+v, want only client_id", failures)
	}

	order.ClientID = 7
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("existing client with id should pass: %+v", failures)
	}
}

func TestCheckClientGSTIN(t *testing.T) {
	order := validOrder()
	order.Client.GSTIN = "not-a-gstin"
	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "client.gstin" {
		t.Errorf("failures = %+v, want client.gstin", failures)
	}

	order.Client.GSTIN = validGSTIN
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("valid GSTIN rejected: %+v", failures)
	}
}

func TestCheckFabricMeters(t *testing.T) {
	order := validOrder()
	order.OrderType = pricing.OrderTypeFabricStitching
	order.Items = []pricing.ItemInput{
		{ItemTypeID: 1, FabricID: 10, Quantity: 1},
	}

	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "fabric_meters" {
		t.Fatalf("failures = %+v, want fabric_meters", failures)
	}

	order.Items[0].FabricMeters = decimal.NewFromInt(1)
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("1 meter should pass without a minimum: %+v", failures)
	}

	opts := Options{MinFabricMeters: decimal.NewFromInt(2)}
	failures = Check(order, opts)
	if len(failures) != 1 || failures[0].Field != "fabric_meters" {
		t.Errorf("failures = %+v, want fabric_meters under 2-meter minimum", failures)
	}

	order.Items[0].FabricMeters = decimal.NewFromInt(2)
	if failures := Check(order, opts); len(failures) != 0 {
		t.Errorf("2 meters should satisfy the minimum: %+v", failures)
	}
}

func TestCheckMetersWithoutFabric(t *testing.T) {
	order := validOrder()
	order.Items[0].FabricMeters = decimal.NewFromInt(3)

	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "fabric_meters" {
		t.Errorf("failures = %+v, want fabric_meters set without a fabric", failures)
	}
}

func TestCheckShippingGSTField(t *testing.T) {
	order := validOrder()
	order.Shipping = ShippingInput{
		Method:      pricing.ShippingLocalTransport,
		ExtraField2: "not-a-gstin", // labeled "Transport GST Number"
	}

	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "shipping.extra_field_2" {
		t.Fatalf("failures = %+v, want shipping.extra_field_2", failures)
	}

	order.Shipping.ExtraField2 = validGSTIN
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("valid transport GSTIN rejected: %+v", failures)
	}

	// Empty value is fine; the check only applies when a value is present.
	order.Shipping.ExtraField2 = ""
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("empty extra field rejected: %+v", failures)
	}

	// Non-GST labels are never pattern-checked.
	order.Shipping = ShippingInput{Method: pricing.ShippingCourier, ExtraField1: "BlueDart"}
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("courier company name rejected: %+v", failures)
	}
}

func TestCheckNegativeOrderAmounts(t *testing.T) {
	order := validOrder()
	order.DiscountValue = decimal.NewFromInt(-100)
	order.ShippingCost = decimal.NewFromInt(-50)
	order.AdvancePayment = decimal.NewFromInt(-25)

	failures := Check(order, Options{})
	fields := make(map[string]bool)
	for _, f := range failures {
		fields[f.Field] = true
	}
	for _, want := range []string{"discount_value", "shipping_cost", "advance_payment"} {
		if !fields[want] {
			t.Errorf("missing failure for negative %s; got %+v", want, failures)
		}
	}

	order.DiscountValue = decimal.NewFromInt(100)
	order.ShippingCost = decimal.Zero
	order.AdvancePayment = decimal.NewFromInt(25)
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("non-negative amounts rejected: %+v", failures)
	}
}

func TestCheckUnknownEnumValues(t *testing.T) {
	order := validOrder()
	order.DiscountType = "bogus"
	order.PaymentStatus = "settled"
	order.Shipping = ShippingInput{Method: "teleport"}

	failures := Check(order, Options{})
	fields := make(map[string]bool)
	for _, f := range failures {
		fields[f.Field] = true
	}
	for _, want := range []string{"discount_type", "payment_status", "shipping.method"} {
		if !fields[want] {
			t.Errorf("missing failure for %s; got %+v", want, failures)
		}
	}

	order.DiscountType = pricing.DiscountFixed
	order.PaymentStatus = pricing.PaymentPartial
	order.Shipping = ShippingInput{Method: pricing.ShippingCourier}
	if failures := Check(order, Options{}); len(failures) != 0 {
		t.Errorf("known enum values rejected: %+v", failures)
	}
}

func TestCheckNegativeAddOns(t *testing.T) {
	order := validOrder()
	order.Items[0].Alteration = decimal.NewFromInt(-5)

	failures := Check(order, Options{})
	if len(failures) != 1 || failures[0].Field != "alteration" {
		t.Errorf("failures = %+v, want alteration", failures)
	}
}

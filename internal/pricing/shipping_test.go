package pricing

import "testing"

func TestExtraLabels(t *testing.T) {
	labels := ExtraLabels(ShippingLocalTransport)
	if labels.Field1 != "Transport Name" {
		t.Errorf("field 1 = %q", labels.Field1)
	}
	if labels.Field2 != "Transport GST Number" {
		t.Errorf("field 2 = %q", labels.Field2)
	}
}

func TestExtraLabelsUnknownMethod(t *testing.T) {
	labels := ExtraLabels(ShippingMethod("drone"))
	if labels != ExtraLabels(ShippingOther) {
		t.Errorf("unknown method labels = %+v, want the generic ones", labels)
	}
}

func TestShippingMethodValid(t *testing.T) {
	for _, m := range []ShippingMethod{
		ShippingPickup, ShippingHomeDelivery, ShippingCourier, ShippingExpress,
		ShippingLocalTransport, ShippingCustomerCourier, ShippingAggregator, ShippingOther,
	} {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if ShippingMethod("drone").Valid() {
		t.Errorf("drone should not be valid")
	}
}

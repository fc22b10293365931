package pricing

type ShippingMethod string

const (
	ShippingPickup          ShippingMethod = "pickup"
	ShippingHomeDelivery    ShippingMethod = "home_delivery"
	ShippingCourier         ShippingMethod = "courier"
	ShippingExpress         ShippingMethod = "express"
	ShippingLocalTransport  ShippingMethod = "local_transport"
	ShippingCustomerCourier ShippingMethod = "customer_courier"
	ShippingAggregator      ShippingMethod = "aggregator"
	ShippingOther           ShippingMethod = "other"
)

func (m ShippingMethod) Valid() bool {
	_, ok := shippingExtraLabels[m]
	return ok
}

// ExtraFieldLabels names the two method-specific extra fields on the
// shipping form. A label containing "GST" marks the field as holding a
// GSTIN, which the validator pattern-checks.
type ExtraFieldLabels struct {
	Field1 string
	Field2 string
}

var shippingExtraLabels = map[ShippingMethod]ExtraFieldLabels{
	ShippingPickup:          {"Pickup Person", "Pickup Time"},
	ShippingHomeDelivery:    {"Delivery Slot", "Landmark"},
	ShippingCourier:         {"Courier Company", "Tracking Number"},
	ShippingExpress:         {"Courier Company", "AWB Number"},
	ShippingLocalTransport:  {"Transport Name", "Transport GST Number"},
	ShippingCustomerCourier: {"Courier Company", "Courier Account Number"},
	ShippingAggregator:      {"Aggregator Name", "Booking Reference"},
	ShippingOther:           {"Reference 1", "Reference 2"},
}

// ExtraLabels returns the extra field labels for a shipping method.
// Unknown methods fall back to the generic labels of "other".
func ExtraLabels(m ShippingMethod) ExtraFieldLabels {
	if labels, ok := shippingExtraLabels[m]; ok {
		return labels
	}
	return shippingExtraLabels[ShippingOther]
}

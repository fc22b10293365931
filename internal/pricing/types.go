package pricing

import "github.com/shopspring/decimal"

type OrderType string

const (
	OrderTypeFabric          OrderType = "fabric"
	OrderTypeFabricStitching OrderType = "fabric_stitching"
	OrderTypeStitching       OrderType = "stitching"
	OrderTypeReadymade       OrderType = "readymade"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeFabric, OrderTypeFabricStitching, OrderTypeStitching, OrderTypeReadymade:
		return true
	}
	return false
}

// NeedsItemType reports whether items of this order type must carry a
// resolvable item-type reference. Fabric-only orders sell cloth by the
// meter and have no garment to stitch.
func (t OrderType) NeedsItemType() bool {
	return t != OrderTypeFabric
}

// HasFabricComponent reports whether a fabric line contributes to the
// item cost for this order type. Stitching and readymade orders ignore
// a fabric reference even when one is present.
func (t OrderType) HasFabricComponent() bool {
	return t == OrderTypeFabric || t == OrderTypeFabricStitching
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue, PaymentRefunded:
		return true
	}
	return false
}

// ItemInput is one purchasable unit within an order, as entered on the
// order form. Zero-valued references mean "not set".
type ItemInput struct {
	ItemTypeID        int64
	FabricID          int64
	StyleID           int64
	FabricMeters      decimal.Decimal
	Quantity          int
	Alteration        decimal.Decimal
	Handwork          decimal.Decimal
	OtherCharges      decimal.Decimal
	DesignNumber      string
	Description       string
	ClientOrderNumber string
	Measurements      map[string]decimal.Decimal
}

// OrderInput is the subset of an order the pricing core needs. It is
// deliberately free of persistence concerns so the same computation
// serves the live estimator, order submission and bill generation.
type OrderInput struct {
	OrderType      OrderType
	Items          []ItemInput
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	TaxRate        *decimal.Decimal // nil falls back to Config.DefaultTaxRate
	ShippingCost   decimal.Decimal
	AdvancePayment decimal.Decimal
}

package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"darzi-system/internal/pricing"
)

// GSTIN: two digits, five letters, four digits, one letter, one
// alphanumeric, literal Z, one check character. 15 characters total.
// The check character never reuses Z, so the literal Z marker is
// always the 14th position.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Y]{1}$`)

func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// Failure is one user-facing validation failure. ItemIndex is -1 for
// order-level failures.
type Failure struct {
	Field     string `json:"field"`
	ItemIndex int    `json:"item_index"`
	Message   string `json:"message"`
}

func orderFailure(field, message string) Failure {
	return Failure{Field: field, ItemIndex: -1, Message: message}
}

func itemFailure(index int, field, message string) Failure {
	return Failure{Field: field, ItemIndex: index, Message: message}
}

// Options carries the per-flow knobs. The zero value gives the create
// flow's behavior: fabric meters merely have to be positive.
type Options struct {
	// MinFabricMeters, when positive, raises the fabric-meter floor
	// above "greater than zero" (the update flow requires 2).
	MinFabricMeters decimal.Decimal
}

// ClientDetails is the inline client snapshot captured for a new
// client at order time.
type ClientDetails struct {
	Name    string
	Mobile  string
	Address string
	City    string
	State   string
	Pincode string
	GSTIN   string
	PAN     string
	Email   string
}

// ShippingInput is the shipping section of an order form.
type ShippingInput struct {
	Method      pricing.ShippingMethod
	ExtraField1 string
	ExtraField2 string
}

// Order is a candidate order before submission.
type Order struct {
	OrderType         pricing.OrderType
	BranchID          int64
	UseExistingClient bool
	ClientID          int64
	Client            ClientDetails
	Items             []pricing.ItemInput
	DiscountType      pricing.DiscountType
	DiscountValue     decimal.Decimal
	ShippingCost      decimal.Decimal
	AdvancePayment    decimal.Decimal
	PaymentStatus     pricing.PaymentStatus
	Shipping          ShippingInput
}

// Check enforces the structural and business-rule preconditions an
// order must satisfy before it reaches the aggregator or persistence.
// An empty result means valid. Validation is all-or-nothing: every
// failure is collected, and the caller halts submission on any.
func Check(order Order, opts Options) []Failure {
	var failures []Failure

	if order.OrderType == "" {
		failures = append(failures, orderFailure("order_type", "Order type is required"))
	} else if !order.OrderType.Valid() {
		failures = append(failures, orderFailure("order_type", fmt.Sprintf("Unknown order type %q", order.OrderType)))
	}

	if order.BranchID == 0 {
		failures = append(failures, orderFailure("branch_id", "Branch is required"))
	}

	failures = append(failures, checkClient(order)...)

	if len(order.Items) == 0 {
		failures = append(failures, orderFailure("items", "Order must contain at least one item"))
	}
	for i, item := range order.Items {
		failures = append(failures, checkItem(i, item, order.OrderType, opts)...)
	}

	failures = append(failures, checkAmounts(order)...)

	failures = append(failures, checkShipping(order.Shipping)...)

	return failures
}

// checkAmounts holds the order-level money fields to zero or above and
// the enumerated fields to their known values.
func checkAmounts(order Order) []Failure {
	var failures []Failure

	for _, amount := range []struct {
		field, label string
		value        decimal.Decimal
	}{
		{"discount_value", "Discount", order.DiscountValue},
		{"shipping_cost", "Shipping cost", order.ShippingCost},
		{"advance_payment", "Advance payment", order.AdvancePayment},
	} {
		if amount.value.IsNegative() {
			failures = append(failures, orderFailure(amount.field, amount.label+" cannot be negative"))
		}
	}

	if order.DiscountType != "" && !order.DiscountType.Valid() {
		failures = append(failures, orderFailure("discount_type", fmt.Sprintf("Unknown discount type %q", order.DiscountType)))
	}
	if order.PaymentStatus != "" && !order.PaymentStatus.Valid() {
		failures = append(failures, orderFailure("payment_status", fmt.Sprintf("Unknown payment status %q", order.PaymentStatus)))
	}

	return failures
}

func checkClient(order Order) []Failure {
	if order.UseExistingClient {
		if order.ClientID == 0 {
			return []Failure{orderFailure("client_id", "Select an existing client")}
		}
		return nil
	}

	var failures []Failure
	required := []struct {
		field, value, label string
	}{
		{"client.name", order.Client.Name, "Client name"},
		{"client.mobile", order.Client.Mobile, "Mobile number"},
		{"client.address", order.Client.Address, "Address"},
		{"client.city", order.Client.City, "City"},
		{"client.state", order.Client.State, "State"},
		{"client.pincode", order.Client.Pincode, "Pincode"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			failures = append(failures, orderFailure(r.field, r.label+" is required"))
		}
	}
	if order.Client.GSTIN != "" && !ValidGSTIN(order.Client.GSTIN) {
		failures = append(failures, orderFailure("client.gstin", "GSTIN is not a valid 15-character GST number"))
	}
	return failures
}

func checkItem(index int, item pricing.ItemInput, orderType pricing.OrderType, opts Options) []Failure {
	var failures []Failure

	if orderType.NeedsItemType() {
		if item.ItemTypeID == 0 {
			failures = append(failures, itemFailure(index, "item_type_id", fmt.Sprintf("Item %d: item type is required", index+1)))
		}
		if item.Quantity < 1 {
			failures = append(failures, itemFailure(index, "quantity", fmt.Sprintf("Item %d: quantity must be at least 1", index+1)))
		}
	}

	if item.FabricID == 0 && item.FabricMeters.IsPositive() {
		failures = append(failures, itemFailure(index, "fabric_meters", fmt.Sprintf("Item %d: fabric meters set without a fabric", index+1)))
	}

	if orderType.HasFabricComponent() && item.FabricID != 0 {
		if !item.FabricMeters.IsPositive() {
			failures = append(failures, itemFailure(index, "fabric_meters", fmt.Sprintf("Item %d: fabric meters must be greater than zero", index+1)))
		} else if opts.MinFabricMeters.IsPositive() && item.FabricMeters.LessThan(opts.MinFabricMeters) {
			failures = append(failures, itemFailure(index, "fabric_meters", fmt.Sprintf("Item %d: at least %s meters of fabric required", index+1, opts.MinFabricMeters.String())))
		}
	}

	for _, amount := range []struct {
		field string
		value decimal.Decimal
	}{
		{"alteration", item.Alteration},
		{"handwork", item.Handwork},
		{"other_charges", item.OtherCharges},
	} {
		if amount.value.IsNegative() {
			failures = append(failures, itemFailure(index, amount.field, fmt.Sprintf("Item %d: %s cannot be negative", index+1, amount.field)))
		}
	}

	return failures
}

// checkShipping pattern-checks any method-specific extra field whose
// label marks it as a GST number.
func checkShipping(shipping ShippingInput) []Failure {
	if shipping.Method == "" {
		return nil
	}
	if !shipping.Method.Valid() {
		return []Failure{orderFailure("shipping.method", fmt.Sprintf("Unknown shipping method %q", shipping.Method))}
	}

	var failures []Failure
	labels := pricing.ExtraLabels(shipping.Method)
	for _, extra := range []struct {
		field, label, value string
	}{
		{"shipping.extra_field_1", labels.Field1, shipping.ExtraField1},
		{"shipping.extra_field_2", labels.Field2, shipping.ExtraField2},
	} {
		if extra.value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(extra.label), "gst") && !ValidGSTIN(extra.value) {
			failures = append(failures, orderFailure(extra.field, fmt.Sprintf("%s is not a valid GST number", extra.label)))
		}
	}
	return failures
}

package pricing

import "github.com/shopspring/decimal"

type ComponentKind string

const (
	ComponentFabric     ComponentKind = "fabric"
	ComponentStitching  ComponentKind = "stitching"
	ComponentAlteration ComponentKind = "alteration"
	ComponentHandwork   ComponentKind = "handwork"
	ComponentOther      ComponentKind = "other"
)

// Component is one line of an item's cost decomposition.
type Component struct {
	Kind     ComponentKind   `json:"kind"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"rate"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Total    decimal.Decimal `json:"total"`
}

// LineBreakdown is the itemized cost decomposition for a single order
// item. When the item lacks the data required to price it, Unpriced is
// set instead of returning nothing, so callers can distinguish "costs
// zero" from "could not be priced".
type LineBreakdown struct {
	ItemName       string          `json:"item_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Components     []Component     `json:"components"`
	Unpriced       bool            `json:"unpriced,omitempty"`
	UnpricedReason string          `json:"unpriced_reason,omitempty"`
}

func unpriced(reason string) LineBreakdown {
	return LineBreakdown{Unpriced: true, UnpricedReason: reason}
}

// PriceItem computes one item's cost breakdown from its configuration
// and the parent order's type. Which components apply depends on the
// order type: fabric-only orders price cloth by the meter with quantity
// pinned to 1, fabric_stitching orders price both cloth and stitching,
// stitching and readymade orders price stitching only. Flat add-ons
// (alteration, handwork, other charges) apply to every order type.
func PriceItem(item ItemInput, orderType OrderType, catalog Catalog) LineBreakdown {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}
	if orderType == OrderTypeFabric {
		quantity = 1
	}

	var (
		name       string
		components []Component
		total      decimal.Decimal
	)

	if orderType.HasFabricComponent() && item.FabricID != 0 {
		fabric, ok := catalog.Fabric(item.FabricID)
		if !ok {
			return unpriced("fabric not found in catalog")
		}
		if !item.FabricMeters.IsPositive() {
			return unpriced("fabric meters not specified")
		}
		fabricCost := fabric.PricePerMeter.Mul(item.FabricMeters)
		components = append(components, Component{
			Kind:     ComponentFabric,
			Name:     fabric.Name,
			Rate:     fabric.PricePerMeter,
			Quantity: item.FabricMeters,
			Unit:     "meter",
			Total:    fabricCost,
		})
		total = total.Add(fabricCost)
		name = fabric.Name
	} else if orderType == OrderTypeFabric {
		return unpriced("fabric not selected")
	}

	if orderType.NeedsItemType() {
		if item.ItemTypeID == 0 {
			return unpriced("item type not selected")
		}
		itemType, ok := catalog.ItemType(item.ItemTypeID)
		if !ok {
			return unpriced("item type not found in catalog")
		}
		qty := decimal.NewFromInt(int64(quantity))
		stitchingCost := itemType.StitchingCharge.Mul(qty)
		components = append(components, Component{
			Kind:     ComponentStitching,
			Name:     itemType.Name,
			Rate:     itemType.StitchingCharge,
			Quantity: qty,
			Unit:     "piece",
			Total:    stitchingCost,
		})
		total = total.Add(stitchingCost)
		name = itemType.Name
	}

	for _, addon := range []struct {
		kind   ComponentKind
		name   string
		amount decimal.Decimal
	}{
		{ComponentAlteration, "Alteration", item.Alteration},
		{ComponentHandwork, "Handwork", item.Handwork},
		{ComponentOther, "Other Charges", item.OtherCharges},
	} {
		if !addon.amount.IsPositive() {
			continue
		}
		components = append(components, Component{
			Kind:     addon.kind,
			Name:     addon.name,
			Rate:     addon.amount,
			Quantity: decimal.NewFromInt(1),
			Total:    addon.amount,
		})
		total = total.Add(addon.amount)
	}

	unitPrice := total
	if orderType != OrderTypeFabric && quantity > 1 {
		unitPrice = total.Div(decimal.NewFromInt(int64(quantity)))
	}

	return LineBreakdown{
		ItemName:   name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: total,
		Components: components,
	}
}

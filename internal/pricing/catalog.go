package pricing

import "github.com/shopspring/decimal"

// ItemTypeInfo carries the priced attributes of a catalog item type.
type ItemTypeInfo struct {
	ID                int64
	Name              string
	StitchingCharge   decimal.Decimal
	MeasurementFields []string
}

// FabricInfo carries the priced attributes of a catalog fabric.
type FabricInfo struct {
	ID            int64
	Name          string
	PricePerMeter decimal.Decimal
}

// Catalog resolves item-type and fabric references to their priced
// attributes. Implementations must report a missing record distinctly
// from a record whose price happens to be zero.
type Catalog interface {
	ItemType(id int64) (ItemTypeInfo, bool)
	Fabric(id int64) (FabricInfo, bool)
}

// Snapshot is an in-memory Catalog. Handlers load the records an order
// references into a Snapshot before calling the pricing functions, so
// the computation itself never touches the database.
type Snapshot struct {
	ItemTypes map[int64]ItemTypeInfo
	Fabrics   map[int64]FabricInfo
}

func NewSnapshot() Snapshot {
	return Snapshot{
		ItemTypes: make(map[int64]ItemTypeInfo),
		Fabrics:   make(map[int64]FabricInfo),
	}
}

func (s Snapshot) ItemType(id int64) (ItemTypeInfo, bool) {
	info, ok := s.ItemTypes[id]
	return info, ok
}

func (s Snapshot) Fabric(id int64) (FabricInfo, bool) {
	info, ok := s.Fabrics[id]
	return info, ok
}

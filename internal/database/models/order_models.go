package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MeasurementMap stores item-type-specific measurement fields as a
// JSON text column. Keys are open-ended.
type MeasurementMap map[string]float64

func (m *MeasurementMap) Scan(value interface{}) error {
	if value == nil {
		*m = MeasurementMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("failed to scan MeasurementMap: %v", value)
}

func (m MeasurementMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex;not null"`
	OrderType   string `gorm:"type:varchar(32);not null"`
	BranchId    int64  `gorm:"index;not null"`

	// Client reference or inline snapshot; exactly one is authoritative.
	ClientId      *int64
	ClientName    string  `gorm:"type:varchar(128)"`
	ClientMobile  string  `gorm:"type:varchar(16)"`
	ClientAddress string  `gorm:"type:text"`
	ClientCity    string  `gorm:"type:varchar(64)"`
	ClientState   string  `gorm:"type:varchar(64)"`
	ClientPincode string  `gorm:"type:varchar(16)"`
	ClientGSTIN   *string `gorm:"type:varchar(15)"`
	ClientPAN     *string `gorm:"type:varchar(10)"`
	ClientEmail   *string `gorm:"type:varchar(128)"`

	DiscountType      string  `gorm:"type:varchar(16);not null;default:'percentage'"`
	DiscountValue     string  `gorm:"type:decimal(12,2);not null;default:0"`
	PromoCode         *string `gorm:"type:varchar(32)"`
	ReferenceName     *string `gorm:"type:varchar(128)"`
	DiscountNarration *string `gorm:"type:text"`

	TaxRate string `gorm:"type:decimal(5,2);not null"`

	AdvancePayment string  `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod  *string `gorm:"type:varchar(32)"`
	PaymentStatus  string  `gorm:"type:varchar(16);not null;default:'pending'"`
	PaymentNotes   *string `gorm:"type:text"`

	// Derived amounts. Written only from server-side recomputation,
	// never from client-submitted figures.
	Subtotal       string `gorm:"type:decimal(12,2);not null"`
	DiscountAmount string `gorm:"type:decimal(12,2);not null"`
	TaxableAmount  string `gorm:"type:decimal(12,2);not null"`
	TaxAmount      string `gorm:"type:decimal(12,2);not null"`
	TotalAmount    string `gorm:"type:decimal(12,2);not null"`
	BalanceAmount  string `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []OrderItem     `gorm:"foreignKey:OrderId"`
	Shipping *ShippingDetail `gorm:"foreignKey:OrderId"`
	Branch   *Branch         `gorm:"foreignKey:BranchId"`
	Client   *Client         `gorm:"foreignKey:ClientId"`
}

type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderId int64 `gorm:"index;not null"`

	ItemTypeId   *int64
	FabricId     *int64
	StyleId      *int64
	FabricMeters string `gorm:"type:decimal(8,2);not null;default:0"`
	Quantity     int    `gorm:"not null;default:1"`

	Alteration   string `gorm:"type:decimal(12,2);not null;default:0"`
	Handwork     string `gorm:"type:decimal(12,2);not null;default:0"`
	OtherCharges string `gorm:"type:decimal(12,2);not null;default:0"`

	DesignNumber      *string        `gorm:"type:varchar(64)"`
	Description       *string        `gorm:"type:text"`
	ClientOrderNumber *string        `gorm:"type:varchar(64)"`
	Measurements      MeasurementMap `gorm:"type:text"`

	CreatedAt time.Time

	ItemType *ItemType `gorm:"foreignKey:ItemTypeId"`
	Fabric   *Fabric   `gorm:"foreignKey:FabricId"`
	Style    *Style    `gorm:"foreignKey:StyleId"`
}

type ShippingDetail struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderId int64 `gorm:"uniqueIndex;not null"`

	Address string `gorm:"type:text"`
	City    string `gorm:"type:varchar(64)"`
	State   string `gorm:"type:varchar(64)"`
	Pincode string `gorm:"type:varchar(16)"`

	ShippingMethod string `gorm:"type:varchar(32);not null"`
	ShippingCost   string `gorm:"type:decimal(12,2);not null;default:0"`

	// Method-specific fields; labels come from the shipping method.
	ExtraField1 *string `gorm:"type:varchar(128)"`
	ExtraField2 *string `gorm:"type:varchar(128)"`

	DeliveryPerson  *string `gorm:"type:varchar(128)"`
	DeliveryContact *string `gorm:"type:varchar(16)"`
	DeliveryStatus  *string `gorm:"type:varchar(32)"`
	DeliveryNotes   *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Bill statuses. Transitions are administrative flags, not pricing:
// draft -> generated -> sent -> paid / cancelled.
const (
	BillStatusDraft     = "draft"
	BillStatusGenerated = "generated"
	BillStatusSent      = "sent"
	BillStatusPaid      = "paid"
	BillStatusCancelled = "cancelled"
)

// BillLineComponent is one frozen component row of an invoice line.
type BillLineComponent struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
	Total    string `json:"total"`
}

// BillLine is one itemized invoice line. Lines are captured when the
// bill is generated, so a later catalog price change cannot alter an
// issued invoice.
type BillLine struct {
	ItemName   string              `json:"item_name"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  string              `json:"unit_price"`
	TotalPrice string              `json:"total_price"`
	Components []BillLineComponent `json:"components"`
}

// BillLines stores the itemized invoice lines as a JSON text column.
type BillLines []BillLine

func (l *BillLines) Scan(value interface{}) error {
	if value == nil {
		*l = BillLines{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("failed to scan BillLines: %v", value)
}

func (l BillLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Bill freezes an order's server-recomputed totals at generation time.
// Amounts are immutable thereafter; only Status moves.
type Bill struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	BillNumber string `gorm:"type:varchar(32);uniqueIndex;not null"`
	OrderId    int64  `gorm:"uniqueIndex;not null"`

	BillDate time.Time  `gorm:"not null"`
	DueDate  *time.Time

	Subtotal       string `gorm:"type:decimal(12,2);not null"`
	DiscountAmount string `gorm:"type:decimal(12,2);not null"`
	TaxableAmount  string `gorm:"type:decimal(12,2);not null"`
	ShippingCost   string `gorm:"type:decimal(12,2);not null"`
	TaxAmount      string `gorm:"type:decimal(12,2);not null"`
	TotalAmount    string `gorm:"type:decimal(12,2);not null"`
	AdvanceAmount  string `gorm:"type:decimal(12,2);not null"`
	BalanceAmount  string `gorm:"type:decimal(12,2);not null"`

	LineItems BillLines `gorm:"type:text;not null;default:'[]'"`

	Status      string `gorm:"type:varchar(16);not null;default:'generated'"`
	GeneratedBy int64  `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Order *Order `gorm:"foreignKey:OrderId"`
}

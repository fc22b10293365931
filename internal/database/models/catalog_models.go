package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray stores a list of strings as a JSON text column.
type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("failed to scan StringArray: %v", value)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

type Branch struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	BranchName string  `gorm:"type:varchar(128);uniqueIndex;not null"`
	Address    string  `gorm:"type:text"`
	City       string  `gorm:"type:varchar(64)"`
	State      string  `gorm:"type:varchar(64)"`
	Pincode    string  `gorm:"type:varchar(16)"`
	Phone      string  `gorm:"type:varchar(16)"`
	GSTIN      *string `gorm:"type:varchar(15)"`
	IsActive   bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Client struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"type:varchar(128);not null"`
	Mobile    string  `gorm:"type:varchar(16);uniqueIndex;not null"`
	Address   string  `gorm:"type:text"`
	City      string  `gorm:"type:varchar(64)"`
	State     string  `gorm:"type:varchar(64)"`
	Pincode   string  `gorm:"type:varchar(16)"`
	GSTIN     *string `gorm:"type:varchar(15)"`
	PAN       *string `gorm:"type:varchar(10)"`
	Email     *string `gorm:"type:varchar(128)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemType struct {
	ID                int64       `gorm:"primaryKey;autoIncrement"`
	ItemName          string      `gorm:"type:varchar(128);uniqueIndex;not null"`
	StitchingCharge   string      `gorm:"type:decimal(12,2);not null"`
	MeasurementFields StringArray `gorm:"type:text"`
	IsActive          bool        `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Styles []Style `gorm:"foreignKey:ItemTypeId"`
}

type Style struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	ItemTypeId int64   `gorm:"index;not null"`
	StyleName  string  `gorm:"type:varchar(128);not null"`
	ImageUrl   *string `gorm:"type:varchar(256)"`
	IsActive   bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Fabric struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	FabricName    string  `gorm:"type:varchar(128);not null"`
	FabricCode    string  `gorm:"type:varchar(32);uniqueIndex;not null"`
	PricePerMeter string  `gorm:"type:decimal(12,2);not null"`
	Color         *string `gorm:"type:varchar(32)"`
	Material      *string `gorm:"type:varchar(64)"`
	StockMeters   string  `gorm:"type:decimal(10,2);not null;default:0"`
	IsActive      bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

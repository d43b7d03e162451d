package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Purchase is a received supplier delivery. The reconciliation engines
// read purchases only to add received fuel volume into book stock.
type Purchase struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	SupplierID *snowflake.ID  `gorm:"index" json:"supplier_id,omitempty"`
	InvoiceNo  string         `json:"invoice_no,omitempty"`
	ReceivedAt time.Time      `gorm:"not null;index" json:"received_at"`
	Items      []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// PurchaseItem carries an optional explicit fuel type and tank link.
// Legacy rows have only a free-text item name; fuel attribution for
// those falls back to substring matching on the name.
type PurchaseItem struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	PurchaseID snowflake.ID  `gorm:"not null;index" json:"purchase_id"`
	ItemName   string        `gorm:"not null" json:"item_name"`
	FuelType   string        `gorm:"index" json:"fuel_type,omitempty"`
	TankID     *snowflake.ID `gorm:"index" json:"tank_id,omitempty"`
	Quantity   float64       `gorm:"not null" json:"quantity"`
	UnitPrice  float64       `gorm:"not null" json:"unit_price"`
}

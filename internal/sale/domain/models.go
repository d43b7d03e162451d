package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentCredit PaymentMethod = "credit"
	PaymentFleet  PaymentMethod = "fleet"
)

func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(value))) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentCard:
		return PaymentCard, true
	case PaymentUPI:
		return PaymentUPI, true
	case PaymentCredit:
		return PaymentCredit, true
	case PaymentFleet:
		return PaymentFleet, true
	default:
		return "", false
	}
}

// Sale rows are immutable once recorded. The shift and reconciliation
// services only ever read them; recorded totals on a shift are always
// recomputed from here.
type Sale struct {
	ID            snowflake.ID        `gorm:"primaryKey" json:"id"`
	ShiftID       snowflake.ID        `gorm:"not null;index" json:"shift_id"`
	PumpID        snowflake.ID        `gorm:"not null;index" json:"pump_id"`
	NozzleID      snowflake.ID        `gorm:"not null;index" json:"nozzle_id"`
	FuelType      tankdomain.FuelType `gorm:"not null" json:"fuel_type"`
	Quantity      float64             `gorm:"not null" json:"quantity"`
	UnitPrice     float64             `gorm:"not null" json:"unit_price"`
	TotalAmount   float64             `gorm:"not null" json:"total_amount"`
	PaymentMethod PaymentMethod       `gorm:"not null" json:"payment_method"`
	EmployeeID    *snowflake.ID       `json:"employee_id,omitempty"`
	SoldAt        time.Time           `gorm:"not null;index" json:"sold_at"`
	CreatedAt     time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the shift state machine. Closed and Reconciled are
// terminal with respect to Active: once a shift leaves Active it can
// never come back.
type Status string

const (
	StatusActive     Status = "active"
	StatusClosed     Status = "closed"
	StatusReconciled Status = "reconciled"
)

var transitions = map[Status][]Status{
	StatusActive: {StatusClosed},
	// Reconciled is reachable only by a manual promotion step that has
	// no trigger yet; the transition is allowed so the state is not a
	// dead end when that workflow lands.
	StatusClosed:     {StatusReconciled},
	StatusReconciled: {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Shift is one operating period of the station. Sales attach to it by
// shift_id while it is active; close recomputes every aggregate from
// those sales and snapshots never trust caller-supplied totals.
type Shift struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Sequence  int64        `gorm:"not null;uniqueIndex" json:"sequence"`
	ShiftDate time.Time    `gorm:"not null;index" json:"shift_date"`
	Status    Status       `gorm:"not null;index" json:"status"`
	StartTime time.Time    `gorm:"not null" json:"start_time"`
	EndTime   *time.Time   `json:"end_time,omitempty"`

	OpeningCash float64  `gorm:"not null" json:"opening_cash"`
	ClosingCash *float64 `json:"closing_cash,omitempty"`

	TotalSales    float64 `gorm:"not null;default:0" json:"total_sales"`
	TotalQuantity float64 `gorm:"not null;default:0" json:"total_quantity"`
	SalesCount    int64   `gorm:"not null;default:0" json:"sales_count"`
	CashCollected float64 `gorm:"not null;default:0" json:"cash_collected"`
	CardPayments  float64 `gorm:"not null;default:0" json:"card_payments"`
	UpiPayments   float64 `gorm:"not null;default:0" json:"upi_payments"`
	CreditSales   float64 `gorm:"not null;default:0" json:"credit_sales"`

	Notes        string        `json:"notes,omitempty"`
	SupervisorID *snowflake.ID `json:"supervisor_id,omitempty"`

	Employees     []ShiftEmployee    `gorm:"foreignKey:ShiftID" json:"employees,omitempty"`
	TankReadings  []ShiftTankReading `gorm:"foreignKey:ShiftID" json:"tank_readings,omitempty"`
	PumpReadings  []ShiftPumpReading `gorm:"foreignKey:ShiftID" json:"pump_readings,omitempty"`
	Discrepancies []Discrepancy      `gorm:"foreignKey:ShiftID" json:"discrepancies,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type ShiftEmployee struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ShiftID    snowflake.ID `gorm:"not null;index" json:"shift_id"`
	EmployeeID snowflake.ID `gorm:"not null;index" json:"employee_id"`
}

// ShiftTankReading snapshots a tank level at open; the closing side is
// filled at close from the supplied dip value.
type ShiftTankReading struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ShiftID        snowflake.ID `gorm:"not null;index" json:"shift_id"`
	TankID         snowflake.ID `gorm:"not null;index" json:"tank_id"`
	OpeningReading float64      `gorm:"not null" json:"opening_reading"`
	ClosingReading *float64     `json:"closing_reading,omitempty"`
}

// ShiftPumpReading snapshots one nozzle meter at open and close.
type ShiftPumpReading struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ShiftID        snowflake.ID `gorm:"not null;index" json:"shift_id"`
	PumpID         snowflake.ID `gorm:"not null" json:"pump_id"`
	NozzleID       snowflake.ID `gorm:"not null;index" json:"nozzle_id"`
	OpeningReading float64      `gorm:"not null" json:"opening_reading"`
	ClosingReading *float64     `json:"closing_reading,omitempty"`
}

type DiscrepancyKind string

const (
	DiscrepancyCash    DiscrepancyKind = "cash"
	DiscrepancyFuel    DiscrepancyKind = "fuel"
	DiscrepancyReading DiscrepancyKind = "reading"
)

// Discrepancy is recorded at close when a computed gap exceeds the
// negligible-rounding threshold. Amount is signed: positive surplus,
// negative shortage.
type Discrepancy struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	ShiftID   snowflake.ID    `gorm:"not null;index" json:"shift_id"`
	Kind      DiscrepancyKind `gorm:"not null" json:"kind"`
	Amount    float64         `gorm:"not null" json:"amount"`
	Reason    string          `gorm:"not null" json:"reason"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

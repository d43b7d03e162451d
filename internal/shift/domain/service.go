package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type OpenShiftRequest struct {
	EmployeeIDs []string
	OpeningCash float64
	Notes       string
}

// ReadingExpectation pairs an opening snapshot with the closing value
// the recorded sales imply.
type ReadingExpectation struct {
	TankID          snowflake.ID `json:"tank_id,omitempty"`
	PumpID          snowflake.ID `json:"pump_id,omitempty"`
	NozzleID        snowflake.ID `json:"nozzle_id,omitempty"`
	OpeningReading  float64      `json:"opening_reading"`
	VolumeSold      float64      `json:"volume_sold"`
	ExpectedClosing float64      `json:"expected_closing"`
}

// Summary is the read-only pre-close preview. Computing it has no side
// effects and may be repeated freely.
type Summary struct {
	ShiftID       snowflake.ID `json:"shift_id"`
	Sequence      int64        `json:"sequence"`
	Status        Status       `json:"status"`
	TotalSales    float64      `json:"total_sales"`
	TotalQuantity float64      `json:"total_quantity"`
	SalesCount    int64        `json:"sales_count"`

	CashCollected float64 `json:"cash_collected"`
	CardPayments  float64 `json:"card_payments"`
	UpiPayments   float64 `json:"upi_payments"`
	CreditSales   float64 `json:"credit_sales"`

	OpeningCash         float64 `json:"opening_cash"`
	ExpectedClosingCash float64 `json:"expected_closing_cash"`

	TankReadings []ReadingExpectation `json:"tank_readings"`
	PumpReadings []ReadingExpectation `json:"pump_readings"`
}

type NozzleClosing struct {
	PumpID   string
	NozzleID string
	Reading  float64
}

type TankClosing struct {
	TankID  string
	Reading float64
}

type CloseShiftRequest struct {
	ShiftID      string
	ClosingCash  float64
	EndTime      *time.Time
	PumpReadings []NozzleClosing
	TankReadings []TankClosing
	Notes        string
	SupervisorID string
}

// SnapshotWarning reports a per-record propagation failure during
// close. The close itself still succeeded; the named record needs
// manual correction.
type SnapshotWarning struct {
	Kind     string `json:"kind"` // "nozzle" or "tank"
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

type CashFlow struct {
	OpeningCash    float64 `json:"opening_cash"`
	CashCollected  float64 `json:"cash_collected"`
	ExpectedCash   float64 `json:"expected_cash"`
	ActualCash     float64 `json:"actual_cash"`
	Discrepancy    float64 `json:"discrepancy"`
	DiscrepancyPct float64 `json:"discrepancy_pct"`
}

type PaymentBreakdown struct {
	Cash   float64 `json:"cash"`
	Card   float64 `json:"card"`
	Upi    float64 `json:"upi"`
	Credit float64 `json:"credit"`
}

// CloseResult separates "the shift document is closed" from "every
// snapshot propagated": Warnings is non-empty when some per-record
// updates failed after the shift itself was already persisted.
type CloseResult struct {
	Shift         Shift             `json:"shift"`
	Duration      time.Duration     `json:"duration"`
	TotalSales    float64           `json:"total_sales"`
	TotalQuantity float64           `json:"total_quantity"`
	SalesCount    int64             `json:"sales_count"`
	Payments      PaymentBreakdown  `json:"payments"`
	CashFlow      CashFlow          `json:"cash_flow"`
	Discrepancies []Discrepancy     `json:"discrepancies"`
	Warnings      []SnapshotWarning `json:"warnings,omitempty"`
}

type Service interface {
	Open(context.Context, OpenShiftRequest) (Shift, error)
	Summary(ctx context.Context, shiftID string) (Summary, error)
	Close(context.Context, CloseShiftRequest) (CloseResult, error)
	GetByID(ctx context.Context, shiftID string) (Shift, error)
	Active(ctx context.Context) (*Shift, error)
}

var (
	ErrNotFound          = errors.New("shift_not_found")
	ErrInvalidID         = errors.New("invalid_shift_id")
	ErrActiveShiftExists = errors.New("active_shift_exists")
	ErrDailyShiftLimit   = errors.New("daily_shift_limit_reached")
	ErrInvalidState      = errors.New("shift_not_active")
	ErrNegativeCash      = errors.New("negative_cash_amount")
	ErrNegativeReading   = errors.New("negative_meter_reading")
	ErrInvalidEmployee   = errors.New("invalid_shift_employee")
	ErrInvalidSupervisor = errors.New("invalid_shift_supervisor")
)

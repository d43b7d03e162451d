package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ShiftTotals is the aggregate over all sales attached to one shift.
type ShiftTotals struct {
	TotalAmount   float64
	TotalQuantity float64
	Count         int64
}

// NozzleVolume is sold volume grouped by nozzle within a shift.
type NozzleVolume struct {
	PumpID   snowflake.ID
	NozzleID snowflake.ID
	Volume   float64
}

// RangeTotals is volume and revenue for one pump+nozzle over a period.
type RangeTotals struct {
	Volume float64
	Amount float64
}

// Reader exposes the sale aggregations the shift lifecycle and the
// reconciliation engines depend on. Implementations never mutate sales.
type Reader interface {
	SumByShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (ShiftTotals, error)
	SumByShiftAndMethod(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (map[PaymentMethod]float64, error)
	VolumeByNozzleForShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]NozzleVolume, error)
	SumByNozzleInRange(ctx context.Context, db *gorm.DB, nozzleID snowflake.ID, from, to time.Time) (RangeTotals, error)
	SumVolumeByPumpInRange(ctx context.Context, db *gorm.DB, pumpID snowflake.ID, from, to time.Time) (float64, error)
	// SumVolumeByTankInRange attributes sales to a tank through the
	// static pump→tank link.
	SumVolumeByTankInRange(ctx context.Context, db *gorm.DB, tankID snowflake.ID, from, to time.Time) (float64, error)
	ListByShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]Sale, error)
}

// Writer is the insert-only side used when the POS records a sale.
type Writer interface {
	Insert(ctx context.Context, db *gorm.DB, sale *Sale) error
}

package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Reader exposes the purchase aggregation book-stock computations need.
type Reader interface {
	// SumReceivedByFuel totals received quantity for a fuel type in the
	// window. Rows with an explicit fuel_type are matched on it; rows
	// without one are matched by case-insensitive substring on the item
	// name, which is how legacy data encodes the fuel.
	SumReceivedByFuel(ctx context.Context, db *gorm.DB, fuelType string, from, to time.Time) (float64, error)
}

type Writer interface {
	Insert(ctx context.Context, db *gorm.DB, purchase *Purchase) error
}

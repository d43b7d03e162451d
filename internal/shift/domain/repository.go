package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert persists the shift together with its employee list and
	// opening snapshots. The storage layer carries a partial unique
	// index on status='active'; a duplicate-key failure here means
	// another open won the race.
	Insert(ctx context.Context, db *gorm.DB, shift *Shift) error

	FindActive(ctx context.Context, db *gorm.DB) (*Shift, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Shift, error)
	List(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Shift, error)
	CountForDate(ctx context.Context, db *gorm.DB, date time.Time) (int64, error)
	NextSequence(ctx context.Context, db *gorm.DB) (int64, error)

	// Update persists the shift's own columns only, not children.
	Update(ctx context.Context, db *gorm.DB, shift *Shift) error
	SetTankReadingClosing(ctx context.Context, db *gorm.DB, readingID snowflake.ID, value float64) error
	SetPumpReadingClosing(ctx context.Context, db *gorm.DB, readingID snowflake.ID, value float64) error
	InsertDiscrepancy(ctx context.Context, db *gorm.DB, discrepancy *Discrepancy) error
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tank *Tank) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tank, error)
	List(ctx context.Context, db *gorm.DB) ([]Tank, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Tank, error)

	// AddToLevel applies a signed delta to the stored level (purchase receipt).
	AddToLevel(ctx context.Context, db *gorm.DB, id snowflake.ID, delta float64) error
	// SetCurrentLevel overwrites the level with the closing dip value.
	SetCurrentLevel(ctx context.Context, db *gorm.DB, id snowflake.ID, value float64) error

	AppendDipReading(ctx context.Context, db *gorm.DB, reading *DipReading) error
	LatestDipBefore(ctx context.Context, db *gorm.DB, tankID snowflake.ID, cutoff time.Time) (*DipReading, error)
	ListDipsInRange(ctx context.Context, db *gorm.DB, tankID snowflake.ID, from, to time.Time) ([]DipReading, error)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, pump *Pump) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Pump, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Pump, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Pump, error)
	FindByTank(ctx context.Context, db *gorm.DB, tankID snowflake.ID) ([]Pump, error)
	SetNozzleCurrentReading(ctx context.Context, db *gorm.DB, pumpID, nozzleID snowflake.ID, value float64) error
}

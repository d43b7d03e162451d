package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/pump/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func nozzleOrder(db *gorm.DB) *gorm.DB {
	return db.Order("nozzles.position asc, nozzles.id asc")
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, pump *domain.Pump) error {
	return db.WithContext(ctx).Create(pump).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Pump, error) {
	var pump domain.Pump
	err := db.WithContext(ctx).
		Preload("Nozzles", nozzleOrder).
		Where("id = ?", id).
		Take(&pump).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pump, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]domain.Pump, error) {
	var pumps []domain.Pump
	err := db.WithContext(ctx).
		Preload("Nozzles", nozzleOrder).
		Order("created_at asc, id asc").
		Find(&pumps).Error
	return pumps, err
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]domain.Pump, error) {
	var pumps []domain.Pump
	err := db.WithContext(ctx).
		Preload("Nozzles", nozzleOrder).
		Where("active = ?", true).
		Order("created_at asc, id asc").
		Find(&pumps).Error
	return pumps, err
}

func (r *repo) FindByTank(ctx context.Context, db *gorm.DB, tankID snowflake.ID) ([]domain.Pump, error) {
	var pumps []domain.Pump
	err := db.WithContext(ctx).
		Preload("Nozzles", nozzleOrder).
		Where("tank_id = ?", tankID).
		Order("created_at asc, id asc").
		Find(&pumps).Error
	return pumps, err
}

func (r *repo) SetNozzleCurrentReading(ctx context.Context, db *gorm.DB, pumpID, nozzleID snowflake.ID, value float64) error {
	result := db.WithContext(ctx).
		Model(&domain.Nozzle{}).
		Where("id = ? AND pump_id = ?", nozzleID, pumpID).
		Updates(map[string]interface{}{
			"current_reading": value,
			"closing_reading": value,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNozzleNotFound
	}
	return nil
}

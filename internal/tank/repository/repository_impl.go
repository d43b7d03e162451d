package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/tank/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tank *domain.Tank) error {
	return db.WithContext(ctx).Create(tank).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tank, error) {
	var tank domain.Tank
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&tank).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tank, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Tank, error) {
	var tanks []domain.Tank
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&tanks).Error
	return tanks, err
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]domain.Tank, error) {
	var tanks []domain.Tank
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at asc, id asc").
		Find(&tanks).Error
	return tanks, err
}

func (r *repo) AddToLevel(ctx context.Context, db *gorm.DB, id snowflake.ID, delta float64) error {
	result := db.WithContext(ctx).
		Model(&domain.Tank{}).
		Where("id = ?", id).
		Update("current_level", gorm.Expr("current_level + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) SetCurrentLevel(ctx context.Context, db *gorm.DB, id snowflake.ID, value float64) error {
	result := db.WithContext(ctx).
		Model(&domain.Tank{}).
		Where("id = ?", id).
		Update("current_level", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) AppendDipReading(ctx context.Context, db *gorm.DB, reading *domain.DipReading) error {
	return db.WithContext(ctx).Create(reading).Error
}

func (r *repo) LatestDipBefore(ctx context.Context, db *gorm.DB, tankID snowflake.ID, cutoff time.Time) (*domain.DipReading, error) {
	var reading domain.DipReading
	err := db.WithContext(ctx).
		Where("tank_id = ? AND recorded_at <= ?", tankID, cutoff).
		Order("recorded_at desc, id desc").
		Take(&reading).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *repo) ListDipsInRange(ctx context.Context, db *gorm.DB, tankID snowflake.ID, from, to time.Time) ([]domain.DipReading, error) {
	var readings []domain.DipReading
	err := db.WithContext(ctx).
		Where("tank_id = ? AND recorded_at >= ? AND recorded_at <= ?", tankID, from, to).
		Order("recorded_at asc, id asc").
		Find(&readings).Error
	return readings, err
}

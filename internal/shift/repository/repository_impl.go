package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/shift/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shift *domain.Shift) error {
	return db.WithContext(ctx).Create(shift).Error
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Employees").
		Preload("TankReadings").
		Preload("PumpReadings").
		Preload("Discrepancies")
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB) (*domain.Shift, error) {
	var shift domain.Shift
	err := preloadChildren(db.WithContext(ctx)).
		Where("status = ?", domain.StatusActive).
		Take(&shift).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Shift, error) {
	var shift domain.Shift
	err := preloadChildren(db.WithContext(ctx)).
		Where("id = ?", id).
		Take(&shift).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.Shift, error) {
	var shifts []domain.Shift
	err := db.WithContext(ctx).
		Where("shift_date >= ? AND shift_date <= ?", from, to).
		Order("sequence desc").
		Find(&shifts).Error
	return shifts, err
}

func (r *repo) CountForDate(ctx context.Context, db *gorm.DB, date time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Shift{}).
		Where("shift_date = ?", date).
		Count(&count).Error
	return count, err
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB) (int64, error) {
	var last int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(sequence), 0) FROM shifts`,
	).Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, shift *domain.Shift) error {
	return db.WithContext(ctx).
		Omit("Employees", "TankReadings", "PumpReadings", "Discrepancies").
		Save(shift).Error
}

func (r *repo) SetTankReadingClosing(ctx context.Context, db *gorm.DB, readingID snowflake.ID, value float64) error {
	return db.WithContext(ctx).
		Model(&domain.ShiftTankReading{}).
		Where("id = ?", readingID).
		Update("closing_reading", value).Error
}

func (r *repo) SetPumpReadingClosing(ctx context.Context, db *gorm.DB, readingID snowflake.ID, value float64) error {
	return db.WithContext(ctx).
		Model(&domain.ShiftPumpReading{}).
		Where("id = ?", readingID).
		Update("closing_reading", value).Error
}

func (r *repo) InsertDiscrepancy(ctx context.Context, db *gorm.DB, discrepancy *domain.Discrepancy) error {
	return db.WithContext(ctx).Create(discrepancy).Error
}

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/sale/domain"
	"gorm.io/gorm"
)

type repo struct{}

// Provide returns the gorm-backed sale reader/writer.
func Provide() domain.Reader {
	return &repo{}
}

// ProvideWriter exposes the same implementation as the insert-only side.
func ProvideWriter() domain.Writer {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) SumByShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (domain.ShiftTotals, error) {
	var totals domain.ShiftTotals
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0) AS total_amount,
		        COALESCE(SUM(quantity), 0) AS total_quantity,
		        COUNT(*) AS count
		 FROM sales WHERE shift_id = ?`,
		shiftID,
	).Scan(&totals).Error
	return totals, err
}

func (r *repo) SumByShiftAndMethod(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (map[domain.PaymentMethod]float64, error) {
	var rows []struct {
		PaymentMethod domain.PaymentMethod
		Amount        float64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT payment_method, COALESCE(SUM(total_amount), 0) AS amount
		 FROM sales WHERE shift_id = ?
		 GROUP BY payment_method`,
		shiftID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMethod := make(map[domain.PaymentMethod]float64, len(rows))
	for _, row := range rows {
		byMethod[row.PaymentMethod] = row.Amount
	}
	return byMethod, nil
}

func (r *repo) VolumeByNozzleForShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]domain.NozzleVolume, error) {
	var rows []domain.NozzleVolume
	err := db.WithContext(ctx).Raw(
		`SELECT pump_id, nozzle_id, COALESCE(SUM(quantity), 0) AS volume
		 FROM sales WHERE shift_id = ?
		 GROUP BY pump_id, nozzle_id`,
		shiftID,
	).Scan(&rows).Error
	return rows, err
}

func (r *repo) SumByNozzleInRange(ctx context.Context, db *gorm.DB, nozzleID snowflake.ID, from, to time.Time) (domain.RangeTotals, error) {
	var totals domain.RangeTotals
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(quantity), 0) AS volume,
		        COALESCE(SUM(total_amount), 0) AS amount
		 FROM sales
		 WHERE nozzle_id = ? AND sold_at >= ? AND sold_at <= ?`,
		nozzleID, from, to,
	).Scan(&totals).Error
	return totals, err
}

func (r *repo) SumVolumeByPumpInRange(ctx context.Context, db *gorm.DB, pumpID snowflake.ID, from, to time.Time) (float64, error) {
	var volume float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(quantity), 0)
		 FROM sales
		 WHERE pump_id = ? AND sold_at >= ? AND sold_at <= ?`,
		pumpID, from, to,
	).Scan(&volume).Error
	return volume, err
}

func (r *repo) SumVolumeByTankInRange(ctx context.Context, db *gorm.DB, tankID snowflake.ID, from, to time.Time) (float64, error) {
	var volume float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(s.quantity), 0)
		 FROM sales s
		 JOIN pumps p ON p.id = s.pump_id
		 WHERE p.tank_id = ? AND s.sold_at >= ? AND s.sold_at <= ?`,
		tankID, from, to,
	).Scan(&volume).Error
	return volume, err
}

func (r *repo) ListByShift(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("sold_at asc, id asc").
		Find(&sales).Error
	return sales, err
}

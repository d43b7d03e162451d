package repository

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/forecourt/internal/purchase/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Reader {
	return &repo{}
}

func ProvideWriter() domain.Writer {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, purchase *domain.Purchase) error {
	return db.WithContext(ctx).Create(purchase).Error
}

func (r *repo) SumReceivedByFuel(ctx context.Context, db *gorm.DB, fuelType string, from, to time.Time) (float64, error) {
	keyword := strings.ToLower(strings.TrimSpace(fuelType))

	var volume float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(pi.quantity), 0)
		 FROM purchase_items pi
		 JOIN purchases p ON p.id = pi.purchase_id
		 WHERE p.received_at >= ? AND p.received_at <= ?
		   AND (LOWER(pi.fuel_type) = ?
		        OR (COALESCE(pi.fuel_type, '') = '' AND LOWER(pi.item_name) LIKE ?))`,
		from, to, keyword, "%"+keyword+"%",
	).Scan(&volume).Error
	return volume, err
}

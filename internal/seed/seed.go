package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"gorm.io/gorm"
)

// EnsureDemoStation seeds a small two-tank, two-pump layout so a fresh
// install can record sales immediately. It is a no-op once any tank
// exists.
func EnsureDemoStation(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&tankdomain.Tank{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		tanks := []tankdomain.Tank{
			{
				ID:             node.Generate(),
				Name:           "Tank 1",
				FuelType:       tankdomain.FuelTypePetrol,
				CapacityLiters: 10000,
				CurrentLevel:   5000,
				MinimumLevel:   1000,
				Active:         true,
			},
			{
				ID:             node.Generate(),
				Name:           "Tank 2",
				FuelType:       tankdomain.FuelTypeDiesel,
				CapacityLiters: 10000,
				CurrentLevel:   5000,
				MinimumLevel:   1000,
				Active:         true,
			},
		}
		if err := tx.WithContext(ctx).Create(&tanks).Error; err != nil {
			return err
		}

		for i, tank := range tanks {
			pump := pumpdomain.Pump{
				ID:     node.Generate(),
				Name:   "Pump " + string(rune('A'+i)),
				TankID: tank.ID,
				Active: true,
				Nozzles: []pumpdomain.Nozzle{
					{
						ID:       node.Generate(),
						Position: 1,
						FuelType: tank.FuelType,
					},
					{
						ID:       node.Generate(),
						Position: 2,
						FuelType: tank.FuelType,
					},
				},
			}
			if err := tx.WithContext(ctx).Create(&pump).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

package migration

import (
	"github.com/smallbiznis/forecourt/internal/config"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	purchasedomain "github.com/smallbiznis/forecourt/internal/purchase/domain"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	"github.com/smallbiznis/forecourt/internal/seed"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.BootstrapDemoStation {
			return seed.EnsureDemoStation(conn)
		}
		return nil
	}),
)

// AutoMigrate builds the schema directly from the gorm models. Used
// for sqlite and mysql where the embedded postgres migrations do not
// apply.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&tankdomain.Tank{},
		&tankdomain.DipReading{},
		&pumpdomain.Pump{},
		&pumpdomain.Nozzle{},
		&saledomain.Sale{},
		&purchasedomain.Purchase{},
		&purchasedomain.PurchaseItem{},
		&shiftdomain.Shift{},
		&shiftdomain.ShiftEmployee{},
		&shiftdomain.ShiftTankReading{},
		&shiftdomain.ShiftPumpReading{},
		&shiftdomain.Discrepancy{},
	); err != nil {
		return err
	}

	// mysql has no partial indexes; there the single-active-shift rule
	// holds only through the service-level checks.
	if conn.Dialector.Name() != "mysql" {
		return conn.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_shifts_single_active ON shifts (status) WHERE status = 'active'`,
		).Error
	}
	return nil
}

package service

import (
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	purchasedomain "github.com/smallbiznis/forecourt/internal/purchase/domain"
	"github.com/smallbiznis/forecourt/internal/reconciliation/domain"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tolerances. Fuel variance is judged against tank capacity, nozzle
// variance against sold volume; daily reconciliation uses a fixed
// absolute band because a single day's figures are small enough for
// percentages to be noise.
const (
	fuelTolerancePctOfCapacity = 0.01
	pumpTolerancePctOfVolume   = 0.005
	dailyToleranceLiters       = 10.0
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	TankRepo       tankdomain.Repository
	PumpRepo       pumpdomain.Repository
	SaleReader     saledomain.Reader
	PurchaseReader purchasedomain.Reader
	Pricing        *config.PricingConfigHolder
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	clock          clock.Clock
	tankRepo       tankdomain.Repository
	pumpRepo       pumpdomain.Repository
	saleReader     saledomain.Reader
	purchaseReader purchasedomain.Reader
	pricing        *config.PricingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("reconciliation.service"),
		clock:          p.Clock,
		tankRepo:       p.TankRepo,
		pumpRepo:       p.PumpRepo,
		saleReader:     p.SaleReader,
		purchaseReader: p.PurchaseReader,
		pricing:        p.Pricing,
	}
}

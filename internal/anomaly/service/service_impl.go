package service

import (
	"context"
	"sort"
	"time"

	"github.com/smallbiznis/forecourt/internal/anomaly/domain"
	"github.com/smallbiznis/forecourt/internal/clock"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLookbackDays = 7
	maxLookbackDays     = 90

	// A drop of more than 10% of capacity inside an hour cannot be
	// normal dispensing.
	suddenDropPctOfCapacity = 0.10
	suddenDropWindow        = time.Hour

	// Metered sales get a 10% allowance before a drop counts as
	// unexplained.
	salesAllowanceFactor = 1.1
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	TankRepo   tankdomain.Repository
	SaleReader saledomain.Reader
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	tankRepo   tankdomain.Repository
	saleReader saledomain.Reader
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("anomaly.service"),
		clock:      p.Clock,
		tankRepo:   p.TankRepo,
		saleReader: p.SaleReader,
	}
}

// Detect scans each active tank's dip history over the lookback window
// and reports sudden drops, losses unexplained by sales, and tanks
// running under their minimum level. Findings are computed fresh on
// each call and ordered by severity, ties keeping discovery order.
func (s *Service) Detect(ctx context.Context, req domain.DetectRequest) ([]domain.Anomaly, error) {
	days := req.LookbackDays
	if days == 0 {
		days = defaultLookbackDays
	}
	if days < 0 || days > maxLookbackDays {
		return nil, domain.ErrInvalidLookback
	}

	now := s.clock.Now()
	windowStart := now.AddDate(0, 0, -days)

	tanks, err := s.tankRepo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var findings []domain.Anomaly
	for _, tank := range tanks {
		tankFindings, err := s.scanTank(ctx, tank, windowStart, now)
		if err != nil {
			return nil, err
		}
		findings = append(findings, tankFindings...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.MoreSevereThan(findings[j].Severity)
	})
	return findings, nil
}

func (s *Service) scanTank(ctx context.Context, tank tankdomain.Tank, from, to time.Time) ([]domain.Anomaly, error) {
	dips, err := s.tankRepo.ListDipsInRange(ctx, s.db, tank.ID, from, to)
	if err != nil {
		return nil, err
	}

	var findings []domain.Anomaly
	for i := 1; i < len(dips); i++ {
		prev, cur := dips[i-1], dips[i]
		drop := prev.Reading - cur.Reading
		if drop <= 0 {
			continue
		}
		interval := cur.RecordedAt.Sub(prev.RecordedAt)

		if drop > tank.CapacityLiters*suddenDropPctOfCapacity && interval < suddenDropWindow {
			findings = append(findings, domain.Anomaly{
				Type:              domain.TypeSuddenDrop,
				Severity:          domain.SeverityHigh,
				TankID:            tank.ID,
				TankName:          tank.Name,
				FuelType:          tank.FuelType,
				DetectedAt:        s.clock.Now(),
				WindowStart:       prev.RecordedAt,
				WindowEnd:         cur.RecordedAt,
				DropLiters:        drop,
				RecommendedAction: "Immediate investigation required",
			})
		}

		sold, err := s.saleReader.SumVolumeByTankInRange(ctx, s.db, tank.ID, prev.RecordedAt, cur.RecordedAt)
		if err != nil {
			return nil, err
		}
		if drop > sold*salesAllowanceFactor {
			findings = append(findings, domain.Anomaly{
				Type:              domain.TypeUnexplainedLoss,
				Severity:          domain.SeverityMedium,
				TankID:            tank.ID,
				TankName:          tank.Name,
				FuelType:          tank.FuelType,
				DetectedAt:        s.clock.Now(),
				WindowStart:       prev.RecordedAt,
				WindowEnd:         cur.RecordedAt,
				DropLiters:        drop,
				SoldLiters:        sold,
				DiscrepancyLiters: drop - sold,
				RecommendedAction: "Verify pump calibration and check for leaks",
			})
		}
	}

	if tank.CurrentLevel < tank.MinimumLevel {
		findings = append(findings, domain.Anomaly{
			Type:              domain.TypeLowStock,
			Severity:          domain.SeverityMedium,
			TankID:            tank.ID,
			TankName:          tank.Name,
			FuelType:          tank.FuelType,
			DetectedAt:        s.clock.Now(),
			CurrentLevel:      tank.CurrentLevel,
			MinimumLevel:      tank.MinimumLevel,
			DiscrepancyLiters: tank.MinimumLevel - tank.CurrentLevel,
			RecommendedAction: "Order fuel immediately",
		})
	}

	return findings, nil
}

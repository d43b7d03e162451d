package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	"github.com/smallbiznis/forecourt/internal/metrics"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	"github.com/smallbiznis/forecourt/internal/shift/domain"
	"github.com/smallbiznis/forecourt/internal/stationlock"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	pkgdb "github.com/smallbiznis/forecourt/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lockTTL bounds how long a crashed open/close can hold the station
// lock before it expires on its own.
const lockTTL = 30 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Cfg        config.Config
	Repo       domain.Repository
	TankRepo   tankdomain.Repository
	PumpRepo   pumpdomain.Repository
	SaleReader saledomain.Reader
	Locker     *stationlock.Locker `optional:"true"`
	Metrics    *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	cfg        config.Config
	repo       domain.Repository
	tankRepo   tankdomain.Repository
	pumpRepo   pumpdomain.Repository
	saleReader saledomain.Reader
	locker     *stationlock.Locker
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("shift.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		cfg:        p.Cfg,
		repo:       p.Repo,
		tankRepo:   p.TankRepo,
		pumpRepo:   p.PumpRepo,
		saleReader: p.SaleReader,
		locker:     p.Locker,
		metrics:    p.Metrics,
	}
}

// Open starts a new shift, snapshotting every active tank level and
// nozzle counter as the opening baseline. At most one shift may be
// active, and at most MaxShiftsPerDay may exist per calendar date.
func (s *Service) Open(ctx context.Context, req domain.OpenShiftRequest) (domain.Shift, error) {
	if req.OpeningCash < 0 {
		return domain.Shift{}, domain.ErrNegativeCash
	}

	employees := make([]snowflake.ID, 0, len(req.EmployeeIDs))
	for _, raw := range req.EmployeeIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			return domain.Shift{}, domain.ErrInvalidEmployee
		}
		employees = append(employees, id)
	}

	token, acquired, err := s.locker.TryLock(ctx, stationlock.LockKey, lockTTL)
	if err != nil {
		return domain.Shift{}, err
	}
	if !acquired {
		return domain.Shift{}, stationlock.ErrLockHeld
	}
	defer func() {
		if err := s.locker.Release(ctx, stationlock.LockKey, token); err != nil {
			s.log.Warn("station lock release failed", zap.Error(err))
		}
	}()

	active, err := s.repo.FindActive(ctx, s.db)
	if err != nil {
		return domain.Shift{}, err
	}
	if active != nil {
		return domain.Shift{}, domain.ErrActiveShiftExists
	}

	now := s.clock.Now()
	today := dateOf(now)
	count, err := s.repo.CountForDate(ctx, s.db, today)
	if err != nil {
		return domain.Shift{}, err
	}
	maxPerDay := s.cfg.MaxShiftsPerDay
	if maxPerDay <= 0 {
		maxPerDay = 2
	}
	if count >= int64(maxPerDay) {
		return domain.Shift{}, domain.ErrDailyShiftLimit
	}

	sequence, err := s.repo.NextSequence(ctx, s.db)
	if err != nil {
		return domain.Shift{}, err
	}

	tanks, err := s.tankRepo.ListActive(ctx, s.db)
	if err != nil {
		return domain.Shift{}, err
	}
	pumps, err := s.pumpRepo.ListActive(ctx, s.db)
	if err != nil {
		return domain.Shift{}, err
	}

	shift := domain.Shift{
		ID:          s.genID.Generate(),
		Sequence:    sequence,
		ShiftDate:   today,
		Status:      domain.StatusActive,
		StartTime:   now,
		OpeningCash: req.OpeningCash,
		Notes:       strings.TrimSpace(req.Notes),
	}
	for _, employee := range employees {
		shift.Employees = append(shift.Employees, domain.ShiftEmployee{
			ID:         s.genID.Generate(),
			ShiftID:    shift.ID,
			EmployeeID: employee,
		})
	}
	for _, tank := range tanks {
		shift.TankReadings = append(shift.TankReadings, domain.ShiftTankReading{
			ID:             s.genID.Generate(),
			ShiftID:        shift.ID,
			TankID:         tank.ID,
			OpeningReading: tank.CurrentLevel,
		})
	}
	for _, pump := range pumps {
		for _, nozzle := range pump.Nozzles {
			shift.PumpReadings = append(shift.PumpReadings, domain.ShiftPumpReading{
				ID:             s.genID.Generate(),
				ShiftID:        shift.ID,
				PumpID:         pump.ID,
				NozzleID:       nozzle.ID,
				OpeningReading: nozzle.CurrentReading,
			})
		}
	}

	if err := s.repo.Insert(ctx, s.db, &shift); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Shift{}, domain.ErrActiveShiftExists
		}
		return domain.Shift{}, err
	}

	if s.metrics != nil {
		s.metrics.ShiftsOpened.Inc()
	}
	s.log.Info("shift opened",
		zap.String("shift_id", shift.ID.String()),
		zap.Int64("sequence", shift.Sequence),
		zap.Int("tank_snapshots", len(shift.TankReadings)),
		zap.Int("nozzle_snapshots", len(shift.PumpReadings)),
	)
	return shift, nil
}

// Summary recomputes the sales aggregation for a shift and derives the
// closing readings the recorded sales imply. Read-only and idempotent.
func (s *Service) Summary(ctx context.Context, shiftID string) (domain.Summary, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return domain.Summary{}, err
	}

	agg, err := s.aggregateSales(ctx, shift.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		ShiftID:             shift.ID,
		Sequence:            shift.Sequence,
		Status:              shift.Status,
		TotalSales:          agg.totals.TotalAmount,
		TotalQuantity:       agg.totals.TotalQuantity,
		SalesCount:          agg.totals.Count,
		CashCollected:       agg.byMethod[saledomain.PaymentCash],
		CardPayments:        agg.byMethod[saledomain.PaymentCard],
		UpiPayments:         agg.byMethod[saledomain.PaymentUPI],
		CreditSales:         agg.byMethod[saledomain.PaymentCredit],
		OpeningCash:         shift.OpeningCash,
		ExpectedClosingCash: shift.OpeningCash + agg.byMethod[saledomain.PaymentCash],
	}

	for _, reading := range shift.PumpReadings {
		sold := agg.volumeByNozzle[reading.NozzleID]
		summary.PumpReadings = append(summary.PumpReadings, domain.ReadingExpectation{
			PumpID:          reading.PumpID,
			NozzleID:        reading.NozzleID,
			OpeningReading:  reading.OpeningReading,
			VolumeSold:      sold,
			ExpectedClosing: reading.OpeningReading + sold,
		})
	}
	for _, reading := range shift.TankReadings {
		sold := agg.volumeByTank[reading.TankID]
		summary.TankReadings = append(summary.TankReadings, domain.ReadingExpectation{
			TankID:          reading.TankID,
			OpeningReading:  reading.OpeningReading,
			VolumeSold:      sold,
			ExpectedClosing: reading.OpeningReading - sold,
		})
	}

	return summary, nil
}

func (s *Service) GetByID(ctx context.Context, shiftID string) (domain.Shift, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return domain.Shift{}, err
	}
	return *shift, nil
}

func (s *Service) Active(ctx context.Context) (*domain.Shift, error) {
	return s.repo.FindActive(ctx, s.db)
}

func (s *Service) findShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(shiftID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	shift, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	return shift, nil
}

type salesAggregate struct {
	totals         saledomain.ShiftTotals
	byMethod       map[saledomain.PaymentMethod]float64
	volumeByNozzle map[snowflake.ID]float64
	volumeByTank   map[snowflake.ID]float64
}

// aggregateSales is the single source of truth for a shift's totals.
// Stored totals are always overwritten with this result at close.
func (s *Service) aggregateSales(ctx context.Context, shiftID snowflake.ID) (salesAggregate, error) {
	agg := salesAggregate{
		volumeByNozzle: map[snowflake.ID]float64{},
		volumeByTank:   map[snowflake.ID]float64{},
	}

	totals, err := s.saleReader.SumByShift(ctx, s.db, shiftID)
	if err != nil {
		return agg, err
	}
	agg.totals = totals

	byMethod, err := s.saleReader.SumByShiftAndMethod(ctx, s.db, shiftID)
	if err != nil {
		return agg, err
	}
	agg.byMethod = byMethod

	volumes, err := s.saleReader.VolumeByNozzleForShift(ctx, s.db, shiftID)
	if err != nil {
		return agg, err
	}

	pumps, err := s.pumpRepo.ListAll(ctx, s.db)
	if err != nil {
		return agg, err
	}
	tankByPump := make(map[snowflake.ID]snowflake.ID, len(pumps))
	for _, pump := range pumps {
		tankByPump[pump.ID] = pump.TankID
	}

	for _, volume := range volumes {
		agg.volumeByNozzle[volume.NozzleID] += volume.Volume
		if tankID, ok := tankByPump[volume.PumpID]; ok {
			agg.volumeByTank[tankID] += volume.Volume
		}
	}

	return agg, nil
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	"github.com/smallbiznis/forecourt/internal/shift/domain"
	"github.com/smallbiznis/forecourt/internal/stationlock"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cashTolerance is the rounding threshold under which a cash gap is
// not worth a discrepancy record.
const cashTolerance = 0.01

// Close finalizes a shift. The shift document, its discrepancies and
// its snapshot closing values are persisted in one transaction; the
// propagation of closing values onto nozzles and tanks is best-effort
// per record afterwards, reported through CloseResult.Warnings. There
// is no cross-store transaction, so a failed close leaves whatever was
// persisted and requires manual reconciliation.
func (s *Service) Close(ctx context.Context, req domain.CloseShiftRequest) (domain.CloseResult, error) {
	// Reject malformed input before any mutation.
	if req.ClosingCash < 0 {
		return domain.CloseResult{}, domain.ErrNegativeCash
	}
	for _, reading := range req.PumpReadings {
		if reading.Reading < 0 {
			return domain.CloseResult{}, domain.ErrNegativeReading
		}
	}
	for _, reading := range req.TankReadings {
		if reading.Reading < 0 {
			return domain.CloseResult{}, domain.ErrNegativeReading
		}
	}
	var supervisorID *snowflake.ID
	if supervisor := strings.TrimSpace(req.SupervisorID); supervisor != "" {
		id, err := snowflake.ParseString(supervisor)
		if err != nil || id == 0 {
			return domain.CloseResult{}, domain.ErrInvalidSupervisor
		}
		supervisorID = &id
	}

	token, acquired, err := s.locker.TryLock(ctx, stationlock.LockKey, lockTTL)
	if err != nil {
		return domain.CloseResult{}, err
	}
	if !acquired {
		return domain.CloseResult{}, stationlock.ErrLockHeld
	}
	defer func() {
		if err := s.locker.Release(ctx, stationlock.LockKey, token); err != nil {
			s.log.Warn("station lock release failed", zap.Error(err))
		}
	}()

	shift, err := s.findShift(ctx, req.ShiftID)
	if err != nil {
		return domain.CloseResult{}, err
	}
	if !shift.Status.CanTransitionTo(domain.StatusClosed) {
		return domain.CloseResult{}, domain.ErrInvalidState
	}

	agg, err := s.aggregateSales(ctx, shift.ID)
	if err != nil {
		return domain.CloseResult{}, err
	}

	endTime := s.clock.Now()
	if req.EndTime != nil {
		endTime = req.EndTime.UTC()
	}

	shift.TotalSales = agg.totals.TotalAmount
	shift.TotalQuantity = agg.totals.TotalQuantity
	shift.SalesCount = agg.totals.Count
	shift.CashCollected = agg.byMethod[saledomain.PaymentCash]
	shift.CardPayments = agg.byMethod[saledomain.PaymentCard]
	shift.UpiPayments = agg.byMethod[saledomain.PaymentUPI]
	shift.CreditSales = agg.byMethod[saledomain.PaymentCredit]
	shift.Status = domain.StatusClosed
	shift.EndTime = &endTime
	closingCash := req.ClosingCash
	shift.ClosingCash = &closingCash
	shift.SupervisorID = supervisorID
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		shift.Notes = notes
	}

	expectedCash := shift.OpeningCash + shift.CashCollected
	cashDiscrepancy := req.ClosingCash - expectedCash

	var discrepancies []domain.Discrepancy
	if math.Abs(cashDiscrepancy) > cashTolerance {
		reason := "Cash surplus"
		if cashDiscrepancy < 0 {
			reason = "Cash shortage"
		}
		discrepancies = append(discrepancies, domain.Discrepancy{
			ID:        s.genID.Generate(),
			ShiftID:   shift.ID,
			Kind:      domain.DiscrepancyCash,
			Amount:    cashDiscrepancy,
			Reason:    reason,
			CreatedAt: endTime,
		})
	}

	// Index the opening snapshots so supplied closings can be matched.
	pumpSnapshots := make(map[snowflake.ID]*domain.ShiftPumpReading, len(shift.PumpReadings))
	for i := range shift.PumpReadings {
		pumpSnapshots[shift.PumpReadings[i].NozzleID] = &shift.PumpReadings[i]
	}
	tankSnapshots := make(map[snowflake.ID]*domain.ShiftTankReading, len(shift.TankReadings))
	for i := range shift.TankReadings {
		tankSnapshots[shift.TankReadings[i].TankID] = &shift.TankReadings[i]
	}

	var warnings []domain.SnapshotWarning

	// The shift document plus everything that lives in the shift store
	// commits atomically; this is the success criterion for close.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, shift); err != nil {
			return err
		}
		for _, discrepancy := range discrepancies {
			d := discrepancy
			if err := s.repo.InsertDiscrepancy(ctx, tx, &d); err != nil {
				return err
			}
		}
		for _, reading := range req.PumpReadings {
			nozzleID, err := snowflake.ParseString(strings.TrimSpace(reading.NozzleID))
			if err != nil || nozzleID == 0 {
				continue // reported as a warning below
			}
			snapshot, ok := pumpSnapshots[nozzleID]
			if !ok {
				continue
			}
			if err := s.repo.SetPumpReadingClosing(ctx, tx, snapshot.ID, reading.Reading); err != nil {
				return err
			}
			value := reading.Reading
			snapshot.ClosingReading = &value
		}
		for _, reading := range req.TankReadings {
			tankID, err := snowflake.ParseString(strings.TrimSpace(reading.TankID))
			if err != nil || tankID == 0 {
				continue
			}
			snapshot, ok := tankSnapshots[tankID]
			if !ok {
				continue
			}
			if err := s.repo.SetTankReadingClosing(ctx, tx, snapshot.ID, reading.Reading); err != nil {
				return err
			}
			value := reading.Reading
			snapshot.ClosingReading = &value
		}
		return nil
	})
	if err != nil {
		return domain.CloseResult{}, err
	}

	// Propagate closing values to the pump and tank stores record by
	// record. One failing nozzle must not block the rest; failures are
	// surfaced as warnings, never as a failed close.
	for _, reading := range req.PumpReadings {
		warning := s.propagateNozzle(ctx, shift, pumpSnapshots, reading)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
	}
	for _, reading := range req.TankReadings {
		warning := s.propagateTank(ctx, shift, tankSnapshots, reading)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
	}

	if s.metrics != nil {
		s.metrics.ShiftsClosed.Inc()
		for _, discrepancy := range discrepancies {
			s.metrics.Discrepancies.WithLabelValues(string(discrepancy.Kind)).Inc()
		}
		if len(warnings) > 0 {
			s.metrics.SnapshotFailures.Add(float64(len(warnings)))
		}
	}

	duration := endTime.Sub(shift.StartTime)
	discrepancyPct := 0.0
	if expectedCash != 0 {
		discrepancyPct = cashDiscrepancy / expectedCash * 100
	}

	result := domain.CloseResult{
		Shift:         *shift,
		Duration:      duration,
		TotalSales:    shift.TotalSales,
		TotalQuantity: shift.TotalQuantity,
		SalesCount:    shift.SalesCount,
		Payments: domain.PaymentBreakdown{
			Cash:   shift.CashCollected,
			Card:   shift.CardPayments,
			Upi:    shift.UpiPayments,
			Credit: shift.CreditSales,
		},
		CashFlow: domain.CashFlow{
			OpeningCash:    shift.OpeningCash,
			CashCollected:  shift.CashCollected,
			ExpectedCash:   expectedCash,
			ActualCash:     req.ClosingCash,
			Discrepancy:    cashDiscrepancy,
			DiscrepancyPct: discrepancyPct,
		},
		Discrepancies: discrepancies,
		Warnings:      warnings,
	}

	s.log.Info("shift closed",
		zap.String("shift_id", shift.ID.String()),
		zap.Int64("sequence", shift.Sequence),
		zap.Float64("total_sales", shift.TotalSales),
		zap.Float64("cash_discrepancy", cashDiscrepancy),
		zap.Int("warnings", len(warnings)),
	)
	return result, nil
}

func (s *Service) propagateNozzle(ctx context.Context, shift *domain.Shift, snapshots map[snowflake.ID]*domain.ShiftPumpReading, reading domain.NozzleClosing) *domain.SnapshotWarning {
	nozzleID, err := snowflake.ParseString(strings.TrimSpace(reading.NozzleID))
	if err != nil || nozzleID == 0 {
		return &domain.SnapshotWarning{Kind: "nozzle", RecordID: reading.NozzleID, Reason: "invalid nozzle id"}
	}
	snapshot, ok := snapshots[nozzleID]
	if !ok {
		return &domain.SnapshotWarning{Kind: "nozzle", RecordID: nozzleID.String(), Reason: "no opening snapshot for nozzle"}
	}
	if err := s.pumpRepo.SetNozzleCurrentReading(ctx, s.db, snapshot.PumpID, nozzleID, reading.Reading); err != nil {
		s.log.Warn("nozzle reading propagation failed",
			zap.String("shift_id", shift.ID.String()),
			zap.String("nozzle_id", nozzleID.String()),
			zap.Error(err),
		)
		return &domain.SnapshotWarning{Kind: "nozzle", RecordID: nozzleID.String(), Reason: err.Error()}
	}
	return nil
}

func (s *Service) propagateTank(ctx context.Context, shift *domain.Shift, snapshots map[snowflake.ID]*domain.ShiftTankReading, reading domain.TankClosing) *domain.SnapshotWarning {
	tankID, err := snowflake.ParseString(strings.TrimSpace(reading.TankID))
	if err != nil || tankID == 0 {
		return &domain.SnapshotWarning{Kind: "tank", RecordID: reading.TankID, Reason: "invalid tank id"}
	}
	if _, ok := snapshots[tankID]; !ok {
		return &domain.SnapshotWarning{Kind: "tank", RecordID: tankID.String(), Reason: "no opening snapshot for tank"}
	}

	shiftRef := shift.ID
	dip := tankdomain.DipReading{
		ID:         s.genID.Generate(),
		TankID:     tankID,
		Reading:    reading.Reading,
		RecordedAt: *shift.EndTime,
		ShiftID:    &shiftRef,
	}
	if err := s.tankRepo.AppendDipReading(ctx, s.db, &dip); err != nil {
		s.log.Warn("dip reading append failed",
			zap.String("shift_id", shift.ID.String()),
			zap.String("tank_id", tankID.String()),
			zap.Error(err),
		)
		return &domain.SnapshotWarning{Kind: "tank", RecordID: tankID.String(), Reason: err.Error()}
	}
	if err := s.tankRepo.SetCurrentLevel(ctx, s.db, tankID, reading.Reading); err != nil {
		s.log.Warn("tank level update failed",
			zap.String("shift_id", shift.ID.String()),
			zap.String("tank_id", tankID.String()),
			zap.Error(err),
		)
		return &domain.SnapshotWarning{Kind: "tank", RecordID: tankID.String(), Reason: err.Error()}
	}
	return nil
}

package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/reconciliation/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

// DailyReport reconciles one calendar day per tank. Tanks without a
// dip before the day or within it have nothing to reconcile and are
// skipped rather than reported as errors.
func (s *Service) DailyReport(ctx context.Context, req domain.DailyReportRequest) (domain.DailyReport, error) {
	day := req.Date.UTC()
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	tanks, err := s.tankRepo.ListActive(ctx, s.db)
	if err != nil {
		return domain.DailyReport{}, err
	}

	report := domain.DailyReport{Date: startOfDay}

	for _, tank := range tanks {
		openingDip, err := s.tankRepo.LatestDipBefore(ctx, s.db, tank.ID, startOfDay.Add(-time.Nanosecond))
		if err != nil {
			return domain.DailyReport{}, err
		}
		closingDip, err := s.latestDipWithin(ctx, tank.ID, startOfDay, endOfDay)
		if err != nil {
			return domain.DailyReport{}, err
		}
		if openingDip == nil || closingDip == nil {
			report.Skipped++
			continue
		}

		received, err := s.purchaseReader.SumReceivedByFuel(ctx, s.db, string(tank.FuelType), startOfDay, endOfDay)
		if err != nil {
			return domain.DailyReport{}, err
		}
		sold, err := s.saleReader.SumVolumeByTankInRange(ctx, s.db, tank.ID, startOfDay, endOfDay)
		if err != nil {
			return domain.DailyReport{}, err
		}

		expectedClosing := openingDip.Reading + received - sold
		difference := closingDip.Reading - expectedClosing

		row := domain.DailyTankRow{
			TankID:          tank.ID,
			TankName:        tank.Name,
			FuelType:        tank.FuelType,
			OpeningDip:      openingDip.Reading,
			OpeningDipAt:    openingDip.RecordedAt,
			ClosingDip:      closingDip.Reading,
			ClosingDipAt:    closingDip.RecordedAt,
			TotalReceived:   received,
			TotalSold:       sold,
			ExpectedClosing: expectedClosing,
			Difference:      difference,
			Status:          domain.StatusOK,
		}
		if math.Abs(difference) >= dailyToleranceLiters {
			if difference < 0 {
				row.Status = domain.StatusShortage
			} else {
				row.Status = domain.StatusOverage
			}
		}

		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func (s *Service) latestDipWithin(ctx context.Context, tankID snowflake.ID, from, to time.Time) (*tankdomain.DipReading, error) {
	dips, err := s.tankRepo.ListDipsInRange(ctx, s.db, tankID, from, to)
	if err != nil {
		return nil, err
	}
	if len(dips) == 0 {
		return nil, nil
	}
	return &dips[len(dips)-1], nil
}

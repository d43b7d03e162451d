package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/reconciliation/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

// FuelReport rebuilds book stock per tank over the date range and
// compares it with the physical closing dip. A variance beyond 1% of
// tank capacity is flagged; shortages suggest leakage or theft,
// overages a measurement error.
func (s *Service) FuelReport(ctx context.Context, req domain.FuelReportRequest) (domain.FuelReport, error) {
	if req.EndDate.Before(req.StartDate) {
		return domain.FuelReport{}, domain.ErrInvalidRange
	}

	tanks, err := s.tanksInScope(ctx, req.TankID)
	if err != nil {
		return domain.FuelReport{}, err
	}

	report := domain.FuelReport{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	pricing := s.pricing.Get()

	for _, tank := range tanks {
		openingStock := tank.CurrentLevel
		if dip, err := s.tankRepo.LatestDipBefore(ctx, s.db, tank.ID, req.StartDate); err != nil {
			return domain.FuelReport{}, err
		} else if dip != nil {
			openingStock = dip.Reading
		}

		closingStock := tank.CurrentLevel
		if dip, err := s.tankRepo.LatestDipBefore(ctx, s.db, tank.ID, req.EndDate); err != nil {
			return domain.FuelReport{}, err
		} else if dip != nil {
			closingStock = dip.Reading
		}

		received, err := s.purchaseReader.SumReceivedByFuel(ctx, s.db, string(tank.FuelType), req.StartDate, req.EndDate)
		if err != nil {
			return domain.FuelReport{}, err
		}
		sold, err := s.saleReader.SumVolumeByTankInRange(ctx, s.db, tank.ID, req.StartDate, req.EndDate)
		if err != nil {
			return domain.FuelReport{}, err
		}

		bookStock := openingStock + received - sold
		variance := closingStock - bookStock
		variancePct := 0.0
		if bookStock != 0 {
			variancePct = variance / bookStock * 100
		}

		row := domain.TankVariance{
			TankID:          tank.ID,
			TankName:        tank.Name,
			FuelType:        tank.FuelType,
			CapacityLiters:  tank.CapacityLiters,
			OpeningStock:    openingStock,
			ClosingStock:    closingStock,
			FuelReceived:    received,
			FuelSold:        sold,
			BookStock:       bookStock,
			Variance:        variance,
			VariancePct:     variancePct,
			Status:          domain.StatusOK,
			ValueOfVariance: math.Abs(variance) * pricing.PerLiterPrice(string(tank.FuelType)),
		}

		if math.Abs(variance) > tank.CapacityLiters*fuelTolerancePctOfCapacity {
			if variance < 0 {
				row.Status = domain.StatusShortage
				row.Reason = "possible leakage or theft"
			} else {
				row.Status = domain.StatusOverage
				row.Reason = "possible measurement error"
			}
		}

		switch row.Status {
		case domain.StatusOK:
			report.Summary.TanksOK++
		case domain.StatusShortage:
			report.Summary.TanksShortage++
		case domain.StatusOverage:
			report.Summary.TanksOverage++
		}
		report.Summary.TotalVarianceValue += row.ValueOfVariance

		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func (s *Service) tanksInScope(ctx context.Context, tankID string) ([]tankdomain.Tank, error) {
	if trimmed := strings.TrimSpace(tankID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidTank
		}
		tank, err := s.tankRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if tank == nil {
			return nil, tankdomain.ErrNotFound
		}
		return []tankdomain.Tank{*tank}, nil
	}
	return s.tankRepo.ListActive(ctx, s.db)
}

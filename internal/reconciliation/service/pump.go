package service

import (
	"context"
	"math"

	"github.com/smallbiznis/forecourt/internal/reconciliation/domain"
)

// PumpReport compares each nozzle's stored meter delta with the sales
// booked against it. The meter is the authoritative totalizer; a gap
// beyond 0.5% of the sold volume points at missed or duplicated sale
// entries, or a miscalibrated pump.
func (s *Service) PumpReport(ctx context.Context, req domain.PumpReportRequest) (domain.PumpReport, error) {
	if req.EndDate.Before(req.StartDate) {
		return domain.PumpReport{}, domain.ErrInvalidRange
	}

	pumps, err := s.pumpRepo.ListActive(ctx, s.db)
	if err != nil {
		return domain.PumpReport{}, err
	}

	report := domain.PumpReport{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	for _, pump := range pumps {
		for _, nozzle := range pump.Nozzles {
			totals, err := s.saleReader.SumByNozzleInRange(ctx, s.db, nozzle.ID, req.StartDate, req.EndDate)
			if err != nil {
				return domain.PumpReport{}, err
			}

			meterDifference := nozzle.ClosingReading - nozzle.OpeningReading
			volumeVariance := meterDifference - totals.Volume

			row := domain.NozzleVariance{
				PumpID:          pump.ID,
				PumpName:        pump.Name,
				NozzleID:        nozzle.ID,
				FuelType:        nozzle.FuelType,
				OpeningReading:  nozzle.OpeningReading,
				ClosingReading:  nozzle.ClosingReading,
				MeterDifference: meterDifference,
				SalesVolume:     totals.Volume,
				SalesAmount:     totals.Amount,
				VolumeVariance:  volumeVariance,
				Status:          domain.StatusOK,
			}
			if math.Abs(volumeVariance) > totals.Volume*pumpTolerancePctOfVolume {
				if volumeVariance < 0 {
					row.Status = domain.StatusShortage
				} else {
					row.Status = domain.StatusOverage
				}
			}

			if row.Status == domain.StatusOK {
				report.Summary.NozzlesOK++
			} else {
				report.Summary.NozzlesWithIssues++
			}

			report.Rows = append(report.Rows, row)
		}
	}

	return report, nil
}

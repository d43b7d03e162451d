package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

type VarianceStatus string

const (
	StatusOK       VarianceStatus = "OK"
	StatusShortage VarianceStatus = "Shortage"
	StatusOverage  VarianceStatus = "Overage"
)

// TankVariance is one row of the fuel reconciliation report: book
// stock rebuilt from opening dip + purchases − sales, compared against
// the physical closing dip.
type TankVariance struct {
	TankID          snowflake.ID        `json:"tank_id"`
	TankName        string              `json:"tank_name"`
	FuelType        tankdomain.FuelType `json:"fuel_type"`
	CapacityLiters  float64             `json:"capacity_liters"`
	OpeningStock    float64             `json:"opening_stock"`
	ClosingStock    float64             `json:"closing_stock"`
	FuelReceived    float64             `json:"fuel_received"`
	FuelSold        float64             `json:"fuel_sold"`
	BookStock       float64             `json:"book_stock"`
	Variance        float64             `json:"variance"`
	VariancePct     float64             `json:"variance_pct"`
	Status          VarianceStatus      `json:"status"`
	Reason          string              `json:"reason,omitempty"`
	ValueOfVariance float64             `json:"value_of_variance"`
}

type FuelReportSummary struct {
	TanksOK            int     `json:"tanks_ok"`
	TanksShortage      int     `json:"tanks_shortage"`
	TanksOverage       int     `json:"tanks_overage"`
	TotalVarianceValue float64 `json:"total_variance_value"`
}

type FuelReport struct {
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Rows      []TankVariance    `json:"rows"`
	Summary   FuelReportSummary `json:"summary"`
}

// DailyTankRow reconciles a single calendar day from the dip
// immediately preceding the day to the last dip within it.
type DailyTankRow struct {
	TankID          snowflake.ID        `json:"tank_id"`
	TankName        string              `json:"tank_name"`
	FuelType        tankdomain.FuelType `json:"fuel_type"`
	OpeningDip      float64             `json:"opening_dip"`
	OpeningDipAt    time.Time           `json:"opening_dip_at"`
	ClosingDip      float64             `json:"closing_dip"`
	ClosingDipAt    time.Time           `json:"closing_dip_at"`
	TotalReceived   float64             `json:"total_received"`
	TotalSold       float64             `json:"total_sold"`
	ExpectedClosing float64             `json:"expected_closing"`
	Difference      float64             `json:"difference"`
	Status          VarianceStatus      `json:"status"`
}

type DailyReport struct {
	Date    time.Time      `json:"date"`
	Rows    []DailyTankRow `json:"rows"`
	Skipped int            `json:"skipped"`
}

// NozzleVariance compares a nozzle's stored meter delta against the
// sales recorded for the same pump+nozzle in the period.
type NozzleVariance struct {
	PumpID          snowflake.ID        `json:"pump_id"`
	PumpName        string              `json:"pump_name"`
	NozzleID        snowflake.ID        `json:"nozzle_id"`
	FuelType        tankdomain.FuelType `json:"fuel_type"`
	OpeningReading  float64             `json:"opening_reading"`
	ClosingReading  float64             `json:"closing_reading"`
	MeterDifference float64             `json:"meter_difference"`
	SalesVolume     float64             `json:"sales_volume"`
	SalesAmount     float64             `json:"sales_amount"`
	VolumeVariance  float64             `json:"volume_variance"`
	Status          VarianceStatus      `json:"status"`
}

type PumpReportSummary struct {
	NozzlesOK         int `json:"nozzles_ok"`
	NozzlesWithIssues int `json:"nozzles_with_issues"`
}

type PumpReport struct {
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Rows      []NozzleVariance  `json:"rows"`
	Summary   PumpReportSummary `json:"summary"`
}

package domain

import (
	"context"
	"errors"
	"time"
)

type FuelReportRequest struct {
	StartDate time.Time
	EndDate   time.Time
	TankID    string // optional filter
}

type DailyReportRequest struct {
	Date time.Time
}

type PumpReportRequest struct {
	StartDate time.Time
	EndDate   time.Time
}

type Service interface {
	FuelReport(context.Context, FuelReportRequest) (FuelReport, error)
	DailyReport(context.Context, DailyReportRequest) (DailyReport, error)
	PumpReport(context.Context, PumpReportRequest) (PumpReport, error)
}

var (
	ErrInvalidRange = errors.New("invalid_report_range")
	ErrInvalidTank  = errors.New("invalid_report_tank")
)

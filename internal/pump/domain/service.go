package domain

import (
	"context"
	"errors"
)

type CreateNozzleRequest struct {
	FuelType       string
	OpeningReading float64
	AttendantID    string
}

type CreatePumpRequest struct {
	Name    string
	TankID  string
	Nozzles []CreateNozzleRequest
}

type GetPumpRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePumpRequest) (Pump, error)
	List(context.Context) ([]Pump, error)
	GetByID(context.Context, GetPumpRequest) (Pump, error)
}

var (
	ErrNotFound        = errors.New("pump_not_found")
	ErrNozzleNotFound  = errors.New("nozzle_not_found")
	ErrInvalidID       = errors.New("invalid_pump_id")
	ErrInvalidName     = errors.New("invalid_pump_name")
	ErrInvalidTank     = errors.New("invalid_pump_tank")
	ErrInvalidNozzles  = errors.New("invalid_pump_nozzles")
	ErrInvalidFuelType = errors.New("invalid_nozzle_fuel_type")
	ErrInvalidReading  = errors.New("invalid_meter_reading")
)

package domain

import (
	"context"
	"errors"
)

type CreateTankRequest struct {
	Name           string
	FuelType       string
	CapacityLiters float64
	CurrentLevel   float64
	MinimumLevel   float64
}

type GetTankRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateTankRequest) (Tank, error)
	List(context.Context) ([]Tank, error)
	GetByID(context.Context, GetTankRequest) (Tank, error)
}

var (
	ErrNotFound        = errors.New("tank_not_found")
	ErrInvalidID       = errors.New("invalid_tank_id")
	ErrInvalidName     = errors.New("invalid_tank_name")
	ErrInvalidFuelType = errors.New("invalid_fuel_type")
	ErrInvalidCapacity = errors.New("invalid_capacity")
	ErrInvalidLevel    = errors.New("invalid_level")
)

package domain

import (
	"context"
	"errors"
)

type RecordSaleRequest struct {
	ShiftID  string
	PumpID   string
	NozzleID string
	Quantity float64
	// UnitPrice overrides the posted per-liter rate. Zero means the
	// configured price for the nozzle's fuel applies.
	UnitPrice     float64
	PaymentMethod string
	EmployeeID    string
}

type Service interface {
	Record(context.Context, RecordSaleRequest) (Sale, error)
	ListByShift(ctx context.Context, shiftID string) ([]Sale, error)
}

var (
	ErrInvalidShift    = errors.New("invalid_sale_shift")
	ErrInvalidNozzle   = errors.New("invalid_sale_nozzle")
	ErrInvalidQuantity = errors.New("invalid_sale_quantity")
	ErrInvalidPrice    = errors.New("invalid_sale_price")
	ErrInvalidPayment  = errors.New("invalid_payment_method")
	ErrInvalidEmployee = errors.New("invalid_sale_employee")
)

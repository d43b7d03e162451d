package domain

import (
	"context"
	"errors"
	"time"
)

type RecordPurchaseItem struct {
	ItemName  string
	FuelType  string
	TankID    string
	Quantity  float64
	UnitPrice float64
}

type RecordPurchaseRequest struct {
	SupplierID string
	InvoiceNo  string
	ReceivedAt *time.Time
	Items      []RecordPurchaseItem
}

type Service interface {
	Record(context.Context, RecordPurchaseRequest) (Purchase, error)
}

var (
	ErrNoItems         = errors.New("purchase_has_no_items")
	ErrInvalidItem     = errors.New("invalid_purchase_item")
	ErrInvalidQuantity = errors.New("invalid_purchase_quantity")
	ErrInvalidSupplier = errors.New("invalid_purchase_supplier")
	ErrInvalidTank     = errors.New("invalid_purchase_tank")
)

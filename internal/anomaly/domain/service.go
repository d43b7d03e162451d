package domain

import (
	"context"
	"errors"
)

type DetectRequest struct {
	// LookbackDays bounds the dip history scanned. Zero means the
	// default window of seven days.
	LookbackDays int
}

type Service interface {
	Detect(context.Context, DetectRequest) ([]Anomaly, error)
}

var ErrInvalidLookback = errors.New("invalid_anomaly_lookback")

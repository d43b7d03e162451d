package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

type AnomalyType string

const (
	TypeSuddenDrop      AnomalyType = "Sudden Drop"
	TypeUnexplainedLoss AnomalyType = "Unexplained Loss"
	TypeLowStock        AnomalyType = "Low Stock Alert"
)

type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// rank orders severities for report sorting, highest first.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

func (s Severity) MoreSevereThan(other Severity) bool {
	return s.rank() < other.rank()
}

// Anomaly is a single finding from the detector. It is computed on
// demand from dip readings and sales history, never persisted.
type Anomaly struct {
	Type              AnomalyType         `json:"type"`
	Severity          Severity            `json:"severity"`
	TankID            snowflake.ID        `json:"tank_id"`
	TankName          string              `json:"tank_name"`
	FuelType          tankdomain.FuelType `json:"fuel_type"`
	DetectedAt        time.Time           `json:"detected_at"`
	WindowStart       time.Time           `json:"window_start,omitempty"`
	WindowEnd         time.Time           `json:"window_end,omitempty"`
	DropLiters        float64             `json:"drop_liters,omitempty"`
	SoldLiters        float64             `json:"sold_liters,omitempty"`
	DiscrepancyLiters float64             `json:"discrepancy_liters,omitempty"`
	CurrentLevel      float64             `json:"current_level,omitempty"`
	MinimumLevel      float64             `json:"minimum_level,omitempty"`
	RecommendedAction string              `json:"recommended_action"`
}

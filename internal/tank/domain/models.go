package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type FuelType string

const (
	FuelTypePetrol FuelType = "petrol"
	FuelTypeDiesel FuelType = "diesel"
	FuelTypeCNG    FuelType = "cng"
)

func ParseFuelType(value string) (FuelType, bool) {
	switch FuelType(strings.ToLower(strings.TrimSpace(value))) {
	case FuelTypePetrol:
		return FuelTypePetrol, true
	case FuelTypeDiesel:
		return FuelTypeDiesel, true
	case FuelTypeCNG:
		return FuelTypeCNG, true
	default:
		return "", false
	}
}

// Tank is an underground storage tank. CurrentLevel is advanced by
// purchase receipts and reset to the closing dip reading at shift close;
// shift close is the only writer of dip history.
type Tank struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	FuelType       FuelType     `gorm:"not null;index" json:"fuel_type"`
	CapacityLiters float64      `gorm:"not null" json:"capacity_liters"`
	CurrentLevel   float64      `gorm:"not null" json:"current_level"`
	MinimumLevel   float64      `gorm:"not null" json:"minimum_level"`
	Active         bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DipReading is one physical stick/gauge measurement of a tank.
type DipReading struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	TankID     snowflake.ID  `gorm:"not null;index:idx_dip_readings_tank_time" json:"tank_id"`
	Reading    float64       `gorm:"not null" json:"reading"`
	RecordedAt time.Time     `gorm:"not null;index:idx_dip_readings_tank_time" json:"recorded_at"`
	ShiftID    *snowflake.ID `gorm:"index" json:"shift_id,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

// Pump is a dispenser drawing from exactly one tank. The pump→tank link
// is the static lookup reconciliation uses to attribute sold volume.
type Pump struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	TankID    snowflake.ID `gorm:"not null;index" json:"tank_id"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	Nozzles   []Nozzle     `gorm:"foreignKey:PumpID" json:"nozzles"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Nozzle meter readings are cumulative liter counters. CurrentReading is
// written only by shift close and read as the next shift's opening value.
type Nozzle struct {
	ID             snowflake.ID        `gorm:"primaryKey" json:"id"`
	PumpID         snowflake.ID        `gorm:"not null;index" json:"pump_id"`
	Position       int                 `gorm:"not null" json:"position"`
	FuelType       tankdomain.FuelType `gorm:"not null" json:"fuel_type"`
	OpeningReading float64             `gorm:"not null" json:"opening_reading"`
	ClosingReading float64             `gorm:"not null" json:"closing_reading"`
	CurrentReading float64             `gorm:"not null" json:"current_reading"`
	AttendantID    *snowflake.ID       `json:"attendant_id,omitempty"`
	CreatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

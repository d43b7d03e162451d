package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time.Now so shift and reconciliation logic can be
// tested against a controllable clock.
type Clock interface {
	Now() time.Time
}

var Module = fx.Provide(NewSystemClock)

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

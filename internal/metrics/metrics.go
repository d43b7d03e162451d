package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

var Module = fx.Provide(New)

// Metrics holds the forecourt counters exported on /metrics.
type Metrics struct {
	ShiftsOpened     prometheus.Counter
	ShiftsClosed     prometheus.Counter
	Discrepancies    *prometheus.CounterVec
	SnapshotFailures prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ShiftsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_shifts_opened_total",
			Help: "Shifts opened since process start.",
		}),
		ShiftsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_shifts_closed_total",
			Help: "Shifts closed since process start.",
		}),
		Discrepancies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_shift_discrepancies_total",
			Help: "Discrepancies recorded at shift close, by kind.",
		}, []string{"kind"}),
		SnapshotFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_snapshot_propagation_failures_total",
			Help: "Per-record tank/nozzle propagation failures during shift close.",
		}),
	}
}

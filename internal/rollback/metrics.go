package rollback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments a Controller reports to.
// Built against an explicit prometheus.Registerer (rather than the
// global default registry) so each match/test can use its own and
// never collide with another's metric names.
type Metrics struct {
	Rollbacks     prometheus.Counter
	RollbackDepth prometheus.Histogram
	Desyncs       prometheus.Counter
	DroppedInputs prometheus.Counter
}

// NewMetrics registers and returns a fresh set of rollback metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "rollback_total",
			Help: "Total number of resimulations triggered by a mispredicted remote input",
		}),
		RollbackDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollback_depth_frames",
			Help:    "Number of frames resimulated per rollback",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		Desyncs: factory.NewCounter(prometheus.CounterOpts{
			Name: "rollback_desync_total",
			Help: "Total number of confirmed state hash mismatches against a peer",
		}),
		DroppedInputs: factory.NewCounter(prometheus.CounterOpts{
			Name: "rollback_dropped_input_total",
			Help: "Total number of remote inputs rejected for falling outside the rollback window",
		}),
	}
}

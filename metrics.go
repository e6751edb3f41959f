package plus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	solves       *prometheus.CounterVec
	nonConverged *prometheus.CounterVec
	newtonIters  prometheus.Histogram
	intervals    prometheus.Histogram
	pruneSteps   prometheus.Histogram
}

// newMetrics registers the solver collectors with reg. A nil reg leaves them
// unregistered, so they still count but are not exported.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plus_solves_total",
			Help: "Impulse solves by phase",
		}, []string{"phase"}),
		nonConverged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plus_nonconverged_total",
			Help: "Impulse solves that hit an iteration cap, by phase",
		}, []string{"phase"}),
		newtonIters: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plus_newton_iterations",
			Help:    "Newton iterations per solve, over all intervals",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		intervals: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plus_sliding_intervals",
			Help:    "Sliding intervals per solve",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		pruneSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plus_prune_steps",
			Help:    "Active-set changes per solve",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}
}

func (m *metrics) observe(phase int, res Result) {
	label := strconv.Itoa(phase)
	m.solves.WithLabelValues(label).Inc()
	if !res.Converged {
		m.nonConverged.WithLabelValues(label).Inc()
	}
	m.newtonIters.Observe(float64(res.NewtonIterations))
	m.intervals.Observe(float64(res.Intervals))
	m.pruneSteps.Observe(float64(res.PruneSteps))
}

package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageSingleSection = "single_section"
	stageMultiSection  = "multi_section"

	outcomeSkipped    = "skipped"
	outcomeConflict   = "conflict"
	outcomeUnbalanced = "unbalanced"
	outcomeAccepted   = "accepted"
)

// Metrics gathers search and refinement counters of the blockers
type Metrics struct {
	Combinations       *prometheus.CounterVec
	PinnedSubjects     prometheus.Gauge
	RefinementAttempts prometheus.Counter
	WorstSpread        prometheus.Gauge
	SearchDuration     *prometheus.HistogramVec
}

// NewMetrics registers the blocker metrics on the registerer; a private registry is used when it's nil
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)

	return &Metrics{
		// Labels: stage (single_section, multi_section), outcome (skipped, conflict, unbalanced, accepted)
		Combinations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blocker",
			Subsystem: "search",
			Name:      "combinations_total",
			Help:      "Block-set combinations visited by the feasibility search",
		}, []string{"stage", "outcome"}),

		PinnedSubjects: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "blocker",
			Subsystem: "prefilter",
			Name:      "pinned_subjects",
			Help:      "Single-section subjects pinned to a block by the prefilter",
		}),

		RefinementAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "blocker",
			Subsystem: "refinement",
			Name:      "attempts_total",
			Help:      "Allocation attempts made by the balance refiner",
		}),

		WorstSpread: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "blocker",
			Subsystem: "refinement",
			Name:      "worst_spread",
			Help:      "Largest class size spread of the last accepted timetable",
		}),

		// Labels: strategy (sampled, exact)
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blocker",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Time spent building a timetable",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		}, []string{"strategy"}),
	}
}

package observability

import (
	"context"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run collectors.
type Metrics struct {
	Runs         *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	SaveFailures *prometheus.CounterVec
}

// NewMetrics creates the run collectors and registers them on reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracebench_runs_total",
				Help: "Total number of fixture runs by outcome",
			},
			[]string{"fixture", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracebench_run_duration_seconds",
				Help:    "Duration of fixture runs",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"fixture"},
		),
		SaveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracebench_transcript_save_failures_total",
				Help: "Runs whose transcript could not be stored",
			},
			[]string{"fixture"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Duration, m.SaveFailures)
	}
	return m
}

// Hooks returns lifecycle hooks that record finished runs.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.Fixture, string(e.Outcome)).Inc()
			m.Duration.WithLabelValues(e.Fixture).Observe(e.Duration.Seconds())
			if e.SaveErr != nil {
				m.SaveFailures.WithLabelValues(e.Fixture).Inc()
			}
		},
	}
}

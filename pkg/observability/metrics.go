package observability

import (
	"net/http"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects engine activity as Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	Rescans       *prometheus.CounterVec
	Dirty         prometheus.Counter
	Regenerations *prometheus.CounterVec
	DroppedHunks  prometheus.Counter
	Damaged       prometheus.Counter
	Duration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Rescans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_rescans_total",
			Help: "Full document rescans by reason",
		}, []string{"reason"}),
		Dirty: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graft_blocks_dirty_total",
			Help: "Blocks marked dirty by a source edit",
		}),
		Regenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_regenerations_total",
			Help: "Block regenerations by outcome",
		}, []string{"outcome"}),
		DroppedHunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graft_merge_hunks_dropped_total",
			Help: "Manual edit hunks that could not be carried into fresh output",
		}),
		Damaged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graft_regions_damaged_total",
			Help: "Generated regions left untouched because their delimiters were broken",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graft_regeneration_duration_seconds",
			Help:    "Time spent compiling, merging and writing one block",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.Rescans, m.Dirty, m.Regenerations, m.DroppedHunks, m.Damaged, m.Duration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRescan: func(e *domain.RescanEvent) {
			m.Rescans.WithLabelValues(e.Reason).Inc()
		},
		OnBlockDirty: func(*domain.BlockEvent) {
			m.Dirty.Inc()
		},
		OnRegenerate: func(e *domain.BlockEvent) {
			m.Regenerations.WithLabelValues(string(e.Outcome)).Inc()
			m.DroppedHunks.Add(float64(e.FailedHunks))
			if e.Duration > 0 {
				m.Duration.Observe(e.Duration.Seconds())
			}
		},
		OnDamaged: func(*domain.BlockEvent) {
			m.Damaged.Inc()
		},
	}
}

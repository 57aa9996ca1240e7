package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors for batch scoring.
type Metrics struct {
	Registry       *prometheus.Registry
	ScoredTotal    *prometheus.CounterVec
	ScoreDuration  prometheus.Histogram
	CacheHitsTotal prometheus.Counter
	LoadErrors     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scored := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingscore_listings_scored_total",
			Help: "Total listings scored, by grade.",
		},
		[]string{"grade"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listingscore_score_duration_seconds",
			Help:    "Time spent scoring one listing.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listingscore_cache_hits_total",
			Help: "Results served from the content-hash cache.",
		},
	)
	loadErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingscore_load_errors_total",
			Help: "Listings that could not be loaded, by reason.",
		},
		[]string{"reason"},
	)

	registry.MustRegister(scored, duration, cacheHits, loadErrors)

	return &Metrics{
		Registry:       registry,
		ScoredTotal:    scored,
		ScoreDuration:  duration,
		CacheHitsTotal: cacheHits,
		LoadErrors:     loadErrors,
	}
}

// IncScored counts one scored listing.
func (m *Metrics) IncScored(grade string) {
	if m == nil {
		return
	}
	m.ScoredTotal.WithLabelValues(grade).Inc()
}

// ObserveDuration records how long one score took.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScoreDuration.Observe(d.Seconds())
}

// IncCacheHit counts a cached result.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncLoadError counts a listing that failed to load.
func (m *Metrics) IncLoadError(reason string) {
	if m == nil {
		return
	}
	m.LoadErrors.WithLabelValues(reason).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

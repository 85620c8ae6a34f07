package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PersistDuration records how long a full collection snapshot write takes.
	PersistDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_store_persist_duration_seconds",
		Help:    "Duration of snapshot writes in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})

	// PersistFailures counts snapshot writes that failed and were rolled back.
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_store_persist_failures_total",
		Help: "Total number of failed snapshot writes",
	}, []string{"collection"})

	// StoreEntities is the number of live entities per collection.
	StoreEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blog_store_entities",
		Help: "Number of live entities per collection",
	}, []string{"collection"})
)

// StoreMetrics records persistence metrics for one collection.
type StoreMetrics struct {
	collection string
}

// NewStoreMetrics returns a new StoreMetrics instance.
func NewStoreMetrics(collection string) *StoreMetrics {
	return &StoreMetrics{collection: collection}
}

// TrackPersist returns a function that records write latency when called (e.g. defer).
func (m *StoreMetrics) TrackPersist() func() {
	start := time.Now()
	return func() {
		PersistDuration.WithLabelValues(m.collection).Observe(time.Since(start).Seconds())
	}
}

// RecordFailure increments the failure counter.
func (m *StoreMetrics) RecordFailure() {
	PersistFailures.WithLabelValues(m.collection).Inc()
}

// SetCount updates the live entity gauge.
func (m *StoreMetrics) SetCount(n int) {
	StoreEntities.WithLabelValues(m.collection).Set(float64(n))
}

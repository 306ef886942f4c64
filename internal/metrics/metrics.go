// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 3e4f5a6b-7c8d-9e0f-1a2b-3c4d5e6f7a8b

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	ingestStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "ingests_started_total",
		Help:      "Total number of ingestions started by source",
	}, []string{"source"})
	ingestCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "ingests_completed_total",
		Help:      "Total number of ingestions successfully completed by source",
	}, []string{"source"})
	ingestFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "ingests_failed_total",
		Help:      "Total number of ingestions failed by source",
	}, []string{"source"})
	ingestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ebook_library",
		Name:      "ingest_duration_seconds",
		Help:      "Histogram of ingestion durations in seconds by source",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several seconds/minutes
	}, []string{"source"})

	enrichmentSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "enrichments_skipped_total",
		Help:      "Total number of ingestions that skipped external enrichment",
	})
	lookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "openlibrary_lookup_failures_total",
		Help:      "Total number of failed Open Library lookups",
	})
	coverFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ebook_library",
		Name:      "cover_processing_failures_total",
		Help:      "Total number of cover images that failed to normalize",
	})

	booksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ebook_library",
		Name:      "books_total",
		Help:      "Current total number of books in the library",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ingestStarted, ingestCompleted, ingestFailed, ingestDuration,
			enrichmentSkipped, lookupFailures, coverFailures, booksGauge)
	})
}

// Ingestion lifecycle helpers
func IncIngestStarted(source string)   { ingestStarted.WithLabelValues(source).Inc() }
func IncIngestCompleted(source string) { ingestCompleted.WithLabelValues(source).Inc() }
func IncIngestFailed(source string)    { ingestFailed.WithLabelValues(source).Inc() }
func ObserveIngestDuration(source string, d time.Duration) {
	ingestDuration.WithLabelValues(source).Observe(d.Seconds())
}

func IncEnrichmentSkipped() { enrichmentSkipped.Inc() }
func IncLookupFailure()     { lookupFailures.Inc() }
func IncCoverFailure()      { coverFailures.Inc() }

// Gauges
func SetBooks(n int) { booksGauge.Set(float64(n)) }

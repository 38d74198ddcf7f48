package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the social metadata collectors. A nil *Metrics records nothing.
type Metrics struct {
	PageFetches    *prometheus.CounterVec
	RecordsSkipped *prometheus.CounterVec
	Entries        prometheus.Gauge
	FetchDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PageFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "social_metadata_page_fetches_total",
				Help: "Metadata page fetches by result status",
			},
			[]string{"status"},
		),
		RecordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "social_metadata_records_skipped_total",
				Help: "Raw records dropped by the parse stage, by reason",
			},
			[]string{"reason"},
		),
		Entries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "social_metadata_entries",
				Help: "Entries produced by the last completed fetch",
			},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "social_metadata_fetch_seconds",
				Help:    "Duration of full fetch-and-parse cycles",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) PageFetched(status string) {
	if m == nil {
		return
	}
	m.PageFetches.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.RecordsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) FetchCompleted(outcome string, entries int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Entries.Set(float64(entries))
	m.FetchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

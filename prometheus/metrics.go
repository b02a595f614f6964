// Package prometheus records newsdigest metrics and serves them over HTTP.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsdigest"

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeRejected    = "rejected"
	OutcomePlaceholder = "placeholder"
	OutcomeUnchanged   = "unchanged"
)

// Metrics holds the collectors shared by the decorators in this package.
type Metrics struct {
	AcquisitionsTotal   *prometheus.CounterVec
	AcquisitionDuration *prometheus.HistogramVec
	DigestsTotal        *prometheus.CounterVec
	PlaceholdersTotal   *prometheus.CounterVec
	CompletionsTotal    *prometheus.CounterVec
	CompletionDuration  prometheus.Histogram
	ContentLength       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AcquisitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisitions_total",
			Help:      "Page acquisitions by tier and outcome.",
		}, []string{"method", "outcome"}),
		AcquisitionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "acquisition_duration_seconds",
			Help:      "Time spent acquiring a page.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"method"}),
		DigestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_total",
			Help:      "Pipeline runs by flow and outcome.",
		}, []string{"flow", "outcome"}),
		PlaceholdersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholders_total",
			Help:      "Placeholder digests by placeholder title.",
		}, []string{"title"}),
		CompletionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Model calls by outcome.",
		}, []string{"outcome"}),
		CompletionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Time spent waiting for the model.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		ContentLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_length_chars",
			Help:      "Length of extracted article text.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

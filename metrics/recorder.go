// Package metrics exports Prometheus metrics for study actions, capability
// calls, rendered documents and inbox processing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "studyflash"

	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder owns a registry and the collectors registered on it. A nil
// Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	actions           *prometheus.CounterVec
	capabilityLatency *prometheus.HistogramVec
	documentPages     prometheus.Histogram
	inboxFiles        *prometheus.CounterVec
}

// NewRecorder registers the collectors on registry, or on a fresh registry
// when registry is nil.
func NewRecorder(registry *prometheus.Registry) *Recorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{
		registry: registry,
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Total number of handled study actions",
			},
			[]string{"action", "status"},
		),
		capabilityLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "capability",
				Name:      "latency_seconds",
				Help:      "Latency of summarization and question generation calls in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"capability", "provider", "status"},
		),
		documentPages: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "pages",
				Help:      "Number of pages in rendered flashcard documents",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
		),
		inboxFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inbox",
				Name:      "files_total",
				Help:      "Total number of inbox files processed",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		r.actions,
		r.capabilityLatency,
		r.documentPages,
		r.inboxFiles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveAction(action string, err error) {
	if r == nil {
		return
	}
	r.actions.WithLabelValues(action, status(err)).Inc()
}

func (r *Recorder) ObserveCapability(capability, provider string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.capabilityLatency.WithLabelValues(capability, provider, status(err)).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveDocument(pages int) {
	if r == nil {
		return
	}
	r.documentPages.Observe(float64(pages))
}

func (r *Recorder) ObserveInboxFile(err error) {
	if r == nil {
		return
	}
	r.inboxFiles.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

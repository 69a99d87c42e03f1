// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AnswerStreamDuration tracks end-to-end answer generation duration.
	AnswerStreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "answer_stream_duration_seconds",
			Help:    "Answer streaming duration from request to terminal event",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"status"},
	)

	// AnswerFragmentsTotal tracks streamed answer fragments.
	AnswerFragmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "answer_fragments_total",
			Help: "Total answer fragments written to response streams",
		},
	)

	// StreamsActive tracks currently open response streams.
	StreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "answer_streams_active",
			Help: "Number of response streams currently open",
		},
	)

	// RetrievalDuration tracks vector index search duration.
	RetrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retrieval_duration_seconds",
			Help:    "Vector index similarity search duration",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// FeedbackTotal tracks feedback events by value.
	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_total",
			Help: "Total feedback events received",
		},
		[]string{"value"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAnswerStream records metrics for one streamed answer.
func RecordAnswerStream(status string, duration float64) {
	AnswerStreamDuration.WithLabelValues(status).Observe(duration)
}

// IncrementStreams increments the active stream count.
func IncrementStreams() {
	StreamsActive.Inc()
}

// DecrementStreams decrements the active stream count.
func DecrementStreams() {
	StreamsActive.Dec()
}

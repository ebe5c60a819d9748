package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsProcessed *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	passDuration     prometheus.Histogram
	runningCapital   *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrack_signals_processed_total",
				Help: "Total number of signals handled per window and outcome",
			},
			[]string{"window", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrack_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		passDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "captrack_scheduler_pass_duration_seconds",
				Help:    "Duration of a full scheduler pass over all users",
				Buckets: prometheus.DefBuckets,
			},
		),
		runningCapital: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "captrack_running_capital",
				Help: "Last recorded running capital per user",
			},
			[]string{"user_id"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "captrack_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignalProcessed records a signal outcome for a window pass.
func (r *Recorder) RecordSignalProcessed(window, outcome string) {
	r.signalsProcessed.WithLabelValues(window, outcome).Inc()
}

// RecordSchedulerPass records the duration of a scheduler pass.
func (r *Recorder) RecordSchedulerPass(seconds float64) {
	r.passDuration.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRunningCapital records a user's running capital after a trade.
func (r *Recorder) RecordRunningCapital(userID int64, capital float64) {
	r.runningCapital.WithLabelValues(strconv.FormatInt(userID, 10)).Set(capital)
}

// RecordLatency records the duration of an operation.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

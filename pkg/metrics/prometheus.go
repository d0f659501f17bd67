package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	chartsComputed *prometheus.CounterVec
	bodiesSkipped  *prometheus.CounterVec
	eventsSent     *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// New returns the process-wide Prometheus recorder. Collectors are
// registered on first use only.
func New() *Recorder {
	recorderOnce.Do(func() {
		recorder = &Recorder{
			chartsComputed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "natal_charts_computed_total",
					Help: "Total number of natal charts computed",
				},
				[]string{"house_system"},
			),
			bodiesSkipped: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "natal_bodies_skipped_total",
					Help: "Bodies left out of a chart because the ephemeris failed for them",
				},
				[]string{"body"},
			),
			eventsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "natal_events_sent_total",
					Help: "Chart events delivered to the archive backend",
				},
				[]string{"backend"},
			),
			errorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "natal_errors_total",
					Help: "Total number of errors encountered",
				},
				[]string{"type"},
			),
			latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "natal_operation_duration_seconds",
					Help:    "Duration of operations in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"operation"},
			),
		}
	})
	return recorder
}

func (r *Recorder) RecordChartComputed(houseSystem string) {
	r.chartsComputed.WithLabelValues(houseSystem).Inc()
}

func (r *Recorder) RecordBodySkipped(body string) {
	r.bodiesSkipped.WithLabelValues(body).Inc()
}

func (r *Recorder) RecordEventSent(backend string) {
	r.eventsSent.WithLabelValues(backend).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordChartComputed(string) {}
func (Nop) RecordBodySkipped(string) {}
func (Nop) RecordEventSent(string) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}

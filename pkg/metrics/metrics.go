// Package metrics provides Prometheus-based metrics recording for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Order outcomes recorded by RecordOrder.
const (
	OutcomeSubmitted = "submitted"
	OutcomeFailed    = "failed"
)

// Recorder records conversation and order metrics. A nil *Recorder is valid
// and records nothing, so tests can wire components without a registry.
type Recorder struct {
	eventsTotal       *prometheus.CounterVec
	rejectionsTotal   *prometheus.CounterVec
	ordersTotal       *prometheus.CounterVec
	promptDeleteFails prometheus.Counter
	handleDuration    *prometheus.HistogramVec
}

// NewRecorder creates a recorder registered on the default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanbot_events_total",
				Help: "Total inbound conversation events by kind and wizard step",
			},
			[]string{"kind", "step"},
		),
		rejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanbot_validation_rejections_total",
				Help: "Total validation rejections by reason key",
			},
			[]string{"reason"},
		),
		ordersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanbot_orders_total",
				Help: "Total order submissions by service category and outcome",
			},
			[]string{"category", "outcome"},
		),
		promptDeleteFails: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cleanbot_prompt_delete_failures_total",
				Help: "Total best-effort prompt deletions that failed",
			},
		),
		handleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cleanbot_event_handle_duration_seconds",
				Help:    "Duration of controller event handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
	}
}

// RecordEvent counts one inbound event at a wizard step.
func (r *Recorder) RecordEvent(kind, step string) {
	if r == nil {
		return
	}
	r.eventsTotal.WithLabelValues(kind, step).Inc()
}

// RecordRejection counts one validation rejection.
func (r *Recorder) RecordRejection(reason string) {
	if r == nil {
		return
	}
	r.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordOrder counts one order submission attempt.
func (r *Recorder) RecordOrder(category, outcome string) {
	if r == nil {
		return
	}
	r.ordersTotal.WithLabelValues(category, outcome).Inc()
}

// RecordPromptDeleteFailure counts one failed best-effort deletion.
func (r *Recorder) RecordPromptDeleteFailure() {
	if r == nil {
		return
	}
	r.promptDeleteFails.Inc()
}

// RecordHandleDuration records how long one event took to process.
func (r *Recorder) RecordHandleDuration(step string, d time.Duration) {
	if r == nil {
		return
	}
	r.handleDuration.WithLabelValues(step).Observe(d.Seconds())
}

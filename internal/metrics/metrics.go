// Package metrics provides Prometheus metrics for the selection engine:
// run outcomes, per-slot fills and failures, and capability latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slotcurator"

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "total",
			Help:      "Selection runs by terminal outcome (persisted, partial, failed)",
		},
		[]string{"variant", "outcome"},
	)

	SlotsFilledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slots",
			Name:      "filled_total",
			Help:      "Slots committed with a validated pick",
		},
		[]string{"slot"},
	)

	SlotFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slots",
			Name:      "failures_total",
			Help:      "Slot failures by slot number and reason",
		},
		[]string{"slot", "reason"},
	)

	CapabilityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "capability",
			Name:      "call_duration_seconds",
			Help:      "External capability call duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"capability"},
	)
)

// ObserveRun records the terminal outcome of one run.
func ObserveRun(variant, outcome string) {
	RunsTotal.WithLabelValues(variant, outcome).Inc()
}

// ObserveSlotFilled records one committed slot pick.
func ObserveSlotFilled(slot string) {
	SlotsFilledTotal.WithLabelValues(slot).Inc()
}

// ObserveSlotFailure records one failed slot with its reason.
func ObserveSlotFailure(slot, reason string) {
	SlotFailuresTotal.WithLabelValues(slot, reason).Inc()
}

// ObserveCapability records the duration of one external capability call.
func ObserveCapability(capability string, d time.Duration) {
	CapabilityDuration.WithLabelValues(capability).Observe(d.Seconds())
}

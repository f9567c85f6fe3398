package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quicktutor",
			Name:      "booking_created_total",
			Help:      "Count of booking requests created by students.",
		},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quicktutor",
			Name:      "booking_transition_total",
			Help:      "Count of booking lifecycle transitions by operation.",
		},
		[]string{"operation"},
	)

	bookingConflict = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quicktutor",
			Name:      "booking_conflict_total",
			Help:      "Count of lifecycle operations rejected by a stale precondition.",
		},
		[]string{"operation"},
	)

	sideEffectFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quicktutor",
			Name:      "side_effect_failed_total",
			Help:      "Count of best-effort side effects (system message, notification, feed publish) that failed.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingTransition, bookingConflict, sideEffectFailed)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingTransition(operation string) {
	bookingTransition.WithLabelValues(operation).Inc()
}

func IncBookingConflict(operation string) {
	bookingConflict.WithLabelValues(operation).Inc()
}

func IncSideEffectFailed(kind string) {
	sideEffectFailed.WithLabelValues(kind).Inc()
}

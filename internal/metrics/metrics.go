package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scheduler"

var (
	once sync.Once

	availabilityRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_requests_total",
			Help:      "Availability queries by result (ok, closed, cached, error).",
		},
		[]string{"result"},
	)

	slotsReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_returned_total",
			Help:      "Slots returned by availability queries.",
		},
	)

	availabilitySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_compute_seconds",
			Help:      "Time spent loading a day and computing its slots.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations inserted.",
		},
	)

	reservationConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Write attempts rejected as conflicts, by stage (eligibility, overlap, constraint).",
		},
		[]string{"stage"},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Reservation status changes by action.",
		},
		[]string{"action"},
	)

	diagnostics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_diagnostics_total",
			Help:      "Stored rows skipped while building a day, by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			availabilityRequests,
			slotsReturned,
			availabilitySeconds,
			reservationsCreated,
			reservationConflicts,
			reservationTransitions,
			diagnostics,
		)
	})
}

func IncAvailability(result string) {
	availabilityRequests.WithLabelValues(result).Inc()
}

func AddSlots(n int) {
	slotsReturned.Add(float64(n))
}

func ObserveAvailability(seconds float64) {
	availabilitySeconds.Observe(seconds)
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncConflict(stage string) {
	reservationConflicts.WithLabelValues(stage).Inc()
}

func IncTransition(action string) {
	reservationTransitions.WithLabelValues(action).Inc()
}

func IncDiagnostic(kind string) {
	diagnostics.WithLabelValues(kind).Inc()
}

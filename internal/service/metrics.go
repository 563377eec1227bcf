package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes, used as the outcome label.
const (
	outcomeRedirect  = "redirect"
	outcomeCompleted = "completed"
	outcomeConflict  = "conflict"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
)

// Metrics counts booking submissions.
type Metrics struct {
	submissions   *prometheus.CounterVec
	priceChanges  prometheus.Counter
	publishFailed prometheus.Counter
}

// NewMetrics registers the booking counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_submissions_total",
			Help: "Booking submissions by outcome.",
		}, []string{"outcome"}),
		priceChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_price_changes_total",
			Help: "Submissions whose food prices moved since the customer was quoted.",
		}),
		publishFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_event_publish_failures_total",
			Help: "booking.created events that could not be published.",
		}),
	}
}

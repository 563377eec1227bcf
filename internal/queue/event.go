// Package queue defines the booking events exchanged over RabbitMQ and the
// consumer that records them in the audit trail.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// BookingCreatedQueue is the durable queue booking events are published to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after the booking API accepted a booking,
// whether it answered with a record or with a payment gateway redirect. It
// carries enough of the selection for the audit trail to be read without
// calling the API.
type BookingCreatedEvent struct {
	EventID       string   `json:"event_id"`
	BookingID     int64    `json:"booking_id,omitempty"` // zero when the API redirected to a gateway
	UserID        string   `json:"user_id"`
	ShowtimeID    int64    `json:"showtime_id"`
	MovieTitle    string   `json:"movie_title"`
	TheaterName   string   `json:"theater_name"`
	Showtime      string   `json:"showtime"`
	Date          string   `json:"date"`
	Seats         []string `json:"seats"`
	FoodItems     int      `json:"food_items"` // total quantity across food lines
	TotalAmount   int64    `json:"total_amount"`
	PaymentMethod string   `json:"payment_method"`
	Redirected    bool     `json:"redirected"`
	CreatedAt     string   `json:"created_at"` // RFC 3339, UTC
}

// NewBookingCreatedEvent stamps a fresh event id and creation time.
func NewBookingCreatedEvent(now time.Time) BookingCreatedEvent {
	return BookingCreatedEvent{
		EventID:   uuid.NewString(),
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}

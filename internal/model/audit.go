package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// BookingAudit is one row of the booking_audit table: a local record of a
// booking submitted through this server.
type BookingAudit struct {
	ID            int64     `db:"id" json:"id"`
	EventID       string    `db:"event_id" json:"eventId"`
	BookingID     int64     `db:"booking_id" json:"bookingId,omitempty"`
	UserID        string    `db:"user_id" json:"userId"`
	ShowtimeID    int64     `db:"showtime_id" json:"showtimeId"`
	MovieTitle    string    `db:"movie_title" json:"movieTitle"`
	TheaterName   string    `db:"theater_name" json:"theaterName"`
	Showtime      string    `db:"showtime" json:"showtime"`
	ShowDate      string    `db:"show_date" json:"date"`
	Seats         SeatNames `db:"seats" json:"seats"`
	FoodItems     int       `db:"food_items" json:"foodItems"`
	TotalAmount   int64     `db:"total_amount" json:"totalAmount"`
	PaymentMethod string    `db:"payment_method" json:"paymentMethod"`
	Redirected    bool      `db:"redirected" json:"redirected"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// SeatNames is stored as a JSON array so names containing commas survive.
type SeatNames []string

// Value implements driver.Valuer.
func (s SeatNames) Value() (driver.Value, error) {
	if s == nil {
		s = SeatNames{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SeatNames) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("seat names: unsupported type %T", src)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return fmt.Errorf("seat names: %w", err)
	}
	*s = names
	return nil
}

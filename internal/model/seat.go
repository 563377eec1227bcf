package model

// Seat describes a seat of a showtime as reported by the booking API. Name
// is the row label followed by the seat number (e.g. "A1") and is what the
// booking flow carries in the URL. Price is in whole VND.
type Seat struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`   // STANDARD, VIP, COUPLE
	Price  int64  `json:"price"`            // ticket price for this showtime
	Status string `json:"status,omitempty"` // AVAILABLE, BOOKED
}

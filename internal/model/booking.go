package model

// Booking is a booking record returned by the booking API when it does not
// hand off to a payment gateway.
//
// Fields:
//
//	ID            – booking identifier.
//	UserID        – customer who made the booking.
//	ShowtimeID    – showtime being booked.
//	BookingTime   – local timestamp formatted as BookingTimeLayout.
//	Status        – PENDING, CONFIRMED or CANCELLED.
//	TotalAmount   – ticket plus food total in VND.
//	PaymentMethod – method chosen at checkout.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        string        `json:"userId"`
	ShowtimeID    int64         `json:"showtimeId"`
	BookingTime   string        `json:"bookingTime"`
	Status        string        `json:"status"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Seats         []BookingSeat `json:"seats,omitempty"`
	Food          []BookingFood `json:"food,omitempty"`
}

// Booking statuses known to the booking API.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// BookingTimeLayout is the timestamp format the booking API expects.
const BookingTimeLayout = "2006-01-02T15:04:05"

// BookingRequest is the payload of POST /bookings. Seats are identified by
// their name, which is what the wizard carries between steps.
type BookingRequest struct {
	UserID      string        `json:"userId" validate:"required"`
	ShowtimeID  int64         `json:"showtimeId" validate:"required,gt=0"`
	BookingTime string        `json:"bookingTime" validate:"required"`
	Status      string        `json:"status" validate:"required"`
	TotalAmount int64         `json:"totalAmount" validate:"gte=0"`
	Seats       []BookingSeat `json:"seats" validate:"required,min=1,dive"`
	Food        []BookingFood `json:"food" validate:"dive"`
}

// BookingSeat is one seat line of a booking.
type BookingSeat struct {
	SeatID string `json:"seatId" validate:"required"`
	Price  int64  `json:"price" validate:"gte=0"`
}

// BookingFood is one food line of a booking. Price is the unit price.
type BookingFood struct {
	InventoryID int64 `json:"inventoryId" validate:"required,gt=0"`
	Quantity    int   `json:"quantity" validate:"gt=0"`
	Price       int64 `json:"price" validate:"gte=0"`
}

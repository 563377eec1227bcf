package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingResult is the answer to a booking creation. Exactly one of
// RedirectURL and Booking is set: a redirect hands the customer off to a
// payment gateway, a record means the booking was taken directly.
type BookingResult struct {
	RedirectURL string
	Booking     *model.Booking
}

// IsRedirect reports whether the customer must be sent to a gateway.
func (r BookingResult) IsRedirect() bool { return r.RedirectURL != "" }

// CreateBooking submits a booking paid with method. A 409 answer yields an
// error matching ErrSeatConflict.
func (c *Client) CreateBooking(ctx context.Context, method string, req model.BookingRequest) (BookingResult, error) {
	q := url.Values{}
	q.Set("paymentMethod", method)
	raw, err := c.send(ctx, http.MethodPost, "/bookings", q, req)
	if err != nil {
		return BookingResult{}, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var redirect string
		if err := json.Unmarshal(raw, &redirect); err != nil {
			return BookingResult{}, fmt.Errorf("decode booking redirect: %w", err)
		}
		return BookingResult{RedirectURL: redirect}, nil
	}
	var b model.Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return BookingResult{}, fmt.Errorf("decode booking: %w", err)
	}
	return BookingResult{Booking: &b}, nil
}

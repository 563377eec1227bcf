package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by API errors with status 404.
	ErrNotFound = errors.New("not found")
	// ErrSeatConflict is matched by booking errors with status 409: another
	// customer already holds one of the requested seats.
	ErrSeatConflict = errors.New("seat already booked")
	// ErrUnauthorized is matched by API errors with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the booking API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking api: status %d", e.Status)
	}
	return fmt.Sprintf("booking api: status %d: %s", e.Status, e.Message)
}

// Unwrap maps well known statuses onto the package sentinels so callers can
// use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrSeatConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

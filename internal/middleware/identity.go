package middleware

// identity.go holds helpers shared across middleware files.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

// userID returns the session user of the request, or "anon" when the
// request is not authenticated.
func userID(c echo.Context) string {
	if s, err := session.From(c.Request().Context()); err == nil {
		return s.UserID
	}
	return "anon"
}

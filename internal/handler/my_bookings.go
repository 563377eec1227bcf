package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

// AuditLister reads the local booking audit trail.
type AuditLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.BookingAudit, error)
}

// MyBookingsHandler lists the bookings the session user submitted here.
type MyBookingsHandler struct {
	Audit AuditLister
	Log   *zap.Logger
}

// List returns the newest audit rows of the caller. Query: limit (1-100).
func (h *MyBookingsHandler) List(c echo.Context) error {
	sess, err := session.From(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Audit == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking history unavailable"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.Audit.ListByUser(c.Request().Context(), sess.UserID, limit)
	if err != nil {
		h.Log.Error("myBookings.List: audit query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// Package handler exposes the HTTP handlers of the booking front end: the
// public catalog, the customer booking wizard and the admin and owner back
// offices. Handlers translate requests into calls on the booking API and
// map the resulting errors onto HTTP statuses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/apiclient"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
	"github.com/iliyamo/movie-ticket-booking/internal/wizard"
)

// upstreamError maps an error from the booking API to a response. Client
// errors reported by the API keep their status; everything else is a 502.
func upstreamError(c echo.Context, log *zap.Logger, op string, err error) error {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return c.JSON(apiErr.Status, echo.Map{"error": apiErr.Message})
	default:
		log.Warn(op+": upstream failure", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service unavailable"})
	}
}

// wizardError maps a wizard or submission failure to a response.
func wizardError(c echo.Context, log *zap.Logger, op string, err error) error {
	switch {
	case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrUnknownStep):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, wizard.ErrNoSeats),
		errors.Is(err, wizard.ErrDuplicateSeat),
		errors.Is(err, wizard.ErrNegativePrice),
		errors.Is(err, wizard.ErrInvalidQuantity),
		errors.Is(err, wizard.ErrPaymentMethodRequired),
		errors.Is(err, wizard.ErrUnknownPaymentMethod),
		errors.Is(err, wizard.ErrMissingShowtime),
		errors.Is(err, service.ErrInvalidBooking):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, pricing.ErrPriceUnavailable):
		log.Warn(op+": price lookup failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "food prices unavailable, please retry"})
	default:
		return upstreamError(c, log, op, err)
	}
}

// validationError answers 400 with per-field messages.
func validationError(c echo.Context, err error) error {
	if fields := utils.ValidationMessages(err); fields != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// paramID parses a positive integer path parameter.
func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// degraded marks a response built from partial data so caches skip it.
func degraded(c echo.Context) {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid JWT and the CUSTOMER role, and are rate limited
// per user after authentication.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, my *handler.MyBookingsHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(session.RoleCustomer),
		limit,
	)
	// Booking wizard: each step reads the carried state from the query
	// string and answers with the next page URL.
	g.GET("/booking/showtime", h.GetShowtime)
	g.POST("/booking/showtime", h.SelectShowtime)
	g.GET("/booking/food", h.GetFood)
	g.POST("/booking/food", h.AdjustFood)
	g.POST("/booking/food/proceed", h.ProceedToPayment)
	g.GET("/booking/payment", h.GetPayment)
	g.POST("/booking/payment", h.SubmitPayment)
	g.GET("/booking-success", h.GetSuccess)

	g.GET("/my-bookings", my.List)
}

package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

// BackOffice holds the CRUD handlers of one back office. A nil handler
// leaves its collection unregistered; owners have no movie, customer or
// settings screens.
type BackOffice struct {
	Movies    *handler.CRUDHandler[model.Movie]
	Theaters  *handler.CRUDHandler[model.Theater]
	Staff     *handler.CRUDHandler[model.Staff]
	Customers *handler.CRUDHandler[model.Customer]
	Vouchers  *handler.CRUDHandler[model.Voucher]
	Settings  *handler.CRUDHandler[model.Setting]
}

func (b BackOffice) register(g *echo.Group) {
	if b.Movies != nil {
		b.Movies.Register(g, "/movies")
	}
	if b.Theaters != nil {
		b.Theaters.Register(g, "/theaters")
	}
	if b.Staff != nil {
		b.Staff.Register(g, "/staff")
	}
	if b.Customers != nil {
		b.Customers.Register(g, "/customers")
	}
	if b.Vouchers != nil {
		b.Vouchers.Register(g, "/vouchers")
	}
	if b.Settings != nil {
		b.Settings.Register(g, "/settings")
	}
}

// RegisterAdmin registers ADMIN-scoped back office endpoints under
// /v1/admin. All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, b BackOffice, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(session.RoleAdmin),
	)
	b.register(g)
}

// RegisterOwner registers OWNER-scoped back office endpoints under
// /v1/owner. The booking API restricts owners to their own theaters based
// on the forwarded token.
func RegisterOwner(e *echo.Echo, b BackOffice, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(session.RoleOwner),
	)
	b.register(g)
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movie-ticket-booking/internal/middleware" // import middleware for caching and logging
)

// Deps bundles everything the routes need.
type Deps struct {
	Config     config.Config
	Redis      *redis.Client // nil disables caching and rate limiting
	Gatherer   prometheus.Gatherer
	Log        *zap.Logger
	Health     *handler.HealthHandler
	Catalog    *handler.CatalogHandler
	Booking    *handler.BookingHandler
	MyBookings *handler.MyBookingsHandler
	Admin      BackOffice
	Owner      BackOffice
}

// New builds the echo server with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Use(middleware.RequestLogger(d.Log))

	RegisterRoutes(e, d)
	RegisterCatalog(e, d.Catalog, middleware.NewRedisCache(d.Config.Cache, d.Redis))
	RegisterCustomer(e, d.Booking, d.MyBookings, d.Config.JWTSecret,
		middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log))
	RegisterAdmin(e, d.Admin, d.Config.JWTSecret)
	RegisterOwner(e, d.Owner, d.Config.JWTSecret)
	return e
}

// RegisterRoutes registers the operational routes that do not require
// authentication: the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, d Deps) {
	// Load balancers and monitoring systems poll this to verify the
	// service is up.
	e.GET("/healthz", d.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
}

// RegisterCatalog registers the public browsing routes under /v1. Answers
// go through the Redis response cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	// Static paths are registered before /movies/:id; echo prefers them anyway.
	g.GET("/movies/random", h.RandomMovies)
	g.GET("/movies/latest", h.LatestMovies)
	g.GET("/movies/top-rated", h.TopRatedMovies)
	g.GET("/movies/:id", h.GetMovie)

	g.GET("/showtimes/movie/:id", h.ShowtimesByMovie)
	g.GET("/showtimes/filter", h.FilterShowtimes)

	g.GET("/theater-food", h.ListFood)
	g.GET("/theater-food/:id", h.GetFood)
}

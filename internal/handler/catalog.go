package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// CatalogAPI is the read side of the booking API used by the public pages.
type CatalogAPI interface {
	GetMovie(ctx context.Context, id int64) (model.Movie, error)
	RandomMovies(ctx context.Context) ([]model.Movie, error)
	LatestMovies(ctx context.Context) ([]model.Movie, error)
	TopRatedMovies(ctx context.Context) ([]model.Movie, error)
	ShowtimesByMovie(ctx context.Context, movieID int64) ([]model.Showtime, error)
	FilterShowtimes(ctx context.Context, movieID int64, date string) ([]model.Showtime, error)
	ListFood(ctx context.Context) ([]model.FoodItem, error)
	GetFood(ctx context.Context, id int64) (model.FoodItem, error)
}

// CatalogHandler serves the unauthenticated browsing endpoints. List
// endpoints degrade to an empty list when the API fails so the pages still
// render; single-item endpoints report the failure.
type CatalogHandler struct {
	API CatalogAPI
	Log *zap.Logger
}

// GetMovie returns one movie.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.API.GetMovie(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, h.Log, "catalog.GetMovie", err)
	}
	return c.JSON(http.StatusOK, m)
}

// RandomMovies lists a random selection of movies.
func (h *CatalogHandler) RandomMovies(c echo.Context) error {
	return h.movieList(c, "catalog.RandomMovies", h.API.RandomMovies)
}

// LatestMovies lists the newest movies.
func (h *CatalogHandler) LatestMovies(c echo.Context) error {
	return h.movieList(c, "catalog.LatestMovies", h.API.LatestMovies)
}

// TopRatedMovies lists the best rated movies.
func (h *CatalogHandler) TopRatedMovies(c echo.Context) error {
	return h.movieList(c, "catalog.TopRatedMovies", h.API.TopRatedMovies)
}

func (h *CatalogHandler) movieList(c echo.Context, op string, fetch func(context.Context) ([]model.Movie, error)) error {
	ms, err := fetch(c.Request().Context())
	if err != nil {
		h.Log.Warn(op+": degraded to empty list", zap.Error(err))
		degraded(c)
		return c.JSON(http.StatusOK, echo.Map{"items": []model.Movie{}, "degraded": true})
	}
	if ms == nil {
		ms = []model.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ms})
}

// ShowtimesByMovie lists a movie's showtimes grouped by theater and screen.
func (h *CatalogHandler) ShowtimesByMovie(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	sts, err := h.API.ShowtimesByMovie(c.Request().Context(), id)
	return h.showtimes(c, "catalog.ShowtimesByMovie", sts, err)
}

// FilterShowtimes lists a movie's showtimes on one date.
// Query: movieId (required), date (YYYY-MM-DD, optional).
func (h *CatalogHandler) FilterShowtimes(c echo.Context) error {
	var q struct {
		MovieID int64  `query:"movieId"`
		Date    string `query:"date"`
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil || q.MovieID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}
	sts, err := h.API.FilterShowtimes(c.Request().Context(), q.MovieID, q.Date)
	return h.showtimes(c, "catalog.FilterShowtimes", sts, err)
}

func (h *CatalogHandler) showtimes(c echo.Context, op string, sts []model.Showtime, err error) error {
	if err != nil {
		h.Log.Warn(op+": degraded to empty list", zap.Error(err))
		degraded(c)
		return c.JSON(http.StatusOK, echo.Map{"items": []model.TheaterShowtimes{}, "degraded": true})
	}
	groups := model.GroupByTheater(sts)
	if groups == nil {
		groups = []model.TheaterShowtimes{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": groups})
}

// ListFood lists the food inventory.
func (h *CatalogHandler) ListFood(c echo.Context) error {
	items, err := h.API.ListFood(c.Request().Context())
	if err != nil {
		h.Log.Warn("catalog.ListFood: degraded to empty list", zap.Error(err))
		degraded(c)
		return c.JSON(http.StatusOK, echo.Map{"items": []model.FoodItem{}, "degraded": true})
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFood returns one food item.
func (h *CatalogHandler) GetFood(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid food id"})
	}
	f, err := h.API.GetFood(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, h.Log, "catalog.GetFood", err)
	}
	return c.JSON(http.StatusOK, f)
}

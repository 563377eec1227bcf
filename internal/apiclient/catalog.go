package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// GetMovie fetches one movie.
func (c *Client) GetMovie(ctx context.Context, id int64) (model.Movie, error) {
	var m model.Movie
	err := c.get(ctx, "/movies/"+strconv.FormatInt(id, 10), nil, &m)
	return m, err
}

// RandomMovies returns a random selection for the home page.
func (c *Client) RandomMovies(ctx context.Context) ([]model.Movie, error) {
	return c.movies(ctx, "/movies/random")
}

// LatestMovies returns the most recently released movies.
func (c *Client) LatestMovies(ctx context.Context) ([]model.Movie, error) {
	return c.movies(ctx, "/movies/latest")
}

// TopRatedMovies returns movies ordered by rating.
func (c *Client) TopRatedMovies(ctx context.Context) ([]model.Movie, error) {
	return c.movies(ctx, "/movies/top-rated")
}

func (c *Client) movies(ctx context.Context, path string) ([]model.Movie, error) {
	var ms []model.Movie
	if err := c.get(ctx, path, nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// ShowtimesByMovie lists every showtime of a movie.
func (c *Client) ShowtimesByMovie(ctx context.Context, movieID int64) ([]model.Showtime, error) {
	var sts []model.Showtime
	if err := c.get(ctx, "/showtimes/movie/"+strconv.FormatInt(movieID, 10), nil, &sts); err != nil {
		return nil, err
	}
	return sts, nil
}

// FilterShowtimes lists the showtimes of a movie on one date (YYYY-MM-DD).
func (c *Client) FilterShowtimes(ctx context.Context, movieID int64, date string) ([]model.Showtime, error) {
	q := url.Values{}
	q.Set("movieId", strconv.FormatInt(movieID, 10))
	if date != "" {
		q.Set("date", date)
	}
	var sts []model.Showtime
	if err := c.get(ctx, "/showtimes/filter", q, &sts); err != nil {
		return nil, err
	}
	return sts, nil
}

// ListFood lists the food inventory.
func (c *Client) ListFood(ctx context.Context) ([]model.FoodItem, error) {
	var items []model.FoodItem
	if err := c.get(ctx, "/theater-food", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetFood fetches one food item, including its current price.
func (c *Client) GetFood(ctx context.Context, id int64) (model.FoodItem, error) {
	var f model.FoodItem
	err := c.get(ctx, "/theater-food/"+strconv.FormatInt(id, 10), nil, &f)
	return f, err
}

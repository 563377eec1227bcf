package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	circuit "github.com/rubyist/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL+"/", circuit.NewHTTPClient(time.Second, 5, srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetMovieNormalizesGenre(t *testing.T) {
	tests := []struct {
		name  string
		genre any
		want  model.Genres
	}{
		{"newline string", "Hành động\nPhiêu lưu", model.Genres{"Hành động", "Phiêu lưu"}},
		{"comma string", "Action, Drama ,", model.Genres{"Action", "Drama"}},
		{"array", []string{"Comedy", " "}, model.Genres{"Comedy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/movies/7", r.URL.Path)
				writeJSON(w, http.StatusOK, map[string]any{
					"data": map[string]any{"id": 7, "title": "Mai", "genre": tt.genre},
				})
			})
			m, err := c.GetMovie(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, "Mai", m.Title)
			assert.Equal(t, tt.want, m.Genre)
		})
	}
}

func TestBareBodyAndTokenForwarding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/showtimes/filter", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("movieId"))
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("date"))
		writeJSON(w, http.StatusOK, []model.Showtime{{ID: 1, MovieID: 3}, {ID: 2, MovieID: 3}})
	})
	ctx := session.With(context.Background(), session.Session{UserID: "1", Role: session.RoleCustomer, Token: "tok"})
	sts, err := c.FilterShowtimes(ctx, 3, "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, sts, 2)
}

func TestAPIErrorSentinels(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrSeatConflict},
		{http.StatusUnauthorized, ErrUnauthorized},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, tt.status, map[string]string{"message": "nope"})
		})
		_, err := c.GetFood(context.Background(), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, tt.target)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, tt.status, apiErr.Status)
		assert.Equal(t, "nope", apiErr.Message)
	}
}

func TestServerErrorIsNotASentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.ListFood(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "boom")
}

func TestCreateBookingRedirect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "vnpay", r.URL.Query().Get("paymentMethod"))

		var req model.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(9), req.ShowtimeID)
		assert.Equal(t, []model.BookingSeat{{SeatID: "A1", Price: 90000}}, req.Seats)

		writeJSON(w, http.StatusOK, map[string]any{"data": "https://pay.example.com/checkout/1"})
	})
	res, err := c.CreateBooking(context.Background(), "vnpay", model.BookingRequest{
		UserID:     "1",
		ShowtimeID: 9,
		Status:     model.BookingPending,
		Seats:      []model.BookingSeat{{SeatID: "A1", Price: 90000}},
	})
	require.NoError(t, err)
	assert.True(t, res.IsRedirect())
	assert.Equal(t, "https://pay.example.com/checkout/1", res.RedirectURL)
	assert.Nil(t, res.Booking)
}

func TestCreateBookingRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"data": map[string]any{"id": 55, "status": "PENDING", "totalAmount": 180000},
		})
	})
	res, err := c.CreateBooking(context.Background(), "momo", model.BookingRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsRedirect())
	require.NotNil(t, res.Booking)
	assert.Equal(t, int64(55), res.Booking.ID)
	assert.Equal(t, int64(180000), res.Booking.TotalAmount)
}

func TestCreateBookingConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "seat taken"})
	})
	_, err := c.CreateBooking(context.Background(), "momo", model.BookingRequest{})
	assert.ErrorIs(t, err, ErrSeatConflict)
}

func TestResourceCRUD(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/vouchers" {
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				writeJSON(w, http.StatusOK, map[string]any{"data": []model.Voucher{{ID: 1, Code: "TET"}}})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": model.Voucher{ID: 1, Code: "TET"}})
		case http.MethodPost:
			var v model.Voucher
			require.NoError(t, json.NewDecoder(r.Body).Decode(&v))
			v.ID = 2
			writeJSON(w, http.StatusCreated, map[string]any{"data": v})
		case http.MethodPatch:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"quantity":5}`, string(body))
			writeJSON(w, http.StatusOK, map[string]any{"data": model.Voucher{ID: 1, Code: "TET", Quantity: 5}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	vouchers := NewResource[model.Voucher](c, "/vouchers")
	ctx := context.Background()

	list, err := vouchers.List(ctx, map[string][]string{"page": {"2"}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := vouchers.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "TET", got.Code)

	created, err := vouchers.Create(ctx, model.Voucher{Code: "HE2024"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	updated, err := vouchers.Update(ctx, "1", map[string]any{"quantity": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	require.NoError(t, vouchers.Delete(ctx, "1"))

	assert.Equal(t, []string{
		"GET /vouchers", "GET /vouchers/1", "POST /vouchers", "PATCH /vouchers/1", "DELETE /vouchers/1",
	}, calls)
}

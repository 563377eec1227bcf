package bookingparams_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
)

func TestEncodeSeats(t *testing.T) {
	got := bookingparams.EncodeSeats([]bookingparams.Seat{
		{Name: "A1", Price: 90000},
		{Name: "A2", Price: 90000},
	})
	assert.Equal(t, "A1:90000,A2:90000", got)
}

func TestEncodeFood(t *testing.T) {
	got := bookingparams.EncodeFood(bookingparams.Food{
		15: {Name: "Coca", Quantity: 1},
		12: {Name: "Bắp rang", Quantity: 2},
		20: {Name: "Gone", Quantity: 0},
	})
	assert.Equal(t, "12:B%E1%BA%AFp%20rang:2,15:Coca:1", got)
}

func TestDecodeScenario(t *testing.T) {
	sel := bookingparams.Selection{
		MovieTitle:    "Lật Mặt 7",
		TheaterName:   "CGV Vincom",
		Showtime:      "19:30",
		ShowtimeID:    42,
		Date:          "2024-05-01",
		Seats:         []bookingparams.Seat{{Name: "A1", Price: 90000}, {Name: "A2", Price: 90000}},
		Food:          bookingparams.Food{12: {Name: "Bắp rang", Quantity: 2}},
		PaymentMethod: "momo",
	}

	got, err := bookingparams.Decode(sel.URL("/booking-success"))
	require.NoError(t, err)

	assert.Equal(t, sel, got)
	assert.Equal(t, int64(180000), got.TicketTotal())
}

func TestParseQuery(t *testing.T) {
	raw := "/booking/payment?movieTitle=Mai+Movie&showtimeId=42&seats=A1%3A90000&food=12%3AB%25E1%25BA%25AFp%2520rang%3A2&flag=true#top"

	v, err := bookingparams.ParseQuery(raw)
	require.NoError(t, err)

	assert.Equal(t, "Mai Movie", v.Get("movieTitle"))
	assert.Equal(t, float64(42), v.Get("showtimeId"))
	assert.Equal(t, "42", v.String("showtimeId"))
	assert.Equal(t, true, v.Get("flag"))
	assert.Equal(t, "A1:90000", v.Get("seats"))
	assert.Equal(t, bookingparams.Food{12: {Name: "Bắp rang", Quantity: 2}}, v.Get("food"))
}

func TestDecodeLenientNumbers(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		seats []bookingparams.Seat
		food  bookingparams.Food
	}{
		{
			name:  "non numeric price decodes to zero",
			raw:   "?seats=A1%3Aabc%2CA2%3A90000",
			seats: []bookingparams.Seat{{Name: "A1", Price: 0}, {Name: "A2", Price: 90000}},
			food:  bookingparams.Food{},
		},
		{
			name:  "trailing garbage is ignored",
			raw:   "?seats=B3%3A75000vnd",
			seats: []bookingparams.Seat{{Name: "B3", Price: 75000}},
			food:  bookingparams.Food{},
		},
		{
			name: "non numeric quantity drops the line",
			raw:  "?food=1%3APopcorn%3Ax%2C2%3ACoke%3A3",
			food: bookingparams.Food{2: {Name: "Coke", Quantity: 3}},
		},
		{
			name:  "missing price field",
			raw:   "?seats=C1",
			seats: []bookingparams.Seat{{Name: "C1", Price: 0}},
			food:  bookingparams.Food{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bookingparams.Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.seats, got.Seats)
			assert.Equal(t, tt.food, got.Food)
		})
	}
}

// Seat names used to be joined without escaping, which broke on ':' and ','.
func TestSeatNamesWithDelimitersRoundTrip(t *testing.T) {
	seats := []bookingparams.Seat{{Name: "VIP:1", Price: 120000}, {Name: "B,2", Price: 80000}}
	sel := bookingparams.Selection{Seats: seats, Food: bookingparams.Food{}}

	got, err := bookingparams.Decode(sel.URL("/booking/food"))
	require.NoError(t, err)
	assert.Equal(t, seats, got.Seats)
}

func TestFoodNamesWithDelimitersRoundTrip(t *testing.T) {
	food := bookingparams.Food{7: {Name: "Combo: bắp, nước", Quantity: 1}}
	sel := bookingparams.Selection{Food: food}

	got, err := bookingparams.Decode(sel.URL("/booking/payment"))
	require.NoError(t, err)
	assert.Equal(t, food, got.Food)
}

var alnum = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func randomName(r *rand.Rand) string {
	b := make([]byte, 1+r.Intn(6))
	for i := range b {
		b[i] = alnum[r.Intn(len(alnum))]
	}
	return string(b)
}

func TestRoundTripRandomSelections(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 200; i++ {
		seen := map[string]bool{}
		var seats []bookingparams.Seat
		for j := 0; j < 1+r.Intn(8); j++ {
			name := randomName(r)
			if seen[name] {
				continue
			}
			seen[name] = true
			seats = append(seats, bookingparams.Seat{Name: name, Price: int64(r.Intn(500000))})
		}
		food := bookingparams.Food{}
		for j := 0; j < r.Intn(5); j++ {
			food[int64(1+r.Intn(100))] = bookingparams.FoodLine{Name: randomName(r) + " " + randomName(r), Quantity: 1 + r.Intn(9)}
		}

		sel := bookingparams.Selection{Seats: seats, Food: food}
		got, err := bookingparams.Decode(sel.URL("/x"))
		require.NoError(t, err)
		assert.Equal(t, seats, got.Seats)
		assert.Equal(t, food, got.Food)
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := bookingparams.Decode("/booking/food")
	require.NoError(t, err)
	assert.Empty(t, got.Seats)
	assert.Empty(t, got.Food)
	assert.Equal(t, "/booking/food", got.URL("/booking/food"))
}

package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
	"github.com/iliyamo/movie-ticket-booking/internal/wizard"
)

func selectSeats(t *testing.T) wizard.State {
	t.Helper()
	st, err := wizard.Transition(wizard.State{}, wizard.SelectShowtime{
		MovieTitle:  "Dune",
		TheaterName: "CGV Landmark",
		Showtime:    "20:00",
		ShowtimeID:  7,
		Date:        "2024-05-01",
		Seats:       []bookingparams.Seat{{Name: "A1", Price: 90000}, {Name: "A2", Price: 90000}},
	})
	require.NoError(t, err)
	return st
}

func TestHappyPath(t *testing.T) {
	st := selectSeats(t)
	assert.Equal(t, wizard.StepShowtimeSelected, st.Step)
	assert.Equal(t, wizard.PathFood, st.Path())

	st, err := wizard.Transition(st, wizard.AdjustFood{ItemID: 12, Name: "Bắp rang", Delta: 1})
	require.NoError(t, err)
	st, err = wizard.Transition(st, wizard.AdjustFood{ItemID: 12, Delta: 1})
	require.NoError(t, err)
	assert.Equal(t, bookingparams.Food{12: {Name: "Bắp rang", Quantity: 2}}, st.Selection.Food)

	st, err = wizard.Transition(st, wizard.ProceedToPayment{})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepFoodSelected, st.Step)
	assert.Equal(t, wizard.PathPayment, st.Path())

	st, err = wizard.Transition(st, wizard.ChoosePayment{Method: wizard.MethodMomo})
	require.NoError(t, err)
	assert.Equal(t, "momo", st.Selection.PaymentMethod)

	st, err = wizard.Transition(st, wizard.Complete{})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepCompleted, st.Step)
	assert.Equal(t, wizard.PathSuccess, st.Path())
	assert.Len(t, st.Selection.Seats, 2)
}

func TestDecrementBelowOneRemovesLine(t *testing.T) {
	st := selectSeats(t)
	st, err := wizard.Transition(st, wizard.AdjustFood{ItemID: 3, Name: "Coke", Delta: 1})
	require.NoError(t, err)
	st, err = wizard.Transition(st, wizard.AdjustFood{ItemID: 3, Delta: -1})
	require.NoError(t, err)

	_, ok := st.Selection.Food[3]
	assert.False(t, ok)
	assert.NotContains(t, st.URL(), "food=")
}

func TestDecrementMissingItemIsNoop(t *testing.T) {
	st := selectSeats(t)
	next, err := wizard.Transition(st, wizard.AdjustFood{ItemID: 9, Delta: -1})
	require.NoError(t, err)
	assert.Empty(t, next.Selection.Food)
}

func TestChoosePaymentRequiresMethod(t *testing.T) {
	st := selectSeats(t)
	st, err := wizard.Transition(st, wizard.ProceedToPayment{})
	require.NoError(t, err)

	_, err = wizard.Transition(st, wizard.ChoosePayment{})
	assert.ErrorIs(t, err, wizard.ErrPaymentMethodRequired)

	_, err = wizard.Transition(st, wizard.ChoosePayment{Method: "cash"})
	assert.ErrorIs(t, err, wizard.ErrUnknownPaymentMethod)
}

func TestConflictGoesBackToSeatSelection(t *testing.T) {
	st := selectSeats(t)
	st, _ = wizard.Transition(st, wizard.AdjustFood{ItemID: 1, Name: "Popcorn", Delta: 2})
	st, _ = wizard.Transition(st, wizard.ProceedToPayment{})
	st, err := wizard.Transition(st, wizard.ChoosePayment{Method: wizard.MethodZaloPay})
	require.NoError(t, err)

	back, err := wizard.Transition(st, wizard.Conflict{})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepStart, back.Step)
	assert.Equal(t, wizard.PathShowtime, back.Path())
	assert.Empty(t, back.Selection.Seats)
	assert.Empty(t, back.Selection.Food)
	assert.Equal(t, "Dune", back.Selection.MovieTitle)
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from wizard.State
		ev   wizard.Event
	}{
		{name: "food before seats", from: wizard.State{}, ev: wizard.AdjustFood{ItemID: 1, Delta: 1}},
		{name: "pay before proceeding", from: selectSeats(t), ev: wizard.ChoosePayment{Method: wizard.MethodMomo}},
		{name: "complete without payment", from: selectSeats(t), ev: wizard.Complete{}},
		{name: "conflict outside payment", from: selectSeats(t), ev: wizard.Conflict{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wizard.Transition(tt.from, tt.ev)
			assert.ErrorIs(t, err, wizard.ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestSelectShowtimeValidation(t *testing.T) {
	_, err := wizard.Transition(wizard.State{}, wizard.SelectShowtime{})
	assert.ErrorIs(t, err, wizard.ErrNoSeats)

	_, err = wizard.Transition(wizard.State{}, wizard.SelectShowtime{
		Seats: []bookingparams.Seat{{Name: "A1", Price: 1}, {Name: "A1", Price: 1}},
	})
	assert.ErrorIs(t, err, wizard.ErrDuplicateSeat)

	_, err = wizard.Transition(wizard.State{}, wizard.SelectShowtime{
		Seats: []bookingparams.Seat{{Name: "A1", Price: -5}},
	})
	assert.ErrorIs(t, err, wizard.ErrNegativePrice)

	_, err = wizard.Transition(wizard.State{}, wizard.SelectShowtime{
		Seats: []bookingparams.Seat{{Name: "A1", Price: 90000}},
	})
	assert.ErrorIs(t, err, wizard.ErrMissingShowtime)
}

func TestURLRoundTrip(t *testing.T) {
	st := selectSeats(t)
	st, _ = wizard.Transition(st, wizard.AdjustFood{ItemID: 12, Name: "Bắp rang", Delta: 2})
	st, _ = wizard.Transition(st, wizard.ProceedToPayment{})

	got, err := wizard.Parse(st.URL())
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestParseInfersStep(t *testing.T) {
	got, err := wizard.Parse("/booking/payment?seats=A1%3A90000&food=12%3APopcorn%3A1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepFoodSelected, got.Step)

	got, err = wizard.Parse("/booking/food?seats=A1%3A90000")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepShowtimeSelected, got.Step)

	_, err = wizard.Parse("/booking-success?seats=A1%3A90000&step=completed")
	assert.ErrorIs(t, err, wizard.ErrPaymentMethodRequired)

	_, err = wizard.Parse("/x?step=bogus")
	assert.ErrorIs(t, err, wizard.ErrUnknownStep)
}

package wizard

import (
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
)

// Event is something the customer (or the booking API) does to the wizard.
// The set of events is closed: only the types in this file implement it.
type Event interface {
	allowedFrom() []Step
	apply(State) (State, error)
}

// SelectShowtime fixes the showtime context and the chosen seats.
type SelectShowtime struct {
	MovieTitle  string
	TheaterName string
	Showtime    string
	ShowtimeID  int64
	Date        string
	Seats       []bookingparams.Seat
}

// AdjustFood changes the quantity of one food item by Delta. A quantity
// that drops below 1 removes the line.
type AdjustFood struct {
	ItemID int64
	Name   string
	Delta  int
}

// ProceedToPayment leaves the food page with the current food selection.
type ProceedToPayment struct{}

// ChoosePayment picks the payment method.
type ChoosePayment struct {
	Method PaymentMethod
}

// Complete records that the booking API accepted the booking.
type Complete struct{}

// Conflict records that the booking API rejected the seats as already
// taken. The customer goes back to pick seats again.
type Conflict struct{}

// Transition applies ev to s. It fails with ErrInvalidTransition when ev is
// not allowed in s.Step, or with a validation error when the result would
// break the invariants of its step. s is never modified.
func Transition(s State, ev Event) (State, error) {
	allowed := false
	for _, from := range ev.allowedFrom() {
		if s.Step == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return s, ErrInvalidTransition
	}
	next, err := ev.apply(clone(s))
	if err != nil {
		return s, err
	}
	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}

func clone(s State) State {
	out := s
	out.Selection.Seats = append([]bookingparams.Seat(nil), s.Selection.Seats...)
	out.Selection.Food = s.Selection.Food.Clone()
	return out
}

func (SelectShowtime) allowedFrom() []Step {
	return []Step{StepStart, StepShowtimeSelected}
}

func (e SelectShowtime) apply(s State) (State, error) {
	s.Step = StepShowtimeSelected
	s.Selection = bookingparams.Selection{
		MovieTitle:  strings.TrimSpace(e.MovieTitle),
		TheaterName: strings.TrimSpace(e.TheaterName),
		Showtime:    strings.TrimSpace(e.Showtime),
		ShowtimeID:  e.ShowtimeID,
		Date:        strings.TrimSpace(e.Date),
		Seats:       append([]bookingparams.Seat(nil), e.Seats...),
		Food:        bookingparams.Food{},
	}
	if err := validateSelection(s.Selection); err != nil {
		return s, err
	}
	if e.ShowtimeID <= 0 {
		return s, ErrMissingShowtime
	}
	return s, nil
}

func (AdjustFood) allowedFrom() []Step {
	return []Step{StepShowtimeSelected, StepFoodSelected}
}

func (e AdjustFood) apply(s State) (State, error) {
	line := s.Selection.Food[e.ItemID]
	if e.Name != "" {
		line.Name = e.Name
	}
	line.Quantity += e.Delta
	if line.Quantity < 1 {
		delete(s.Selection.Food, e.ItemID)
	} else {
		s.Selection.Food[e.ItemID] = line
	}
	s.Step = StepShowtimeSelected
	return s, nil
}

func (ProceedToPayment) allowedFrom() []Step {
	return []Step{StepShowtimeSelected, StepFoodSelected}
}

func (ProceedToPayment) apply(s State) (State, error) {
	s.Step = StepFoodSelected
	return s, nil
}

func (ChoosePayment) allowedFrom() []Step {
	return []Step{StepFoodSelected, StepPaymentChosen}
}

func (e ChoosePayment) apply(s State) (State, error) {
	if err := validateMethod(e.Method); err != nil {
		return s, err
	}
	s.Selection.PaymentMethod = string(e.Method)
	s.Step = StepPaymentChosen
	return s, nil
}

func (Complete) allowedFrom() []Step {
	return []Step{StepPaymentChosen}
}

func (Complete) apply(s State) (State, error) {
	s.Step = StepCompleted
	return s, nil
}

func (Conflict) allowedFrom() []Step {
	return []Step{StepPaymentChosen}
}

func (Conflict) apply(s State) (State, error) {
	s.Step = StepStart
	s.Selection.Seats = nil
	s.Selection.Food = bookingparams.Food{}
	s.Selection.PaymentMethod = ""
	return s, nil
}

// Package wizard models the customer booking flow as an explicit state
// machine. A State is serialized into the URL query of the page that renders
// it, so each page can be opened directly from a link.
package wizard

import (
	"errors"
	"net/url"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
)

// Step tags the wizard state.
type Step string

const (
	// StepStart is the implicit initial state: nothing is selected yet.
	StepStart            Step = ""
	StepShowtimeSelected Step = "showtime"
	StepFoodSelected     Step = "food"
	StepPaymentChosen    Step = "payment"
	StepCompleted        Step = "completed"
)

// Page paths rendered for each step.
const (
	PathShowtime = "/booking/showtime"
	PathFood     = "/booking/food"
	PathPayment  = "/booking/payment"
	PathSuccess  = "/booking-success"
	PathHome     = "/"
)

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	MethodMomo         PaymentMethod = "momo"
	MethodZaloPay      PaymentMethod = "zalopay"
	MethodCreditCard   PaymentMethod = "credit-card"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	// MethodVNPay hands the customer off to the VNPay gateway page.
	MethodVNPay PaymentMethod = "vnpay"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{MethodMomo, MethodZaloPay, MethodCreditCard, MethodBankTransfer, MethodVNPay}

// Valid reports whether m is one of PaymentMethods.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

var (
	ErrInvalidTransition     = errors.New("invalid wizard transition")
	ErrNoSeats               = errors.New("at least one seat is required")
	ErrDuplicateSeat         = errors.New("seat selected twice")
	ErrNegativePrice         = errors.New("seat price must not be negative")
	ErrInvalidQuantity       = errors.New("food quantity must be positive")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrUnknownStep           = errors.New("unknown wizard step")
	ErrMissingShowtime       = errors.New("showtime id is required")
)

// State is the whole wizard state: the step tag plus the accumulated selection.
type State struct {
	Step      Step                    `json:"step"`
	Selection bookingparams.Selection `json:"selection"`
}

// Path is the page that renders s.
func (s State) Path() string {
	switch s.Step {
	case StepShowtimeSelected:
		return PathFood
	case StepFoodSelected, StepPaymentChosen:
		return PathPayment
	case StepCompleted:
		return PathSuccess
	default:
		return PathShowtime
	}
}

// Query serializes s, step tag included.
func (s State) Query() url.Values {
	q := s.Selection.Encode()
	if s.Step != StepStart {
		q.Set(bookingparams.KeyStep, string(s.Step))
	}
	return q
}

// URL is the link to the page rendering s.
func (s State) URL() string {
	q := s.Query().Encode()
	if q == "" {
		return s.Path()
	}
	return s.Path() + "?" + q
}

// Validate checks the invariants that hold for s.Step.
func (s State) Validate() error {
	switch s.Step {
	case StepStart:
		return nil
	case StepShowtimeSelected, StepFoodSelected:
		return validateSelection(s.Selection)
	case StepPaymentChosen, StepCompleted:
		if err := validateSelection(s.Selection); err != nil {
			return err
		}
		return validateMethod(PaymentMethod(s.Selection.PaymentMethod))
	default:
		return ErrUnknownStep
	}
}

// Parse decodes a State from a page URL. When the step tag is absent it is
// inferred from what the selection already holds.
func Parse(rawURL string) (State, error) {
	v, err := bookingparams.ParseQuery(rawURL)
	if err != nil {
		return State{}, err
	}
	sel, err := bookingparams.Decode(rawURL)
	if err != nil {
		return State{}, err
	}
	st := State{Step: Step(v.String(bookingparams.KeyStep)), Selection: sel}
	if _, tagged := v[bookingparams.KeyStep]; !tagged {
		st.Step = infer(sel)
	}
	if err := st.Validate(); err != nil {
		return State{}, err
	}
	return st, nil
}

func infer(sel bookingparams.Selection) Step {
	switch {
	case sel.PaymentMethod != "":
		return StepPaymentChosen
	case len(sel.Food) > 0:
		return StepFoodSelected
	case len(sel.Seats) > 0:
		return StepShowtimeSelected
	default:
		return StepStart
	}
}

func validateSelection(sel bookingparams.Selection) error {
	if len(sel.Seats) == 0 {
		return ErrNoSeats
	}
	seen := make(map[string]struct{}, len(sel.Seats))
	for _, seat := range sel.Seats {
		if _, dup := seen[seat.Name]; dup {
			return ErrDuplicateSeat
		}
		seen[seat.Name] = struct{}{}
		if seat.Price < 0 {
			return ErrNegativePrice
		}
	}
	for _, line := range sel.Food {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func validateMethod(m PaymentMethod) error {
	if m == "" {
		return ErrPaymentMethodRequired
	}
	if !m.Valid() {
		return ErrUnknownPaymentMethod
	}
	return nil
}

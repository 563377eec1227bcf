package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/apiclient"
	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
	"github.com/iliyamo/movie-ticket-booking/internal/wizard"
)

// ConflictMessage is shown when another customer took one of the seats.
const ConflictMessage = "Ghế đã có người đặt, vui lòng chọn ghế khác."

// Outcome is how a submission ended.
type Outcome int

const (
	// OutcomeCompleted: the booking API stored the booking.
	OutcomeCompleted Outcome = iota + 1
	// OutcomeRedirect: the customer must continue at a payment gateway.
	OutcomeRedirect
	// OutcomeConflict: a seat was already taken; the customer reselects.
	OutcomeConflict
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return outcomeCompleted
	case OutcomeRedirect:
		return outcomeRedirect
	case OutcomeConflict:
		return outcomeConflict
	}
	return "unknown"
}

// Result describes a finished submission.
type Result struct {
	Outcome Outcome
	// RedirectURL is set for OutcomeRedirect.
	RedirectURL string
	// Next is the wizard state to continue with: Completed after success,
	// the showtime step after a conflict.
	Next wizard.State
	// Quote holds the reconciled prices the booking was submitted with.
	Quote pricing.Quote
	// Booking is the stored record when the API returned one.
	Booking *model.Booking
	// Message and GoBack drive the conflict alert.
	Message string
	GoBack  bool
}

// BookingAPI creates bookings on the remote API.
type BookingAPI interface {
	CreateBooking(ctx context.Context, method string, req model.BookingRequest) (apiclient.BookingResult, error)
}

// Reconciler prices a selection with fresh food prices.
type Reconciler interface {
	Reconcile(ctx context.Context, sel bookingparams.Selection) (pricing.Quote, error)
}

// BookingService turns a finished wizard state into a booking.
type BookingService struct {
	api      BookingAPI
	prices   Reconciler
	events   EventPublisher
	metrics  *Metrics
	log      *zap.Logger
	validate *utils.Validator
	now      func() time.Time
}

// NewBookingService wires a booking service. events and metrics may be nil.
func NewBookingService(api BookingAPI, prices Reconciler, events EventPublisher, metrics *Metrics, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		api:      api,
		prices:   prices,
		events:   events,
		metrics:  metrics,
		log:      log,
		validate: utils.NewValidator(),
		now:      time.Now,
	}
}

// Submit books the selection of st for the session user. st must be in
// the PaymentChosen step with a valid payment method; otherwise the booking
// API is never called. A seat conflict is reported as OutcomeConflict with
// a nil error. Price lookup failures and other API errors are returned.
func (s *BookingService) Submit(ctx context.Context, sess session.Session, st wizard.State) (Result, error) {
	if st.Step != wizard.StepPaymentChosen {
		s.count(outcomeRejected)
		return Result{}, wizard.ErrInvalidTransition
	}
	if err := st.Validate(); err != nil {
		s.count(outcomeRejected)
		return Result{}, err
	}
	if st.Selection.ShowtimeID <= 0 {
		s.count(outcomeRejected)
		return Result{}, ErrMissingShowtime
	}

	quote, err := s.prices.Reconcile(ctx, st.Selection)
	if err != nil {
		s.count(outcomeError)
		return Result{}, fmt.Errorf("reconcile prices: %w", err)
	}
	if quote.Changed() {
		s.log.Info("booking.Submit: food prices changed since quote",
			zap.String("user_id", sess.UserID), zap.Int64("total", quote.Total))
		if s.metrics != nil {
			s.metrics.priceChanges.Inc()
		}
	}

	req := s.buildRequest(sess, st.Selection, quote)
	if err := s.validate.Validate(req); err != nil {
		s.count(outcomeRejected)
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	res, err := s.api.CreateBooking(ctx, st.Selection.PaymentMethod, req)
	if err != nil {
		if errors.Is(err, apiclient.ErrSeatConflict) {
			next, terr := wizard.Transition(st, wizard.Conflict{})
			if terr != nil {
				return Result{}, terr
			}
			s.count(outcomeConflict)
			s.log.Info("booking.Submit: seat conflict",
				zap.String("user_id", sess.UserID), zap.Int64("showtime_id", req.ShowtimeID))
			return Result{Outcome: OutcomeConflict, Next: next, Quote: quote, Message: ConflictMessage, GoBack: true}, nil
		}
		s.count(outcomeError)
		return Result{}, fmt.Errorf("create booking: %w", err)
	}

	out := Result{Quote: quote, Booking: res.Booking}
	if res.IsRedirect() {
		out.Outcome = OutcomeRedirect
		out.RedirectURL = res.RedirectURL
		out.Next = st
	} else {
		next, err := wizard.Transition(st, wizard.Complete{})
		if err != nil {
			return Result{}, err
		}
		out.Outcome = OutcomeCompleted
		out.Next = next
	}
	s.count(out.Outcome.String())
	s.publish(ctx, sess, st.Selection, quote, out)
	return out, nil
}

// ErrMissingShowtime is returned when the selection does not name the
// showtime to book. URLs edited by hand can get here without one.
var ErrMissingShowtime = wizard.ErrMissingShowtime

// ErrInvalidBooking is returned when the assembled booking request breaks
// the API's field rules, e.g. a session without a user id or a food line
// whose id did not decode. The API is not called.
var ErrInvalidBooking = errors.New("invalid booking request")

func (s *BookingService) buildRequest(sess session.Session, sel bookingparams.Selection, q pricing.Quote) model.BookingRequest {
	req := model.BookingRequest{
		UserID:      sess.UserID,
		ShowtimeID:  sel.ShowtimeID,
		BookingTime: s.now().Format(model.BookingTimeLayout),
		Status:      model.BookingPending,
		TotalAmount: q.Total,
		Seats:       make([]model.BookingSeat, 0, len(sel.Seats)),
		Food:        make([]model.BookingFood, 0, len(q.Food)),
	}
	for _, seat := range sel.Seats {
		req.Seats = append(req.Seats, model.BookingSeat{SeatID: seat.Name, Price: seat.Price})
	}
	for _, line := range q.Food {
		req.Food = append(req.Food, model.BookingFood{InventoryID: line.ID, Quantity: line.Quantity, Price: line.UnitPrice})
	}
	return req
}

// publish emits booking.created. Failures are logged and counted only.
func (s *BookingService) publish(ctx context.Context, sess session.Session, sel bookingparams.Selection, q pricing.Quote, r Result) {
	if s.events == nil {
		return
	}
	ev := queue.NewBookingCreatedEvent(s.now())
	ev.UserID = sess.UserID
	ev.ShowtimeID = sel.ShowtimeID
	ev.MovieTitle = sel.MovieTitle
	ev.TheaterName = sel.TheaterName
	ev.Showtime = sel.Showtime
	ev.Date = sel.Date
	ev.TotalAmount = q.Total
	ev.PaymentMethod = sel.PaymentMethod
	ev.Redirected = r.Outcome == OutcomeRedirect
	if r.Booking != nil {
		ev.BookingID = r.Booking.ID
	}
	for _, seat := range sel.Seats {
		ev.Seats = append(ev.Seats, seat.Name)
	}
	for _, line := range q.Food {
		ev.FoodItems += line.Quantity
	}
	if err := s.events.PublishBookingCreated(ctx, ev); err != nil {
		s.log.Warn("booking.publish: booking.created not sent", zap.String("event_id", ev.EventID), zap.Error(err))
		if s.metrics != nil {
			s.metrics.publishFailed.Inc()
		}
	}
}

func (s *BookingService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.submissions.WithLabelValues(outcome).Inc()
	}
}

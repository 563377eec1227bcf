package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
	"github.com/iliyamo/movie-ticket-booking/internal/wizard"
)

// Quoter prices a selection for display.
type Quoter interface {
	Quote(ctx context.Context, sel bookingparams.Selection) pricing.Quote
}

// Submitter books a finished selection.
type Submitter interface {
	Submit(ctx context.Context, sess session.Session, st wizard.State) (service.Result, error)
}

// FoodMenu lists the food that can be added to a booking.
type FoodMenu interface {
	ListFood(ctx context.Context) ([]model.FoodItem, error)
}

// BookingHandler drives the booking wizard. Every endpoint reads the wizard
// state from the request's query string, which is the page URL the front
// end is on, and answers with the URL of the page to go to next.
type BookingHandler struct {
	Prices  Quoter
	Service Submitter
	Menu    FoodMenu
	Log     *zap.Logger
}

// stateView is the JSON form of a wizard state.
type stateView struct {
	Step      wizard.Step             `json:"step"`
	Selection bookingparams.Selection `json:"selection"`
	URL       string                  `json:"url"`
}

func view(st wizard.State) stateView {
	return stateView{Step: st.Step, Selection: st.Selection, URL: st.URL()}
}

// state decodes the wizard state carried by the request and checks that it
// is one of the steps the page accepts.
func (h *BookingHandler) state(c echo.Context, allowed ...wizard.Step) (wizard.State, error) {
	st, err := wizard.Parse(c.Request().RequestURI)
	if err != nil {
		return wizard.State{}, err
	}
	if len(allowed) == 0 {
		return st, nil
	}
	for _, s := range allowed {
		if st.Step == s {
			return st, nil
		}
	}
	return wizard.State{}, wizard.ErrInvalidTransition
}

// GetShowtime echoes the decoded state of the seat selection page.
func (h *BookingHandler) GetShowtime(c echo.Context) error {
	st, err := h.state(c)
	if err != nil {
		return wizardError(c, h.Log, "booking.GetShowtime", err)
	}
	return c.JSON(http.StatusOK, view(st))
}

// selectShowtimeRequest is the body of POST /booking/showtime.
type selectShowtimeRequest struct {
	MovieTitle  string               `json:"movieTitle"`
	TheaterName string               `json:"theaterName"`
	Showtime    string               `json:"showtime"`
	ShowtimeID  int64                `json:"showtimeId"`
	Date        string               `json:"date"`
	Seats       []bookingparams.Seat `json:"seats"`
}

// SelectShowtime records the chosen showtime and seats and points to the
// food page.
func (h *BookingHandler) SelectShowtime(c echo.Context) error {
	st, err := h.state(c, wizard.StepStart, wizard.StepShowtimeSelected)
	if err != nil {
		return wizardError(c, h.Log, "booking.SelectShowtime", err)
	}
	var req selectShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	next, err := wizard.Transition(st, wizard.SelectShowtime{
		MovieTitle:  req.MovieTitle,
		TheaterName: req.TheaterName,
		Showtime:    req.Showtime,
		ShowtimeID:  req.ShowtimeID,
		Date:        req.Date,
		Seats:       req.Seats,
	})
	if err != nil {
		return wizardError(c, h.Log, "booking.SelectShowtime", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"next": next.URL(), "state": view(next)})
}

// GetFood returns the state of the food page together with the menu. A
// menu failure degrades to an empty menu.
func (h *BookingHandler) GetFood(c echo.Context) error {
	st, err := h.state(c, wizard.StepShowtimeSelected, wizard.StepFoodSelected)
	if err != nil {
		return wizardError(c, h.Log, "booking.GetFood", err)
	}
	resp := echo.Map{"state": view(st)}
	menu, err := h.Menu.ListFood(c.Request().Context())
	if err != nil {
		h.Log.Warn("booking.GetFood: menu degraded to empty", zap.Error(err))
		menu = []model.FoodItem{}
		resp["degraded"] = true
	}
	if menu == nil {
		menu = []model.FoodItem{}
	}
	resp["menu"] = menu
	return c.JSON(http.StatusOK, resp)
}

// adjustFoodRequest is the body of POST /booking/food.
type adjustFoodRequest struct {
	ItemID int64  `json:"itemId"`
	Name   string `json:"name"`
	Delta  int    `json:"delta"`
}

// AdjustFood changes one food quantity and returns the updated page URL.
func (h *BookingHandler) AdjustFood(c echo.Context) error {
	st, err := h.state(c, wizard.StepShowtimeSelected, wizard.StepFoodSelected)
	if err != nil {
		return wizardError(c, h.Log, "booking.AdjustFood", err)
	}
	var req adjustFoodRequest
	if err := c.Bind(&req); err != nil || req.ItemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itemId is required"})
	}
	next, err := wizard.Transition(st, wizard.AdjustFood{ItemID: req.ItemID, Name: req.Name, Delta: req.Delta})
	if err != nil {
		return wizardError(c, h.Log, "booking.AdjustFood", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"next": next.URL(), "state": view(next)})
}

// ProceedToPayment leaves the food page.
func (h *BookingHandler) ProceedToPayment(c echo.Context) error {
	st, err := h.state(c, wizard.StepShowtimeSelected, wizard.StepFoodSelected)
	if err != nil {
		return wizardError(c, h.Log, "booking.ProceedToPayment", err)
	}
	next, err := wizard.Transition(st, wizard.ProceedToPayment{})
	if err != nil {
		return wizardError(c, h.Log, "booking.ProceedToPayment", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"next": next.URL(), "state": view(next)})
}

// GetPayment quotes the selection and lists the payment methods.
func (h *BookingHandler) GetPayment(c echo.Context) error {
	st, err := h.state(c, wizard.StepFoodSelected, wizard.StepPaymentChosen)
	if err != nil {
		return wizardError(c, h.Log, "booking.GetPayment", err)
	}
	q := h.Prices.Quote(c.Request().Context(), st.Selection)
	return c.JSON(http.StatusOK, echo.Map{
		"state":   view(st),
		"quote":   q,
		"methods": wizard.PaymentMethods,
	})
}

// choosePaymentRequest is the body of POST /booking/payment.
type choosePaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// SubmitPayment chooses the payment method and books. The answer is one of:
//
//	200 {"redirectUrl"}          – continue at the payment gateway
//	200 {"next", "booking"}      – booked, go to the success page
//	409 {"error", "goBack"}      – a seat was taken, go back and reselect
//	400                          – no or unknown payment method; nothing booked
func (h *BookingHandler) SubmitPayment(c echo.Context) error {
	sess, err := session.From(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	st, err := h.state(c, wizard.StepFoodSelected, wizard.StepPaymentChosen)
	if err != nil {
		return wizardError(c, h.Log, "booking.SubmitPayment", err)
	}
	var req choosePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	chosen, err := wizard.Transition(st, wizard.ChoosePayment{Method: wizard.PaymentMethod(req.PaymentMethod)})
	if err != nil {
		return wizardError(c, h.Log, "booking.SubmitPayment", err)
	}

	res, err := h.Service.Submit(c.Request().Context(), sess, chosen)
	if err != nil {
		return wizardError(c, h.Log, "booking.SubmitPayment", err)
	}
	switch res.Outcome {
	case service.OutcomeRedirect:
		return c.JSON(http.StatusOK, echo.Map{"redirectUrl": res.RedirectURL})
	case service.OutcomeConflict:
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  res.Message,
			"goBack": res.GoBack,
			"next":   res.Next.URL(),
		})
	default:
		return c.JSON(http.StatusOK, echo.Map{
			"next":    res.Next.URL(),
			"state":   view(res.Next),
			"quote":   res.Quote,
			"booking": res.Booking,
		})
	}
}

// GetSuccess redisplays a completed booking from its URL and links home.
func (h *BookingHandler) GetSuccess(c echo.Context) error {
	st, err := h.state(c, wizard.StepCompleted)
	if err != nil {
		return wizardError(c, h.Log, "booking.GetSuccess", err)
	}
	q := h.Prices.Quote(c.Request().Context(), st.Selection)
	return c.JSON(http.StatusOK, echo.Map{
		"state": view(st),
		"quote": q,
		"home":  wizard.PathHome,
	})
}

package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AuditWriter stores audit rows. GetByEvent answers repository.ErrNotFound
// for an event that was never stored.
type AuditWriter interface {
	GetByEvent(ctx context.Context, eventID string) (model.BookingAudit, error)
	Insert(ctx context.Context, a model.BookingAudit) error
}

// errBadMessage marks a message that can never be stored, however often it
// is redelivered.
var errBadMessage = errors.New("bad booking.created message")

// requeueDelay paces redeliveries while the audit store is failing.
const requeueDelay = 2 * time.Second

// disposition decides what to tell the broker once a message was handled:
// ack on success, drop a bad message, requeue anything else.
func disposition(err error) (ack, requeue bool) {
	switch {
	case err == nil:
		return true, false
	case errors.Is(err, errBadMessage):
		return false, false
	default:
		return false, true
	}
}

// Consumer listens to the booking.created queue and writes every event to
// the audit trail.
type Consumer struct {
	url   string
	store AuditWriter
	log   *zap.Logger
}

// NewConsumer returns a consumer for the broker at url.
func NewConsumer(url string, store AuditWriter, log *zap.Logger) *Consumer {
	return &Consumer{url: url, store: store, log: log}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled. Lost
// connections are redialled with exponential backoff capped at 30s. A
// malformed message is rejected without requeue so it cannot loop; a
// message that failed to store is requeued.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("booking consumer: consume loop ended, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("booking consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(BookingCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			err := c.Handle(ctx, d.Body)
			ack, requeue := disposition(err)
			if ack {
				_ = d.Ack(false)
				continue
			}
			c.log.Error("booking consumer: handle message failed", zap.Error(err), zap.Bool("requeue", requeue))
			_ = d.Nack(false, requeue)
			if requeue {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(requeueDelay):
				}
			}
		}
	}
}

// Handle decodes one message body and stores it. Errors wrapping
// errBadMessage mean the body itself is unusable. An event that was already
// stored is acknowledged without a second insert.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: unmarshal: %v", errBadMessage, err)
	}
	if ev.EventID == "" || ev.UserID == "" {
		return fmt.Errorf("%w: event without id or user", errBadMessage)
	}

	_, err := c.store.GetByEvent(ctx, ev.EventID)
	switch {
	case err == nil:
		c.log.Info("booking consumer: duplicate event skipped", zap.String("event_id", ev.EventID))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup audit: %w", err)
	}

	created, err := time.Parse(time.RFC3339, ev.CreatedAt)
	if err != nil {
		created = time.Now().UTC()
	}
	row := model.BookingAudit{
		EventID:       ev.EventID,
		BookingID:     ev.BookingID,
		UserID:        ev.UserID,
		ShowtimeID:    ev.ShowtimeID,
		MovieTitle:    ev.MovieTitle,
		TheaterName:   ev.TheaterName,
		Showtime:      ev.Showtime,
		ShowDate:      ev.Date,
		Seats:         model.SeatNames(ev.Seats),
		FoodItems:     ev.FoodItems,
		TotalAmount:   ev.TotalAmount,
		PaymentMethod: ev.PaymentMethod,
		Redirected:    ev.Redirected,
		CreatedAt:     created,
	}
	if err := c.store.Insert(ctx, row); err != nil {
		return fmt.Errorf("store audit: %w", err)
	}
	c.log.Info("booking recorded",
		zap.String("event_id", ev.EventID),
		zap.Int64("booking_id", ev.BookingID),
		zap.String("user_id", ev.UserID),
		zap.Int64("showtime_id", ev.ShowtimeID),
		zap.Strings("seats", ev.Seats),
		zap.Int64("total", ev.TotalAmount),
		zap.Bool("redirected", ev.Redirected),
	)
	return nil
}

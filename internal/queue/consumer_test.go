package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

type memAudit struct {
	rows      []model.BookingAudit
	err       error
	lookupErr error
}

func (m *memAudit) GetByEvent(_ context.Context, eventID string) (model.BookingAudit, error) {
	if m.lookupErr != nil {
		return model.BookingAudit{}, m.lookupErr
	}
	for _, r := range m.rows {
		if r.EventID == eventID {
			return r, nil
		}
	}
	return model.BookingAudit{}, repository.ErrNotFound
}

func (m *memAudit) Insert(_ context.Context, a model.BookingAudit) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, a)
	return nil
}

func eventBody(t *testing.T, ev BookingCreatedEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func TestHandleStoresAuditRow(t *testing.T) {
	store := &memAudit{}
	c := NewConsumer("", store, zap.NewNop())

	ev := NewBookingCreatedEvent(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))
	ev.BookingID = 55
	ev.UserID = "42"
	ev.ShowtimeID = 9
	ev.MovieTitle = "Mai"
	ev.Seats = []string{"A1", "B,2"}
	ev.FoodItems = 3
	ev.TotalAmount = 300000
	ev.PaymentMethod = "momo"
	require.NoError(t, c.Handle(context.Background(), eventBody(t, ev)))
	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, ev.EventID, row.EventID)
	assert.Equal(t, model.SeatNames{"A1", "B,2"}, row.Seats)
	assert.Equal(t, int64(300000), row.TotalAmount)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), row.CreatedAt)
}

func TestHandleSkipsStoredEvent(t *testing.T) {
	store := &memAudit{}
	c := NewConsumer("", store, zap.NewNop())
	body := eventBody(t, BookingCreatedEvent{EventID: "e-1", UserID: "42"})

	require.NoError(t, c.Handle(context.Background(), body))
	require.NoError(t, c.Handle(context.Background(), body))
	assert.Len(t, store.rows, 1)
}

func TestHandleErrorsDecideRequeue(t *testing.T) {
	tests := []struct {
		name        string
		store       *memAudit
		body        []byte
		wantAck     bool
		wantRequeue bool
	}{
		{name: "stored", store: &memAudit{}, body: []byte(`{"event_id":"e","user_id":"1"}`), wantAck: true},
		{name: "not json", store: &memAudit{}, body: []byte("not json")},
		{name: "missing event id", store: &memAudit{}, body: []byte(`{"user_id":"1"}`)},
		{
			name:        "insert fails",
			store:       &memAudit{err: errors.New("dial tcp: connection refused")},
			body:        []byte(`{"event_id":"e","user_id":"1"}`),
			wantRequeue: true,
		},
		{
			name:        "lookup fails",
			store:       &memAudit{lookupErr: errors.New("dial tcp: connection refused")},
			body:        []byte(`{"event_id":"e","user_id":"1"}`),
			wantRequeue: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConsumer("", tt.store, zap.NewNop()).Handle(context.Background(), tt.body)
			ack, requeue := disposition(err)
			assert.Equal(t, tt.wantAck, ack)
			assert.Equal(t, tt.wantRequeue, requeue)
		})
	}
}

func TestNewBookingCreatedEventHasUniqueIDs(t *testing.T) {
	now := time.Now()
	a, b := NewBookingCreatedEvent(now), NewBookingCreatedEvent(now)
	assert.NotEmpty(t, a.EventID)
	assert.NotEqual(t, a.EventID, b.EventID)
}

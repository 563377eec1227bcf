package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// AuditSchema creates the booking_audit table. event_id is unique so a
// redelivered event is stored once.
const AuditSchema = `CREATE TABLE IF NOT EXISTS booking_audit (
	id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	event_id       CHAR(36)     NOT NULL,
	booking_id     BIGINT       NOT NULL DEFAULT 0,
	user_id        VARCHAR(64)  NOT NULL,
	showtime_id    BIGINT       NOT NULL,
	movie_title    VARCHAR(255) NOT NULL DEFAULT '',
	theater_name   VARCHAR(255) NOT NULL DEFAULT '',
	showtime       VARCHAR(32)  NOT NULL DEFAULT '',
	show_date      VARCHAR(10)  NOT NULL DEFAULT '',
	seats          TEXT         NOT NULL,
	food_items     INT          NOT NULL DEFAULT 0,
	total_amount   BIGINT       NOT NULL,
	payment_method VARCHAR(32)  NOT NULL,
	redirected     BOOLEAN      NOT NULL DEFAULT FALSE,
	created_at     DATETIME     NOT NULL,
	UNIQUE KEY uq_booking_audit_event (event_id),
	KEY idx_booking_audit_user (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// AuditRepo reads and writes booking_audit rows. All timestamps are UTC.
type AuditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo returns a repository bound to db.
func NewAuditRepo(db *sqlx.DB) *AuditRepo { return &AuditRepo{db: db} }

// Migrate creates the table when missing.
func (r *AuditRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, AuditSchema)
	return err
}

// Insert stores a row. Inserting an event id that already exists is a
// no-op, so redelivered messages are harmless.
func (r *AuditRepo) Insert(ctx context.Context, a model.BookingAudit) error {
	const q = `INSERT INTO booking_audit
		(event_id, booking_id, user_id, showtime_id, movie_title, theater_name, showtime, show_date,
		 seats, food_items, total_amount, payment_method, redirected, created_at)
		VALUES
		(:event_id, :booking_id, :user_id, :showtime_id, :movie_title, :theater_name, :showtime, :show_date,
		 :seats, :food_items, :total_amount, :payment_method, :redirected, :created_at)
		ON DUPLICATE KEY UPDATE id = id`
	_, err := r.db.NamedExecContext(ctx, q, a)
	return err
}

// ListByUser returns the newest rows of a user, at most limit of them.
func (r *AuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.BookingAudit, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `SELECT id, event_id, booking_id, user_id, showtime_id, movie_title, theater_name, showtime,
		show_date, seats, food_items, total_amount, payment_method, redirected, created_at
		FROM booking_audit WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows := []model.BookingAudit{}
	if err := r.db.SelectContext(ctx, &rows, q, userID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByEvent returns the row stored for an event id.
func (r *AuditRepo) GetByEvent(ctx context.Context, eventID string) (model.BookingAudit, error) {
	const q = `SELECT id, event_id, booking_id, user_id, showtime_id, movie_title, theater_name, showtime,
		show_date, seats, food_items, total_amount, payment_method, redirected, created_at
		FROM booking_audit WHERE event_id = ?`
	var a model.BookingAudit
	if err := r.db.GetContext(ctx, &a, q, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingAudit{}, ErrNotFound
		}
		return model.BookingAudit{}, err
	}
	return a, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

var ErrReminderNotFound = errors.New("reminder not found")

type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// GetByUserID retrieves a user's reminder settings.
// Returns ErrReminderNotFound if the record doesn't exist.
func (r *ReminderRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserReminder, error) {
	query := `
		SELECT user_id, enabled, hour_utc, last_sent_at
		FROM user_reminders
		WHERE user_id = $1
	`

	var rem entities.UserReminder
	err := r.db.QueryRow(ctx, query, userID).Scan(&rem.UserID, &rem.Enabled, &rem.HourUTC, &rem.LastSentAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReminderNotFound
		}

		return nil, fmt.Errorf("get reminder: %w", err)
	}

	return &rem, nil
}

// Upsert creates or updates a reminder record.
func (r *ReminderRepository) Upsert(ctx context.Context, rem *entities.UserReminder) error {
	query := `
		INSERT INTO user_reminders (user_id, enabled, hour_utc, last_sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			enabled = excluded.enabled,
			hour_utc = excluded.hour_utc
	`

	_, err := r.db.Exec(ctx, query, rem.UserID, rem.Enabled, rem.HourUTC, rem.LastSentAt)
	if err != nil {
		return fmt.Errorf("upsert reminder: %w", err)
	}

	return nil
}

// GetDueUsers returns users whose reminder hour matches and who were not
// nudged yet today (UTC).
func (r *ReminderRepository) GetDueUsers(ctx context.Context, hourUTC int) ([]int64, error) {
	query := `
		SELECT user_id
		FROM user_reminders
		WHERE enabled
		  AND hour_utc = $1
		  AND (last_sent_at IS NULL OR last_sent_at < date_trunc('day', now() AT TIME ZONE 'UTC'))
	`

	rows, err := r.db.Query(ctx, query, hourUTC)
	if err != nil {
		return nil, fmt.Errorf("get due users: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

// MarkAsSent records the nudge timestamp.
func (r *ReminderRepository) MarkAsSent(ctx context.Context, userID int64, sentAt time.Time) error {
	query := `UPDATE user_reminders SET last_sent_at = $2 WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID, sentAt); err != nil {
		return fmt.Errorf("mark reminder as sent: %w", err)
	}

	return nil
}

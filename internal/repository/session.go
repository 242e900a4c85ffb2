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

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists training sessions: one row per user plus the
// active/passed word rows of the current round. Callers serialize access
// per user, so plain read-modify-write is enough here.
type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load restores a user's session.
// Returns ErrSessionNotFound if the user has none.
func (r *SessionRepository) Load(ctx context.Context, userID int64) (*entities.Session, error) {
	query := `
		SELECT mode, current_entry_id, current_sentence, last_entry_id
		FROM sessions
		WHERE user_id = $1
	`

	var (
		mode            string
		currentEntryID  *int64
		currentSentence *string
		lastEntryID     int64
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(&mode, &currentEntryID, &currentSentence, &lastEntryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("get session: %w", err)
	}

	sess := &entities.Session{
		UserID:      userID,
		Mode:        entities.TrainingMode(mode),
		LastEntryID: lastEntryID,
	}

	if currentEntryID != nil {
		sess.Current = &entities.QuestionRef{EntryID: *currentEntryID}
		if currentSentence != nil {
			sess.Current.Sentence = *currentSentence
		}
	}

	wordsQuery := `SELECT entry_id, passed FROM session_words WHERE user_id = $1 ORDER BY entry_id`

	rows, err := r.db.Query(ctx, wordsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("get session words: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID int64
			passed  bool
		)
		if err := rows.Scan(&entryID, &passed); err != nil {
			return nil, fmt.Errorf("scan session word: %w", err)
		}

		if passed {
			sess.Passed = append(sess.Passed, entryID)
		} else {
			sess.Active = append(sess.Active, entryID)
		}
	}

	return sess, rows.Err()
}

// Save rewrites the user's session atomically.
func (r *SessionRepository) Save(ctx context.Context, sess *entities.Session) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		currentEntryID  *int64
		currentSentence *string
	)
	if sess.Current != nil {
		currentEntryID = &sess.Current.EntryID
		if sess.Current.Sentence != "" {
			currentSentence = &sess.Current.Sentence
		}
	}

	query := `
		INSERT INTO sessions (user_id, mode, current_entry_id, current_sentence, last_entry_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			mode = excluded.mode,
			current_entry_id = excluded.current_entry_id,
			current_sentence = excluded.current_sentence,
			last_entry_id = excluded.last_entry_id,
			updated_at = excluded.updated_at
	`
	_, err = tx.Exec(ctx, query,
		sess.UserID,
		string(sess.Mode),
		currentEntryID,
		currentSentence,
		sess.LastEntryID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM session_words WHERE user_id = $1`, sess.UserID); err != nil {
		return fmt.Errorf("delete session words: %w", err)
	}

	batch := &pgx.Batch{}
	for _, id := range sess.Active {
		batch.Queue(
			`INSERT INTO session_words (user_id, entry_id, passed) VALUES ($1, $2, false)`,
			sess.UserID, id,
		)
	}
	for _, id := range sess.Passed {
		batch.Queue(
			`INSERT INTO session_words (user_id, entry_id, passed) VALUES ($1, $2, true)`,
			sess.UserID, id,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert session words: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Clear removes the user's session. Clearing an absent session is a no-op.
func (r *SessionRepository) Clear(ctx context.Context, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM session_words WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session words: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

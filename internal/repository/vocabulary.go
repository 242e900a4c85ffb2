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

var (
	ErrVocabularyNotFound = errors.New("vocabulary not found")
	ErrEntryNotFound      = errors.New("entry not found")
)

// VocabularyRepository stores imported dictionaries: one language-pair row
// per user plus the word-pair entries.
type VocabularyRepository struct {
	db *pgxpool.Pool
}

func NewVocabularyRepository(db *pgxpool.Pool) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// ListEntries returns every entry of the user's dictionary.
func (r *VocabularyRepository) ListEntries(ctx context.Context, userID int64) ([]entities.Entry, error) {
	query := `
		SELECT id, user_id, native_text, target_text
		FROM vocabulary_entries
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []entities.Entry
	for rows.Next() {
		var e entities.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.NativeText, &e.TargetText); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// ListEntryIDs returns the IDs of every entry of the user's dictionary.
func (r *VocabularyRepository) ListEntryIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT id FROM vocabulary_entries WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list entry ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entry id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

// GetByID returns a single entry of the user's dictionary.
// Returns ErrEntryNotFound if the entry doesn't exist.
func (r *VocabularyRepository) GetByID(ctx context.Context, userID, entryID int64) (*entities.Entry, error) {
	query := `
		SELECT id, user_id, native_text, target_text
		FROM vocabulary_entries
		WHERE user_id = $1 AND id = $2
	`

	var e entities.Entry
	err := r.db.QueryRow(ctx, query, userID, entryID).Scan(&e.ID, &e.UserID, &e.NativeText, &e.TargetText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}

		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &e, nil
}

// LanguageLabels returns the language labels detected at import time.
// Returns ErrVocabularyNotFound if the user has no dictionary.
func (r *VocabularyRepository) LanguageLabels(ctx context.Context, userID int64) (entities.LanguagePair, error) {
	query := `SELECT native_lang, target_lang FROM dictionaries WHERE user_id = $1`

	var langs entities.LanguagePair
	err := r.db.QueryRow(ctx, query, userID).Scan(&langs.Native, &langs.Target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.LanguagePair{}, ErrVocabularyNotFound
		}

		return entities.LanguagePair{}, fmt.Errorf("get language labels: %w", err)
	}

	return langs, nil
}

// ReplaceDictionary atomically swaps the user's dictionary for the given
// word pairs. Entry IDs are regenerated.
func (r *VocabularyRepository) ReplaceDictionary(
	ctx context.Context,
	userID int64,
	langs entities.LanguagePair,
	pairs []entities.WordPair,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	langQuery := `
		INSERT INTO dictionaries (user_id, native_lang, target_lang, imported_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			native_lang = excluded.native_lang,
			target_lang = excluded.target_lang,
			imported_at = excluded.imported_at
	`
	if _, err := tx.Exec(ctx, langQuery, userID, langs.Native, langs.Target, time.Now()); err != nil {
		return fmt.Errorf("upsert dictionary: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM vocabulary_entries WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete old entries: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(
			`INSERT INTO vocabulary_entries (user_id, native_text, target_text) VALUES ($1, $2, $3)`,
			userID, p.NativeText, p.TargetText,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// SaveUser inserts a user if it does not exist yet.
func (r *UserRepository) SaveUser(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name, language_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(
		ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	return nil
}

// UserExists reports whether a user with the given ID exists.
func (r *UserRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}

	return exists, nil
}

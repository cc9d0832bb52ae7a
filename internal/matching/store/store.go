package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, owner uuid.UUID, note string) (expense.Category, error) {
	query := `
		SELECT category
		FROM category_hints
		WHERE user_id = $1 AND strpos($2, pattern) > 0
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, owner, note).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return expense.Category(category), nil
}

func (s *Store) UpsertHint(ctx context.Context, owner uuid.UUID, pattern string, category expense.Category) error {
	query := `
		INSERT INTO category_hints (user_id, pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, pattern)
		DO UPDATE SET category = EXCLUDED.category, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, owner, pattern, string(category)); err != nil {
		return fmt.Errorf("upserting hint: %w", err)
	}

	return nil
}

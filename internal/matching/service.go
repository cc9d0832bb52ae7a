// Package matching learns which category an owner files a note under and suggests it
// the next time a similar note is typed.
package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

// minPatternLen keeps one- and two-letter notes from matching almost anything.
const minPatternLen = 3

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the category of the longest pattern contained in note, or "".
	FindMatch(ctx context.Context, owner uuid.UUID, note string) (expense.Category, error)
	UpsertHint(ctx context.Context, owner uuid.UUID, pattern string, category expense.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Normalize lowercases and collapses whitespace so "  Uber  Eats" and "uber eats" are
// the same pattern.
func Normalize(note string) string {
	return strings.Join(strings.Fields(strings.ToLower(note)), " ")
}

// Suggest returns the category learned for the longest pattern found in note.
// Returns an empty category if nothing matches.
func (s *Service) Suggest(ctx context.Context, owner uuid.UUID, note string) (expense.Category, error) {
	note = Normalize(note)
	if len(note) < minPatternLen {
		return "", nil
	}

	c, err := s.repo.FindMatch(ctx, owner, note)
	if err != nil {
		if database.IsUndefinedTable(err) {
			return "", expense.ErrStorageNotInitialized
		}

		return "", fmt.Errorf("suggest category: %w", err)
	}

	return c, nil
}

// Learn remembers that notes containing pattern belong to category. A later Learn for
// the same pattern replaces the category.
func (s *Service) Learn(ctx context.Context, owner uuid.UUID, pattern string, category expense.Category) error {
	pattern = Normalize(pattern)
	if len(pattern) < minPatternLen || category == "" {
		return nil
	}

	if err := s.repo.UpsertHint(ctx, owner, pattern, category); err != nil {
		if database.IsUndefinedTable(err) {
			return expense.ErrStorageNotInitialized
		}

		return fmt.Errorf("learn category: %w", err)
	}

	return nil
}

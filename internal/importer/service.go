package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

type Store interface {
	ImportBatch(ctx context.Context, owner uuid.UUID, params []expense.CreateParams) (*expense.ImportResult, error)
}

type Service struct {
	parser Parser
	store  Store
}

func NewService(store Store) *Service {
	return &Service{
		parser: NewCSV(),
		store:  store,
	}
}

// Import parses r and stores the rows for owner. When some rows already exist nothing
// is stored and the result lists the conflicts.
func (s *Service) Import(ctx context.Context, owner uuid.UUID, r io.Reader) (*expense.ImportResult, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	result, err := s.store.ImportBatch(ctx, owner, params)
	if err != nil {
		return nil, fmt.Errorf("import batch: %w", err)
	}

	return result, nil
}

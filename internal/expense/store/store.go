package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row from the scanner.
// Expected column order: id, user_id, amount, category, note, date, created_at, is_regret
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var category string

	var note sql.NullString

	if err := s.Scan(
		&e.ID, &e.Owner, &e.Amount, &category, &note, &e.Date, &e.CreatedAt, &e.IsRegret,
	); err != nil {
		return nil, err
	}

	e.Category = expense.Category(category)

	if note.Valid {
		e.Note = &note.String
	}

	return &e, nil
}

// Dates are selected as text so the zero-padded YYYY-MM-DD form survives any session
// DateStyle setting.
const selectExpenseColumns = `
	id, user_id, amount, category, note, to_char(date, 'YYYY-MM-DD'), created_at, is_regret
`

const insertExpense = `
	INSERT INTO expenses (user_id, amount, category, note, date, is_regret, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING id, created_at
`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	err := s.db.QueryRowContext(ctx, insertExpense,
		e.Owner,
		e.Amount,
		string(e.Category),
		e.Note,
		e.Date,
		e.IsRegret,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE user_id = $1`

	args := []any{filter.Owner}

	argIdx := 2

	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.Before != nil {
		query += fmt.Sprintf(" AND date < $%d", argIdx)

		args = append(args, *filter.Before)
		argIdx++
	}

	if filter.Through != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.Through)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	es := []*expense.Expense{}

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return es, nil
}

func (s *Store) DeleteExpense(ctx context.Context, owner, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	if _, err := s.db.ExecContext(ctx, query, id, owner); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}

func (s *Store) UpdateRegret(ctx context.Context, owner, id uuid.UUID, isRegret bool) error {
	query := `
		UPDATE expenses
		SET is_regret = $1
		WHERE id = $2 AND user_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, isRegret, id, owner)
	if err != nil {
		return fmt.Errorf("updating regret flag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating regret flag: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func importLockKey(owner uuid.UUID, minDate, maxDate string) int64 {
	h := fnv.New64a()
	h.Write(owner[:])
	h.Write([]byte(minDate))
	h.Write([]byte{0})
	h.Write([]byte(maxDate))

	return int64(h.Sum64())
}

type importTx struct {
	tx      *sql.Tx
	owner   uuid.UUID
	minDate string
	maxDate string
}

// BeginImport opens a transaction holding an advisory lock on the owner's date range so
// two concurrent imports of the same file cannot both pass the duplicate check.
func (s *Store) BeginImport(ctx context.Context, owner uuid.UUID, minDate, maxDate string) (expense.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(owner, minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, owner: owner, minDate: minDate, maxDate: maxDate}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

type lookupKey struct {
	Date     string
	Amount   string
	Category expense.Category
	Note     string
}

func (itx *importTx) FindDuplicates(ctx context.Context, params []expense.CreateParams) ([]*expense.Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		note := ""
		if p.Note != nil {
			note = *p.Note
		}

		keySet[lookupKey{
			Date:     p.Date,
			Amount:   p.Amount.StringFixed(2),
			Category: p.Category,
			Note:     note,
		}] = struct{}{}
	}

	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.owner, itx.minDate, itx.maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		k := lookupKey{
			Date:     e.Date,
			Amount:   e.Amount.StringFixed(2),
			Category: e.Category,
			Note:     e.NoteText(),
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateExpenses(ctx context.Context, es []*expense.Expense) error {
	for _, e := range es {
		err := itx.tx.QueryRowContext(ctx, insertExpense,
			e.Owner,
			e.Amount,
			string(e.Category),
			e.Note,
			e.Date,
			e.IsRegret,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating expense: %w", err)
		}
	}

	return nil
}

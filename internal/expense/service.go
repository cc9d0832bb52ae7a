package expense

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// RecentLimit is how many entries the dashboard lists as recent.
const RecentLimit = 5

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	DeleteExpense(ctx context.Context, owner, id uuid.UUID) error
	UpdateRegret(ctx context.Context, owner, id uuid.UUID, isRegret bool) error

	BeginImport(ctx context.Context, owner uuid.UUID, minDate, maxDate string) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Expense, error)
	CreateExpenses(ctx context.Context, es []*Expense) error
	Commit() error
	Rollback() error
}

// ListFilter selects an owner's expenses. Results are always ordered by date, then
// creation time, newest first.
type ListFilter struct {
	Owner   uuid.UUID
	From    *string // inclusive lower date bound
	Before  *string // exclusive upper date bound
	Through *string // inclusive upper date bound
	Limit   int     // 0 means no limit
}

// Service is the single entry point to stored expenses. It scopes every call to an
// owner and reports a missing expenses table as ErrStorageNotInitialized.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's expenses, restricted to month when it is non-nil.
func (s *Service) List(ctx context.Context, owner uuid.UUID, month *Month) ([]*Expense, error) {
	filter := ListFilter{Owner: owner}

	if month != nil {
		filter.From = new(month.Start())
		filter.Before = new(month.Next())
	}

	return s.list(ctx, filter)
}

// MonthRecords returns the owner's expenses dated within m.
func (s *Service) MonthRecords(ctx context.Context, owner uuid.UUID, m Month) ([]*Expense, error) {
	return s.List(ctx, owner, &m)
}

// YearRecords returns the owner's expenses dated within the calendar year.
func (s *Service) YearRecords(ctx context.Context, owner uuid.UUID, year int) ([]*Expense, error) {
	y := strconv.Itoa(year)

	return s.list(ctx, ListFilter{
		Owner:   owner,
		From:    new(y + "-01-01"),
		Through: new(y + "-12-31"),
	})
}

// Between returns the owner's expenses dated from through through, both inclusive.
func (s *Service) Between(ctx context.Context, owner uuid.UUID, from, through string) ([]*Expense, error) {
	return s.list(ctx, ListFilter{Owner: owner, From: &from, Through: &through})
}

// Recent returns the owner's n latest expenses.
func (s *Service) Recent(ctx context.Context, owner uuid.UUID, n int) ([]*Expense, error) {
	return s.list(ctx, ListFilter{Owner: owner, Limit: n})
}

func (s *Service) list(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	if filter.Owner == uuid.Nil {
		return nil, ErrMissingOwner
	}

	es, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, normalize(err)
	}

	return es, nil
}

// Create stores a new expense for owner and returns it with its assigned ID and CreatedAt.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, params CreateParams) (*Expense, error) {
	e, err := newExpense(owner, params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, normalize(err)
	}

	return e, nil
}

// Delete removes an expense. Deleting an expense that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return ErrMissingOwner
	}

	return normalize(s.repo.DeleteExpense(ctx, owner, id))
}

// SetRegret updates only the regret flag of an expense.
func (s *Service) SetRegret(ctx context.Context, owner, id uuid.UUID, isRegret bool) error {
	if owner == uuid.Nil {
		return ErrMissingOwner
	}

	return normalize(s.repo.UpdateRegret(ctx, owner, id, isRegret))
}

type ImportResult struct {
	Imported  []*Expense
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Expense
}

type dupKey struct {
	Date     string
	Amount   string
	Category Category
	Note     string
}

func keyOf(e CreateParams) dupKey {
	note := ""
	if e.Note != nil {
		note = *e.Note
	}

	return dupKey{Date: e.Date, Amount: e.Amount.StringFixed(2), Category: e.Category, Note: note}
}

// ImportBatch stores params unless some of them already exist. When duplicates are found
// nothing is written and the caller gets the split between new rows and conflicts;
// CreateBatch can then store the rows the user confirms.
func (s *Service) ImportBatch(ctx context.Context, owner uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	es, err := newExpenses(owner, params)
	if err != nil {
		return nil, err
	}

	// Duplicate keys compare canonical dates; " 2026-03-04" must match "2026-03-04".
	params = slices.Clone(params)
	for i := range params {
		params[i].Date = es[i].Date
	}

	minDate, maxDate := dateRange(es)

	itx, err := s.repo.BeginImport(ctx, owner, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", normalize(err))
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", normalize(err))
	}

	lookup := make(map[dupKey]*Expense, len(duplicates))

	for _, d := range duplicates {
		lookup[keyOf(CreateParams{Date: d.Date, Amount: d.Amount, Category: d.Category, Note: d.Note})] = d
	}

	var (
		fresh     []*Expense
		newParams []CreateParams
		conflicts []Conflict
	)

	for i, p := range params {
		existing, found := lookup[keyOf(p)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		fresh = append(fresh, es[i])
		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := itx.CreateExpenses(ctx, fresh); err != nil {
		return nil, fmt.Errorf("create expenses: %w", normalize(err))
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: fresh}, nil
}

// CreateBatch stores params without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, owner uuid.UUID, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	es, err := newExpenses(owner, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(es)

	itx, err := s.repo.BeginImport(ctx, owner, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", normalize(err))
	}
	defer itx.Rollback()

	if err := itx.CreateExpenses(ctx, es); err != nil {
		return nil, fmt.Errorf("create expenses: %w", normalize(err))
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return es, nil
}

func newExpense(owner uuid.UUID, p CreateParams) (*Expense, error) {
	if owner == uuid.Nil {
		return nil, ErrMissingOwner
	}

	if p.Category == "" {
		return nil, ErrMissingCategory
	}

	date, err := ParseDate(p.Date)
	if err != nil {
		return nil, err
	}

	return &Expense{
		Owner:    owner,
		Amount:   p.Amount,
		Category: p.Category,
		Note:     p.Note,
		Date:     date,
		IsRegret: p.IsRegret,
	}, nil
}

func newExpenses(owner uuid.UUID, params []CreateParams) ([]*Expense, error) {
	es := make([]*Expense, len(params))

	for i, p := range params {
		e, err := newExpense(owner, p)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		es[i] = e
	}

	return es, nil
}

func dateRange(es []*Expense) (string, string) {
	minDate, maxDate := es[0].Date, es[0].Date

	for _, e := range es[1:] {
		minDate = min(minDate, e.Date)
		maxDate = max(maxDate, e.Date)
	}

	return minDate, maxDate
}

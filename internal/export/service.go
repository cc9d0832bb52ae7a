// Package export writes a month of expenses as a CSV file.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

// Header is the first row of every export.
var Header = []string{"Date", "Category", "Amount (INR)", "Note"}

// ContentType is served with the download.
const ContentType = "text/csv; charset=utf-8"

type Source interface {
	MonthRecords(ctx context.Context, owner uuid.UUID, m expense.Month) ([]*expense.Expense, error)
}

// Service exports an owner's month.
type Service struct {
	expenses Source
}

func NewService(expenses Source) *Service {
	return &Service{expenses: expenses}
}

// Filename names the export of m, e.g. "expenses_October_2026.csv".
func Filename(m expense.Month) string {
	return fmt.Sprintf("expenses_%s_%d.csv", m.Month, m.Year)
}

// Month writes the owner's expenses for m to w and returns how many rows were written.
func (s *Service) Month(ctx context.Context, owner uuid.UUID, m expense.Month, w io.Writer) (int, error) {
	records, err := s.expenses.MonthRecords(ctx, owner, m)
	if err != nil {
		return 0, fmt.Errorf("listing expenses: %w", err)
	}

	if err := CSV(w, records); err != nil {
		return 0, err
	}

	return len(records), nil
}

// CSV writes the header and one row per record. Text fields are always quoted and the
// amount never is. Notes are written verbatim so the file imports back unchanged; a
// note starting with "=" may still be evaluated by a spreadsheet.
func CSV(w io.Writer, records []*expense.Expense) error {
	bw := bufio.NewWriter(w)

	for i, h := range Header {
		if i > 0 {
			bw.WriteByte(',')
		}

		bw.WriteString(h)
	}

	bw.WriteString("\n")

	for _, r := range records {
		bw.WriteString(quote(r.Date))
		bw.WriteByte(',')
		bw.WriteString(quote(string(r.Category)))
		bw.WriteByte(',')
		bw.WriteString(r.Amount.StringFixed(2))
		bw.WriteByte(',')
		bw.WriteString(quote(r.NoteText()))
		bw.WriteString("\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

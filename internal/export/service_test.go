package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
)

type stubSource struct {
	records []*expense.Expense
	err     error
	month   expense.Month
}

func (s *stubSource) MonthRecords(_ context.Context, _ uuid.UUID, m expense.Month) ([]*expense.Expense, error) {
	s.month = m
	return s.records, s.err
}

func TestCSV(t *testing.T) {
	note := `said "never again"`

	records := []*expense.Expense{
		{Date: "2026-10-02", Category: expense.CategoryFoodDelivery, Amount: decimal.RequireFromString("349.5"), Note: &note},
		{Date: "2026-10-01", Category: expense.CategoryRent, Amount: decimal.NewFromInt(15000)},
	}

	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, records))

	want := "Date,Category,Amount (INR),Note\n" +
		`"2026-10-02","Swiggy / Zomato",349.50,"said ""never again"""` + "\n" +
		`"2026-10-01","Rent",15000.00,""` + "\n"

	assert.Equal(t, want, buf.String())
}

func TestCSV_NotesVerbatim(t *testing.T) {
	formula := "=1+1"
	padded := "001"

	records := []*expense.Expense{
		{Date: "2026-10-03", Category: expense.CategoryOther, Amount: decimal.NewFromInt(2), Note: &formula},
		{Date: "2026-10-02", Category: expense.CategoryOther, Amount: decimal.NewFromInt(1), Note: &padded},
	}

	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, records))

	assert.Contains(t, buf.String(), `"2026-10-03","Other",2.00,"=1+1"`+"\n")
	assert.Contains(t, buf.String(), `"2026-10-02","Other",1.00,"001"`+"\n")
}

func TestCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, nil))
	assert.Equal(t, "Date,Category,Amount (INR),Note\n", buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "expenses_October_2026.csv", export.Filename(expense.Month{Year: 2026, Month: time.October}))
	assert.Equal(t, "expenses_January_2027.csv", export.Filename(expense.Month{Year: 2027, Month: time.January}))
}

func TestService_Month(t *testing.T) {
	src := &stubSource{records: []*expense.Expense{
		{Date: "2026-10-05", Category: expense.CategoryCinema, Amount: decimal.NewFromInt(400)},
	}}

	var buf bytes.Buffer

	m := expense.Month{Year: 2026, Month: time.October}

	n, err := export.NewService(src).Month(context.Background(), uuid.New(), m, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, m, src.month)
	assert.Contains(t, buf.String(), `"Cinema",400.00,""`)
}

func TestService_MonthStorageError(t *testing.T) {
	src := &stubSource{err: expense.ErrStorageNotInitialized}

	var buf bytes.Buffer

	_, err := export.NewService(src).Month(context.Background(), uuid.New(), expense.Month{Year: 2026, Month: 1}, &buf)
	assert.True(t, errors.Is(err, expense.ErrStorageNotInitialized))
	assert.Zero(t, buf.Len(), "nothing is written on failure")
}

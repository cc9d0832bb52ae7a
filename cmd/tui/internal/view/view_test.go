package view

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

var fixedNow = func() time.Time { return time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC) }

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListModel_LastRequestWins(t *testing.T) {
	m := NewListModel(nil, nil, uuid.New(), fixedNow)
	assert.Equal(t, expense.Month{Year: 2026, Month: time.October}, m.month)

	next, cmd := m.Update(key("left"))
	require.NotNil(t, cmd)

	m = next.(ListModel)
	assert.Equal(t, expense.Month{Year: 2026, Month: time.September}, m.month)

	stale := []*expense.Expense{{Date: "2026-10-01", Category: expense.CategoryRent, Amount: decimal.NewFromInt(100)}}
	fresh := []*expense.Expense{{Date: "2026-09-03", Category: expense.CategoryGroceries, Amount: decimal.NewFromInt(40)}}

	next, _ = m.Update(loadListMsg{seq: 0, items: stale})
	m = next.(ListModel)
	assert.Empty(t, m.items, "response for the previous month is dropped")
	assert.True(t, m.loading)

	next, _ = m.Update(loadListMsg{seq: 1, items: fresh})
	m = next.(ListModel)
	assert.Equal(t, fresh, m.items)
	assert.False(t, m.loading)
	assert.True(t, m.total().Equal(decimal.NewFromInt(40)))
}

func TestListModel_FailedLoadKeepsRows(t *testing.T) {
	m := NewListModel(nil, nil, uuid.New(), fixedNow)

	rows := []*expense.Expense{{Date: "2026-10-01", Category: expense.CategoryRent, Amount: decimal.NewFromInt(100)}}

	next, _ := m.Update(loadListMsg{seq: 0, items: rows})
	m = next.(ListModel)

	next, _ = m.Update(key("r"))
	m = next.(ListModel)

	next, _ = m.Update(loadListMsg{seq: 1, err: errors.New("connection refused")})
	m = next.(ListModel)

	assert.Equal(t, rows, m.items)
	assert.Error(t, m.err)
}

func TestListModel_MutationFailureLeavesState(t *testing.T) {
	m := NewListModel(nil, nil, uuid.New(), fixedNow)
	seq := m.seq

	next, cmd := m.Update(listMutationMsg{err: expense.ErrNotFound})
	m = next.(ListModel)

	assert.Nil(t, cmd, "no refetch after a failed write")
	assert.Equal(t, seq, m.seq)
	assert.Contains(t, m.status, "not found")
}

func TestAddValues_Params(t *testing.T) {
	v := &addValues{
		amount:   "₹1,250.50",
		note:     "  dinner  ",
		date:     "2026-10-18",
		category: expense.CategoryEntertainment,
		regret:   true,
	}

	p, err := v.params()
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("1250.50")))
	require.NotNil(t, p.Note)
	assert.Equal(t, "dinner", *p.Note)
	assert.Equal(t, "2026-10-18", p.Date)
	assert.True(t, p.IsRegret)

	v.note = "   "
	p, err = v.params()
	require.NoError(t, err)
	assert.Nil(t, p.Note)

	v.amount = "abc"
	_, err = v.params()
	assert.Error(t, err)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, validateAmount("12.5"))
	assert.Error(t, validateAmount("0"))
	assert.Error(t, validateAmount("-3"))
	assert.Error(t, validateAmount(""))
}

func TestReportModel_LastRequestWins(t *testing.T) {
	m := NewReportModel(nil, uuid.New(), fixedNow)

	next, _ := m.Update(key("right"))
	m = next.(ReportModel)
	next, _ = m.Update(key("right"))
	m = next.(ReportModel)
	assert.Equal(t, expense.Month{Year: 2026, Month: time.December}, m.month)

	november := []stats.CategoryShare{{Name: expense.CategoryRent, Value: decimal.NewFromInt(1), Percentage: 100}}

	next, _ = m.Update(reportMsg{seq: 1, shares: november})
	m = next.(ReportModel)
	assert.Empty(t, m.shares)

	next, _ = m.Update(reportMsg{seq: 2, shares: []stats.CategoryShare{}})
	m = next.(ReportModel)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Nothing spent this month.")
}

func TestWrappedModel_Slides(t *testing.T) {
	m := NewWrappedModel(nil, uuid.New(), fixedNow)
	assert.Equal(t, 2026, m.year)

	slides := []stats.Slide{{Title: "one"}, {Title: "two"}}

	next, _ := m.Update(wrappedMsg{seq: 0, slides: slides})
	m = next.(WrappedModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(WrappedModel)
	assert.Equal(t, 1, m.slide)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(WrappedModel)
	assert.Equal(t, 1, m.slide, "stays on the last slide")

	next, _ = m.Update(key("["))
	m = next.(WrappedModel)
	assert.Equal(t, 2025, m.year)

	next, _ = m.Update(wrappedMsg{seq: 0, slides: slides})
	m = next.(WrappedModel)
	assert.True(t, m.loading, "stale year ignored")

	next, _ = m.Update(wrappedMsg{seq: 1})
	m = next.(WrappedModel)
	assert.Contains(t, m.View(), "Not enough data for 2025")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, SetupPrompt, ErrorText(expense.ErrStorageNotInitialized))
	assert.Equal(t, "Error: boom", ErrorText(errors.New("boom")))
}

func TestBack(t *testing.T) {
	m := NewDashboardModel(nil, uuid.New(), fixedNow)

	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestImportModel_Duplicates(t *testing.T) {
	m := NewImportModel(nil, nil, uuid.New())

	note := "milk"
	incoming := expense.CreateParams{Date: "2026-10-02", Category: expense.CategoryGroceries, Amount: decimal.NewFromInt(60), Note: &note}
	existing := &expense.Expense{Date: "2026-10-02", Category: expense.CategoryGroceries, Amount: decimal.NewFromInt(60), Note: &note}

	result := &expense.ImportResult{
		New:       []expense.CreateParams{{Date: "2026-10-03", Category: expense.CategoryRent, Amount: decimal.NewFromInt(900)}},
		Conflicts: []expense.Conflict{{Incoming: incoming, Existing: existing}},
	}

	next, _ := m.Update(parsedMsg{result: result})
	m = next.(ImportModel)
	require.Equal(t, importStateDuplicates, m.state)
	assert.Contains(t, m.View(), "1 new rows are ready")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(ImportModel)
	assert.True(t, m.keep[0])

	next, _ = m.Update(key("n"))
	m = next.(ImportModel)
	assert.False(t, m.keep[0])

	next, _ = m.Update(savedMsg{count: 1})
	m = next.(ImportModel)
	assert.Equal(t, importStateDone, m.state)
	assert.Equal(t, "Imported 1 expenses, skipped 1 duplicates.", m.summary)

	next, cmd := m.Update(key("esc"))
	m = next.(ImportModel)
	assert.Equal(t, importStatePick, m.state)
	assert.NotNil(t, cmd)
}

func TestImportModel_ParseError(t *testing.T) {
	m := NewImportModel(nil, nil, uuid.New())

	next, _ := m.Update(parsedMsg{err: expense.ErrStorageNotInitialized})
	m = next.(ImportModel)

	assert.Equal(t, importStateDone, m.state)
	assert.Contains(t, m.View(), "has not been set up")
}

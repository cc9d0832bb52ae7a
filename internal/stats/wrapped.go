package stats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

// NoCategory names the top category of a year without records.
const NoCategory expense.Category = "None"

// MonthTotal is the amount spent in one month; Month is 0 for January through 11.
type MonthTotal struct {
	Month  int
	Amount decimal.Decimal
}

// Name returns the English month name.
func (m MonthTotal) Name() string {
	return time.Month(m.Month + 1).String()
}

type WrappedStats struct {
	Year int

	TotalSpend     decimal.Decimal
	RegretTotal    decimal.Decimal
	CategoryTotals []CategoryTotal // largest first
	TopCategory    CategoryTotal
	MonthlyTotals  [12]decimal.Decimal
	PeakMonth      MonthTotal

	TransactionCount int
	RegretCount      int
}

// Wrapped summarises one calendar year of records.
func Wrapped(records []*expense.Expense, year int) WrappedStats {
	st := WrappedStats{
		Year:           year,
		TotalSpend:     sum(records),
		RegretTotal:    decimal.Zero,
		CategoryTotals: groupByCategory(records),
		TopCategory:    CategoryTotal{Name: NoCategory, Amount: decimal.Zero},
		PeakMonth:      MonthTotal{Month: 0, Amount: decimal.Zero},
	}

	for i := range st.MonthlyTotals {
		st.MonthlyTotals[i] = decimal.Zero
	}

	for _, r := range records {
		st.TransactionCount++

		if r.IsRegret {
			st.RegretCount++
			st.RegretTotal = st.RegretTotal.Add(r.Amount)
		}

		if m, ok := monthIndex(r.Date); ok {
			st.MonthlyTotals[m] = st.MonthlyTotals[m].Add(r.Amount)
		}
	}

	sortDesc(st.CategoryTotals)

	if len(st.CategoryTotals) > 0 {
		st.TopCategory = st.CategoryTotals[0]
	} else {
		st.CategoryTotals = []CategoryTotal{}
	}

	// Strictly greater, so the earliest month wins a tie.
	for m, total := range st.MonthlyTotals {
		if total.GreaterThan(st.PeakMonth.Amount) {
			st.PeakMonth = MonthTotal{Month: m, Amount: total}
		}
	}

	return st
}

// Insufficient reports a year without records. Callers show an empty state instead of
// the per-category and per-month highlights.
func (w WrappedStats) Insufficient() bool {
	return w.TransactionCount == 0
}

func monthIndex(date string) (int, bool) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return 0, false
	}

	return int(t.Month()) - 1, true
}

// Slide is one highlight of the year-in-review slideshow.
type Slide struct {
	Title    string
	Body     string
	Headline string
	Detail   string
}

// Slides returns the year-in-review in presentation order, or nil when Insufficient.
func (w WrappedStats) Slides() []Slide {
	if w.Insufficient() {
		return nil
	}

	return []Slide{
		{
			Title:    "Hey there!",
			Body:     fmt.Sprintf("Ready to see how you spent your %d?", w.Year),
			Headline: fmt.Sprintf("%d", w.Year),
		},
		{
			Title:    "The Big Number",
			Body:     "You moved quite a bit of money this year.",
			Headline: expense.FormatAmount(w.TotalSpend),
			Detail:   fmt.Sprintf("%d habits recorded.", w.TransactionCount),
		},
		{
			Title:    "Category Champion",
			Body:     "Your wallet had a favorite place to be.",
			Headline: string(w.TopCategory.Name),
			Detail:   expense.FormatAmount(w.TopCategory.Amount),
		},
		{
			Title:    "The Peak",
			Body:     "One month really pushed the limits.",
			Headline: w.PeakMonth.Name(),
			Detail:   "Your most expensive month.",
		},
		{
			Title:    "Emotional Audit",
			Body:     "Not every purchase brought a smile.",
			Headline: expense.FormatAmount(w.RegretTotal),
			Detail:   fmt.Sprintf("Spent on purchases you regretted. (%d items marked as regret)", w.RegretCount),
		},
		{
			Title:    "Year Summary",
			Body:     "Keep being mindful in the next one.",
			Headline: fmt.Sprintf("My %d Story", w.Year),
			Detail: fmt.Sprintf("Total Spend %s · Top Category %s · Total Regret %s",
				expense.FormatAmount(w.TotalSpend), w.TopCategory.Name, expense.FormatAmount(w.RegretTotal)),
		},
	}
}

package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

// DailyTotal is the amount spent on one date.
type DailyTotal struct {
	Date   string
	Amount decimal.Decimal
}

type DashboardStats struct {
	Today decimal.Decimal
	Month decimal.Decimal
	Year  decimal.Decimal

	// DailyHistory is sparse: only dates of the current month with spending appear,
	// oldest first. Use Last7Days for a gap-free series.
	DailyHistory []DailyTotal

	Recent []*expense.Expense
}

// Dashboard totals a year-to-date set of records against today.
// Records are bucketed by comparing zero-padded date strings, so every record is
// assumed to fall in today's year; Year is the sum of the whole input.
func Dashboard(records []*expense.Expense, today time.Time) DashboardStats {
	todayStr := expense.FormatDate(today)
	monthStart := expense.MonthOf(today).Start()

	st := DashboardStats{
		Today:  decimal.Zero,
		Month:  decimal.Zero,
		Year:   decimal.Zero,
		Recent: recent(records, expense.RecentLimit),
	}

	var thisMonth []*expense.Expense

	for _, r := range records {
		st.Year = st.Year.Add(r.Amount)

		if r.Date == todayStr {
			st.Today = st.Today.Add(r.Amount)
		}

		if r.Date >= monthStart {
			st.Month = st.Month.Add(r.Amount)
			thisMonth = append(thisMonth, r)
		}
	}

	st.DailyHistory = DailyTotals(thisMonth)

	return st
}

// DailyTotals sums records per date, oldest first. Dates without records are absent.
func DailyTotals(records []*expense.Expense) []DailyTotal {
	daily := make(map[string]decimal.Decimal)

	for _, r := range records {
		daily[r.Date] = daily[r.Date].Add(r.Amount)
	}

	totals := make([]DailyTotal, 0, len(daily))
	for date, amount := range daily {
		totals = append(totals, DailyTotal{Date: date, Amount: amount})
	}

	slices.SortFunc(totals, func(a, b DailyTotal) int {
		return cmp.Compare(a.Date, b.Date)
	})

	return totals
}

// recent returns the n latest records by date, then creation time.
func recent(records []*expense.Expense, n int) []*expense.Expense {
	sorted := slices.Clone(records)

	slices.SortStableFunc(sorted, func(a, b *expense.Expense) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	if sorted == nil {
		return []*expense.Expense{}
	}

	return sorted
}

// DayActivity is one day of the activity chart.
type DayActivity struct {
	Label  string // short weekday, e.g. "Mon"
	Date   string
	Amount decimal.Decimal
}

// Last7Days densifies history into the seven days ending on today, oldest first.
// Days without spending carry a zero amount.
func Last7Days(history []DailyTotal, today time.Time) []DayActivity {
	byDate := make(map[string]decimal.Decimal, len(history))
	for _, d := range history {
		byDate[d.Date] = byDate[d.Date].Add(d.Amount)
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	series := make([]DayActivity, 7)

	for i := range series {
		d := day.AddDate(0, 0, i-6)
		date := expense.FormatDate(d)

		amount, ok := byDate[date]
		if !ok {
			amount = decimal.Zero
		}

		series[i] = DayActivity{Label: d.Weekday().String()[:3], Date: date, Amount: amount}
	}

	return series
}

// WeekTotal sums an activity series.
func WeekTotal(series []DayActivity) decimal.Decimal {
	total := decimal.Zero
	for _, d := range series {
		total = total.Add(d.Amount)
	}

	return total
}

// Package stats derives summary statistics from a collection of expenses.
//
// Every function here is pure: no I/O, no clock reads, no errors. Callers fetch the
// records for the window they want and pass the reference date explicitly.
package stats

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the summed amount of one category label.
type CategoryTotal struct {
	Name   expense.Category
	Amount decimal.Decimal
}

// CategoryShare is a category total with its share of the grand total.
type CategoryShare struct {
	Name       expense.Category
	Value      decimal.Decimal
	Percentage float64
}

// groupByCategory sums amounts per literal category label. Labels outside
// expense.Categories get a bucket of their own. Groups keep first-seen order.
func groupByCategory(records []*expense.Expense) []CategoryTotal {
	idx := make(map[expense.Category]int)

	var groups []CategoryTotal

	for _, r := range records {
		i, ok := idx[r.Category]
		if !ok {
			i = len(groups)
			idx[r.Category] = i
			groups = append(groups, CategoryTotal{Name: r.Category, Amount: decimal.Zero})
		}

		groups[i].Amount = groups[i].Amount.Add(r.Amount)
	}

	return groups
}

// sortDesc orders totals by amount, largest first. Equal amounts keep their order.
func sortDesc(totals []CategoryTotal) {
	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})
}

// Categories breaks a month of records down by category. Percentages are relative to
// the grand total and are all zero when the grand total is zero.
func Categories(records []*expense.Expense) []CategoryShare {
	groups := groupByCategory(records)
	sortDesc(groups)

	grand := sum(records)

	shares := make([]CategoryShare, 0, len(groups))

	for _, g := range groups {
		var pct float64
		if !grand.IsZero() {
			pct = g.Amount.Div(grand).Mul(hundred).InexactFloat64()
		}

		shares = append(shares, CategoryShare{Name: g.Name, Value: g.Amount, Percentage: pct})
	}

	return shares
}

func sum(records []*expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}

	return total
}

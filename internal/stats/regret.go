package stats

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

// Insight is the qualitative verdict on a month's regret ratio.
type Insight int

const (
	InsightAllValue Insight = iota
	InsightWellControlled
	InsightRoomForImprovement
	InsightReflect
)

// Regret ratio band edges, in percent. An edge belongs to the band above it.
const (
	wellControlledBelow = 5
	improvementBelow    = 15
)

// InsightFor picks the band for a regret ratio given in percent.
// Ratios of zero or less mean nothing was regretted.
func InsightFor(ratio float64) Insight {
	switch {
	case ratio <= 0:
		return InsightAllValue
	case ratio < wellControlledBelow:
		return InsightWellControlled
	case ratio < improvementBelow:
		return InsightRoomForImprovement
	default:
		return InsightReflect
	}
}

// String is the stable machine name used by the API.
func (i Insight) String() string {
	switch i {
	case InsightAllValue:
		return "all_value"
	case InsightWellControlled:
		return "well_controlled"
	case InsightRoomForImprovement:
		return "room_for_improvement"
	case InsightReflect:
		return "reflect"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for the band.
func (i Insight) Message() string {
	switch i {
	case InsightAllValue:
		return "Perfect! Every rupee spent brought you value this month."
	case InsightWellControlled:
		return "Great job! Your impulse purchases are well under control."
	case InsightRoomForImprovement:
		return "Not bad, but there's room for more intentional spending."
	default:
		return "Time to reflect. A significant portion of your spending feels like a waste."
	}
}

type RegretStats struct {
	Regretted   []*expense.Expense
	TotalWasted decimal.Decimal
	TotalSpent  decimal.Decimal

	// Breakdown groups the regretted records only, largest first.
	Breakdown []CategoryTotal

	// Ratio is TotalWasted as a percentage of TotalSpent, 0 when nothing was spent.
	Ratio   float64
	Insight Insight
}

// Regret reviews one month of records.
func Regret(records []*expense.Expense) RegretStats {
	regretted := []*expense.Expense{}

	for _, r := range records {
		if r.IsRegret {
			regretted = append(regretted, r)
		}
	}

	st := RegretStats{
		Regretted:   regretted,
		TotalWasted: sum(regretted),
		TotalSpent:  sum(records),
		Breakdown:   groupByCategory(regretted),
	}

	sortDesc(st.Breakdown)

	if st.Breakdown == nil {
		st.Breakdown = []CategoryTotal{}
	}

	// The band is chosen on the exact decimal ratio; a float quotient such as
	// 15/100*100 can land just below an edge.
	ratio := decimal.Zero
	if !st.TotalSpent.IsZero() {
		ratio = st.TotalWasted.Div(st.TotalSpent).Mul(hundred)
	}

	st.Ratio = ratio.InexactFloat64()
	st.Insight = insightForDecimal(ratio)

	return st
}

func insightForDecimal(ratio decimal.Decimal) Insight {
	switch {
	case ratio.Sign() <= 0:
		return InsightAllValue
	case ratio.LessThan(decimal.NewFromInt(wellControlledBelow)):
		return InsightWellControlled
	case ratio.LessThan(decimal.NewFromInt(improvementBelow)):
		return InsightRoomForImprovement
	default:
		return InsightReflect
	}
}

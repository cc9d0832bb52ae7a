package stats

import (
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

type expenseResponse struct {
	ID       string           `json:"id"`
	Amount   string           `json:"amount"`
	Category expense.Category `json:"category"`
	Note     *string          `json:"note"`
	Date     string           `json:"date"`
	IsRegret bool             `json:"is_regret"`
}

type dailyTotalResponse struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type dashboardResponse struct {
	Today        string               `json:"today"`
	Month        string               `json:"month"`
	Year         string               `json:"year"`
	DailyHistory []dailyTotalResponse `json:"daily_history"`
	Recent       []expenseResponse    `json:"recent"`
}

func toDashboardResponse(st stats.DashboardStats) dashboardResponse {
	resp := dashboardResponse{
		Today:        st.Today.StringFixed(2),
		Month:        st.Month.StringFixed(2),
		Year:         st.Year.StringFixed(2),
		DailyHistory: make([]dailyTotalResponse, len(st.DailyHistory)),
		Recent:       make([]expenseResponse, len(st.Recent)),
	}

	for i, d := range st.DailyHistory {
		resp.DailyHistory[i] = dailyTotalResponse{Date: d.Date, Amount: d.Amount.StringFixed(2)}
	}

	for i, e := range st.Recent {
		resp.Recent[i] = toExpense(e)
	}

	return resp
}

func toExpense(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID.String(),
		Amount:   e.Amount.StringFixed(2),
		Category: e.Category,
		Note:     e.Note,
		Date:     e.Date,
		IsRegret: e.IsRegret,
	}
}

type dayResponse struct {
	Label  string `json:"label"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type activityResponse struct {
	Days  []dayResponse `json:"days"`
	Total string        `json:"total"`
}

func toActivityResponse(days []stats.DayActivity) activityResponse {
	resp := activityResponse{
		Days:  make([]dayResponse, len(days)),
		Total: stats.WeekTotal(days).StringFixed(2),
	}

	for i, d := range days {
		resp.Days[i] = dayResponse{Label: d.Label, Date: d.Date, Amount: d.Amount.StringFixed(2)}
	}

	return resp
}

type shareResponse struct {
	Name       expense.Category `json:"name"`
	Value      string           `json:"value"`
	Percentage float64          `json:"percentage"`
}

type categoriesResponse struct {
	Month      string          `json:"month"`
	Categories []shareResponse `json:"categories"`
}

func toShareResponses(shares []stats.CategoryShare) []shareResponse {
	resp := make([]shareResponse, len(shares))
	for i, s := range shares {
		resp[i] = shareResponse{Name: s.Name, Value: s.Value.StringFixed(2), Percentage: s.Percentage}
	}

	return resp
}

type categoryTotalResponse struct {
	Name   expense.Category `json:"name"`
	Amount string           `json:"amount"`
}

func toTotals(totals []stats.CategoryTotal) []categoryTotalResponse {
	resp := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryTotalResponse{Name: t.Name, Amount: t.Amount.StringFixed(2)}
	}

	return resp
}

type regretResponse struct {
	Month          string                  `json:"month"`
	RegretCount    int                     `json:"regret_count"`
	TotalWasted    string                  `json:"total_wasted"`
	TotalSpent     string                  `json:"total_spent"`
	Ratio          float64                 `json:"ratio"`
	Insight        string                  `json:"insight"`
	InsightMessage string                  `json:"insight_message"`
	Breakdown      []categoryTotalResponse `json:"breakdown"`
	Items          []expenseResponse       `json:"items"`
}

func toRegretResponse(month expense.Month, st stats.RegretStats) regretResponse {
	items := make([]expenseResponse, len(st.Regretted))
	for i, e := range st.Regretted {
		items[i] = toExpense(e)
	}

	return regretResponse{
		Month:          month.String(),
		RegretCount:    len(st.Regretted),
		TotalWasted:    st.TotalWasted.StringFixed(2),
		TotalSpent:     st.TotalSpent.StringFixed(2),
		Ratio:          st.Ratio,
		Insight:        st.Insight.String(),
		InsightMessage: st.Insight.Message(),
		Breakdown:      toTotals(st.Breakdown),
		Items:          items,
	}
}

type monthTotalResponse struct {
	Month  int    `json:"month"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type slideResponse struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Headline string `json:"headline"`
	Detail   string `json:"detail,omitempty"`
}

type wrappedResponse struct {
	Year             int                     `json:"year"`
	Insufficient     bool                    `json:"insufficient"`
	TotalSpend       string                  `json:"total_spend"`
	RegretTotal      string                  `json:"regret_total"`
	TransactionCount int                     `json:"transaction_count"`
	RegretCount      int                     `json:"regret_count"`
	TopCategory      categoryTotalResponse   `json:"top_category"`
	PeakMonth        monthTotalResponse      `json:"peak_month"`
	MonthlyTotals    []string                `json:"monthly_totals"`
	CategoryTotals   []categoryTotalResponse `json:"category_totals"`
	Slides           []slideResponse         `json:"slides"`
}

func toWrappedResponse(st stats.WrappedStats) wrappedResponse {
	resp := wrappedResponse{
		Year:             st.Year,
		Insufficient:     st.Insufficient(),
		TotalSpend:       st.TotalSpend.StringFixed(2),
		RegretTotal:      st.RegretTotal.StringFixed(2),
		TransactionCount: st.TransactionCount,
		RegretCount:      st.RegretCount,
		TopCategory:      categoryTotalResponse{Name: st.TopCategory.Name, Amount: st.TopCategory.Amount.StringFixed(2)},
		PeakMonth: monthTotalResponse{
			Month:  st.PeakMonth.Month,
			Name:   st.PeakMonth.Name(),
			Amount: st.PeakMonth.Amount.StringFixed(2),
		},
		MonthlyTotals:  make([]string, len(st.MonthlyTotals)),
		CategoryTotals: toTotals(st.CategoryTotals),
		Slides:         []slideResponse{},
	}

	for i, m := range st.MonthlyTotals {
		resp.MonthlyTotals[i] = m.StringFixed(2)
	}

	for _, s := range st.Slides() {
		resp.Slides = append(resp.Slides, slideResponse{
			Title:    s.Title,
			Body:     s.Body,
			Headline: s.Headline,
			Detail:   s.Detail,
		})
	}

	return resp
}

package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

type expenseResponse struct {
	ID        uuid.UUID        `json:"id"`
	Amount    string           `json:"amount"`
	Category  expense.Category `json:"category"`
	Note      *string          `json:"note"`
	Date      string           `json:"date"`
	IsRegret  bool             `json:"is_regret"`
	CreatedAt time.Time        `json:"created_at"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Amount:    e.Amount.StringFixed(2),
		Category:  e.Category,
		Note:      e.Note,
		Date:      e.Date,
		IsRegret:  e.IsRegret,
		CreatedAt: e.CreatedAt,
	}
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e)
	}

	return resp
}

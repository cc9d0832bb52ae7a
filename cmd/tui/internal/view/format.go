package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

const dbTimeout = 5 * time.Second

// SetupPrompt is shown in place of data while the database has no schema.
const SetupPrompt = "The database has not been set up yet.\nRun `setup` once, then press r to retry."

// FormatAmount formats an amount in rupees, e.g. "₹1,250.50".
func FormatAmount(d decimal.Decimal) string {
	return expense.FormatAmount(d)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// ErrorText renders err for a status line.
func ErrorText(err error) string {
	if errors.Is(err, expense.ErrStorageNotInitialized) {
		return SetupPrompt
	}

	return fmt.Sprintf("Error: %v", err)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

func faintStyle(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}

// bar renders value as a horizontal bar scaled against peak.
func bar(value, peak decimal.Decimal, width int) string {
	if !peak.IsPositive() || !value.IsPositive() {
		return ""
	}

	n := int(value.Div(peak).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}

	s := ""
	for range n {
		s += "█"
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Render(s)
}

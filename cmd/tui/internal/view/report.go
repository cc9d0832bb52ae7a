package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

// ReportModel shows where a month's money went, by category.
type ReportModel struct {
	CommonModel
	reports *report.Service
	owner   uuid.UUID

	month   expense.Month
	seq     int
	loading bool
	shares  []stats.CategoryShare
	err     error
}

func NewReportModel(reports *report.Service, owner uuid.UUID, now func() time.Time) ReportModel {
	return ReportModel{
		reports: reports,
		owner:   owner,
		month:   expense.MonthOf(now()),
		loading: true,
	}
}

func (m ReportModel) Title() string     { return "Monthly Report" }
func (m ReportModel) ShortHelp() string { return "Esc: back | ←/→: month | r: refresh" }

func (m ReportModel) Init() tea.Cmd {
	return m.loadCmd(m.seq, m.month)
}

type reportMsg struct {
	seq    int
	shares []stats.CategoryShare
	err    error
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.shares = msg.shares
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h", "[":
			m.month = m.month.Prev()
		case "right", "l", "]":
			m.month = m.month.Following()
		case "r":
		default:
			return m, nil
		}

		m.seq++
		m.loading = true

		return m, m.loadCmd(m.seq, m.month)
	}

	return m, nil
}

func (m ReportModel) loadCmd(seq int, month expense.Month) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		shares, err := m.reports.Categories(ctx, owner, month)
		return reportMsg{seq: seq, shares: shares, err: err}
	}
}

func (m ReportModel) View() string {
	header := fmt.Sprintf("Month: %s", activeStyle(m.month.Label()))
	if m.loading {
		header += "  " + faintStyle("loading...")
	}

	var b strings.Builder

	b.WriteString(header + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle(ErrorText(m.err)) + "\n\n")
	}

	if len(m.shares) == 0 && !m.loading && m.err == nil {
		b.WriteString(faintStyle("Nothing spent this month."))
		return lipgloss.NewStyle().Padding(1).Render(b.String())
	}

	total := decimal.Zero
	peak := decimal.Zero

	for _, s := range m.shares {
		total = total.Add(s.Value)
		if s.Value.GreaterThan(peak) {
			peak = s.Value
		}
	}

	name := lipgloss.NewStyle().Width(20)
	for _, s := range m.shares {
		fmt.Fprintf(&b, "%s %s %6.1f%%  %s\n",
			name.Render(string(s.Name)),
			barCell.Render(bar(s.Value, peak, 30)),
			s.Percentage,
			FormatAmount(s.Value),
		)
	}

	fmt.Fprintf(&b, "\nTotal: %s", activeStyle(FormatAmount(total)))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

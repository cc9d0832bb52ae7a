package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

// ReviewModel walks through the month's regretted purchases.
type ReviewModel struct {
	CommonModel
	reports  *report.Service
	expenses *expense.Service
	owner    uuid.UUID

	month   expense.Month
	seq     int
	loading bool
	stats   stats.RegretStats
	loaded  bool
	cursor  int
	err     error
	status  string
}

func NewReviewModel(reports *report.Service, expenses *expense.Service, owner uuid.UUID, now func() time.Time) ReviewModel {
	return ReviewModel{
		reports:  reports,
		expenses: expenses,
		owner:    owner,
		month:    expense.MonthOf(now()),
		loading:  true,
	}
}

func (m ReviewModel) Title() string { return "Regret Review" }
func (m ReviewModel) ShortHelp() string {
	return "Esc: back | ←/→: month | ↑/↓: select | space: not a regret | r: refresh"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadCmd(m.seq, m.month)
}

func (m ReviewModel) reload() (ReviewModel, tea.Cmd) {
	m.seq++
	m.loading = true

	return m, m.loadCmd(m.seq, m.month)
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case regretMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}

		m.stats = msg.stats
		m.loaded = true
		if m.cursor >= len(m.stats.Regretted) {
			m.cursor = max(len(m.stats.Regretted)-1, 0)
		}

		return m, nil

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = ErrorText(msg.err)
			return m, nil
		}

		m.status = "Regret cleared."

		return m.reload()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h", "[":
			m.month = m.month.Prev()
			m.cursor = 0

			return m.reload()
		case "right", "l", "]":
			m.month = m.month.Following()
			m.cursor = 0

			return m.reload()
		case "r":
			return m.reload()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.stats.Regretted)-1 {
				m.cursor++
			}
		case " ":
			if m.cursor < len(m.stats.Regretted) {
				return m, m.clearCmd(m.stats.Regretted[m.cursor].ID)
			}
		}
	}

	return m, nil
}

type regretMsg struct {
	seq   int
	stats stats.RegretStats
	err   error
}

func (m ReviewModel) loadCmd(seq int, month expense.Month) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, err := m.reports.Regret(ctx, owner, month)
		return regretMsg{seq: seq, stats: st, err: err}
	}
}

type reviewSaveMsg struct {
	err error
}

func (m ReviewModel) clearCmd(id uuid.UUID) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return reviewSaveMsg{err: m.expenses.SetRegret(ctx, owner, id, false)}
	}
}

func (m ReviewModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Month: %s", activeStyle(m.month.Label()))
	if m.loading {
		header += "  " + faintStyle("loading...")
	}

	b.WriteString(header + "\n\n")

	if m.status != "" {
		b.WriteString(faintStyle(m.status) + "\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle(ErrorText(m.err)) + "\n\n")
	}

	if !m.loaded {
		return lipgloss.NewStyle().Padding(1).Render(b.String())
	}

	st := m.stats

	fmt.Fprintf(&b, "Wasted %s of %s (%.1f%%)\n",
		activeStyle(FormatAmount(st.TotalWasted)),
		FormatAmount(st.TotalSpent),
		st.Ratio,
	)
	b.WriteString(lipgloss.NewStyle().Italic(true).Render(st.Insight.Message()) + "\n\n")

	if len(st.Breakdown) > 0 {
		b.WriteString("By category\n")

		for _, c := range st.Breakdown {
			fmt.Fprintf(&b, "  %-20s %s\n", c.Name, FormatAmount(c.Amount))
		}

		b.WriteString("\n")
	}

	if len(st.Regretted) == 0 {
		b.WriteString(faintStyle("No regrets this month."))
		return lipgloss.NewStyle().Padding(1).Render(b.String())
	}

	b.WriteString("Regretted\n")

	for i, e := range st.Regretted {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		fmt.Fprintf(&b, "%s%s  %-18s %12s  %s\n", cursor, e.Date, e.Category, FormatAmount(e.Amount), e.NoteText())
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

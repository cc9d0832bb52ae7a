package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendtrack/internal/report"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

type DashboardModel struct {
	CommonModel
	reports *report.Service
	owner   uuid.UUID
	now     func() time.Time

	seq      int
	loading  bool
	stats    stats.DashboardStats
	activity []stats.DayActivity
	loaded   bool
	err      error
}

func NewDashboardModel(reports *report.Service, owner uuid.UUID, now func() time.Time) DashboardModel {
	return DashboardModel{
		reports: reports,
		owner:   owner,
		now:     now,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd(m.seq)
}

type dashboardMsg struct {
	seq      int
	stats    stats.DashboardStats
	activity []stats.DayActivity
	err      error
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.loaded = true
		m.stats = msg.stats
		m.activity = msg.activity

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.seq++
			m.loading = true

			return m, m.loadCmd(m.seq)
		}
	}

	return m, nil
}

func (m DashboardModel) loadCmd(seq int) tea.Cmd {
	owner, now := m.owner, m.now()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		out := dashboardMsg{seq: seq}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			out.stats, err = m.reports.Dashboard(gctx, owner, now)
			return err
		})
		g.Go(func() error {
			var err error
			out.activity, err = m.reports.Activity(gctx, owner, now)
			return err
		})

		out.err = g.Wait()

		return out
	}
}

func (m DashboardModel) View() string {
	if !m.loaded && m.err == nil {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	var sections []string

	if m.loading {
		sections = append(sections, faintStyle("Refreshing..."))
	}

	if m.err != nil {
		sections = append(sections, errorStyle(ErrorText(m.err)))
	}

	if m.loaded {
		sections = append(sections,
			m.viewTotals(),
			m.viewActivity(),
			m.viewRecent(),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m DashboardModel) viewTotals() string {
	card := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render("Today\n"+activeStyle(FormatAmount(m.stats.Today))),
		card.Render("This month\n"+activeStyle(FormatAmount(m.stats.Month))),
		card.Render("This year\n"+activeStyle(FormatAmount(m.stats.Year))),
	)
}

var barCell = lipgloss.NewStyle().Width(31)

func (m DashboardModel) viewActivity() string {
	peak := decimal.Zero
	for _, d := range m.activity {
		if d.Amount.GreaterThan(peak) {
			peak = d.Amount
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\nLast 7 days  %s\n\n", faintStyle(FormatAmount(stats.WeekTotal(m.activity))))

	for _, d := range m.activity {
		fmt.Fprintf(&b, "%s %s %s\n", d.Label, barCell.Render(bar(d.Amount, peak, 30)), FormatAmount(d.Amount))
	}

	return b.String()
}

func (m DashboardModel) viewRecent() string {
	if len(m.stats.Recent) == 0 {
		return faintStyle("No expenses yet.")
	}

	var b strings.Builder

	b.WriteString("Recent\n\n")

	for _, e := range m.stats.Recent {
		fmt.Fprintf(&b, "%s  %-18s %12s  %s\n", e.Date, e.Category, FormatAmount(e.Amount), e.NoteText())
	}

	return b.String()
}

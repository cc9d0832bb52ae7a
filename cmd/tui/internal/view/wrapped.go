package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/report"
	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

// WrappedModel plays the year-in-review slideshow.
type WrappedModel struct {
	CommonModel
	reports *report.Service
	owner   uuid.UUID

	year    int
	seq     int
	loading bool
	slides  []stats.Slide
	slide   int
	err     error
}

func NewWrappedModel(reports *report.Service, owner uuid.UUID, now func() time.Time) WrappedModel {
	return WrappedModel{
		reports: reports,
		owner:   owner,
		year:    now().Year(),
		loading: true,
	}
}

func (m WrappedModel) Title() string { return "Wrapped" }
func (m WrappedModel) ShortHelp() string {
	return "Esc: back | Enter/→: next | ←: previous | [/]: year"
}

func (m WrappedModel) Init() tea.Cmd {
	return m.loadCmd(m.seq, m.year)
}

type wrappedMsg struct {
	seq    int
	slides []stats.Slide
	err    error
}

func (m WrappedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wrappedMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.slides = msg.slides
		m.slide = 0

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter", "right", "l", " ":
			if m.slide < len(m.slides)-1 {
				m.slide++
			}
		case "left", "h":
			if m.slide > 0 {
				m.slide--
			}
		case "[":
			m.year--
			m.seq++
			m.loading = true

			return m, m.loadCmd(m.seq, m.year)
		case "]":
			m.year++
			m.seq++
			m.loading = true

			return m, m.loadCmd(m.seq, m.year)
		}
	}

	return m, nil
}

func (m WrappedModel) loadCmd(seq, year int) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		w, err := m.reports.Wrapped(ctx, owner, year)
		if err != nil {
			return wrappedMsg{seq: seq, err: err}
		}

		return wrappedMsg{seq: seq, slides: w.Slides()}
	}
}

var (
	slideStyle = lipgloss.NewStyle().
			Padding(2, 6).
			Width(56).
			Align(lipgloss.Center).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205"))

	headlineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)
)

func (m WrappedModel) View() string {
	title := fmt.Sprintf("%d Wrapped", m.year)

	switch {
	case m.loading:
		return lipgloss.NewStyle().Padding(2).Render(title + "\n\nLoading your year...")
	case m.err != nil:
		return lipgloss.NewStyle().Padding(2).Render(title + "\n\n" + errorStyle(ErrorText(m.err)))
	case len(m.slides) == 0:
		return lipgloss.NewStyle().Padding(2).Render(
			title + "\n\n" + faintStyle(fmt.Sprintf("Not enough data for %d yet. Keep tracking!", m.year)),
		)
	}

	s := m.slides[m.slide]

	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render(s.Title),
		"",
		s.Body,
		"",
		headlineStyle.Render(s.Headline),
	)

	if s.Detail != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", faintStyle(s.Detail))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		slideStyle.Render(body),
		faintStyle(fmt.Sprintf("%d / %d", m.slide+1, len(m.slides))),
	))
}

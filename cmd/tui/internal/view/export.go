package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportValues struct {
	month string
	path  string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	owner         uuid.UUID

	state   exportState
	err     error
	values  *exportValues
	form    *huh.Form
	spinner spinner.Model
	summary string
}

func NewExportModel(svc *export.Service, owner uuid.UUID, now func() time.Time) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		owner:         owner,
		state:         exportStateForm,
		values: &exportValues{
			month: expense.MonthOf(now()).String(),
			path:  "./exports",
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Expenses" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportResultMsg:
		m.state = exportStateResult
		m.err = msg.err
		m.summary = msg.body

		return m, nil

	case spinner.TickMsg:
		if m.state != exportStateExporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != exportStateExporting {
			return m, Back
		}
	}

	if m.state != exportStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// Validated by the form.
	month, _ := expense.ParseMonth(m.values.month)
	m.state = exportStateExporting

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(month, m.values.path))
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Month").
				Placeholder("YYYY-MM").
				Value(&m.values.month).
				Validate(func(s string) error {
					_, err := expense.ParseMonth(s)
					return err
				}),
			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.values.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateExporting:
		return style.Render(m.spinner.View() + " Writing CSV...")
	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle(ErrorText(m.err)))
		}

		return style.Render(successStyle("Export complete") + "\n\n" + m.summary)
	}

	return style.Render(m.form.View())
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd(month expense.Month, dir string) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating directory: %w", err)}
		}

		path := filepath.Join(dir, export.Filename(month))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("creating file: %w", err)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.exportService.Month(ctx, owner, month, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			_ = os.Remove(path)
			return exportResultMsg{err: err}
		}

		return exportResultMsg{body: fmt.Sprintf("Wrote %d expenses for %s to %s", n, month.Label(), path)}
	}
}

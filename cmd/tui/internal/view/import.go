package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStatePick importState = iota
	importStateBusy
	importStateDuplicates
	importStateDone
)

// ImportModel reads a CSV in the export format. Rows that look like entries already
// stored are held back until the user picks which of them to keep.
type ImportModel struct {
	CommonModel
	expenses *expense.Service
	importer *importer.Service
	owner    uuid.UUID

	state   importState
	picker  filepicker.Model
	spinner spinner.Model
	dupes   table.Model
	file    string

	fresh     []expense.CreateParams
	conflicts []expense.Conflict
	keep      map[int]bool

	summary string
	err     error
}

func NewImportModel(expenses *expense.Service, imp *importer.Service, owner uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Keep", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Category", Width: 16},
			{Title: "Amount", Width: 12},
			{Title: "Note", Width: 24},
			{Title: "Already stored", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ImportModel{
		expenses: expenses,
		importer: imp,
		owner:    owner,
		picker:   fp,
		spinner:  s,
		dupes:    t,
		keep:     map[int]bool{},
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateDuplicates:
		return "Space: keep/skip | a: keep all | n: skip all | Enter: save | Esc: cancel"
	case importStateDone:
		return "Esc: import another file"
	}

	return "Esc: back | Enter: open"
}

func (m ImportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.cancel()
		}

	case parsedMsg:
		if msg.err != nil {
			return m.finish("", msg.err), nil
		}

		if len(msg.result.Conflicts) == 0 {
			return m.finish(fmt.Sprintf("Imported %d expenses from %s.",
				len(msg.result.Imported), filepath.Base(m.file)), nil), nil
		}

		m.fresh = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.keep = map[int]bool{}
		m.state = importStateDuplicates
		m.refreshDupes()

		return m, nil

	case savedMsg:
		if msg.err != nil {
			return m.finish("", msg.err), nil
		}

		skipped := len(m.conflicts) + len(m.fresh) - msg.count

		return m.finish(fmt.Sprintf("Imported %d expenses, skipped %d duplicates.", msg.count, skipped), nil), nil

	case spinner.TickMsg:
		if m.state != importStateBusy {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case importStatePick:
		return m.updatePick(msg)
	case importStateDuplicates:
		return m.updateDupes(msg)
	}

	return m, nil
}

func (m ImportModel) finish(summary string, err error) ImportModel {
	m.state = importStateDone
	m.summary = summary
	m.err = err

	return m
}

func (m ImportModel) cancel() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePick:
		return m, Back
	case importStateBusy:
		return m, nil
	}

	m.state = importStatePick
	m.fresh, m.conflicts = nil, nil
	m.keep = map[int]bool{}
	m.summary, m.err = "", nil

	return m, m.picker.Init()
}

func (m ImportModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	ok, path := m.picker.DidSelectFile(msg)
	if !ok {
		return m, cmd
	}

	m.file = path
	m.state = importStateBusy

	return m, tea.Batch(m.spinner.Tick, m.parseCmd(path))
}

func (m ImportModel) updateDupes(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			i := m.dupes.Cursor()
			m.keep[i] = !m.keep[i]
			m.refreshDupes()

			return m, nil
		case "a", "n":
			for i := range m.conflicts {
				m.keep[i] = keyMsg.String() == "a"
			}

			m.refreshDupes()

			return m, nil
		case "enter":
			m.state = importStateBusy
			return m, tea.Batch(m.spinner.Tick, m.saveCmd())
		}
	}

	var cmd tea.Cmd
	m.dupes, cmd = m.dupes.Update(msg)

	return m, cmd
}

func (m *ImportModel) refreshDupes() {
	rows := make([]table.Row, 0, len(m.conflicts))
	for i, c := range m.conflicts {
		mark := "skip"
		if m.keep[i] {
			mark = "keep"
		}

		in, ex := c.Incoming, c.Existing

		note := ""
		if in.Note != nil {
			note = *in.Note
		}

		rows = append(rows, table.Row{
			mark,
			in.Date,
			string(in.Category),
			FormatAmount(in.Amount),
			note,
			fmt.Sprintf("%s %s", ex.Date, ex.NoteText()),
		})
	}

	m.dupes.SetRows(rows)
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStatePick:
		return style.Render("Choose a CSV exported from spendtrack:\n\n" + m.picker.View())

	case importStateBusy:
		return style.Render(fmt.Sprintf("%s Importing %s...", m.spinner.View(), filepath.Base(m.file)))

	case importStateDuplicates:
		header := fmt.Sprintf("%d new rows are ready. These %d look like expenses you already have:",
			len(m.fresh), len(m.conflicts))

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.dupes.View(),
		))

	case importStateDone:
		if m.err != nil {
			return style.Render(errorStyle(ErrorText(m.err)))
		}

		return style.Render(successStyle(m.summary))
	}

	return ""
}

type parsedMsg struct {
	result *expense.ImportResult
	err    error
}

type savedMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importer.Import(ctx, owner, f)

		return parsedMsg{result: result, err: err}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	owner := m.owner

	rows := append([]expense.CreateParams(nil), m.fresh...)
	for i, c := range m.conflicts {
		if m.keep[i] {
			rows = append(rows, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := m.expenses.CreateBatch(ctx, owner, rows)

		return savedMsg{count: len(created), err: err}
	}
}

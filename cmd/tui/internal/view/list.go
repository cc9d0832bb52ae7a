package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateAddDetails
	listStateAddCategory
	listStateConfirmDelete
)

// addValues backs the add form across both of its steps.
type addValues struct {
	amount   string
	note     string
	date     string
	category expense.Category
	regret   bool
	confirm  bool
}

type ListModel struct {
	CommonModel
	expenses *expense.Service
	hints    *matching.Service
	owner    uuid.UUID
	now      func() time.Time

	state  listState
	table  table.Model
	items  []*expense.Expense
	form   *huh.Form
	values *addValues

	month   expense.Month
	seq     int
	loading bool
	err     error
	status  string
}

func NewListModel(expenses *expense.Service, hints *matching.Service, owner uuid.UUID, now func() time.Time) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 14},
		{Title: "Regret", Width: 7},
		{Title: "Note", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		expenses: expenses,
		hints:    hints,
		owner:    owner,
		now:      now,
		table:    t,
		month:    expense.MonthOf(now()),
		loading:  true,
	}
}

func (m ListModel) Title() string { return "Expenses" }
func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateAddDetails, listStateAddCategory, listStateConfirmDelete:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | ←/→: month | a: add | d: delete | space: regret | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd(m.seq, m.month)
}

// reload starts a fetch that supersedes any fetch still in flight.
func (m ListModel) reload() (ListModel, tea.Cmd) {
	m.seq++
	m.loading = true

	return m, m.loadCmd(m.seq, m.month)
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.items = msg.items
		m.refreshTable()

		return m, nil

	case listMutationMsg:
		if msg.err != nil {
			m.status = ErrorText(msg.err)
			return m, nil
		}

		m.status = msg.status

		return m.reload()

	case suggestionMsg:
		if m.state != listStateAddDetails {
			return m, nil
		}

		m.values.category = msg.category
		m.state = listStateAddCategory
		m.form = m.buildCategoryForm()

		return m, m.form.Init()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h", "[":
		m.month = m.month.Prev()
		return m.reload()
	case "right", "l", "]":
		m.month = m.month.Following()
		return m.reload()
	case "r":
		return m.reload()
	case "a":
		return m.enterAdd()
	case "d":
		if m.selected() == nil {
			return m, nil
		}

		m.values = &addValues{}
		m.state = listStateConfirmDelete
		m.form = m.buildDeleteForm()
		m.table.Blur()

		return m, m.form.Init()
	case " ":
		e := m.selected()
		if e == nil {
			return m, nil
		}

		return m, m.regretCmd(e.ID, !e.IsRegret)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterAdd() (tea.Model, tea.Cmd) {
	m.values = &addValues{date: expense.FormatDate(m.now())}
	m.state = listStateAddDetails
	m.status = ""
	m.form = m.buildDetailsForm()
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case listStateAddDetails:
		return m, m.suggestCmd(m.values.note)

	case listStateAddCategory:
		params, err := m.values.params()
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		if err != nil {
			m.status = ErrorText(err)
			return m, nil
		}

		return m, m.createCmd(params)

	case listStateConfirmDelete:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		e := m.selected()
		if !m.values.confirm || e == nil {
			return m, nil
		}

		return m, m.deleteCmd(e.ID)
	}

	return m, cmd
}

func (m ListModel) buildDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("250.00").
				Value(&m.values.amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Note").
				Description("Optional, used to suggest a category").
				Value(&m.values.note),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.values.date).
				Validate(func(s string) error {
					_, err := expense.ParseDate(s)
					return err
				}),
		),
	).WithWidth(44).WithShowHelp(false)
}

func (m ListModel) buildCategoryForm() *huh.Form {
	options := make([]huh.Option[expense.Category], 0, len(expense.Categories))
	for _, c := range expense.Categories {
		options = append(options, huh.NewOption(string(c), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[expense.Category]().
				Title("Category").
				Options(options...).
				Value(&m.values.category),
			huh.NewConfirm().
				Title("Regret this one?").
				Value(&m.values.regret),
		),
	).WithWidth(44).WithShowHelp(false)
}

func (m ListModel) buildDeleteForm() *huh.Form {
	e := m.selected()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this expense?").
				Description(fmt.Sprintf("%s  %s  %s", e.Date, e.Category, FormatAmount(e.Amount))).
				Value(&m.values.confirm),
		),
	).WithWidth(44).WithShowHelp(false)
}

func validateAmount(s string) error {
	d, err := parseAmount(s)
	if err != nil {
		return err
	}

	if !d.IsPositive() {
		return errors.New("amount must be positive")
	}

	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), expense.CurrencySymbol))
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}

	return d, nil
}

func (v *addValues) params() (expense.CreateParams, error) {
	amount, err := parseAmount(v.amount)
	if err != nil {
		return expense.CreateParams{}, err
	}

	date, err := expense.ParseDate(v.date)
	if err != nil {
		return expense.CreateParams{}, err
	}

	var note *string
	if n := strings.TrimSpace(v.note); n != "" {
		note = &n
	}

	return expense.CreateParams{
		Amount:   amount,
		Category: v.category,
		Note:     note,
		Date:     date,
		IsRegret: v.regret,
	}, nil
}

func (m ListModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m ListModel) View() string {
	header := fmt.Sprintf("Month: %s  %s", activeStyle(m.month.Label()), faintStyle("(←/→ to change)"))

	if m.loading {
		header += "  " + faintStyle("loading...")
	}

	var body string

	switch {
	case m.err != nil && len(m.items) == 0:
		body = errorStyle(ErrorText(m.err))
	case len(m.items) == 0 && !m.loading:
		body = faintStyle("No expenses this month. Press a to add one.")
	default:
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
		fmt.Sprintf("\nTotal: %s", activeStyle(FormatAmount(m.total()))),
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Add Expense"
		if m.state == listStateConfirmDelete {
			title = "Delete Expense"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.items {
		total = total.Add(e.Amount)
	}

	return total
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, e := range m.items {
		regret := ""
		if e.IsRegret {
			regret = "yes"
		}

		rows = append(rows, table.Row{
			e.Date,
			string(e.Category),
			FormatAmount(e.Amount),
			regret,
			e.NoteText(),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	seq   int
	items []*expense.Expense
	err   error
}

func (m ListModel) loadCmd(seq int, month expense.Month) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.expenses.List(ctx, owner, &month)
		return loadListMsg{seq: seq, items: items, err: err}
	}
}

type listMutationMsg struct {
	status string
	err    error
}

type suggestionMsg struct {
	category expense.Category
}

func (m ListModel) suggestCmd(note string) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		if strings.TrimSpace(note) == "" {
			return suggestionMsg{category: expense.DefaultCategory}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.hints.Suggest(ctx, owner, note)
		if err != nil || c == "" {
			return suggestionMsg{category: expense.DefaultCategory}
		}

		return suggestionMsg{category: c}
	}
}

func (m ListModel) createCmd(params expense.CreateParams) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.expenses.Create(ctx, owner, params)
		if err != nil {
			return listMutationMsg{err: err}
		}

		if params.Note != nil {
			// A failed hint write does not undo the expense.
			_ = m.hints.Learn(ctx, owner, *params.Note, params.Category)
		}

		return listMutationMsg{status: fmt.Sprintf("Added %s on %s.", FormatAmount(e.Amount), e.Date)}
	}
}

func (m ListModel) deleteCmd(id uuid.UUID) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.expenses.Delete(ctx, owner, id); err != nil {
			return listMutationMsg{err: err}
		}

		return listMutationMsg{status: "Expense deleted."}
	}
}

func (m ListModel) regretCmd(id uuid.UUID, isRegret bool) tea.Cmd {
	owner := m.owner

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.expenses.SetRegret(ctx, owner, id, isRegret); err != nil {
			return listMutationMsg{err: err}
		}

		if isRegret {
			return listMutationMsg{status: "Marked as regret."}
		}

		return listMutationMsg{status: "Regret cleared."}
	}
}

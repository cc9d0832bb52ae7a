package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	"github.com/MrJamesThe3rd/spendtrack/internal/database"
)

// SignedInMsg is emitted once a session has been started or resumed.
type SignedInMsg struct {
	Session auth.Session
}

type loginValues struct {
	email    string
	password string
	signUp   bool
}

type LoginModel struct {
	CommonModel
	auth *auth.Service

	values  *loginValues
	form    *huh.Form
	spinner spinner.Model
	busy    bool
	err     error
}

func NewLoginModel(svc *auth.Service) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := LoginModel{
		auth:    svc,
		values:  &loginValues{},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

// WithError shows err above the form, for failures that happened outside it.
func (m LoginModel) WithError(err error) LoginModel {
	m.err = err
	return m
}

func (m LoginModel) Title() string     { return "Sign in" }
func (m LoginModel) ShortHelp() string { return "Tab: next field | Enter: submit | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.values.email).
				Validate(func(s string) error {
					_, err := auth.NormalizeEmail(s)
					return err
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.values.password),
			huh.NewConfirm().
				Title("Create a new account?").
				Affirmative("Sign up").
				Negative("Sign in").
				Value(&m.values.signUp),
		),
	).WithWidth(50).WithShowHelp(false)
}

type loginResultMsg struct {
	session auth.Session
	err     error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.values.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return SignedInMsg{Session: msg.session} }

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func (m LoginModel) submitCmd() tea.Cmd {
	email, password, signUp := m.values.email, m.values.password, m.values.signUp

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			sess auth.Session
			err  error
		)

		if signUp {
			sess, err = m.auth.SignUp(ctx, email, password)
		} else {
			sess, err = m.auth.SignIn(ctx, email, password)
		}

		return loginResultMsg{session: sess, err: err}
	}
}

// ResumeFailedMsg reports that a stored token could not be resumed.
type ResumeFailedMsg struct {
	Err error
}

// ResumeCmd validates a stored token.
func ResumeCmd(svc *auth.Service, token string) tea.Cmd {
	return func() tea.Msg {
		sess, err := svc.Resume(context.Background(), token)
		if err != nil {
			return ResumeFailedMsg{Err: err}
		}

		return SignedInMsg{Session: sess}
	}
}

func (m LoginModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("spendtrack")

	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s\n\n%s Signing in...", header, m.spinner.View()),
		)
	}

	body := m.form.View()
	if m.err != nil {
		body = errorStyle(loginError(m.err)) + "\n\n" + body
	}

	return lipgloss.NewStyle().Padding(2).Render(header + "\n\n" + body)
}

func loginError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Wrong email or password."
	case errors.Is(err, auth.ErrEmailTaken):
		return "An account with that email already exists."
	case errors.Is(err, auth.ErrWeakPassword):
		return "Password is too short."
	case errors.Is(err, auth.ErrPasswordTooLong):
		return "Password is too long."
	case errors.Is(err, auth.ErrInvalidEmail):
		return "That does not look like an email address."
	case database.IsUndefinedTable(err):
		return SetupPrompt
	default:
		return ErrorText(err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendtrack/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	authStore "github.com/MrJamesThe3rd/spendtrack/internal/auth/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/config"
	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendtrack/internal/expense/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendtrack/internal/matching/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
)

type services struct {
	auth     *auth.Service
	expenses *expense.Service
	matching *matching.Service
	reports  *report.Service
	export   *export.Service
	importer *importer.Service
}

type model struct {
	svc    services
	now    func() time.Time
	tokens tokenStore

	session *auth.Session
	status  string

	currentView View

	loginView     view.LoginModel
	dashboardView view.DashboardModel
	listView      view.ListModel
	reportView    view.ReportModel
	reviewView    view.ReviewModel
	wrappedView   view.WrappedModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewLogin     View = 0
	ViewMenu      View = 1
	ViewDashboard View = 2
	ViewList      View = 3
	ViewReport    View = 4
	ViewReview    View = 5
	ViewWrapped   View = 6
	ViewImport    View = 7
	ViewExport    View = 8
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	if err := cfg.RequireAuth(); err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid auth config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid timezone")
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.DefaultOptions())
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}

	tokens, err := newTokenStore()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to locate session store")
	}

	expenseSvc := expense.NewService(expenseStore.New(db))

	svc := services{
		auth: auth.NewService(authStore.New(db), auth.Options{
			Secret:     []byte(cfg.Auth.JWTSecret),
			Issuer:     cfg.Auth.Issuer,
			SessionTTL: cfg.Auth.SessionTTL,
		}),
		expenses: expenseSvc,
		matching: matching.NewService(matchingStore.New(db)),
		reports:  report.NewService(expenseSvc),
		export:   export.NewService(expenseSvc),
		importer: importer.NewService(expenseSvc),
	}

	return model{
		svc:         svc,
		now:         func() time.Time { return time.Now().In(loc) },
		tokens:      tokens,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(svc.auth),
	}
}

func (m model) Init() tea.Cmd {
	token, err := m.tokens.Load()
	if err != nil || token == "" {
		return m.loginView.Init()
	}

	return view.ResumeCmd(m.svc.auth, token)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case view.SignedInMsg:
		m.session = &msg.Session
		m.currentView = ViewMenu
		m.status = ""

		if msg.Session.Token != "" {
			if err := m.tokens.Save(msg.Session.Token); err != nil {
				m.status = err.Error()
			}
		}

		return m, nil

	case view.ResumeFailedMsg:
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.svc.auth)

		// Only a rejected token is forgotten; a store failure keeps it for the next run.
		if !errors.Is(msg.Err, auth.ErrInvalidToken) {
			m.loginView = m.loginView.WithError(msg.Err)
		} else if err := m.tokens.Clear(); err != nil {
			m.loginView = m.loginView.WithError(err)
		}

		return m, m.loginView.Init()

	case signedOutMsg:
		m.session = nil
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.svc.auth)

		if msg.err != nil {
			m.loginView = m.loginView.WithError(msg.err)
		}

		return m, m.loginView.Init()

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewWrapped:
		var newModel tea.Model
		newModel, cmd = m.wrappedView.Update(msg)
		m.wrappedView = newModel.(view.WrappedModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	owner := m.session.UserID

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewDashboard
		m.dashboardView = view.NewDashboardModel(m.svc.reports, owner, m.now)

		return m, m.dashboardView.Init()
	case "2":
		m.currentView = ViewList
		m.listView = view.NewListModel(m.svc.expenses, m.svc.matching, owner, m.now)

		return m, m.listView.Init()
	case "3":
		m.currentView = ViewReport
		m.reportView = view.NewReportModel(m.svc.reports, owner, m.now)

		return m, m.reportView.Init()
	case "4":
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(m.svc.reports, m.svc.expenses, owner, m.now)

		return m, m.reviewView.Init()
	case "5":
		m.currentView = ViewWrapped
		m.wrappedView = view.NewWrappedModel(m.svc.reports, owner, m.now)

		return m, m.wrappedView.Init()
	case "6":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.svc.expenses, m.svc.importer, owner)

		return m, m.importView.Init()
	case "7":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.svc.export, owner, m.now)

		return m, m.exportView.Init()
	case "o":
		return m, m.signOutCmd()
	}

	return m, nil
}

type signedOutMsg struct {
	err error
}

// signOutCmd revokes the session and forgets the stored token. The local token is
// removed even when revocation fails; both failures are reported.
func (m model) signOutCmd() tea.Cmd {
	token := m.session.Token

	return func() tea.Msg {
		ctx, cancel := view.DbCtx()
		defer cancel()

		var errs []error

		if err := m.svc.auth.SignOut(ctx, token); err != nil {
			errs = append(errs, fmt.Errorf("sign out: %w", err))
		}

		if err := m.tokens.Clear(); err != nil {
			errs = append(errs, err)
		}

		return signedOutMsg{err: errors.Join(errs...)}
	}
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return m.viewMenu()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewList:
		return m.listView.View()
	case ViewReport:
		return m.reportView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewWrapped:
		return m.wrappedView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func (m model) viewMenu() string {
	s := "spendtrack\n\n" +
		"Signed in as " + m.session.Email + "\n\n" +
		"1. Dashboard\n" +
		"2. Expenses\n" +
		"3. Monthly Report\n" +
		"4. Regret Review\n" +
		"5. Wrapped\n" +
		"6. Import CSV\n" +
		"7. Export CSV\n\n" +
		"o. Sign out\n" +
		"q. Quit"

	if m.status != "" {
		s += "\n\n" + m.status
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to run TUI")
	}
}

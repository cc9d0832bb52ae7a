package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	authStore "github.com/MrJamesThe3rd/spendtrack/internal/auth/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/config"
	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendtrack/internal/expense/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
	apiHttp "github.com/MrJamesThe3rd/spendtrack/internal/http"
	authHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/importcsv"
	statsHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/stats"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendtrack/internal/matching/store"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
)

const shutdownTimeout = 10 * time.Second

func main() {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.DefaultOptions())
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	now := func() time.Time { return time.Now().In(loc) }

	var (
		authService = auth.NewService(authStore.New(db), auth.Options{
			Secret:     []byte(cfg.Auth.JWTSecret),
			Issuer:     cfg.Auth.Issuer,
			SessionTTL: cfg.Auth.SessionTTL,
		})
		expenseService  = expense.NewService(expenseStore.New(db))
		matchingService = matching.NewService(matchingStore.New(db))
		reportService   = report.NewService(expenseService)
		exportService   = export.NewService(expenseService)
		importService   = importer.NewService(expenseService)
	)

	unsubscribe := authService.Subscribe(func(e auth.Event) {
		logger.Log.Info().
			Str("event", e.Kind.String()).
			Str("user", logger.HashID(e.Session.UserID)).
			Msg("session changed")
	})
	defer unsubscribe()

	var (
		authH    = authHandler.NewHandler(authService)
		expenseH = expenseHandler.NewHandler(expenseService, matchingService, now)
		statsH   = statsHandler.NewHandler(reportService, now)
		exportH  = exportHandler.NewHandler(exportService, now)
		importH  = importHandler.NewHandler(importService, expenseService)
	)

	router := apiHttp.New(apiHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins},
		authH, expenseH, statsH, exportH, importH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Log.Info().
			Str("addr", srv.Addr).
			Str("timezone", loc.String()).
			Msg("starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// Command setup creates or upgrades the database schema. Clients that report
// "storage not initialized" point users here.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendtrack/internal/config"
	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.ConnectionString(), database.DefaultOptions())
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	logger.Log.Info().Str("database", cfg.DB.Name).Msg("schema is up to date")
}

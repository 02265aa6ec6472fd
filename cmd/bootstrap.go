package cmd

import (
	"errors"
	"fmt"

	"blob-uploader/core/config"
	"blob-uploader/core/database"
	"blob-uploader/core/logger"
	"blob-uploader/feature/history"

	"go.uber.org/zap"
)

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logg, nil
}

// openJournal connects the optional upload journal. It returns nil when no
// database is configured or the connection fails.
func openJournal(cfg database.Config, logg *zap.Logger) *history.Repository {
	db, err := database.Connect(cfg)
	if errors.Is(err, database.ErrDisabled) {
		return nil
	}
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}

	repo := history.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		logg.Warn("Upload journal disabled", zap.Error(err))
		return nil
	}
	return repo
}

package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/config"
	"github.com/versefinder/versefinder/internal/database"
	"github.com/versefinder/versefinder/internal/logger"
	"github.com/versefinder/versefinder/internal/store"
)

// app holds what every command needs: configuration, a logger and a
// migrated database.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *sql.DB
	store *store.Store
}

// loadFunc builds and validates the configuration a command needs.
type loadFunc func(path string) (*config.Config, error)

func bootstrap(ctx context.Context, configPath string, load loadFunc) (*app, error) {
	// 0. --- Configuration ---
	envErr := config.LoadEnvFile()
	cfg, err := load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 1. --- Logger ---
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		log.Warn("could not load .env file, relying on system environment variables", zap.Error(envErr))
	}

	// 2. --- Database Connection ---
	dialect, err := database.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 3. --- Schema ---
	if err := database.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: store.New(db, dialect),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

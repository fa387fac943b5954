package cmd

import (
	"fmt"

	"library-manager/core/config"
	"library-manager/core/database"
	"library-manager/core/logger"
	"library-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env bundles the collaborators every command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	db     *gorm.DB
}

// loadEnv loads configuration and connects to storage and the database.
// Without requireDB a failed connection is logged and db is left nil.
func loadEnv(requireDB bool) (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	e := &env{cfg: cfg, logger: logg, client: client}
	conn, err := database.Connect(cfg.Database)
	switch {
	case err == nil:
		e.db = conn
		e.logger = logg.With(zap.String("database", cfg.Database.Name))
	case requireDB:
		return nil, fmt.Errorf("database connection required: %w", err)
	default:
		logg.Warn("Optional database connection failed", zap.Error(err))
	}
	return e, nil
}

package main

import (
	"log"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/config"
	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/logging"
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/routes"
	"task-tracker-api/internal/storage"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger := logging.New(cfg.LogFile)
	defer logger.Sync()

	opts := manager.Options{
		HistorySize: cfg.HistorySize,
		Logger:      logger,
	}

	var store manager.Service
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store = manager.New(opts)
	case config.DriverFile:
		store, err = storage.NewPersistent(storage.NewFileBackend(cfg.StoragePath), opts)
	case config.DriverSQLite:
		var backend *storage.SQLiteBackend
		backend, err = storage.NewSQLiteBackend(cfg.StoragePath)
		if err == nil {
			store, err = storage.NewPersistent(backend, opts)
		}
	}
	if err != nil {
		logger.Fatalw("failed to open store", "driver", cfg.StorageDriver, "path", cfg.StoragePath, "error", err)
	}

	hub := realtime.NewHub()

	routeCfg := routes.Config{
		Handler: handlers.New(store, hub, logger),
		Hub:     hub,
		Logger:  logger,
	}
	if cfg.AuthEnabled {
		tokens := auth.NewTokens(cfg.JWTSecret)
		authHandler, err := handlers.NewAuthHandler(tokens, cfg.AuthUsername, cfg.AuthPassword)
		if err != nil {
			logger.Fatalw("failed to set up auth", "error", err)
		}
		routeCfg.Auth = authHandler
		routeCfg.Tokens = tokens
	}

	ginRoutes := routes.Setup(routeCfg)

	logger.Infow("server starting",
		"port", cfg.ServerPort,
		"storage", cfg.StorageDriver,
		"auth", cfg.AuthEnabled,
	)

	if err := ginRoutes.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}
}

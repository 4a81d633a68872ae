package main

import (
	"os"
	"time"

	"go.uber.org/zap"

	"todoapi/internal/auth"
	"todoapi/internal/config"
	"todoapi/internal/enrichment"
	"todoapi/internal/repository"
	"todoapi/internal/server"
	"todoapi/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Token manager holds the immutable signing secret for the process lifetime
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	// Description enrichment is optional; without it todos keep the
	// client-supplied description.
	var expander service.DescriptionExpander
	if cfg.Enrichment.Enabled {
		client, err := enrichment.NewClient(enrichment.Config{
			APIKey:    cfg.Enrichment.APIKey,
			BaseURL:   cfg.Enrichment.BaseURL,
			ModelName: cfg.Enrichment.ModelName,
			Timeout:   time.Duration(cfg.Enrichment.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			logger.Warn("Enrichment disabled", zap.Error(err))
		} else {
			expander = client
		}
	}

	// Initialize and run the server
	srv := server.NewServer(db, tokens, expander, logger)
	srv.Run(cfg.Server.Port)
}

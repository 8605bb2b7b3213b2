package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/jwhitfield/studygen/internal/config"
	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/orchestrator"
	"github.com/jwhitfield/studygen/internal/platform/gemini"
	"github.com/jwhitfield/studygen/internal/platform/logger"
)

// application holds the initialized dependencies for the server. It is
// assembled once at startup and shared read-only afterwards.
type application struct {
	config *config.Config
	logger *slog.Logger
	pool   *credential.Pool
	engine *orchestrator.Orchestrator
}

// initializeApp loads configuration, sets up logging, builds the credential
// pool and the generation engine, and returns the assembled application.
// It fails fast on configuration errors so a misconfigured deployment never
// starts serving.
func initializeApp(ctx context.Context) (*application, error) {
	// Optional .env for local development; absence is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("model", cfg.LLM.ModelName),
		slog.Bool("api_auth_enabled", cfg.Server.APIKey != ""))

	pool := credential.FromEnv()
	if pool.Size() == 0 {
		return nil, fmt.Errorf("initializing credential pool: %w", credential.ErrNoCredentials)
	}
	log.Info("credential pool initialized", slog.Int("credentials", pool.Size()))

	generator, err := gemini.NewGenerator(ctx, log, cfg.LLM.ModelName, pool.Credentials())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	engine := orchestrator.New(pool, generator, orchestrator.Config{
		BaseStaggerDelay: cfg.Batch.BaseStaggerDelay,
		BatchTimeout:     cfg.Batch.BatchTimeout,
		TaskTimeout:      cfg.Batch.TaskTimeout,
		MaxRetries:       cfg.Batch.MaxRetries,
		RetryBaseDelay:   cfg.Batch.RetryBaseDelay,
	}, log)

	return &application{
		config: cfg,
		logger: log,
		pool:   pool,
		engine: engine,
	}, nil
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	app.logger.Info("application cleanup complete")
}

// exitOnError logs the error and terminates the process with a non-zero
// status.
func exitOnError(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}

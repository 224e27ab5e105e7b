// Package cli provides common initialization shared by the findash binaries.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"findash/internal/backend"
	"findash/internal/config"
	"findash/internal/core"
	"findash/internal/log"
	"findash/internal/snapshot"
	"findash/internal/storage"
)

// SetupLogger builds the process logger from the configured level and format
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	lc.JSON = cfg.LogFormat == "json"
	lc.Level = log.ParseLevel(cfg.LogLevel)
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and sets up logging.
// Exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenBackend creates the configured storage medium.
// Exits the process on failure.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.Error("Failed to initialize storage backend", log.FieldError, err, log.FieldBackend, bc.Type.String())
		os.Exit(1)
	}
	return res
}

// OpenDirectBackend is OpenBackend without the read-through cache, for
// processes that observe a medium written by others.
func OpenDirectBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	direct := *cfg
	direct.CacheSize = 0
	return OpenBackend(ctx, logger, &direct)
}

// Stores holds one snapshot store per persisted record.
type Stores struct {
	Finance   *snapshot.Store[core.FinanceData]
	Dashboard *snapshot.Store[core.DashboardData]
}

// BuildStores creates the finance and dashboard stores over medium.
// notifier may be nil.
func BuildStores(medium storage.Medium, cfg *config.Config, logger *log.Logger, notifier snapshot.Notifier) (*Stores, error) {
	policy, err := snapshot.ParseCorruptPolicy(cfg.CorruptPolicy)
	if err != nil {
		return nil, fmt.Errorf("corrupt policy: %w", err)
	}
	opts := []snapshot.Option{snapshot.WithCorruptPolicy(policy)}
	if notifier != nil {
		opts = append(opts, snapshot.WithNotifier(notifier))
	}
	return &Stores{
		Finance:   snapshot.New(medium, core.FinanceKey, core.DefaultFinanceData, logger, opts...),
		Dashboard: snapshot.New(medium, core.DashboardKey, core.DefaultDashboardData, logger, opts...),
	}, nil
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	return ctx
}

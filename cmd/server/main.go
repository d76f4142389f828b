package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/demonkingdom/internal/api"
	"github.com/mcoot/demonkingdom/internal/config"
	"github.com/mcoot/demonkingdom/internal/factory"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/auth"
	redisstorage "github.com/mcoot/demonkingdom/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	envCfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authCfg := auth.DefaultConfig()
	authCfg.TokenHash = envCfg.GatewayTokenHash

	// Build factory config from environment
	cfg := factory.Config{
		Logger:           logger,
		StorageType:      envCfg.StorageType,
		DataDir:          envCfg.DataDir,
		StrictLoad:       envCfg.StrictLoad,
		SQLitePath:       envCfg.SQLitePath,
		PrivilegedID:     model.PlayerID(envCfg.PrivilegedID),
		AutosaveInterval: envCfg.AutosaveInterval,
		AuthConfig:       authCfg,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Restore player state before accepting commands; only strict mode fails here
	if err := app.Store.Load(context.Background()); err != nil {
		logger.Error("failed to load player state", slog.String("error", err.Error()))
		_ = app.Close()
		os.Exit(1)
	}
	if !app.AuthService.Enabled() {
		logger.Warn("GATEWAY_TOKEN_HASH not set, API accepts unauthenticated calls")
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		KingdomController: app.KingdomController,
		BattleResolver:    app.BattleResolver,
		TransferService:   app.TransferService,
		Store:             app.Store,
		Scheduler:         app.Scheduler,
		Clock:             app.Clock,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = envCfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.Scheduler.Start(ctx)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	exitCode := awaitShutdown(ctx, errCh, server, app.Scheduler, app, logger)
	cancel()
	os.Exit(exitCode)
}

// shutdowner is satisfied by both the HTTP server and the autosave scheduler
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// awaitShutdown blocks until a signal or a server failure, then stops the
// server, runs the final save and closes storage. Only a server failure makes
// the exit code non-zero; shutdown and flush errors are logged.
func awaitShutdown(ctx context.Context, errCh <-chan error, server, saver shutdowner, storage io.Closer, logger *slog.Logger) int {
	exitCode := 0

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	// Final save runs after the server has stopped taking commands
	if err := saver.Shutdown(context.Background()); err != nil {
		logger.Error("final save failed", slog.String("error", err.Error()))
	}
	if err := storage.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return exitCode
}

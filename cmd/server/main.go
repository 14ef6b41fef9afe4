package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mcoot/wagerpong/internal/api"
	"github.com/mcoot/wagerpong/internal/factory"
	"github.com/mcoot/wagerpong/internal/model"
	redisstorage "github.com/mcoot/wagerpong/internal/storage/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:          logger,
		StorageType:     os.Getenv("STORAGE_TYPE"),
		GameConfig:      model.DefaultGameConfig(),
		EthRPCURL:       os.Getenv("ETH_RPC_URL"),
		EthTokenAddress: os.Getenv("ETH_TOKEN_ADDRESS"),
	}

	if raw := os.Getenv("TICK_INTERVAL_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			logger.Error("TICK_INTERVAL_MS must be a positive integer", slog.String("value", raw))
			os.Exit(1)
		}
		cfg.GameConfig.TickInterval = time.Duration(ms) * time.Millisecond
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Sessions:    app.Engine,
		Connections: app.Hub,
		Storage:     app.Storage,
		WebSocket:   app.WebSocket,
		StaticDir:   os.Getenv("STATIC_DIR"),
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			logger.Error("PORT must be an integer", slog.String("value", raw))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start the game loop and the results writer
	runner := app.Start(logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
		cancel()
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	// Websocket clients are still attached after the HTTP server stops.
	// Closing them lets the engine record any match still in flight.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	runner.Stop(stopCtx)
	stopCancel()

	// Results are drained by now, so the store can go
	if closer, ok := app.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("storage close error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}

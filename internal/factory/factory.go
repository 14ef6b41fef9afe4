package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/wagerpong/internal/dependencies/clock"
	"github.com/mcoot/wagerpong/internal/dependencies/random"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/balance"
	"github.com/mcoot/wagerpong/internal/services/engine"
	"github.com/mcoot/wagerpong/internal/storage"
	"github.com/mcoot/wagerpong/internal/storage/memory"
	redisstorage "github.com/mcoot/wagerpong/internal/storage/redis"
	"github.com/mcoot/wagerpong/internal/transport/ws"
	"github.com/mcoot/wagerpong/internal/workers"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Hub           *ws.Hub
	Engine        *engine.Engine
	Resolver      *balance.Resolver
	WebSocket     *ws.Handler
	ResultsWorker *workers.ResultsWorker
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GameConfig holds board and timing parameters
	// If zero value, defaults to model.DefaultGameConfig()
	GameConfig model.GameConfig
	// EthRPCURL and EthTokenAddress enable on-chain balance lookups when both are set.
	// Otherwise the balance a client reports at registration is trusted.
	EthRPCURL       string
	EthTokenAddress string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Balance lookups go on-chain only when a node and token are configured
	var provider balance.Provider
	if cfg.EthRPCURL != "" && cfg.EthTokenAddress != "" {
		token, err := balance.DialERC20(cfg.EthRPCURL, cfg.EthTokenAddress)
		if err != nil {
			closeStorage(store)
			return nil, fmt.Errorf("balance provider: %w", err)
		}
		provider = balance.NewCached(token, store, logger)
	}

	// Use default game config if not provided
	gameCfg := cfg.GameConfig
	if gameCfg.TickInterval == 0 {
		gameCfg = model.DefaultGameConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), provider, gameCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, provider balance.Provider, gameCfg model.GameConfig, logger *slog.Logger) *App {
	hub := ws.NewHub(logger)
	eng := engine.New(gameCfg, hub, clk, rnd, logger)
	resolver := balance.NewResolver(provider, logger)

	return &App{
		Storage:   store,
		Clock:     clk,
		Random:    rnd,
		Hub:       hub,
		Engine:    eng,
		Resolver:  resolver,
		WebSocket: ws.NewHandler(hub, eng, resolver, logger),
		ResultsWorker: workers.NewResultsWorker(workers.NewResultsWorkerOptions{
			Storage: store,
			Results: eng.Results(),
			Logger:  logger,
		}),
	}
}

// closeStorage releases a backend that holds connections
func closeStorage(store storage.Storage) {
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}

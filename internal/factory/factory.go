// Package factory wires the application together
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/botornot-chat/botornot/internal/dependencies/clock"
	"github.com/botornot-chat/botornot/internal/dependencies/random"
	"github.com/botornot-chat/botornot/internal/reasoning"
	"github.com/botornot-chat/botornot/internal/room"
	"github.com/botornot-chat/botornot/internal/services/bot"
	"github.com/botornot-chat/botornot/internal/services/credential"
	"github.com/botornot-chat/botornot/internal/services/player"
	"github.com/botornot-chat/botornot/internal/services/round"
	"github.com/botornot-chat/botornot/internal/services/vote"
	"github.com/botornot-chat/botornot/internal/storage"
	"github.com/botornot-chat/botornot/internal/storage/memory"
	redisstorage "github.com/botornot-chat/botornot/internal/storage/redis"
	"github.com/botornot-chat/botornot/internal/ws"
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
	CredentialPool *credential.Pool
	Registry       *player.Registry
	Ledger         *vote.Ledger
	Directory      *room.Directory
	Reasoning      reasoning.Service
	Hub            *ws.Hub
	Orchestrator   *bot.Orchestrator
	Resolver       *round.Resolver
}

// Config holds configuration for the application factory
type Config struct {
	// Credentials is the pool of API secrets for the reasoning provider
	// (required)
	Credentials []string
	// ReasoningConfig configures the reasoning client (optional)
	// If zero value, defaults to reasoning.DefaultConfig()
	ReasoningConfig reasoning.Config
	// RoomConfig configures rooms (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// BotConfig configures the bot orchestrator (optional)
	// If zero value, defaults to bot.DefaultConfig()
	BotConfig bot.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	// ReasoningService overrides the HTTP reasoning client (used in tests)
	ReasoningService reasoning.Service
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
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

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(cfg, store, clk, rnd, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg Config, store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) (*App, error) {
	pool, err := credential.NewPool(cfg.Credentials)
	if err != nil && cfg.ReasoningService == nil {
		return nil, err
	}

	registry, err := player.NewRegistry(store, clk, logger)
	if err != nil {
		return nil, err
	}
	ledger := vote.NewLedger(store, logger)

	roomCfg := cfg.RoomConfig
	if roomCfg.RoundSeconds == 0 {
		roomCfg = room.DefaultConfig()
	}
	directory := room.NewDirectory(roomCfg, clk, rnd, logger)

	reasoner := cfg.ReasoningService
	if reasoner == nil {
		reasoningCfg := cfg.ReasoningConfig
		if reasoningCfg.BaseURL == "" {
			reasoningCfg = reasoning.DefaultConfig()
		}
		reasoner = reasoning.NewClient(reasoningCfg, pool, logger)
	}

	botCfg := cfg.BotConfig
	if botCfg.MaxSeedBots == 0 {
		botCfg = bot.DefaultConfig()
	}

	// The hub and orchestrator reference each other: the orchestrator
	// broadcasts through the hub, the hub hands inbound events back.
	hub := ws.NewHub(logger)
	orchestrator := bot.New(botCfg, registry, ledger, directory, reasoner, hub, clk, rnd, logger)
	hub.Bind(orchestrator)

	resolver := round.NewResolver(registry, ledger, directory, orchestrator, hub, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		CredentialPool: pool,
		Registry:       registry,
		Ledger:         ledger,
		Directory:      directory,
		Reasoning:      reasoner,
		Hub:            hub,
		Orchestrator:   orchestrator,
		Resolver:       resolver,
	}, nil
}

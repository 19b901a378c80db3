package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"

	"github.com/botornot-chat/botornot/internal/api"
	"github.com/botornot-chat/botornot/internal/factory"
	"github.com/botornot-chat/botornot/internal/reasoning"
	"github.com/botornot-chat/botornot/internal/room"
	redisstorage "github.com/botornot-chat/botornot/internal/storage/redis"
)

// envConfig is the server configuration read from the environment.
type envConfig struct {
	Host string `env:"HOST" envDefault:""`
	Port int    `env:"PORT" envDefault:"8080"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	// Credentials is the comma-separated pool of reasoning provider API
	// keys, rotated round-robin across requests.
	Credentials []string `env:"GROQ_API_KEYS" envSeparator:","`

	ReasoningBaseURL string `env:"REASONING_BASE_URL"`
	GenerateModel    string `env:"GENERATE_MODEL"`
	RateModel        string `env:"RATE_MODEL"`

	RoundSeconds int `env:"ROUND_SECONDS" envDefault:"120"`

	// RateLimit caps API requests per second per client IP; zero disables.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"10"`
	RateBurst int     `env:"RATE_BURST" envDefault:"20"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

func main() {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	reasoningCfg := reasoning.DefaultConfig()
	if cfg.ReasoningBaseURL != "" {
		reasoningCfg.BaseURL = cfg.ReasoningBaseURL
	}
	if cfg.GenerateModel != "" {
		reasoningCfg.GenerateModel = cfg.GenerateModel
	}
	if cfg.RateModel != "" {
		reasoningCfg.RateModel = cfg.RateModel
	}

	roomCfg := room.DefaultConfig()
	roomCfg.RoundSeconds = cfg.RoundSeconds

	factoryCfg := factory.Config{
		Credentials:     cfg.Credentials,
		ReasoningConfig: reasoningCfg,
		RoomConfig:      roomCfg,
		Logger:          logger,
		StorageType:     cfg.StorageType,
	}

	// Configure Redis if storage type is redis
	if factoryCfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Registry:     app.Registry,
		Ledger:       app.Ledger,
		Directory:    app.Directory,
		Orchestrator: app.Orchestrator,
		Hub:          app.Hub,
		RateLimit:    rate.Limit(cfg.RateLimit),
		RateBurst:    cfg.RateBurst,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
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

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		app.Orchestrator.Shutdown()
	}

	logger.Info("server stopped")
}

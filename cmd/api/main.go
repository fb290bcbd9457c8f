package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/cache"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/client"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/config"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/server"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	// Load and validate configuration from environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Read-only pool client: no wallet is needed to serve quotes and state
	poolClient, err := client.New(client.Config{
		ProgramID:    cfg.PoolProgramID,
		RPCURL:       cfg.RPCUrl,
		RPCTimeout:   cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create pool client")
	}
	defer poolClient.Close()

	// Snapshot and event cache (optional; the API degrades to chain-only reads)
	var redisCache *cache.RedisCache
	rc := cache.NewRedisCache(cfg.RedisAddr)
	if err := rc.Ping(ctx); err != nil {
		logger.WithError(err).Warn("redis unavailable, serving without snapshot cache")
		_ = rc.Close()
	} else {
		redisCache = rc
		defer redisCache.Close()
	}

	// Event history store (optional)
	var history *cache.ClickHouseStore
	if ch, err := cache.NewClickHouseStore(cfg.ClickHouseAddr); err != nil {
		logger.WithError(err).Warn("clickhouse unavailable, serving without event history")
	} else {
		history = ch
		defer history.Close()
	}

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Pools:   poolClient,
		Cache:   redisCache,
		History: history,
		DevMode: cfg.DevMode,
		Logger:  logger,
	}

	// Create HTTP server with configuration and handlers
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIListenAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh // Wait for shutdown signal
		logger.Info("shutting down")
		cancel()                               // Cancel context to stop ongoing operations
		_ = srv.Shutdown(context.Background()) // Gracefully shutdown HTTP server
	}()

	// Start the HTTP server
	logger.WithField("addr", cfg.APIListenAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}

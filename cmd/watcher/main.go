// ============================================================================
// cmd/watcher/main.go - Pool Watcher Service
// ============================================================================
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/cache"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/config"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/rpc"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/stream"
)

type Watcher struct {
	redis  *cache.RedisCache
	pubsub *cache.PubSubManager
}

func NewWatcher(redisAddr string) (*Watcher, error) {
	redisCache := cache.NewRedisCache(redisAddr)
	if err := redisCache.Ping(context.Background()); err != nil {
		return nil, err
	}

	pubsub := cache.NewPubSubManager(redisAddr)

	return &Watcher{
		redis:  redisCache,
		pubsub: pubsub,
	}, nil
}

func (w *Watcher) ProcessSnapshot(ctx context.Context, snap *models.PoolSnapshot) {
	log.Printf("📊 Pool changed: %s (reserve_a=%d reserve_b=%d shares=%d)",
		snap.Address[:8], snap.ReserveA, snap.ReserveB, snap.TotalShares)

	// 1. Store snapshot in Redis cache
	if err := w.redis.SetSnapshot(ctx, snap); err != nil {
		log.Printf("⚠️  Redis cache error: %v", err)
	}

	// 2. Publish a reserve-change event for real-time subscribers
	event := &models.PoolEvent{
		Timestamp: snap.FetchedAt,
		Kind:      "reserves_changed",
		Pool:      snap.Address,
		MintA:     snap.MintA,
		MintB:     snap.MintB,
		AmountA:   snap.ReserveA,
		AmountB:   snap.ReserveB,
		Shares:    snap.TotalShares,
	}
	if err := w.pubsub.PublishEvent(ctx, event); err != nil {
		log.Printf("⚠️  Pub/Sub error: %v", err)
	}
}

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func main() {
	loadEnv()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	watcher, err := NewWatcher(cfg.RedisAddr)
	if err != nil {
		log.Fatal(err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	poolWatcher := stream.NewPoolWatcher(stream.PoolWatcherConfig{
		RPCClient:    rpcClient,
		ProgramID:    cfg.PoolProgramID,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	log.Println("🚀 Starting pool watcher...")

	go func() {
		err := poolWatcher.Start(ctx, func(snap *models.PoolSnapshot) {
			watcher.ProcessSnapshot(ctx, snap)
		})
		if err != nil && err != context.Canceled {
			log.Printf("watcher stopped: %v", err)
		}
	}()

	log.Println("✅ Watcher running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	<-sigChan
	log.Println("🛑 Shutting down gracefully...")
	cancel()
	_ = poolWatcher.Stop()
}

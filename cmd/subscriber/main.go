// ============================================================================
// cmd/subscriber/main.go - Example Subscriber (Consumer)
// ============================================================================
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/cache"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/config"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cfg := config.Load()
	pubsub := cache.NewPubSubManager(cfg.RedisAddr)

	log.Println("👂 Starting pool event subscriber...")

	// Subscribe to all pool events
	go pubsub.Subscribe(ctx, "pools:all", func(event *models.PoolEvent) {
		log.Printf("📨 Received: %s | %s | %s | a=%d b=%d shares=%d",
			event.Kind, event.Pool[:8], event.Pair(),
			event.AmountA, event.AmountB, event.Shares)
	})

	// Subscribe to swaps only
	go pubsub.Subscribe(ctx, "pools:kind:swap", func(event *models.PoolEvent) {
		log.Printf("💱 Swap on %s: a=%d b=%d (a_to_b=%v)",
			event.Pool[:8], event.AmountA, event.AmountB, event.AToB)
	})

	// Subscribe to pattern (all pairs)
	go pubsub.PSubscribe(ctx, "pools:pair:*", func(event *models.PoolEvent) {
		log.Printf("🔍 Pattern match: %s", event.Pair())
	})

	log.Println("✅ Subscriber running. Press Ctrl+C to stop.")

	<-sigChan
	log.Println("🛑 Shutting down subscriber...")
}

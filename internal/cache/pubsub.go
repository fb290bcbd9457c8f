// ============================================================================
// cache/pubsub.go - Redis Pub/Sub Wrapper
// ============================================================================
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
)

type PubSubManager struct {
	client *redis.Client
}

func NewPubSubManager(addr string) *PubSubManager {
	return &PubSubManager{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
	}
}

func (p *PubSubManager) Close() error {
	return p.client.Close()
}

// Publish pool event to multiple channels
func (p *PubSubManager) PublishEvent(ctx context.Context, event *models.PoolEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Publish to multiple channels for different subscribers
	channels := []string{
		"pools:all", // All pool events
		fmt.Sprintf("pools:pair:%s", event.Pair()), // Pair-specific
		fmt.Sprintf("pools:kind:%s", event.Kind),   // Operation-specific
	}

	pipe := p.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// Subscribe to a channel
func (p *PubSubManager) Subscribe(ctx context.Context, channel string, handler func(*models.PoolEvent)) error {
	pubsub := p.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Printf("📡 Subscribed to channel: %s", channel)

	ch := pubsub.Channel()
	for msg := range ch {
		var event models.PoolEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshaling event: %v", err)
			continue
		}

		handler(&event)
	}

	return nil
}

// Subscribe to pattern (e.g., "pools:pair:*")
func (p *PubSubManager) PSubscribe(ctx context.Context, pattern string, handler func(*models.PoolEvent)) error {
	pubsub := p.client.PSubscribe(ctx, pattern)
	defer pubsub.Close()

	log.Printf("📡 Subscribed to pattern: %s", pattern)

	ch := pubsub.Channel()
	for msg := range ch {
		var event models.PoolEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshaling event: %v", err)
			continue
		}

		handler(&event)
	}

	return nil
}

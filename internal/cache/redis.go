package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
)

const (
	snapshotKeyPrefix = "pool:snapshot:"
	recentEventsKey   = "pool:events:recent"
	recentEventsMax   = 100
)

// RedisCache stores pool snapshots and a rolling window of recent events.
type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		snapshotTTL: 5 * time.Minute,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// SetSnapshot caches a pool snapshot under its address.
func (r *RedisCache) SetSnapshot(ctx context.Context, snap *models.PoolSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, snapshotKeyPrefix+snap.Address, data, r.snapshotTTL).Err()
}

// GetSnapshot returns the cached snapshot for a pool address, or (nil, nil)
// on a cache miss.
func (r *RedisCache) GetSnapshot(ctx context.Context, address string) (*models.PoolSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+address).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snap models.PoolSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("redis decode snapshot: %w", err)
	}
	return &snap, nil
}

// AddRecentEvent pushes an event onto the rolling recent-events list.
func (r *RedisCache) AddRecentEvent(ctx context.Context, event *models.PoolEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, recentEventsKey, data)
	pipe.LTrim(ctx, recentEventsKey, 0, recentEventsMax-1)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentEvents returns up to limit most recent events, newest first.
func (r *RedisCache) RecentEvents(ctx context.Context, limit int64) ([]*models.PoolEvent, error) {
	if limit <= 0 || limit > recentEventsMax {
		limit = recentEventsMax
	}

	raw, err := r.client.LRange(ctx, recentEventsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis recent events: %w", err)
	}

	events := make([]*models.PoolEvent, 0, len(raw))
	for _, item := range raw {
		var ev models.PoolEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		events = append(events, &ev)
	}
	return events, nil
}

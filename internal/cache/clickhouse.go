package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
)

type ClickHouseStore struct {
	conn driver.Conn
}

func NewClickHouseStore(addr string) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: "solana",
			Username: "default",
			Password: "",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Println("✅ Connected to ClickHouse")

	return &ClickHouseStore{
		conn: conn,
	}, nil
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}

func (c *ClickHouseStore) InsertEvent(ctx context.Context, event *models.PoolEvent) error {
	query := `
		INSERT INTO pool_events (
			signature, timestamp, kind, pool, mint_a, mint_b,
			amount_a, amount_b, shares, a_to_b
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		event.Signature,
		event.Timestamp,
		event.Kind,
		event.Pool,
		event.MintA,
		event.MintB,
		event.AmountA,
		event.AmountB,
		event.Shares,
		event.AToB,
	)

	if err != nil {
		return fmt.Errorf("failed to insert pool event: %w", err)
	}

	return nil
}

// EventsForPool returns the most recent recorded events for one pool.
func (c *ClickHouseStore) EventsForPool(ctx context.Context, pool string, limit int) ([]*models.PoolEvent, error) {
	query := `
		SELECT signature, timestamp, kind, pool, mint_a, mint_b,
		       amount_a, amount_b, shares, a_to_b
		FROM pool_events
		WHERE pool = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := c.conn.Query(ctx, query, pool, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool events: %w", err)
	}
	defer rows.Close()

	var events []*models.PoolEvent
	for rows.Next() {
		var ev models.PoolEvent
		if err := rows.Scan(
			&ev.Signature, &ev.Timestamp, &ev.Kind, &ev.Pool,
			&ev.MintA, &ev.MintB,
			&ev.AmountA, &ev.AmountB, &ev.Shares, &ev.AToB,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pool event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

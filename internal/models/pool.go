// ============================================================================
// models/pool.go
// ============================================================================
package models

import "time"

// PoolEvent is one confirmed pool operation, as published to Redis and
// recorded in ClickHouse.
type PoolEvent struct {
	Signature string    `json:"signature"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"` // initialize | add_liquidity | remove_liquidity | swap
	Pool      string    `json:"pool"`
	MintA     string    `json:"mint_a"`
	MintB     string    `json:"mint_b"`
	AmountA   uint64    `json:"amount_a"`
	AmountB   uint64    `json:"amount_b"`
	Shares    uint64    `json:"shares"`
	AToB      bool      `json:"a_to_b,omitempty"`
}

// Pair returns the canonical pair label used for channel routing.
func (e *PoolEvent) Pair() string {
	return e.MintA + "/" + e.MintB
}

// PoolSnapshot is a decoded pool state at a point in time, cached in Redis
// and served by the API.
type PoolSnapshot struct {
	Address     string    `json:"address"`
	MintA       string    `json:"mint_a"`
	MintB       string    `json:"mint_b"`
	ReserveA    uint64    `json:"reserve_a"`
	ReserveB    uint64    `json:"reserve_b"`
	TotalShares uint64    `json:"total_shares"`
	FetchedAt   time.Time `json:"fetched_at"`
}

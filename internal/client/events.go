package client

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// publishEvent records a confirmed liquidity operation in the attached
// stores. Publication is best effort: the operation already succeeded
// on-chain, so store failures are logged and swallowed.
func (c *Client) publishEvent(ctx context.Context, kind string, d *pool.Derived, rcpt Receipt, amountA, amountB, shares uint64) {
	c.publish(ctx, &models.PoolEvent{
		Signature: rcpt.Signature,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Pool:      d.Pool.String(),
		MintA:     d.MintA.String(),
		MintB:     d.MintB.String(),
		AmountA:   amountA,
		AmountB:   amountB,
		Shares:    shares,
	})
}

func (c *Client) publishSwapEvent(ctx context.Context, d *pool.Derived, rcpt Receipt, aToB bool, amountIn, amountOut uint64) {
	ev := &models.PoolEvent{
		Signature: rcpt.Signature,
		Timestamp: time.Now().UTC(),
		Kind:      "swap",
		Pool:      d.Pool.String(),
		MintA:     d.MintA.String(),
		MintB:     d.MintB.String(),
		AToB:      aToB,
	}
	if aToB {
		ev.AmountA, ev.AmountB = amountIn, amountOut
	} else {
		ev.AmountA, ev.AmountB = amountOut, amountIn
	}
	c.publish(ctx, ev)
}

func (c *Client) publish(ctx context.Context, ev *models.PoolEvent) {
	if c.redis != nil {
		if err := c.redis.AddRecentEvent(ctx, ev); err != nil {
			c.logger.WithError(err).Warn("failed to cache pool event in redis")
		}
	}
	if c.history != nil {
		if err := c.history.InsertEvent(ctx, ev); err != nil {
			c.logger.WithError(err).Warn("failed to record pool event in clickhouse")
		}
	}
}

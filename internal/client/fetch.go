package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// PoolEntry pairs a pool's on-chain address with its decoded state.
type PoolEntry struct {
	Address solana.PublicKey
	State   *pool.PoolState
}

// FetchPoolState retrieves and decodes the pool state for a mint pair.
// Returns (nil, nil) when the pool account does not exist; a present but
// undecodable account surfaces ErrMalformedState.
func (c *Client) FetchPoolState(ctx context.Context, mintA, mintB solana.PublicKey) (*pool.PoolState, error) {
	d, err := c.derive.Derive(mintA, mintB)
	if err != nil {
		return nil, err
	}

	data, err := c.rpc.GetAccountInfo(ctx, d.Pool.String())
	if err != nil {
		return nil, fmt.Errorf("fetch pool state: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	state, err := pool.UnpackState(data)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", d.Pool, err)
	}
	return state, nil
}

// PoolExists reports whether an initialized pool account exists for the pair.
func (c *Client) PoolExists(ctx context.Context, mintA, mintB solana.PublicKey) (bool, error) {
	state, err := c.FetchPoolState(ctx, mintA, mintB)
	if err != nil {
		return false, err
	}
	return state != nil && state.Initialized, nil
}

// FetchAllPools scans every account owned by the pool program whose size
// matches the state layout and decodes each one. Accounts that fail to decode
// are logged and skipped rather than failing the scan. The scan is rate
// limited so repeated calls do not hammer the RPC node.
func (c *Client) FetchAllPools(ctx context.Context) ([]PoolEntry, error) {
	if err := c.scanLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	accounts, err := c.rpc.GetProgramAccounts(ctx, c.programID.String(), pool.StateLen)
	if err != nil {
		return nil, fmt.Errorf("fetch all pools: %w", err)
	}

	entries := make([]PoolEntry, 0, len(accounts))
	for _, acc := range accounts {
		addr, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"account": acc.Pubkey,
				"error":   err,
			}).Warn("skipping program account with bad address")
			continue
		}

		state, err := pool.UnpackState(acc.Data)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"account": acc.Pubkey,
				"error":   err,
			}).Warn("skipping undecodable pool account")
			continue
		}

		entries = append(entries, PoolEntry{Address: addr, State: state})
	}

	c.logger.WithFields(logrus.Fields{
		"total":   len(accounts),
		"decoded": len(entries),
	}).Debug("pool scan complete")

	return entries, nil
}

// Derive exposes the cached account derivation for a mint pair.
func (c *Client) Derive(mintA, mintB solana.PublicKey) (*pool.Derived, error) {
	return c.derive.Derive(mintA, mintB)
}

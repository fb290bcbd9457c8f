package client

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// AddLiquidity deposits both assets into an existing pool in proportion to
// its current reserves. Shares in the receipt are the client-side quote; the
// engine recomputes against live reserves at execution time.
func (c *Client) AddLiquidity(ctx context.Context, mintA, mintB solana.PublicKey, amountA, amountB uint64) (*LiquidityReceipt, error) {
	if c.wallet == nil {
		return nil, ErrNoWallet
	}
	start := time.Now()

	d, err := c.derive.Derive(mintA, mintB)
	if err != nil {
		return nil, err
	}
	amountA, amountB = orientAmounts(d, mintA, amountA, amountB)

	state, err := c.requireInitialized(ctx, d)
	if err != nil {
		return nil, err
	}

	shares, err := pool.AddLiquidityShares(amountA, amountB, state.ReserveA, state.ReserveB, state.TotalShares)
	if err != nil {
		return nil, err
	}

	ixs, user, err := c.resolveUserAccounts(ctx, d, true)
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, pool.NewAddLiquidityIx(
		c.programID, c.wallet.PublicKey(), d.Accounts(),
		user.a, user.b, user.shares,
		amountA, amountB,
	))

	sig, err := c.submit(ctx, ixs)
	if err != nil {
		return nil, fmt.Errorf("add liquidity: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"pool":      d.Pool.String(),
		"signature": sig,
		"amount_a":  amountA,
		"amount_b":  amountB,
		"shares":    shares,
	}).Info("liquidity added")

	receipt := &LiquidityReceipt{
		Receipt: Receipt{Signature: sig, Pool: d.Pool, Duration: time.Since(start)},
		Shares:  shares,
		AmountA: amountA,
		AmountB: amountB,
	}
	c.publishEvent(ctx, "add_liquidity", d, receipt.Receipt, amountA, amountB, shares)
	return receipt, nil
}

// RemoveLiquidity burns shareAmount of the caller's shares and withdraws the
// proportional amounts of both assets. The amounts in the receipt are the
// client-side quote.
func (c *Client) RemoveLiquidity(ctx context.Context, mintA, mintB solana.PublicKey, shareAmount uint64) (*LiquidityReceipt, error) {
	if c.wallet == nil {
		return nil, ErrNoWallet
	}
	start := time.Now()

	d, err := c.derive.Derive(mintA, mintB)
	if err != nil {
		return nil, err
	}

	state, err := c.requireInitialized(ctx, d)
	if err != nil {
		return nil, err
	}

	amountA, amountB, err := pool.RemoveLiquidityAmounts(shareAmount, state.ReserveA, state.ReserveB, state.TotalShares)
	if err != nil {
		return nil, err
	}

	ixs, user, err := c.resolveUserAccounts(ctx, d, true)
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, pool.NewRemoveLiquidityIx(
		c.programID, c.wallet.PublicKey(), d.Accounts(),
		user.a, user.b, user.shares,
		shareAmount,
	))

	sig, err := c.submit(ctx, ixs)
	if err != nil {
		return nil, fmt.Errorf("remove liquidity: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"pool":      d.Pool.String(),
		"signature": sig,
		"shares":    shareAmount,
		"amount_a":  amountA,
		"amount_b":  amountB,
	}).Info("liquidity removed")

	receipt := &LiquidityReceipt{
		Receipt: Receipt{Signature: sig, Pool: d.Pool, Duration: time.Since(start)},
		Shares:  shareAmount,
		AmountA: amountA,
		AmountB: amountB,
	}
	c.publishEvent(ctx, "remove_liquidity", d, receipt.Receipt, amountA, amountB, shareAmount)
	return receipt, nil
}

// requireInitialized fetches the pool state and fails with ErrPoolNotFound
// unless an initialized pool exists for the derivation.
func (c *Client) requireInitialized(ctx context.Context, d *pool.Derived) (*pool.PoolState, error) {
	data, err := c.rpc.GetAccountInfo(ctx, d.Pool.String())
	if err != nil {
		return nil, fmt.Errorf("fetch pool state: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: pool %s", pool.ErrPoolNotFound, d.Pool)
	}
	state, err := pool.UnpackState(data)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", d.Pool, err)
	}
	if !state.Initialized {
		return nil, fmt.Errorf("%w: pool %s is not initialized", pool.ErrPoolNotFound, d.Pool)
	}
	return state, nil
}

// resolveUserAccounts resolves the caller's token accounts for both assets,
// and for the share mint when includeShares is set, returning any create
// instructions to prepend.
func (c *Client) resolveUserAccounts(ctx context.Context, d *pool.Derived, includeShares bool) ([]solana.Instruction, *resolvedUserAccounts, error) {
	resolver := NewTokenAccountResolver(c.wallet)
	owner := c.wallet.PublicKey()
	resolved := &resolvedUserAccounts{}

	wanted := []struct {
		mint   solana.PublicKey
		target *solana.PublicKey
	}{
		{d.MintA, &resolved.a},
		{d.MintB, &resolved.b},
	}
	if includeShares {
		wanted = append(wanted, struct {
			mint   solana.PublicKey
			target *solana.PublicKey
		}{d.ShareMint, &resolved.shares})
	}

	var ixs []solana.Instruction
	for _, u := range wanted {
		r, err := resolver.Resolve(ctx, owner, u.mint)
		if err != nil {
			return nil, nil, err
		}
		*u.target = r.Account
		ixs = append(ixs, r.PreIxs...)
	}
	return ixs, resolved, nil
}

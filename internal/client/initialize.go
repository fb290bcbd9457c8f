package client

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// InitializePool bootstraps a brand-new pool for the mint pair and seeds it
// with the caller's deposit. The bootstrap runs as three sequenced
// transactions, each confirmed before the next starts:
//
//  1. allocate the pool state account and the share mint account
//  2. allocate and initialize the two pool vaults, plus any missing
//     caller token accounts
//  3. submit the initialize instruction carrying the seed deposit
//
// If any phase fails the sequence aborts; accounts created by earlier phases
// are left in place and a retry picks up where it left off. Returns
// ErrPoolAlreadyExists when an initialized pool is already present.
func (c *Client) InitializePool(ctx context.Context, mintA, mintB solana.PublicKey, amountA, amountB uint64) (*LiquidityReceipt, error) {
	if c.wallet == nil {
		return nil, ErrNoWallet
	}
	start := time.Now()

	d, err := c.derive.Derive(mintA, mintB)
	if err != nil {
		return nil, err
	}
	amountA, amountB = orientAmounts(d, mintA, amountA, amountB)

	// Client-side quote. The engine recomputes on-chain; a zero result here
	// fails fast without paying fees.
	shares, err := pool.InitialShares(amountA, amountB)
	if err != nil {
		return nil, err
	}

	// Pre-flight existence check. Advisory only: a concurrent initializer can
	// still win the race, in which case phase 3 surfaces the same sentinel.
	state, err := c.FetchPoolState(ctx, mintA, mintB)
	if err != nil {
		return nil, err
	}
	if state != nil && state.Initialized {
		return nil, fmt.Errorf("%w: pool %s", pool.ErrPoolAlreadyExists, d.Pool)
	}

	log := c.logger.WithFields(logrus.Fields{
		"pool":   d.Pool.String(),
		"mint_a": d.MintA.String(),
		"mint_b": d.MintB.String(),
	})

	payer := c.wallet.PublicKey()

	if state == nil {
		if err := c.runAllocatePhase(ctx, d, payer, log); err != nil {
			return nil, err
		}
	} else {
		log.Debug("pool state account already allocated, skipping phase 1")
	}

	resolved, err := c.runVaultPhase(ctx, d, payer, log)
	if err != nil {
		return nil, err
	}

	ix := pool.NewInitializeIx(
		c.programID, payer, d.Accounts(),
		d.MintA, d.MintB,
		resolved.a, resolved.b, resolved.shares,
		amountA, amountB,
	)

	sig, err := c.submit(ctx, []solana.Instruction{ix})
	if err != nil {
		return nil, fmt.Errorf("initialize phase 3 (seed): %w", err)
	}

	log.WithFields(logrus.Fields{
		"signature": sig,
		"amount_a":  amountA,
		"amount_b":  amountB,
		"shares":    shares,
	}).Info("pool initialized")

	receipt := &LiquidityReceipt{
		Receipt: Receipt{Signature: sig, Pool: d.Pool, Duration: time.Since(start)},
		Shares:  shares,
		AmountA: amountA,
		AmountB: amountB,
	}
	c.publishEvent(ctx, "initialize", d, receipt.Receipt, amountA, amountB, shares)
	return receipt, nil
}

// runAllocatePhase creates the pool state account (owned by the pool program)
// and the share mint account (owned by the token program, initialized by the
// pool program itself during phase 3).
func (c *Client) runAllocatePhase(ctx context.Context, d *pool.Derived, payer solana.PublicKey, log *logrus.Entry) error {
	stateRent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, pool.StateLen)
	if err != nil {
		return fmt.Errorf("initialize phase 1 (allocate): %w", err)
	}
	mintRent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, mintAccountLen)
	if err != nil {
		return fmt.Errorf("initialize phase 1 (allocate): %w", err)
	}

	ixs := []solana.Instruction{
		NewCreateAccountIx(payer, d.Pool, c.programID, stateRent, pool.StateLen),
		NewCreateAccountIx(payer, d.ShareMint, solana.TokenProgramID, mintRent, mintAccountLen),
	}

	sig, err := c.submit(ctx, ixs)
	if err != nil {
		return fmt.Errorf("initialize phase 1 (allocate): %w", err)
	}
	log.WithField("signature", sig).Debug("phase 1 complete: state and share mint allocated")
	return nil
}

type resolvedUserAccounts struct {
	a      solana.PublicKey
	b      solana.PublicKey
	shares solana.PublicKey
}

// runVaultPhase allocates and initializes the two pool vaults (token accounts
// owned by the pool state PDA) and creates any of the caller's token accounts
// that are missing. Already-existing accounts are skipped, so a rerun after a
// partial failure is safe.
func (c *Client) runVaultPhase(ctx context.Context, d *pool.Derived, payer solana.PublicKey, log *logrus.Entry) (*resolvedUserAccounts, error) {
	var ixs []solana.Instruction

	tokenRent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, tokenAccountLen)
	if err != nil {
		return nil, fmt.Errorf("initialize phase 2 (vaults): %w", err)
	}

	vaults := []struct {
		account solana.PublicKey
		mint    solana.PublicKey
	}{
		{d.VaultA, d.MintA},
		{d.VaultB, d.MintB},
	}
	for _, v := range vaults {
		exists, err := c.wallet.AccountExists(ctx, v.account)
		if err != nil {
			return nil, fmt.Errorf("initialize phase 2 (vaults): %w", err)
		}
		if exists {
			continue
		}
		ixs = append(ixs,
			NewCreateAccountIx(payer, v.account, solana.TokenProgramID, tokenRent, tokenAccountLen),
			NewInitializeTokenAccountIx(v.account, v.mint, d.Pool),
		)
	}

	userIxs, resolved, err := c.resolveUserAccounts(ctx, d, true)
	if err != nil {
		return nil, fmt.Errorf("initialize phase 2 (vaults): %w", err)
	}
	ixs = append(ixs, userIxs...)

	if len(ixs) == 0 {
		log.Debug("phase 2 skipped: vaults and user accounts already exist")
		return resolved, nil
	}

	sig, err := c.submit(ctx, ixs)
	if err != nil {
		return nil, fmt.Errorf("initialize phase 2 (vaults): %w", err)
	}
	log.WithField("signature", sig).Debug("phase 2 complete: vaults and user accounts ready")
	return resolved, nil
}

// orientAmounts maps user-supplied amounts onto the pool's canonical mint
// order, which may be flipped relative to the caller's argument order.
func orientAmounts(d *pool.Derived, userMintA solana.PublicKey, amountA, amountB uint64) (uint64, uint64) {
	if d.MintA.Equals(userMintA) {
		return amountA, amountB
	}
	return amountB, amountA
}

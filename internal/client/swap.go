package client

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// Swap exchanges amountIn of mintIn for the other asset of the pool at the
// current constant-product price. EstimatedOut in the receipt is quoted from
// the reserves observed before submission; the engine recomputes it at
// execution time.
func (c *Client) Swap(ctx context.Context, mintIn, mintOut solana.PublicKey, amountIn uint64) (*SwapReceipt, error) {
	if c.wallet == nil {
		return nil, ErrNoWallet
	}
	start := time.Now()

	d, err := c.derive.Derive(mintIn, mintOut)
	if err != nil {
		return nil, err
	}
	aToB := d.MintA.Equals(mintIn)

	state, err := c.requireInitialized(ctx, d)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := state.Reserves(aToB)
	estimatedOut, err := pool.SwapOutput(amountIn, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}

	ixs, user, err := c.resolveUserAccounts(ctx, d, false)
	if err != nil {
		return nil, err
	}

	source, dest := user.a, user.b
	if !aToB {
		source, dest = user.b, user.a
	}
	ixs = append(ixs, pool.NewSwapIx(
		c.programID, c.wallet.PublicKey(), d.Accounts(),
		source, dest, aToB, amountIn,
	))

	sig, err := c.submit(ctx, ixs)
	if err != nil {
		return nil, fmt.Errorf("swap: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"pool":          d.Pool.String(),
		"signature":     sig,
		"amount_in":     amountIn,
		"estimated_out": estimatedOut,
		"a_to_b":        aToB,
	}).Info("swap confirmed")

	receipt := &SwapReceipt{
		Receipt:      Receipt{Signature: sig, Pool: d.Pool, Duration: time.Since(start)},
		AmountIn:     amountIn,
		EstimatedOut: estimatedOut,
		AToB:         aToB,
	}
	c.publishSwapEvent(ctx, d, receipt.Receipt, aToB, amountIn, estimatedOut)
	return receipt, nil
}

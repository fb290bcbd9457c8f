// Package client implements the transaction orchestrator for the liquidity
// pool program: it derives pool accounts, encodes instructions, sequences the
// multi-phase pool bootstrap, and submits signed transactions to the ledger.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/cache"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/rpc"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/wallet"
)

// Config holds configuration for the pool client
type Config struct {
	// Program
	ProgramID string

	// RPC settings
	RPCURL       string
	RPCTimeout   time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Wallet
	WalletPrivateKey string

	// Submission behavior
	ConfirmTimeout    time.Duration
	SendRetries       int
	RequireSimulation bool

	// Bulk scan rate limit (scans per second)
	ScanRate rate.Limit

	Logger *logrus.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURL:         "https://api.mainnet-beta.solana.com",
		RPCTimeout:     30 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   1 * time.Second,
		ConfirmTimeout: 60 * time.Second,
		SendRetries:    3,
		ScanRate:       rate.Limit(0.5),
	}
}

// Client is the orchestrator for all pool operations. It holds every
// dependency explicitly; there is no process-wide state.
type Client struct {
	programID solana.PublicKey
	rpc       *rpc.Client
	wallet    *wallet.Wallet
	derive    *pool.DeriveCache
	logger    *logrus.Logger

	redis   *cache.RedisCache
	history *cache.ClickHouseStore

	scanLimiter       *rate.Limiter
	confirmTimeout    time.Duration
	sendRetries       int
	requireSimulation bool
}

// New creates a pool client from configuration.
func New(cfg Config) (*Client, error) {
	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("client: ProgramID is required")
	}
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("client: invalid ProgramID: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}
	if cfg.SendRetries == 0 {
		cfg.SendRetries = 3
	}
	if cfg.ScanRate == 0 {
		cfg.ScanRate = rate.Limit(0.5)
	}

	// The wallet is optional: without one the client can still derive, fetch,
	// and quote, but mutating operations fail with ErrNoWallet.
	var w *wallet.Wallet
	if cfg.WalletPrivateKey != "" {
		w, err = wallet.NewWallet(wallet.WalletConfig{
			RPCURL:       cfg.RPCURL,
			PrivateKey:   cfg.WalletPrivateKey,
			Timeout:      cfg.RPCTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		})
		if err != nil {
			return nil, fmt.Errorf("client: failed to create wallet: %w", err)
		}
	}

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCURL,
		Timeout:      cfg.RPCTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       cfg.Logger,
	})

	return &Client{
		programID:         programID,
		rpc:               rpcClient,
		wallet:            w,
		derive:            pool.NewDeriveCache(programID),
		logger:            cfg.Logger,
		scanLimiter:       rate.NewLimiter(cfg.ScanRate, 1),
		confirmTimeout:    cfg.ConfirmTimeout,
		sendRetries:       cfg.SendRetries,
		requireSimulation: cfg.RequireSimulation,
	}, nil
}

// WithRedis attaches a Redis cache for best-effort snapshot and event
// publication.
func (c *Client) WithRedis(r *cache.RedisCache) *Client {
	c.redis = r
	return c
}

// WithHistory attaches a ClickHouse store for best-effort event history.
func (c *Client) WithHistory(h *cache.ClickHouseStore) *Client {
	c.history = h
	return c
}

// ProgramID returns the pool program this client targets.
func (c *Client) ProgramID() solana.PublicKey { return c.programID }

// Wallet returns the signing wallet.
func (c *Client) Wallet() *wallet.Wallet { return c.wallet }

// ErrNoWallet is returned from mutating operations on a client that was
// built without a signing key.
var ErrNoWallet = errors.New("client has no wallet configured")

// Close cleans up attached resources.
func (c *Client) Close() error {
	var errs []error
	if c.wallet != nil {
		if err := c.wallet.Close(); err != nil {
			errs = append(errs, fmt.Errorf("wallet close: %w", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.history != nil {
		if err := c.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// Receipt describes one confirmed submission.
type Receipt struct {
	Signature string
	Pool      solana.PublicKey
	Duration  time.Duration
}

// LiquidityReceipt is returned from initialize/add/remove. The share and
// amount fields are the client-side estimate; the remote engine's recomputed
// values are authoritative.
type LiquidityReceipt struct {
	Receipt
	Shares  uint64
	AmountA uint64
	AmountB uint64
}

// SwapReceipt is returned from swap operations. EstimatedOut is the
// client-side quote, not the settled amount.
type SwapReceipt struct {
	Receipt
	AmountIn     uint64
	EstimatedOut uint64
	AToB         bool
}

// submit builds, signs, sends, and confirms one transaction. Each attempt
// fetches a fresh blockhash; only freshness failures are retried. Pool program
// rejections are mapped to their sentinel errors and surfaced unchanged.
func (c *Client) submit(ctx context.Context, instructions []solana.Instruction) (string, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 0; attempt <= c.sendRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
			}).Debug("retrying submission with fresh blockhash")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		tx, err := c.wallet.BuildTransaction(ctx, instructions)
		if err != nil {
			lastErr = err
			continue
		}

		if c.requireSimulation {
			if _, err := c.wallet.SimulateTransaction(ctx, tx); err != nil {
				return "", mapProgramError(err)
			}
		}

		if err := c.wallet.SignTx(tx); err != nil {
			return "", err
		}

		sig, err := c.wallet.SendTx(ctx, tx, nil)
		if err != nil {
			if isBlockhashError(err) {
				lastErr = err
				continue
			}
			return "", mapProgramError(err)
		}

		if err := c.wallet.ConfirmTransaction(ctx, sig, "confirmed", c.confirmTimeout); err != nil {
			if errors.Is(err, wallet.ErrConfirmTimeout) {
				// The transaction may still land; the caller must re-fetch
				// state before retrying.
				return sig, fmt.Errorf("%w: %v", pool.ErrSubmissionTimeout, err)
			}
			return sig, mapProgramError(err)
		}

		return sig, nil
	}

	return "", fmt.Errorf("submission retries exhausted: %w", lastErr)
}

// isBlockhashError reports whether a send failure was caused by an expired
// freshness token, which is safe to retry with a new one.
func isBlockhashError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blockhash not found") ||
		strings.Contains(msg, "blockhashnotfound")
}

// mapProgramError translates the pool program's custom error codes into this
// package's sentinels, so logical rejections surface with the same identity
// whether they come from the local engine or the remote one.
func mapProgramError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "custom program error: 0x2"):
		return fmt.Errorf("%w: %v", pool.ErrPoolAlreadyExists, err)
	case strings.Contains(msg, "custom program error: 0x3"):
		return fmt.Errorf("%w: %v", pool.ErrPoolNotFound, err)
	case strings.Contains(msg, "custom program error: 0x4"),
		strings.Contains(msg, "custom program error: 0x5"),
		strings.Contains(msg, "custom program error: 0x7"),
		strings.Contains(msg, "custom program error: 0xc"):
		return fmt.Errorf("%w: %v", pool.ErrInvalidAmount, err)
	case strings.Contains(msg, "custom program error: 0x6"):
		return fmt.Errorf("%w: %v", pool.ErrInsufficientLiquidity, err)
	default:
		return err
	}
}

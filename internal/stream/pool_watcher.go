package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/models"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/rpc"
)

// SnapshotHandler receives a pool snapshot whenever its reserves change.
type SnapshotHandler func(*models.PoolSnapshot)

// PoolWatcher polls the pool program's accounts and emits a snapshot for
// every pool whose reserves or share supply changed since the last poll.
type PoolWatcher struct {
	client       *rpc.Client
	programID    string
	pollInterval time.Duration
	logger       *logrus.Logger

	mu      sync.RWMutex
	seen    map[string]reserveKey
	running bool
}

type reserveKey struct {
	reserveA    uint64
	reserveB    uint64
	totalShares uint64
}

// PoolWatcherConfig holds configuration for the pool watcher
type PoolWatcherConfig struct {
	RPCClient    *rpc.Client
	ProgramID    string
	PollInterval time.Duration
	Logger       *logrus.Logger
}

// NewPoolWatcher creates a new pool watcher
func NewPoolWatcher(cfg PoolWatcherConfig) *PoolWatcher {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 30 * time.Second
	}

	return &PoolWatcher{
		client:       cfg.RPCClient,
		programID:    cfg.ProgramID,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
		seen:         make(map[string]reserveKey),
	}
}

// Start begins polling for pool changes
func (w *PoolWatcher) Start(ctx context.Context, handler SnapshotHandler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.WithFields(logrus.Fields{
		"interval": w.pollInterval,
		"program":  w.programID,
	}).Info("starting pool watcher")

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return ctx.Err()

		case <-ticker.C:
			if err := w.poll(ctx, handler); err != nil {
				w.logger.WithError(err).Error("poll error")
			}
		}
	}
}

// Stop stops the watcher
func (w *PoolWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	return nil
}

// poll fetches all pool accounts and emits snapshots for changed ones
func (w *PoolWatcher) poll(ctx context.Context, handler SnapshotHandler) error {
	accounts, err := w.client.GetProgramAccounts(ctx, w.programID, pool.StateLen)
	if err != nil {
		return fmt.Errorf("failed to get program accounts: %w", err)
	}

	now := time.Now().UTC()
	changed := 0

	for _, acc := range accounts {
		state, err := pool.UnpackState(acc.Data)
		if err != nil {
			w.logger.WithFields(logrus.Fields{
				"account": acc.Pubkey,
				"error":   err,
			}).Warn("skipping undecodable pool account")
			continue
		}
		if !state.Initialized {
			continue
		}

		key := reserveKey{state.ReserveA, state.ReserveB, state.TotalShares}

		w.mu.RLock()
		prev, known := w.seen[acc.Pubkey]
		w.mu.RUnlock()

		if known && prev == key {
			continue
		}

		w.mu.Lock()
		w.seen[acc.Pubkey] = key
		w.mu.Unlock()

		changed++
		handler(&models.PoolSnapshot{
			Address:     acc.Pubkey,
			MintA:       state.MintA.String(),
			MintB:       state.MintB.String(),
			ReserveA:    state.ReserveA,
			ReserveB:    state.ReserveB,
			TotalShares: state.TotalShares,
			FetchedAt:   now,
		})
	}

	w.logger.WithFields(logrus.Fields{
		"pools":   len(accounts),
		"changed": changed,
	}).Debug("pool poll complete")

	return nil
}

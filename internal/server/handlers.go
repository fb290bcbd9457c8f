package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/cache"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/client"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// PoolReader reads pool state from the chain.
type PoolReader interface {
	FetchPoolState(ctx context.Context, mintA, mintB solana.PublicKey) (*pool.PoolState, error)
	FetchAllPools(ctx context.Context) ([]client.PoolEntry, error)
	Derive(mintA, mintB solana.PublicKey) (*pool.Derived, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Pools   PoolReader             // On-chain pool reader
	Cache   *cache.RedisCache      // Redis snapshot and event cache (optional)
	History *cache.ClickHouseStore // ClickHouse event history (optional)
	DevMode bool                   // Enable detailed error responses in development
	Logger  *logrus.Logger         // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// parseMintParam decodes a base58 mint path parameter.
func parseMintParam(c echo.Context, name string) (solana.PublicKey, error) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return solana.PublicKey{}, errors.New("missing mint")
	}
	return solana.PublicKeyFromBase58(raw)
}

// PoolsList returns the decoded state of every pool owned by the program
func (h *Handlers) PoolsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	entries, err := h.Pools.FetchAllPools(ctx)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "failed to scan pools", map[string]any{"err": err.Error()})
	}

	items := make([]PoolResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, PoolResponse{
			Address:     e.Address.String(),
			MintA:       e.State.MintA.String(),
			MintB:       e.State.MintB.String(),
			ReserveA:    e.State.ReserveA,
			ReserveB:    e.State.ReserveB,
			TotalShares: e.State.TotalShares,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// PoolGet returns one pool's state by its mint pair. The snapshot cache is
// consulted first; a miss falls through to the chain.
func (h *Handlers) PoolGet(c echo.Context) error {
	mintA, err := parseMintParam(c, "mintA")
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mintA", nil)
	}
	mintB, err := parseMintParam(c, "mintB")
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mintB", nil)
	}

	d, err := h.Pools.Derive(mintA, mintB)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mint pair", map[string]any{"err": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if h.Cache != nil {
		snap, err := h.Cache.GetSnapshot(ctx, d.Pool.String())
		if err != nil {
			h.Logger.WithError(err).Warn("snapshot cache lookup failed")
		} else if snap != nil {
			return c.JSON(http.StatusOK, PoolResponse{
				Address:     snap.Address,
				MintA:       snap.MintA,
				MintB:       snap.MintB,
				ReserveA:    snap.ReserveA,
				ReserveB:    snap.ReserveB,
				TotalShares: snap.TotalShares,
				Cached:      true,
			})
		}
	}

	state, err := h.Pools.FetchPoolState(ctx, mintA, mintB)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "failed to fetch pool", map[string]any{"err": err.Error()})
	}
	if state == nil || !state.Initialized {
		return h.err(c, http.StatusNotFound, "pool not found", nil)
	}

	return c.JSON(http.StatusOK, PoolResponse{
		Address:     d.Pool.String(),
		MintA:       state.MintA.String(),
		MintB:       state.MintB.String(),
		ReserveA:    state.ReserveA,
		ReserveB:    state.ReserveB,
		TotalShares: state.TotalShares,
	})
}

// RecentEvents returns the most recent pool events with optional limit parameter
// Accepts limit query parameter (default: 100, range: 1-100)
func (h *Handlers) RecentEvents(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "event cache is not configured", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.RecentEvents(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get events", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// PoolEvents returns the recorded event history for one pool
func (h *Handlers) PoolEvents(c echo.Context) error {
	if h.History == nil {
		return h.err(c, http.StatusBadRequest, "event history is not configured", nil)
	}

	mintA, err := parseMintParam(c, "mintA")
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mintA", nil)
	}
	mintB, err := parseMintParam(c, "mintB")
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mintB", nil)
	}

	d, err := h.Pools.Derive(mintA, mintB)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid mint pair", map[string]any{"err": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.History.EventsForPool(ctx, d.Pool.String(), 100)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to query events", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

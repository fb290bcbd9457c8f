package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

func parseMintQuery(c echo.Context, name string) (solana.PublicKey, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return solana.PublicKey{}, false
	}
	pk, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return pk, true
}

func parseAmountQuery(c echo.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// quotePool fetches live reserves for the pair behind a quote request. On
// failure the error response has already been written and ok is false.
func (h *Handlers) quotePool(c echo.Context, mintA, mintB solana.PublicKey) (*pool.Derived, *pool.PoolState, bool) {
	d, err := h.Pools.Derive(mintA, mintB)
	if err != nil {
		_ = h.err(c, http.StatusBadRequest, "invalid mint pair", map[string]any{"err": err.Error()})
		return nil, nil, false
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	state, err := h.Pools.FetchPoolState(ctx, mintA, mintB)
	if err != nil {
		_ = h.err(c, http.StatusBadGateway, "failed to fetch pool", map[string]any{"err": err.Error()})
		return nil, nil, false
	}
	if state == nil || !state.Initialized {
		_ = h.err(c, http.StatusNotFound, "pool not found", nil)
		return nil, nil, false
	}
	return d, state, true
}

// QuoteSwap prices a swap against the pool's live reserves without
// submitting anything.
func (h *Handlers) QuoteSwap(c echo.Context) error {
	inputMint, ok := parseMintQuery(c, "inputMint")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "base58 mint required"})
	}
	outputMint, ok := parseMintQuery(c, "outputMint")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "base58 mint required"})
	}
	amountIn, ok := parseAmountQuery(c, "amount")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
	}

	d, state, ok := h.quotePool(c, inputMint, outputMint)
	if !ok {
		return nil
	}

	aToB := d.MintA.Equals(inputMint)
	reserveIn, reserveOut := state.Reserves(aToB)
	amountOut, qerr := pool.SwapOutput(amountIn, reserveIn, reserveOut)
	if qerr != nil {
		return h.err(c, http.StatusUnprocessableEntity, "swap not quotable", map[string]any{"err": qerr.Error()})
	}

	return c.JSON(http.StatusOK, SwapQuoteResponse{
		Pool:      d.Pool.String(),
		InputMint: inputMint.String(),
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})
}

// QuoteAdd prices an add-liquidity deposit against live reserves.
func (h *Handlers) QuoteAdd(c echo.Context) error {
	mintA, ok := parseMintQuery(c, "mintA")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid mintA", map[string]any{"mintA": "base58 mint required"})
	}
	mintB, ok := parseMintQuery(c, "mintB")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid mintB", map[string]any{"mintB": "base58 mint required"})
	}
	amountA, ok := parseAmountQuery(c, "amountA")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid amountA", map[string]any{"amountA": "must be uint64"})
	}
	amountB, ok := parseAmountQuery(c, "amountB")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid amountB", map[string]any{"amountB": "must be uint64"})
	}

	d, state, ok := h.quotePool(c, mintA, mintB)
	if !ok {
		return nil
	}

	// Map caller amounts onto canonical mint order.
	if !d.MintA.Equals(mintA) {
		amountA, amountB = amountB, amountA
	}

	shares, qerr := pool.AddLiquidityShares(amountA, amountB, state.ReserveA, state.ReserveB, state.TotalShares)
	if qerr != nil {
		return h.err(c, http.StatusUnprocessableEntity, "deposit not quotable", map[string]any{"err": qerr.Error()})
	}

	return c.JSON(http.StatusOK, AddQuoteResponse{
		Pool:    d.Pool.String(),
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	})
}

// QuoteRemove prices a share burn against live reserves.
func (h *Handlers) QuoteRemove(c echo.Context) error {
	mintA, ok := parseMintQuery(c, "mintA")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid mintA", map[string]any{"mintA": "base58 mint required"})
	}
	mintB, ok := parseMintQuery(c, "mintB")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid mintB", map[string]any{"mintB": "base58 mint required"})
	}
	shares, ok := parseAmountQuery(c, "shares")
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid shares", map[string]any{"shares": "must be uint64"})
	}

	d, state, ok := h.quotePool(c, mintA, mintB)
	if !ok {
		return nil
	}

	amountA, amountB, qerr := pool.RemoveLiquidityAmounts(shares, state.ReserveA, state.ReserveB, state.TotalShares)
	if qerr != nil {
		return h.err(c, http.StatusUnprocessableEntity, "withdrawal not quotable", map[string]any{"err": qerr.Error()})
	}

	return c.JSON(http.StatusOK, RemoveQuoteResponse{
		Pool:    d.Pool.String(),
		Shares:  shares,
		AmountA: amountA,
		AmountB: amountB,
	})
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/client"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

type fakePoolReader struct {
	derive *pool.DeriveCache
	state  *pool.PoolState
}

func (f *fakePoolReader) FetchPoolState(ctx context.Context, mintA, mintB solana.PublicKey) (*pool.PoolState, error) {
	return f.state, nil
}

func (f *fakePoolReader) FetchAllPools(ctx context.Context) ([]client.PoolEntry, error) {
	if f.state == nil {
		return nil, nil
	}
	d, err := f.derive.Derive(f.state.MintA, f.state.MintB)
	if err != nil {
		return nil, err
	}
	return []client.PoolEntry{{Address: d.Pool, State: f.state}}, nil
}

func (f *fakePoolReader) Derive(mintA, mintB solana.PublicKey) (*pool.Derived, error) {
	return f.derive.Derive(mintA, mintB)
}

func testMint(fill byte) solana.PublicKey {
	var b [32]byte
	for i := range b {
		b[i] = fill
	}
	return solana.PublicKeyFromBytes(b[:])
}

func newTestHandlers(state *pool.PoolState) *Handlers {
	programID := testMint(0xAA)
	return &Handlers{
		Pools:  &fakePoolReader{derive: pool.NewDeriveCache(programID), state: state},
		Logger: logrus.New(),
	}
}

func doRequest(h *Handlers, method, target string) *httptest.ResponseRecorder {
	e := echo.New()
	RegisterRoutes(e, h, ServerConfig{})

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestHandlers(nil), http.MethodGet, "/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestPoolGetNotFound(t *testing.T) {
	mintA := testMint(1)
	mintB := testMint(2)

	rec := doRequest(newTestHandlers(nil), http.MethodGet, "/v1/pools/"+mintA.String()+"/"+mintB.String())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPoolGetBadMint(t *testing.T) {
	rec := doRequest(newTestHandlers(nil), http.MethodGet, "/v1/pools/not-base58/alsobad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteSwap(t *testing.T) {
	mintX := testMint(1)
	mintY := testMint(2)
	mintA, mintB := pool.SortMints(mintX, mintY)

	state := &pool.PoolState{
		Initialized: true,
		MintA:       mintA,
		MintB:       mintB,
		ReserveA:    1000,
		ReserveB:    1000,
		TotalShares: 1000,
	}

	rec := doRequest(newTestHandlers(state), http.MethodGet,
		"/v1/quote/swap?inputMint="+mintA.String()+"&outputMint="+mintB.String()+"&amount=50")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SwapQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(50), resp.AmountIn)
	assert.Equal(t, uint64(47), resp.AmountOut)
}

func TestQuoteSwapRejectsDrainingAmount(t *testing.T) {
	mintX := testMint(1)
	mintY := testMint(2)
	mintA, mintB := pool.SortMints(mintX, mintY)

	state := &pool.PoolState{
		Initialized: true,
		MintA:       mintA,
		MintB:       mintB,
		ReserveA:    10,
		ReserveB:    1,
		TotalShares: 3,
	}

	rec := doRequest(newTestHandlers(state), http.MethodGet,
		"/v1/quote/swap?inputMint="+mintA.String()+"&outputMint="+mintB.String()+"&amount=1000000")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteAddOrientsAmounts(t *testing.T) {
	mintX := testMint(1)
	mintY := testMint(2)
	mintA, mintB := pool.SortMints(mintX, mintY)

	state := &pool.PoolState{
		Initialized: true,
		MintA:       mintA,
		MintB:       mintB,
		ReserveA:    1000,
		ReserveB:    2000,
		TotalShares: 1000,
	}
	h := newTestHandlers(state)

	// Same deposit quoted with the pair in both argument orders.
	forward := doRequest(h, http.MethodGet,
		"/v1/quote/add?mintA="+mintA.String()+"&mintB="+mintB.String()+"&amountA=100&amountB=200")
	require.Equal(t, http.StatusOK, forward.Code, forward.Body.String())

	reversed := doRequest(h, http.MethodGet,
		"/v1/quote/add?mintA="+mintB.String()+"&mintB="+mintA.String()+"&amountA=200&amountB=100")
	require.Equal(t, http.StatusOK, reversed.Code, reversed.Body.String())

	var a, b AddQuoteResponse
	require.NoError(t, json.Unmarshal(forward.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(reversed.Body.Bytes(), &b))
	assert.Equal(t, a, b)
	assert.Equal(t, uint64(100), a.Shares)
}

func TestRecentEventsWithoutCache(t *testing.T) {
	rec := doRequest(newTestHandlers(nil), http.MethodGet, "/v1/events/recent")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

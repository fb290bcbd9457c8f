package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

func TestPoolLifecycleScenario(t *testing.T) {
	p := NewPool()

	// First provider seeds (1000, 1000) and gets sqrt(1000*1000) shares.
	shares, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), shares)
	assert.Equal(t, uint64(1000), p.ProviderShares("alice"))

	// A matched (100, 100) deposit mints 100 shares and moves reserves to
	// (1100, 1100).
	shares, err = p.AddLiquidity("bob", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), shares)

	st := p.State()
	assert.Equal(t, uint64(1100), st.ReserveA)
	assert.Equal(t, uint64(1100), st.ReserveB)
	assert.Equal(t, uint64(1100), st.TotalShares)

	// Swap 50 A in against the post-deposit reserves.
	out, err := p.Swap(true, 50)
	require.NoError(t, err)
	expected, err := pool.SwapOutput(50, 1100, 1100)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	st = p.State()
	assert.Equal(t, uint64(1150), st.ReserveA)
	assert.Equal(t, uint64(1100)-expected, st.ReserveB)
}

func TestSwapScenarioMatchesEngine(t *testing.T) {
	p := NewPool()
	_, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)

	out, err := p.Swap(true, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(47), out)

	st := p.State()
	assert.Equal(t, uint64(1050), st.ReserveA)
	assert.Equal(t, uint64(953), st.ReserveB)
}

func TestRemoveHalfOfSoleProvider(t *testing.T) {
	p := NewPool()
	_, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)
	_, err = p.AddLiquidity("alice", 100, 100)
	require.NoError(t, err)

	// Alice holds all 1100 shares over reserves (1100, 1100); burning half
	// returns (550, 550) and halves her balance.
	outA, outB, err := p.RemoveLiquidity("alice", 550)
	require.NoError(t, err)
	assert.Equal(t, uint64(550), outA)
	assert.Equal(t, uint64(550), outB)
	assert.Equal(t, uint64(550), p.ProviderShares("alice"))

	st := p.State()
	assert.Equal(t, uint64(550), st.ReserveA)
	assert.Equal(t, uint64(550), st.ReserveB)
	assert.Equal(t, uint64(550), st.TotalShares)
}

func TestDoubleInitializeRejected(t *testing.T) {
	p := NewPool()
	_, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)

	_, err = p.Initialize("bob", 500, 500)
	assert.ErrorIs(t, err, pool.ErrPoolAlreadyExists)

	// First pool's reserves are untouched.
	st := p.State()
	assert.Equal(t, uint64(1000), st.ReserveA)
	assert.Equal(t, uint64(1000), st.ReserveB)
}

func TestOperationsRequireInitialize(t *testing.T) {
	p := NewPool()

	_, err := p.AddLiquidity("alice", 100, 100)
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)

	_, _, err = p.RemoveLiquidity("alice", 1)
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)

	_, err = p.Swap(true, 50)
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)
}

func TestRemoveMoreThanProviderHolds(t *testing.T) {
	p := NewPool()
	_, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)
	_, err = p.AddLiquidity("bob", 100, 100)
	require.NoError(t, err)

	// Bob holds 100 of the 1100 outstanding shares; he cannot burn Alice's.
	_, _, err = p.RemoveLiquidity("bob", 101)
	assert.ErrorIs(t, err, pool.ErrInsufficientShares)
}

func TestSwapsDoNotTouchShareBalances(t *testing.T) {
	p := NewPool()
	_, err := p.Initialize("alice", 1000, 1000)
	require.NoError(t, err)

	before := p.ProviderShares("alice")
	_, err = p.Swap(true, 50)
	require.NoError(t, err)
	_, err = p.Swap(false, 20)
	require.NoError(t, err)

	assert.Equal(t, before, p.ProviderShares("alice"))
	assert.Equal(t, before, p.State().TotalShares)
}

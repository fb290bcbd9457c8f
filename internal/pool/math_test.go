package pool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialShares(t *testing.T) {
	cases := []struct {
		name     string
		amountA  uint64
		amountB  uint64
		expected uint64
	}{
		{"equal deposits", 100, 100, 100},
		{"square product", 1000, 1000, 1000},
		{"uneven deposits", 100, 400, 200},
		{"non-square product floors", 10, 10, 10},
		{"floor of irrational sqrt", 2, 3, 2}, // sqrt(6) = 2.449...
		{"single units", 1, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shares, err := InitialShares(tc.amountA, tc.amountB)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, shares)
		})
	}
}

func TestInitialShares_LargeAmountsNoOverflow(t *testing.T) {
	// The product of two max-u64 amounts overflows u64 but not the big.Int
	// intermediate; the sqrt fits back into u64.
	shares, err := InitialShares(math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), shares)
}

func TestInitialShares_ZeroAmounts(t *testing.T) {
	_, err := InitialShares(0, 100)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = InitialShares(100, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestInitialShares_Deterministic(t *testing.T) {
	first, err := InitialShares(123456789, 987654321)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := InitialShares(123456789, 987654321)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAddLiquidityShares_EmptyPoolDelegates(t *testing.T) {
	shares, err := AddLiquidityShares(100, 100, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), shares)
}

func TestAddLiquidityShares_ProportionalDeposit(t *testing.T) {
	// Reserves (1000, 1000) with 1000 outstanding shares; a matched (100, 100)
	// deposit mints exactly 10% more shares.
	shares, err := AddLiquidityShares(100, 100, 1000, 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), shares)
}

func TestAddLiquidityShares_MismatchedRatioTakesMin(t *testing.T) {
	// The excess token B in a (100, 500) deposit earns nothing extra: shares
	// are credited for the smaller proportional side.
	shares, err := AddLiquidityShares(100, 500, 1000, 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), shares)

	// Symmetric in the other direction.
	shares, err = AddLiquidityShares(500, 100, 1000, 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), shares)
}

func TestAddLiquidityShares_Errors(t *testing.T) {
	_, err := AddLiquidityShares(0, 100, 1000, 1000, 1000)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = AddLiquidityShares(100, 0, 1000, 1000, 1000)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// A dust deposit that floors to zero shares on both sides is rejected.
	_, err = AddLiquidityShares(1, 1, 1000000, 1000000, 10)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRemoveLiquidityAmounts(t *testing.T) {
	// Sole provider burns half their shares from reserves (1100, 1100).
	outA, outB, err := RemoveLiquidityAmounts(550, 1100, 1100, 1100)
	require.NoError(t, err)
	assert.Equal(t, uint64(550), outA)
	assert.Equal(t, uint64(550), outB)
}

func TestRemoveLiquidityAmounts_FloorsBothSides(t *testing.T) {
	outA, outB, err := RemoveLiquidityAmounts(1, 1000, 999, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(333), outA)
	assert.Equal(t, uint64(333), outB)
}

func TestRemoveLiquidityAmounts_Errors(t *testing.T) {
	_, _, err := RemoveLiquidityAmounts(0, 1000, 1000, 1000)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = RemoveLiquidityAmounts(1001, 1000, 1000, 1000)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	_, _, err = RemoveLiquidityAmounts(1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestAddThenRemoveNeverProfits(t *testing.T) {
	// Minting shares for a deposit and immediately burning them must return no
	// more than went in: floor rounding on both paths leaks value to the pool,
	// never out of it.
	cases := []struct {
		amountA, amountB   uint64
		reserveA, reserveB uint64
		totalShares        uint64
	}{
		{100, 100, 1000, 1000, 1000},
		{333, 777, 10000, 5000, 7071},
		{1, 999999, 123456, 654321, 283940},
		{42, 42, 99, 101, 99},
	}

	for _, tc := range cases {
		shares, err := AddLiquidityShares(tc.amountA, tc.amountB, tc.reserveA, tc.reserveB, tc.totalShares)
		if err != nil {
			continue // dust deposits are rejected, nothing to check
		}

		newReserveA := tc.reserveA + tc.amountA
		newReserveB := tc.reserveB + tc.amountB
		newShares := tc.totalShares + shares

		outA, outB, err := RemoveLiquidityAmounts(shares, newReserveA, newReserveB, newShares)
		require.NoError(t, err)
		assert.LessOrEqual(t, outA, tc.amountA, "amountA=%d", tc.amountA)
		assert.LessOrEqual(t, outB, tc.amountB, "amountB=%d", tc.amountB)
	}
}

func TestSwapOutput_Scenario(t *testing.T) {
	// Reserves (1000, 1000), swap 50 in: the pool keeps ceil(1000000/1050) =
	// 953, paying out 47 and holding the product above k.
	out, err := SwapOutput(50, 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(47), out)

	newReserveIn := uint64(1050)
	newReserveOut := uint64(1000) - out
	assert.Equal(t, uint64(953), newReserveOut)
	assert.GreaterOrEqual(t, newReserveIn*newReserveOut, uint64(1000*1000))
}

func TestSwapOutput_ProductNeverDecreases(t *testing.T) {
	cases := []struct {
		amountIn, reserveIn, reserveOut uint64
	}{
		{50, 1000, 1000},
		{1, 1000, 1000},
		{999999, 1000, 1000},
		{7, 123, 456789},
		{1000000, 5000000, 3},
	}

	for _, tc := range cases {
		out, err := SwapOutput(tc.amountIn, tc.reserveIn, tc.reserveOut)
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientLiquidity)
			continue
		}

		assert.Less(t, out, tc.reserveOut, "output must stay below the reserve")

		pre := tc.reserveIn * tc.reserveOut
		post := (tc.reserveIn + tc.amountIn) * (tc.reserveOut - out)
		assert.GreaterOrEqual(t, post, pre, "in=%d rIn=%d rOut=%d", tc.amountIn, tc.reserveIn, tc.reserveOut)
	}
}

func TestSwapOutput_Errors(t *testing.T) {
	_, err := SwapOutput(0, 1000, 1000)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = SwapOutput(100, 0, 1000)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = SwapOutput(100, 1000, 0)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	// Tiny input against deep reserves rounds to a zero payout.
	_, err = SwapOutput(1, 10000000, 10)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

package pool

import (
	"fmt"
	"math/big"
)

// InitialShares computes the shares minted to the first liquidity provider:
// floor(sqrt(amountA * amountB)). The product is taken in big.Int to prevent
// u64 overflow.
func InitialShares(amountA, amountB uint64) (uint64, error) {
	if amountA == 0 || amountB == 0 {
		return 0, fmt.Errorf("%w: initial deposit amounts must be > 0", ErrInvalidAmount)
	}

	product := new(big.Int).Mul(
		new(big.Int).SetUint64(amountA),
		new(big.Int).SetUint64(amountB),
	)
	shares := new(big.Int).Sqrt(product)

	if !shares.IsUint64() {
		return 0, fmt.Errorf("%w: initial share amount overflows u64", ErrInvalidAmount)
	}
	return shares.Uint64(), nil
}

// AddLiquidityShares computes the shares minted for a deposit against existing
// reserves. With no outstanding shares it falls back to InitialShares.
// Otherwise it returns min(amountA*totalShares/reserveA,
// amountB*totalShares/reserveB), floor-divided on both sides. A deposit whose
// ratio does not match the reserves is credited for the smaller side; the
// excess of the other token is consumed, not refunded.
func AddLiquidityShares(amountA, amountB, reserveA, reserveB, totalShares uint64) (uint64, error) {
	if totalShares == 0 {
		return InitialShares(amountA, amountB)
	}

	if amountA == 0 || amountB == 0 {
		return 0, fmt.Errorf("%w: deposit amounts must be > 0", ErrInvalidAmount)
	}
	if reserveA == 0 || reserveB == 0 {
		return 0, fmt.Errorf("%w: pool reserves are empty", ErrInsufficientLiquidity)
	}

	supply := new(big.Int).SetUint64(totalShares)

	sharesFromA := new(big.Int).Mul(new(big.Int).SetUint64(amountA), supply)
	sharesFromA.Div(sharesFromA, new(big.Int).SetUint64(reserveA))

	sharesFromB := new(big.Int).Mul(new(big.Int).SetUint64(amountB), supply)
	sharesFromB.Div(sharesFromB, new(big.Int).SetUint64(reserveB))

	shares := sharesFromA
	if sharesFromB.Cmp(sharesFromA) < 0 {
		shares = sharesFromB
	}

	if !shares.IsUint64() {
		return 0, fmt.Errorf("%w: minted share amount overflows u64", ErrInvalidAmount)
	}
	if shares.Sign() == 0 {
		return 0, fmt.Errorf("%w: deposit too small to mint any shares", ErrInvalidAmount)
	}
	return shares.Uint64(), nil
}

// RemoveLiquidityAmounts computes the token amounts returned for burning
// shareAmount shares: (reserveA*shareAmount/totalShares,
// reserveB*shareAmount/totalShares), both floor-divided so the pool never pays
// out more than the proportional claim.
func RemoveLiquidityAmounts(shareAmount, reserveA, reserveB, totalShares uint64) (amountA, amountB uint64, err error) {
	if shareAmount == 0 {
		return 0, 0, fmt.Errorf("%w: share amount must be > 0", ErrInvalidAmount)
	}
	if totalShares == 0 {
		return 0, 0, fmt.Errorf("%w: pool has no outstanding shares", ErrInsufficientLiquidity)
	}
	if shareAmount > totalShares {
		return 0, 0, fmt.Errorf("%w: burning %d of %d outstanding shares", ErrInsufficientShares, shareAmount, totalShares)
	}

	burn := new(big.Int).SetUint64(shareAmount)
	supply := new(big.Int).SetUint64(totalShares)

	outA := new(big.Int).Mul(new(big.Int).SetUint64(reserveA), burn)
	outA.Div(outA, supply)

	outB := new(big.Int).Mul(new(big.Int).SetUint64(reserveB), burn)
	outB.Div(outB, supply)

	// Products of two u64 values divided by a u64 >= shareAmount always fit.
	return outA.Uint64(), outB.Uint64(), nil
}

// SwapOutput computes the constant-product swap output:
// reserveOut - k/(reserveIn + amountIn) with k = reserveIn*reserveOut.
// Rounding always favors the pool, so the post-swap product is never below k.
func SwapOutput(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, fmt.Errorf("%w: swap input must be > 0", ErrInvalidAmount)
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, fmt.Errorf("%w: pool reserves are empty", ErrInsufficientLiquidity)
	}

	k := new(big.Int).Mul(
		new(big.Int).SetUint64(reserveIn),
		new(big.Int).SetUint64(reserveOut),
	)
	newReserveIn := new(big.Int).Add(
		new(big.Int).SetUint64(reserveIn),
		new(big.Int).SetUint64(amountIn),
	)

	// Ceiling-divide k by the new input reserve: the kept reserve rounds up so
	// the payout rounds down and the product never decreases.
	quo, rem := new(big.Int).QuoRem(k, newReserveIn, new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}

	out := new(big.Int).Sub(new(big.Int).SetUint64(reserveOut), quo)

	if out.Sign() <= 0 {
		return 0, fmt.Errorf("%w: swap output rounds to zero", ErrInsufficientLiquidity)
	}
	amountOut := out.Uint64()
	if amountOut >= reserveOut {
		return 0, fmt.Errorf("%w: swap would drain the output reserve", ErrInsufficientLiquidity)
	}
	return amountOut, nil
}

package pool

import "errors"

// Sentinel errors for pool operations. Callers classify failures with
// errors.Is; logical rejections are never retried automatically.
var (
	// ErrInvalidAmount indicates a zero, negative, or overflowing input amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientLiquidity indicates the pool cannot satisfy the request
	// (empty reserves, or a swap output of zero or the whole reserve).
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientShares indicates a withdrawal of more shares than exist.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrPoolAlreadyExists indicates a pool state account already exists at
	// the derived address for the asset pair.
	ErrPoolAlreadyExists = errors.New("pool already exists")

	// ErrPoolNotFound indicates no pool state account exists at the derived
	// address.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrMalformedState indicates account data that does not match the fixed
	// pool state layout.
	ErrMalformedState = errors.New("malformed pool state")

	// ErrSubmissionTimeout indicates a submitted transaction was not confirmed
	// within the deadline. The caller must re-fetch state before retrying.
	ErrSubmissionTimeout = errors.New("submission timeout")
)

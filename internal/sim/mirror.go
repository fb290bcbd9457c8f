// Package sim provides an in-memory, network-free mirror of the pool engine.
// It applies the exact same arithmetic as internal/pool and is used for UI
// previews and for demonstrating engine behavior without a live ledger.
package sim

import (
	"fmt"
	"sync"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

// Pool is a standalone simulated liquidity pool. All mutations go through the
// same formulas the remote program enforces; any divergence between the two is
// a defect.
type Pool struct {
	mu sync.Mutex

	initialized bool
	reserveA    uint64
	reserveB    uint64
	totalShares uint64
	shares      map[string]uint64 // provider -> share balance
}

// NewPool creates an empty, uninitialized simulated pool.
func NewPool() *Pool {
	return &Pool{shares: make(map[string]uint64)}
}

// Snapshot is a point-in-time copy of the simulated pool state.
type Snapshot struct {
	Initialized bool
	ReserveA    uint64
	ReserveB    uint64
	TotalShares uint64
}

// State returns a copy of the current pool state.
func (p *Pool) State() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Initialized: p.initialized,
		ReserveA:    p.reserveA,
		ReserveB:    p.reserveB,
		TotalShares: p.totalShares,
	}
}

// ProviderShares returns one provider's share balance.
func (p *Pool) ProviderShares(provider string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shares[provider]
}

// Initialize seeds the pool with its first reserves and credits the first
// provider with floor(sqrt(amountA*amountB)) shares.
func (p *Pool) Initialize(provider string, amountA, amountB uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return 0, fmt.Errorf("%w: simulated pool is already initialized", pool.ErrPoolAlreadyExists)
	}

	shares, err := pool.InitialShares(amountA, amountB)
	if err != nil {
		return 0, err
	}

	p.initialized = true
	p.reserveA = amountA
	p.reserveB = amountB
	p.totalShares = shares
	p.shares[provider] = shares
	return shares, nil
}

// AddLiquidity deposits both tokens and credits the provider with
// proportional shares.
func (p *Pool) AddLiquidity(provider string, amountA, amountB uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return 0, fmt.Errorf("%w: simulated pool is not initialized", pool.ErrPoolNotFound)
	}

	shares, err := pool.AddLiquidityShares(amountA, amountB, p.reserveA, p.reserveB, p.totalShares)
	if err != nil {
		return 0, err
	}

	p.reserveA += amountA
	p.reserveB += amountB
	p.totalShares += shares
	p.shares[provider] += shares
	return shares, nil
}

// RemoveLiquidity burns the provider's shares and returns the proportional
// token amounts.
func (p *Pool) RemoveLiquidity(provider string, shareAmount uint64) (amountA, amountB uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return 0, 0, fmt.Errorf("%w: simulated pool is not initialized", pool.ErrPoolNotFound)
	}
	if shareAmount > p.shares[provider] {
		return 0, 0, fmt.Errorf("%w: provider holds %d shares, burning %d", pool.ErrInsufficientShares, p.shares[provider], shareAmount)
	}

	outA, outB, err := pool.RemoveLiquidityAmounts(shareAmount, p.reserveA, p.reserveB, p.totalShares)
	if err != nil {
		return 0, 0, err
	}

	p.reserveA -= outA
	p.reserveB -= outB
	p.totalShares -= shareAmount
	p.shares[provider] -= shareAmount
	if p.shares[provider] == 0 {
		delete(p.shares, provider)
	}
	return outA, outB, nil
}

// Swap trades amountIn of one token for the other. Swaps move reserves only;
// share balances are untouched.
func (p *Pool) Swap(aToB bool, amountIn uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return 0, fmt.Errorf("%w: simulated pool is not initialized", pool.ErrPoolNotFound)
	}

	reserveIn, reserveOut := p.reserveA, p.reserveB
	if !aToB {
		reserveIn, reserveOut = p.reserveB, p.reserveA
	}

	amountOut, err := pool.SwapOutput(amountIn, reserveIn, reserveOut)
	if err != nil {
		return 0, err
	}

	if aToB {
		p.reserveA += amountIn
		p.reserveB -= amountOut
	} else {
		p.reserveB += amountIn
		p.reserveA -= amountOut
	}
	return amountOut, nil
}

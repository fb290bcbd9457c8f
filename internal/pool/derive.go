package pool

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// PDA seed tags. The pool address depends only on the sorted mint pair, so any
// party can reproduce it from the two mints alone.
const (
	poolSeed      = "liquidity_pool"
	vaultSeed     = "pool_vault"
	shareMintSeed = "share_mint"
)

// SortMints returns the pair in canonical byte order. Pool identity is per
// unordered pair, so derivation must not depend on argument order.
func SortMints(a, b solana.PublicKey) (solana.PublicKey, solana.PublicKey) {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		return b, a
	}
	return a, b
}

// PoolAddress derives the pool state PDA and its bump seed for a mint pair.
// FindProgramAddress searches decreasing bump values until the hash falls off
// the ed25519 curve, so no external signer can ever hold the resulting key.
func PoolAddress(programID, mintA, mintB solana.PublicKey) (solana.PublicKey, uint8, error) {
	lo, hi := SortMints(mintA, mintB)
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(poolSeed), lo.Bytes(), hi.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive pool address: %w", err)
	}
	return addr, bump, nil
}

// VaultAddress derives the pool's custody account for one mint, seeded by the
// pool address so each pool owns a distinct vault per token.
func VaultAddress(programID, poolAddr, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(vaultSeed), poolAddr.Bytes(), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive vault address: %w", err)
	}
	return addr, bump, nil
}

// ShareMintAddress derives the pool's liquidity share mint.
func ShareMintAddress(programID, poolAddr solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(shareMintSeed), poolAddr.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive share mint address: %w", err)
	}
	return addr, bump, nil
}

// Derived holds every address belonging to one pool. All fields are pure
// functions of (programID, mintA, mintB).
type Derived struct {
	MintA     solana.PublicKey // canonical (sorted) order
	MintB     solana.PublicKey
	Pool      solana.PublicKey
	Bump      uint8
	VaultA    solana.PublicKey
	VaultB    solana.PublicKey
	ShareMint solana.PublicKey
}

// Accounts returns the derived addresses in instruction-building form.
func (d *Derived) Accounts() PoolAccounts {
	return PoolAccounts{
		State:     d.Pool,
		VaultA:    d.VaultA,
		VaultB:    d.VaultB,
		ShareMint: d.ShareMint,
	}
}

// DeriveCache memoizes pool derivations per unordered mint pair for one client
// session. Derivation is referentially transparent, so cached entries never
// expire.
type DeriveCache struct {
	programID solana.PublicKey

	mu      sync.RWMutex
	entries map[[64]byte]*Derived
}

// NewDeriveCache creates a cache bound to one program namespace.
func NewDeriveCache(programID solana.PublicKey) *DeriveCache {
	return &DeriveCache{
		programID: programID,
		entries:   make(map[[64]byte]*Derived),
	}
}

// ProgramID returns the program namespace this cache derives against.
func (c *DeriveCache) ProgramID() solana.PublicKey { return c.programID }

// Derive returns the full derived account set for a mint pair, computing and
// caching it on first use.
func (c *DeriveCache) Derive(mintA, mintB solana.PublicKey) (*Derived, error) {
	lo, hi := SortMints(mintA, mintB)

	var key [64]byte
	copy(key[:32], lo.Bytes())
	copy(key[32:], hi.Bytes())

	c.mu.RLock()
	d, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return d, nil
	}

	poolAddr, bump, err := PoolAddress(c.programID, lo, hi)
	if err != nil {
		return nil, err
	}
	vaultA, _, err := VaultAddress(c.programID, poolAddr, lo)
	if err != nil {
		return nil, err
	}
	vaultB, _, err := VaultAddress(c.programID, poolAddr, hi)
	if err != nil {
		return nil, err
	}
	shareMint, _, err := ShareMintAddress(c.programID, poolAddr)
	if err != nil {
		return nil, err
	}

	d = &Derived{
		MintA:     lo,
		MintB:     hi,
		Pool:      poolAddr,
		Bump:      bump,
		VaultA:    vaultA,
		VaultB:    vaultB,
		ShareMint: shareMint,
	}

	c.mu.Lock()
	c.entries[key] = d
	c.mu.Unlock()
	return d, nil
}

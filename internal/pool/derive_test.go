package pool

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgramID = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")

func TestSortMints(t *testing.T) {
	a := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	b := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	lo1, hi1 := SortMints(a, b)
	lo2, hi2 := SortMints(b, a)
	assert.Equal(t, lo1, lo2)
	assert.Equal(t, hi1, hi2)
	assert.LessOrEqual(t, bytes.Compare(lo1.Bytes(), hi1.Bytes()), 0)
}

func TestPoolAddress_OrderIndependent(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	addr1, bump1, err := PoolAddress(testProgramID, a, b)
	require.NoError(t, err)
	addr2, bump2, err := PoolAddress(testProgramID, b, a)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
}

func TestPoolAddress_Idempotent(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	first, firstBump, err := PoolAddress(testProgramID, a, b)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, bump, err := PoolAddress(testProgramID, a, b)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, firstBump, bump)
	}
}

func TestPoolAddress_DistinctPairsDistinctPools(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	c := solana.NewWallet().PublicKey()

	ab, _, err := PoolAddress(testProgramID, a, b)
	require.NoError(t, err)
	ac, _, err := PoolAddress(testProgramID, a, c)
	require.NoError(t, err)

	assert.NotEqual(t, ab, ac)
}

func TestVaultAddress_PerMint(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	poolAddr, _, err := PoolAddress(testProgramID, a, b)
	require.NoError(t, err)

	vaultA, _, err := VaultAddress(testProgramID, poolAddr, a)
	require.NoError(t, err)
	vaultB, _, err := VaultAddress(testProgramID, poolAddr, b)
	require.NoError(t, err)

	assert.NotEqual(t, vaultA, vaultB)
	assert.NotEqual(t, poolAddr, vaultA)
}

func TestDeriveCache(t *testing.T) {
	cache := NewDeriveCache(testProgramID)

	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	d1, err := cache.Derive(a, b)
	require.NoError(t, err)

	// Reversed argument order hits the same cache entry.
	d2, err := cache.Derive(b, a)
	require.NoError(t, err)
	assert.Same(t, d1, d2)

	// Derived fields are internally consistent.
	lo, hi := SortMints(a, b)
	assert.Equal(t, lo, d1.MintA)
	assert.Equal(t, hi, d1.MintB)

	wantPool, wantBump, err := PoolAddress(testProgramID, a, b)
	require.NoError(t, err)
	assert.Equal(t, wantPool, d1.Pool)
	assert.Equal(t, wantBump, d1.Bump)

	accounts := d1.Accounts()
	assert.Equal(t, d1.Pool, accounts.State)
	assert.Equal(t, d1.VaultA, accounts.VaultA)
	assert.Equal(t, d1.ShareMint, accounts.ShareMint)
}

func TestDeriveCache_Concurrent(t *testing.T) {
	cache := NewDeriveCache(testProgramID)

	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	done := make(chan *Derived, 16)
	for i := 0; i < 16; i++ {
		go func() {
			d, err := cache.Derive(a, b)
			assert.NoError(t, err)
			done <- d
		}()
	}

	first := <-done
	for i := 1; i < 16; i++ {
		assert.Equal(t, first, <-done)
	}
}

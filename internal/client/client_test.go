package client

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/pool"
)

func testKey(t *testing.T, fill byte) solana.PublicKey {
	t.Helper()
	var b [32]byte
	for i := range b {
		b[i] = fill
	}
	pk := solana.PublicKeyFromBytes(b[:])
	return pk
}

func mustData(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

func TestNewCreateAccountIxLayout(t *testing.T) {
	payer := testKey(t, 1)
	newAccount := testKey(t, 2)
	owner := testKey(t, 3)

	ix := NewCreateAccountIx(payer, newAccount, owner, 2_039_280, tokenAccountLen)

	assert.Equal(t, solana.SystemProgramID, ix.ProgramID())

	data := mustData(t, ix)
	require.Len(t, data, 52)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint64(2_039_280), binary.LittleEndian.Uint64(data[4:12]))
	assert.Equal(t, uint64(tokenAccountLen), binary.LittleEndian.Uint64(data[12:20]))
	assert.Equal(t, owner.Bytes(), data[20:52])

	accounts := ix.Accounts()
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.False(t, accounts[1].IsSigner)
	assert.True(t, accounts[1].IsWritable)
}

func TestNewInitializeTokenAccountIxLayout(t *testing.T) {
	account := testKey(t, 4)
	mint := testKey(t, 5)
	owner := testKey(t, 6)

	ix := NewInitializeTokenAccountIx(account, mint, owner)

	assert.Equal(t, solana.TokenProgramID, ix.ProgramID())
	assert.Equal(t, []byte{1}, mustData(t, ix))

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)
	assert.Equal(t, account, accounts[0].PublicKey)
	assert.Equal(t, mint, accounts[1].PublicKey)
	assert.Equal(t, owner, accounts[2].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, accounts[3].PublicKey)
}

func TestFindAssociatedTokenAddressDeterministic(t *testing.T) {
	owner := testKey(t, 7)
	mint := testKey(t, 8)

	first, _, err := FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	second, _, err := FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.IsZero())
}

func TestMapProgramError(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		want error
	}{
		{"already initialized", "Transaction failed: custom program error: 0x2", pool.ErrPoolAlreadyExists},
		{"not initialized", "Transaction failed: custom program error: 0x3", pool.ErrPoolNotFound},
		{"bad amount a", "Transaction failed: custom program error: 0x4", pool.ErrInvalidAmount},
		{"bad amount b", "Transaction failed: custom program error: 0x5", pool.ErrInvalidAmount},
		{"bad share amount", "Transaction failed: custom program error: 0x7", pool.ErrInvalidAmount},
		{"zero reserves", "Transaction failed: custom program error: 0xc", pool.ErrInvalidAmount},
		{"insufficient liquidity", "Transaction failed: custom program error: 0x6", pool.ErrInsufficientLiquidity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapProgramError(errors.New(tc.msg))
			assert.True(t, errors.Is(mapped, tc.want), "got %v", mapped)
		})
	}

	unknown := errors.New("connection refused")
	assert.Equal(t, unknown, mapProgramError(unknown))
}

func TestIsBlockhashError(t *testing.T) {
	assert.True(t, isBlockhashError(errors.New("RPC error: Blockhash not found")))
	assert.True(t, isBlockhashError(errors.New("BlockhashNotFound")))
	assert.False(t, isBlockhashError(errors.New("insufficient funds")))
}

func TestOrientAmounts(t *testing.T) {
	first := testKey(t, 9)
	second := testKey(t, 10)

	d := &pool.Derived{MintA: first, MintB: second}

	a, b := orientAmounts(d, first, 100, 200)
	assert.Equal(t, uint64(100), a)
	assert.Equal(t, uint64(200), b)

	// Caller passed the pair in the opposite order.
	a, b = orientAmounts(d, second, 100, 200)
	assert.Equal(t, uint64(200), a)
	assert.Equal(t, uint64(100), b)
}

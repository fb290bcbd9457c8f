package pool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionData(t *testing.T) {
	cases := []struct {
		name     string
		ix       Instruction
		expected []byte
	}{
		{
			"initialize",
			Initialize{AmountA: 1000, AmountB: 2000},
			[]byte{0, 0xe8, 0x03, 0, 0, 0, 0, 0, 0, 0xd0, 0x07, 0, 0, 0, 0, 0, 0},
		},
		{
			"add liquidity",
			AddLiquidity{AmountA: 1, AmountB: 1},
			[]byte{1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			"remove liquidity",
			RemoveLiquidity{ShareAmount: 550},
			[]byte{2, 0x26, 0x02, 0, 0, 0, 0, 0, 0},
		},
		{
			"swap a for b",
			SwapAforB{AmountIn: 50},
			[]byte{3, 50, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			"swap b for a",
			SwapBforA{AmountIn: 50},
			[]byte{4, 50, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.ix.Data())
		})
	}
}

func TestDecodeInstruction_Symmetry(t *testing.T) {
	variants := []Instruction{
		Initialize{AmountA: 123, AmountB: 456},
		AddLiquidity{AmountA: 789, AmountB: 1},
		RemoveLiquidity{ShareAmount: 42},
		SwapAforB{AmountIn: 999999},
		SwapBforA{AmountIn: 7},
	}

	for _, ix := range variants {
		decoded, err := DecodeInstruction(ix.Data())
		require.NoError(t, err)
		assert.Equal(t, ix, decoded)
	}
}

func TestDecodeInstruction_Malformed(t *testing.T) {
	_, err := DecodeInstruction(nil)
	assert.ErrorIs(t, err, ErrMalformedState)

	_, err = DecodeInstruction([]byte{99, 1, 0, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrMalformedState)

	// Truncated arguments.
	_, err = DecodeInstruction([]byte{TagInitialize, 1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedState)

	_, err = DecodeInstruction([]byte{TagSwapAforB, 1, 2})
	assert.ErrorIs(t, err, ErrMalformedState)

	// Trailing bytes are rejected too: payloads are fixed-size.
	long := append(SwapAforB{AmountIn: 1}.Data(), 0)
	_, err = DecodeInstruction(long)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestNewSwapIx_AccountOrderAndDirection(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	swapper := solana.NewWallet().PublicKey()
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	accounts := PoolAccounts{
		State:     solana.NewWallet().PublicKey(),
		VaultA:    solana.NewWallet().PublicKey(),
		VaultB:    solana.NewWallet().PublicKey(),
		ShareMint: solana.NewWallet().PublicKey(),
	}

	ix := NewSwapIx(programID, swapper, accounts, source, dest, true, 50)
	assert.Equal(t, programID, ix.ProgramID())
	assert.Equal(t, SwapAforB{AmountIn: 50}.Data(), mustIxData(t, ix))

	metas := ix.Accounts()
	require.Len(t, metas, 7)
	assert.Equal(t, swapper, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.Equal(t, accounts.State, metas[1].PublicKey)
	assert.Equal(t, accounts.VaultA, metas[2].PublicKey)
	assert.Equal(t, accounts.VaultB, metas[3].PublicKey)
	assert.Equal(t, source, metas[4].PublicKey)
	assert.Equal(t, dest, metas[5].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[6].PublicKey)

	// Reverse direction only changes the payload, not the vault order.
	ix = NewSwapIx(programID, swapper, accounts, source, dest, false, 50)
	assert.Equal(t, SwapBforA{AmountIn: 50}.Data(), mustIxData(t, ix))
	assert.Equal(t, accounts.VaultA, ix.Accounts()[2].PublicKey)
}

func TestNewInitializeIx_Accounts(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	initializer := solana.NewWallet().PublicKey()
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()
	accounts := PoolAccounts{
		State:     solana.NewWallet().PublicKey(),
		VaultA:    solana.NewWallet().PublicKey(),
		VaultB:    solana.NewWallet().PublicKey(),
		ShareMint: solana.NewWallet().PublicKey(),
	}

	ix := NewInitializeIx(
		programID, initializer, accounts, mintA, mintB,
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		1000, 1000,
	)

	metas := ix.Accounts()
	require.Len(t, metas, 13)
	assert.True(t, metas[0].IsSigner)
	assert.True(t, metas[1].IsWritable)
	assert.Equal(t, solana.TokenProgramID, metas[10].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, metas[11].PublicKey)
	assert.Equal(t, solana.SystemProgramID, metas[12].PublicKey)
	assert.Equal(t, Initialize{AmountA: 1000, AmountB: 1000}.Data(), mustIxData(t, ix))
}

func mustIxData(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

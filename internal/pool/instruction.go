package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Instruction discriminators. Each variant is encoded as the discriminator
// byte followed by its fixed-width little-endian arguments.
const (
	TagInitialize      byte = 0
	TagAddLiquidity    byte = 1
	TagRemoveLiquidity byte = 2
	TagSwapAforB       byte = 3
	TagSwapBforA       byte = 4
)

// Instruction is one variant of the pool program's instruction set. Each
// variant is a fixed argument struct tied to exactly one discriminator.
type Instruction interface {
	// Data returns the serialized instruction payload.
	Data() []byte
}

// Initialize sets the first reserves and mints the first share balance.
type Initialize struct {
	AmountA uint64
	AmountB uint64
}

// AddLiquidity deposits both tokens and mints proportional shares.
type AddLiquidity struct {
	AmountA uint64
	AmountB uint64
}

// RemoveLiquidity burns shares and withdraws proportional reserves.
type RemoveLiquidity struct {
	ShareAmount uint64
}

// SwapAforB trades token A into the pool for token B.
type SwapAforB struct {
	AmountIn uint64
}

// SwapBforA trades token B into the pool for token A.
type SwapBforA struct {
	AmountIn uint64
}

func (ix Initialize) Data() []byte {
	data := make([]byte, 17)
	data[0] = TagInitialize
	binary.LittleEndian.PutUint64(data[1:9], ix.AmountA)
	binary.LittleEndian.PutUint64(data[9:17], ix.AmountB)
	return data
}

func (ix AddLiquidity) Data() []byte {
	data := make([]byte, 17)
	data[0] = TagAddLiquidity
	binary.LittleEndian.PutUint64(data[1:9], ix.AmountA)
	binary.LittleEndian.PutUint64(data[9:17], ix.AmountB)
	return data
}

func (ix RemoveLiquidity) Data() []byte {
	data := make([]byte, 9)
	data[0] = TagRemoveLiquidity
	binary.LittleEndian.PutUint64(data[1:9], ix.ShareAmount)
	return data
}

func (ix SwapAforB) Data() []byte {
	data := make([]byte, 9)
	data[0] = TagSwapAforB
	binary.LittleEndian.PutUint64(data[1:9], ix.AmountIn)
	return data
}

func (ix SwapBforA) Data() []byte {
	data := make([]byte, 9)
	data[0] = TagSwapBforA
	binary.LittleEndian.PutUint64(data[1:9], ix.AmountIn)
	return data
}

// DecodeInstruction parses a serialized instruction payload back into its
// variant. Used by the watcher to classify observed transactions and by tests
// for encode/decode symmetry.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty instruction data", ErrMalformedState)
	}

	tag, args := data[0], data[1:]
	switch tag {
	case TagInitialize, TagAddLiquidity:
		if len(args) != 16 {
			return nil, fmt.Errorf("%w: tag %d expects 16 argument bytes, got %d", ErrMalformedState, tag, len(args))
		}
		a := binary.LittleEndian.Uint64(args[0:8])
		b := binary.LittleEndian.Uint64(args[8:16])
		if tag == TagInitialize {
			return Initialize{AmountA: a, AmountB: b}, nil
		}
		return AddLiquidity{AmountA: a, AmountB: b}, nil

	case TagRemoveLiquidity, TagSwapAforB, TagSwapBforA:
		if len(args) != 8 {
			return nil, fmt.Errorf("%w: tag %d expects 8 argument bytes, got %d", ErrMalformedState, tag, len(args))
		}
		v := binary.LittleEndian.Uint64(args)
		switch tag {
		case TagRemoveLiquidity:
			return RemoveLiquidity{ShareAmount: v}, nil
		case TagSwapAforB:
			return SwapAforB{AmountIn: v}, nil
		default:
			return SwapBforA{AmountIn: v}, nil
		}

	default:
		return nil, fmt.Errorf("%w: unknown instruction tag %d", ErrMalformedState, tag)
	}
}

// PoolAccounts groups the derived accounts of one pool for instruction
// building.
type PoolAccounts struct {
	State     solana.PublicKey
	VaultA    solana.PublicKey
	VaultB    solana.PublicKey
	ShareMint solana.PublicKey
}

// NewInitializeIx builds the initialize instruction.
/// Account order (pool program):
// 0. initializer (signer)
// 1. pool state (writable)
// 2. mint A
// 3. mint B
// 4. pool vault A (writable)
// 5. pool vault B (writable)
// 6. share mint (writable)
// 7. initializer token A (writable)
// 8. initializer token B (writable)
// 9. initializer share account (writable)
// 10. token program
// 11. rent sysvar
// 12. system program
func NewInitializeIx(
	programID solana.PublicKey,
	initializer solana.PublicKey,
	accounts PoolAccounts,
	mintA, mintB solana.PublicKey,
	initializerA, initializerB, initializerShares solana.PublicKey,
	amountA, amountB uint64,
) solana.Instruction {
	metas := []*solana.AccountMeta{
		{PublicKey: initializer, IsSigner: true, IsWritable: false},
		{PublicKey: accounts.State, IsSigner: false, IsWritable: true},
		{PublicKey: mintA, IsSigner: false, IsWritable: false},
		{PublicKey: mintB, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.VaultA, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.VaultB, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.ShareMint, IsSigner: false, IsWritable: true},
		{PublicKey: initializerA, IsSigner: false, IsWritable: true},
		{PublicKey: initializerB, IsSigner: false, IsWritable: true},
		{PublicKey: initializerShares, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(programID, metas, Initialize{AmountA: amountA, AmountB: amountB}.Data())
}

// NewAddLiquidityIx builds the add-liquidity instruction.
// Account order:
// 0. provider (signer)
// 1. pool state (writable)
// 2. pool vault A (writable)
// 3. pool vault B (writable)
// 4. share mint (writable)
// 5. provider token A (writable)
// 6. provider token B (writable)
// 7. provider share account (writable)
// 8. token program
func NewAddLiquidityIx(
	programID solana.PublicKey,
	provider solana.PublicKey,
	accounts PoolAccounts,
	providerA, providerB, providerShares solana.PublicKey,
	amountA, amountB uint64,
) solana.Instruction {
	metas := liquidityMetas(provider, accounts, providerA, providerB, providerShares)
	return solana.NewInstruction(programID, metas, AddLiquidity{AmountA: amountA, AmountB: amountB}.Data())
}

// NewRemoveLiquidityIx builds the remove-liquidity instruction. Same account
// order as add-liquidity.
func NewRemoveLiquidityIx(
	programID solana.PublicKey,
	provider solana.PublicKey,
	accounts PoolAccounts,
	providerA, providerB, providerShares solana.PublicKey,
	shareAmount uint64,
) solana.Instruction {
	metas := liquidityMetas(provider, accounts, providerA, providerB, providerShares)
	return solana.NewInstruction(programID, metas, RemoveLiquidity{ShareAmount: shareAmount}.Data())
}

func liquidityMetas(
	provider solana.PublicKey,
	accounts PoolAccounts,
	providerA, providerB, providerShares solana.PublicKey,
) []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: provider, IsSigner: true, IsWritable: false},
		{PublicKey: accounts.State, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.VaultA, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.VaultB, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.ShareMint, IsSigner: false, IsWritable: true},
		{PublicKey: providerA, IsSigner: false, IsWritable: true},
		{PublicKey: providerB, IsSigner: false, IsWritable: true},
		{PublicKey: providerShares, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
	}
}

// NewSwapIx builds a swap instruction in either direction. The swapper's
// accounts are ordered source then destination, matching the program's account
// layout for each variant.
// Account order:
// 0. swapper (signer)
// 1. pool state (writable)
// 2. pool vault A (writable)
// 3. pool vault B (writable)
// 4. swapper source token account (writable)
// 5. swapper destination token account (writable)
// 6. token program
func NewSwapIx(
	programID solana.PublicKey,
	swapper solana.PublicKey,
	accounts PoolAccounts,
	swapperSource, swapperDest solana.PublicKey,
	aToB bool,
	amountIn uint64,
) solana.Instruction {
	metas := []*solana.AccountMeta{
		{PublicKey: swapper, IsSigner: true, IsWritable: false},
		{PublicKey: accounts.State, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.VaultA, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.VaultB, IsSigner: false, IsWritable: true},
		{PublicKey: swapperSource, IsSigner: false, IsWritable: true},
		{PublicKey: swapperDest, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
	}

	var data []byte
	if aToB {
		data = SwapAforB{AmountIn: amountIn}.Data()
	} else {
		data = SwapBforA{AmountIn: amountIn}.Data()
	}
	return solana.NewInstruction(programID, metas, data)
}

package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// StateLen is the fixed size of a serialized pool state account.
const StateLen = 122

// PoolState is the client-side view of one pool's on-chain state account.
// The remote program owns the canonical record; the client only decodes
// snapshots and encodes instructions against them.
type PoolState struct {
	Initialized bool
	MintA       solana.PublicKey
	MintB       solana.PublicKey
	ReserveA    uint64
	ReserveB    uint64
	ShareMint   solana.PublicKey
	TotalShares uint64
	Bump        uint8
}

// Pack serializes the state into the fixed on-chain layout.
// Layout (little-endian):
// [0]       initialized (0 or 1)
// [1:33]    mint A
// [33:65]   mint B
// [65:73]   reserve A (u64)
// [73:81]   reserve B (u64)
// [81:113]  share mint
// [113:121] total shares (u64)
// [121]     bump seed
func (s *PoolState) Pack() []byte {
	data := make([]byte, StateLen)
	if s.Initialized {
		data[0] = 1
	}
	copy(data[1:33], s.MintA.Bytes())
	copy(data[33:65], s.MintB.Bytes())
	binary.LittleEndian.PutUint64(data[65:73], s.ReserveA)
	binary.LittleEndian.PutUint64(data[73:81], s.ReserveB)
	copy(data[81:113], s.ShareMint.Bytes())
	binary.LittleEndian.PutUint64(data[113:121], s.TotalShares)
	data[121] = s.Bump
	return data
}

// UnpackState decodes a pool state account. The buffer must be exactly
// StateLen bytes and the initialized flag must be 0 or 1; anything else is
// ErrMalformedState.
func UnpackState(data []byte) (*PoolState, error) {
	if len(data) != StateLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedState, StateLen, len(data))
	}
	if data[0] > 1 {
		return nil, fmt.Errorf("%w: initialized flag is %d", ErrMalformedState, data[0])
	}

	s := &PoolState{
		Initialized: data[0] == 1,
		ReserveA:    binary.LittleEndian.Uint64(data[65:73]),
		ReserveB:    binary.LittleEndian.Uint64(data[73:81]),
		TotalShares: binary.LittleEndian.Uint64(data[113:121]),
		Bump:        data[121],
	}
	copy(s.MintA[:], data[1:33])
	copy(s.MintB[:], data[33:65])
	copy(s.ShareMint[:], data[81:113])
	return s, nil
}

// Reserves returns the pool reserves oriented by swap direction.
func (s *PoolState) Reserves(aToB bool) (reserveIn, reserveOut uint64) {
	if aToB {
		return s.ReserveA, s.ReserveB
	}
	return s.ReserveB, s.ReserveA
}

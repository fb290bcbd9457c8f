package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/wallet"
)

// ResolvedTokenAccount describes a token account to use in a pool operation
// plus any instructions needed to make it usable (e.g. create ATA).
type ResolvedTokenAccount struct {
	Account solana.PublicKey
	Created bool // true if this resolver will create the account in PreIxs
	PreIxs  []solana.Instruction
}

// TokenAccountResolver resolves the owner's ATA for a given mint, emitting a
// create instruction when the account does not exist yet.
type TokenAccountResolver struct {
	w *wallet.Wallet
}

func NewTokenAccountResolver(w *wallet.Wallet) *TokenAccountResolver {
	return &TokenAccountResolver{w: w}
}

func (r *TokenAccountResolver) Resolve(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*ResolvedTokenAccount, error) {
	if r == nil || r.w == nil {
		return nil, fmt.Errorf("token account resolver: wallet is nil")
	}

	ata, _, err := FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	exists, err := r.w.AccountExists(ctx, ata)
	if err != nil {
		return nil, err
	}
	if exists {
		return &ResolvedTokenAccount{Account: ata, Created: false}, nil
	}

	// Create ATA (payer=owner).
	createATA := NewCreateAssociatedTokenAccountIx(owner, ata, owner, mint)
	return &ResolvedTokenAccount{
		Account: ata,
		Created: true,
		PreIxs:  []solana.Instruction{createATA},
	}, nil
}

package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Well-known program addresses.
const (
	SystemProgramAddress          = "11111111111111111111111111111111"
	TokenProgramAddress           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramAddress = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramAddress   = "ComputeBudget111111111111111111111111111111"
	SwigProgramAddress            = "swigypWHEksbC64pWKwah1WTeh9JXwx8H1rJHLdbQMB"
	JupiterV6ProgramAddress       = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
)

// Base58 renders raw key bytes in the canonical Solana address form.
func Base58(b []byte) string {
	return base58.Encode(b)
}

// PublicKeyFromBase58 decodes a base58 address into raw key bytes.
func PublicKeyFromBase58(s string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base58 address %q", s)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid address length: got %d, want %d", len(raw), ed25519.PublicKeySize)
	}
	return raw, nil
}

// MustPublicKeyFromBase58 is PublicKeyFromBase58 for well-known constants.
func MustPublicKeyFromBase58(s string) ed25519.PublicKey {
	pub, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pub
}

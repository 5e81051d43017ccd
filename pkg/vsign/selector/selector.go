// Package selector derives decoder-dispatch keys from instruction bytes or
// canonical signature strings. Both strategies are pure and deterministic;
// keys are never guessed.
package selector

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// FromSignature hashes a canonical function signature, e.g.
// "transfer(address,uint256)", with keccak-256 and returns the first four
// bytes. An input already shaped like a selector ("0x" + 8 hex digits, or 8
// bare hex digits) is accepted verbatim without hashing.
func FromSignature(sig string) ([4]byte, error) {
	var out [4]byte

	if raw, ok := literalSelector(sig); ok {
		decoded, err := hex.DecodeString(raw)
		if err != nil {
			return out, errors.Wrapf(err, "invalid selector literal %q", sig)
		}
		copy(out[:], decoded)
		return out, nil
	}

	if sig == "" {
		return out, errors.New("empty function signature")
	}

	hash := crypto.Keccak256([]byte(sig))
	copy(out[:], hash[:4])
	return out, nil
}

func literalSelector(s string) (string, bool) {
	raw := strings.TrimPrefix(s, "0x")
	if len(raw) != 8 {
		return "", false
	}
	for _, r := range raw {
		if !isHexDigit(r) {
			return "", false
		}
	}
	return raw, true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// LeadingBytes returns the first n bytes of data as the dispatch key. If the
// payload is shorter than n the derivation fails vsign.ErrTruncated and the
// pipeline proceeds to fallback.
func LeadingBytes(data []byte, n int) ([]byte, error) {
	if len(data) < n {
		return nil, errors.Wrapf(vsign.ErrTruncated, "payload %d bytes, selector needs %d", len(data), n)
	}
	out := make([]byte, n)
	copy(out, data[:n])
	return out, nil
}

// AnchorDiscriminator derives the 8-byte discriminator used by Anchor-style
// programs: sha256("global:" + name)[:8].
func AnchorDiscriminator(name string) [8]byte {
	var out [8]byte
	sum := sha256.Sum256([]byte("global:" + name))
	copy(out[:], sum[:8])
	return out
}

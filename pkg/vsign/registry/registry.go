// Package registry maps (network, program identity, discriminator) keys to
// instruction decoders.
//
// A Registry is populated once by the integration layer during process
// initialization, then frozen. Frozen registries are read-only and safe for
// concurrent lookups from any number of decode calls without locking.
package registry

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// Network identifies a ledger family.
type Network string

const (
	NetworkSolana   Network = "solana"
	NetworkEthereum Network = "ethereum"
)

// Decoder decodes one instruction kind from raw bytes plus the instruction's
// ordered account list.
type Decoder func(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error)

// Key is the registry lookup key. Discriminator is the hex form of the
// opaque fixed-length dispatch key (2, 4 or 8 bytes depending on family),
// derived deterministically by pkg/vsign/selector.
type Key struct {
	Network       Network
	Program       string
	Discriminator string
}

// DiscriminatorKey renders raw discriminator bytes into the form used in
// Keys.
func DiscriminatorKey(b []byte) string {
	return hex.EncodeToString(b)
}

// Registry is the decoder dispatch table.
type Registry struct {
	decoders map[Key]Decoder
	frozen   bool
}

// New creates an empty, unfrozen registry.
func New() *Registry {
	return &Registry{
		decoders: make(map[Key]Decoder),
	}
}

// Register adds a decoder for key. Registration of a duplicate key or
// registration after Freeze is a startup misconfiguration and fails
// immediately rather than at decode time.
func (r *Registry) Register(key Key, decoder Decoder) error {
	if r.frozen {
		return errors.New("registry is frozen")
	}
	if decoder == nil {
		return errors.Errorf("nil decoder for %+v", key)
	}
	if _, exists := r.decoders[key]; exists {
		return errors.Errorf("duplicate decoder registration for %+v", key)
	}
	r.decoders[key] = decoder
	return nil
}

// Freeze makes the registry immutable. All registration must complete before
// the first decode call; Freeze marks that point.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Lookup returns the decoder for key, if any.
func (r *Registry) Lookup(key Key) (Decoder, bool) {
	d, ok := r.decoders[key]
	return d, ok
}

// Size returns the number of registered decoders.
func (r *Registry) Size() int {
	return len(r.decoders)
}

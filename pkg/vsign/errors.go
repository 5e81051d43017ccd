package vsign

import (
	"github.com/pkg/errors"
)

var (
	// ErrTruncated indicates the input ended before a declared field could be
	// read in full. Reads never partially consume input before returning it.
	ErrTruncated = errors.New("truncated input")

	// ErrMalformedLength indicates a declared length or offset is inconsistent
	// with the surrounding structure (permission-record boundary mismatch,
	// Huffman misalignment, odd index list, ...).
	ErrMalformedLength = errors.New("malformed length")

	// ErrUnsupportedDiscriminator indicates the program family is recognized
	// but the specific kind is not. Decoders translate this into an Unknown
	// value rather than surfacing it; it never blocks rendering.
	ErrUnsupportedDiscriminator = errors.New("unsupported discriminator")

	// ErrUnresolvedAccount indicates an address-lookup-table reference that
	// cannot be resolved locally. Surfaced as a labeled field, never silently
	// treated as a resolved address.
	ErrUnresolvedAccount = errors.New("unresolved account")
)

// IsDecodeFailure reports whether err is one of the structural decode errors
// that abort the current attempt and hand control to the next fallback tier.
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrTruncated) || errors.Is(err, ErrMalformedLength)
}

package vsign

import "fmt"

// AccountRef is one entry of an instruction's ordered account list. A ref is
// either resolved (Address and Raw set) or unresolved (LookupIndex set), when
// an address-lookup-table reference cannot be resolved locally. Unresolved
// refs must never be treated as resolved addresses; Display renders them as
// an explicit marker instead.
type AccountRef struct {
	// Address is the rendered address (base58 or 0x-hex by network). Empty
	// when Unresolved.
	Address string
	// Raw is the raw key bytes when known.
	Raw []byte

	IsSigner   bool
	IsWritable bool

	Unresolved  bool
	LookupIndex int
}

// Display returns the address, or an explicit unresolved marker. It never
// returns an empty string.
func (a AccountRef) Display() string {
	if a.Unresolved {
		return fmt.Sprintf("Unresolved account #%d (lookup table)", a.LookupIndex)
	}
	if a.Address == "" {
		return "(unknown address)"
	}
	return a.Address
}

// Flags renders the signer/writable markers, e.g. " (signer, writable)", or
// an empty string when neither is set.
func (a AccountRef) Flags() string {
	switch {
	case a.IsSigner && a.IsWritable:
		return " (signer, writable)"
	case a.IsSigner:
		return " (signer)"
	case a.IsWritable:
		return " (writable)"
	}
	return ""
}

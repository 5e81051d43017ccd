package vsign

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewTextField builds a text leaf. An empty value is rendered as "(none)" so
// the fallback invariant holds regardless of the input.
func NewTextField(label, text string) Field {
	if text == "" {
		text = "(none)"
	}
	return Field{
		Kind:         FieldText,
		Label:        label,
		FallbackText: text,
		Text:         text,
	}
}

// NewAddressField builds an address leaf from an already-rendered address
// string (base58, 0x-hex, or an explicit unresolved marker).
func NewAddressField(label, address string) Field {
	if address == "" {
		address = "(unknown address)"
	}
	return Field{
		Kind:         FieldAddress,
		Label:        label,
		FallbackText: address,
		Text:         address,
	}
}

// NewNumberField builds a numeric leaf.
func NewNumberField(label string, v uint64) Field {
	text := fmt.Sprintf("%d", v)
	return Field{
		Kind:         FieldNumber,
		Label:        label,
		FallbackText: text,
		Text:         text,
	}
}

// NewAmountField builds an amount leaf carrying the raw integer and the
// decimal-scaled display string.
func NewAmountField(label string, raw *big.Int, decimals uint8, unit string) Field {
	amount := NewAmount(raw, decimals, unit)
	text := fmt.Sprintf("%s %s (raw %s)", amount.Scaled, amount.Unit, amount.Raw)
	return Field{
		Kind:         FieldAmount,
		Label:        label,
		FallbackText: text,
		Text:         text,
		Amount:       amount,
	}
}

// NewAmountFieldU64 is NewAmountField for uint64 raw values.
func NewAmountFieldU64(label string, raw uint64, decimals uint8, unit string) Field {
	return NewAmountField(label, new(big.Int).SetUint64(raw), decimals, unit)
}

// NewRawDataField builds a hex-dump leaf. This is the terminal rendering for
// bytes nothing managed to decode; it can never fail.
func NewRawDataField(label string, data []byte) Field {
	text := HexDump(data)
	return Field{
		Kind:         FieldRaw,
		Label:        label,
		FallbackText: text,
		Text:         text,
		Raw:          data,
	}
}

// NewGroupField builds a group node. The fallback text summarizes the child
// count so the node remains meaningful to a renderer that cannot recurse.
func NewGroupField(label string, children ...Field) Field {
	return Field{
		Kind:         FieldGroup,
		Label:        label,
		FallbackText: fmt.Sprintf("%s (%d field(s))", label, len(children)),
		Children:     children,
	}
}

// HexDump renders bytes as lowercase hex, with an explicit marker for empty
// input so callers can use it directly as fallback text.
func HexDump(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	return hex.EncodeToString(data)
}

package vsign

import (
	"math/big"
	"strings"
)

// ScaleDecimal renders raw / 10^decimals as a decimal string using pure
// string arithmetic. On-chain amounts must never round-trip through floats.
func ScaleDecimal(raw *big.Int, decimals uint8) string {
	s := new(big.Int).Abs(raw).String()
	neg := raw.Sign() < 0

	d := int(decimals)
	if d == 0 {
		if neg {
			return "-" + s
		}
		return s
	}

	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole := s[:len(s)-d]
	frac := strings.TrimRight(s[len(s)-d:], "0")

	out := whole
	if frac != "" {
		out = whole + "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ScaleDecimalU64 is ScaleDecimal for the common uint64 case.
func ScaleDecimalU64(raw uint64, decimals uint8) string {
	return ScaleDecimal(new(big.Int).SetUint64(raw), decimals)
}

// NewAmount builds an Amount carrying both the raw integer and its scaled
// display form.
func NewAmount(raw *big.Int, decimals uint8, unit string) *Amount {
	return &Amount{
		Raw:      raw.String(),
		Scaled:   ScaleDecimal(raw, decimals),
		Decimals: decimals,
		Unit:     unit,
	}
}

// NewAmountU64 is NewAmount for uint64 raw values.
func NewAmountU64(raw uint64, decimals uint8, unit string) *Amount {
	return NewAmount(new(big.Int).SetUint64(raw), decimals, unit)
}

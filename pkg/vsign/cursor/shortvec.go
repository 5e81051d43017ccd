package cursor

import (
	"math"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// ReadCompactLen decodes a shortvec compact length: little-endian 7-bit
// groups with a continuation bit, at most 3 bytes (so values up to u16 plus
// two bits, matching the transaction envelope's limits).
func (c *Cursor) ReadCompactLen() (int, error) {
	start := c.off
	val := 0

	for shift := 0; ; shift++ {
		if shift > 2 {
			c.off = start
			return 0, errors.Wrap(vsign.ErrMalformedLength, "compact length exceeds 3 bytes")
		}
		b, err := c.ReadU8()
		if err != nil {
			c.off = start
			return 0, err
		}
		val |= int(b&0x7f) << (shift * 7)
		if b&0x80 == 0 {
			break
		}
	}
	return val, nil
}

// AppendCompactLen appends the shortvec encoding of n to dst. Lengths above
// math.MaxUint16 are not representable in the envelope and cannot arise from
// a decoded message, so out-of-range input is a programming error.
func AppendCompactLen(dst []byte, n int) []byte {
	if n < 0 || n > math.MaxUint16 {
		panic(errors.Errorf("compact length %d out of range", n))
	}
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

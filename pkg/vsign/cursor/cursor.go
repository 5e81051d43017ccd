// Package cursor provides bounds-checked primitive reads over a byte slice.
//
// Decoders in this module parse attacker-influenced bytes that a human is
// about to authorize; every read here fails with vsign.ErrTruncated instead
// of panicking, and a failed read never advances the cursor.
package cursor

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// Cursor reads little-endian primitives from a byte slice. The zero value is
// not usable; construct with New.
type Cursor struct {
	data []byte
	off  int
}

// New creates a cursor over data. The cursor never mutates data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

func (c *Cursor) require(n int, what string) error {
	if c.Remaining() < n {
		return errors.Wrapf(vsign.ErrTruncated, "%s: need %d bytes, have %d", what, n, c.Remaining())
	}
	return nil
}

// Skip advances the cursor n bytes without reading them.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return errors.Wrap(vsign.ErrMalformedLength, "negative skip")
	}
	if err := c.require(n, "skip"); err != nil {
		return err
	}
	c.off += n
	return nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1, "u8"); err != nil {
		return 0, err
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.require(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.require(8, "u64"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.off:])
	c.off += 8
	return v, nil
}

// ReadU128 reads a little-endian unsigned 128-bit integer into a big.Int.
func (c *Cursor) ReadU128() (*big.Int, error) {
	if err := c.require(16, "u128"); err != nil {
		return nil, err
	}
	// big.Int wants big-endian bytes.
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[15-i] = c.data[c.off+i]
	}
	c.off += 16
	return new(big.Int).SetBytes(be), nil
}

// ReadFixed reads exactly n bytes into a fresh slice.
func (c *Cursor) ReadFixed(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrap(vsign.ErrMalformedLength, "negative length")
	}
	if err := c.require(n, "fixed bytes"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[c.off:])
	c.off += n
	return out, nil
}

// ReadKey32 reads a 32-byte key.
func (c *Cursor) ReadKey32() ([32]byte, error) {
	var key [32]byte
	if err := c.require(32, "key32"); err != nil {
		return key, err
	}
	copy(key[:], c.data[c.off:])
	c.off += 32
	return key, nil
}

// ReadLengthPrefixed reads a length of the given width (1, 2 or 4 bytes,
// little-endian) followed by that many bytes. The cursor does not advance if
// either part is short.
func (c *Cursor) ReadLengthPrefixed(lenWidth int) ([]byte, error) {
	start := c.off

	var n int
	switch lenWidth {
	case 1:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 2:
		v, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 4:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		return nil, errors.Wrapf(vsign.ErrMalformedLength, "unsupported length width %d", lenWidth)
	}

	out, err := c.ReadFixed(n)
	if err != nil {
		c.off = start
		return nil, err
	}
	return out, nil
}

// Rest consumes and returns all remaining bytes.
func (c *Cursor) Rest() []byte {
	out := make([]byte, c.Remaining())
	copy(out, c.data[c.off:])
	c.off = len(c.data)
	return out
}

// Done reports whether the cursor consumed the input exactly.
func (c *Cursor) Done() bool {
	return c.Remaining() == 0
}

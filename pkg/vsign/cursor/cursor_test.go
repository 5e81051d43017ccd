package cursor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

func TestCursor_PrimitiveReads(t *testing.T) {
	c := New([]byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	})

	u8, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), u32)

	u64, err := c.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0f0e0d0c0b0a0908), u64)

	assert.True(t, c.Done())
	assert.Equal(t, 15, c.Offset())
}

func TestCursor_ReadU128(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 0x01 // little-endian least significant byte
	data[15] = 0x02

	c := New(data)
	v, err := c.ReadU128()
	require.NoError(t, err)

	expected := new(big.Int).Lsh(big.NewInt(2), 120)
	expected.Add(expected, big.NewInt(1))
	assert.Equal(t, 0, v.Cmp(expected))
	assert.True(t, c.Done())
}

func TestCursor_FailedReadDoesNotAdvance(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03})

	_, err := c.ReadU32()
	assert.ErrorIs(t, err, vsign.ErrTruncated)
	assert.Equal(t, 0, c.Offset())

	_, err = c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Offset())

	_, err = c.ReadU16()
	assert.ErrorIs(t, err, vsign.ErrTruncated)
	assert.Equal(t, 2, c.Offset())
}

func TestCursor_ReadFixed(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	c := New(data)

	out, err := c.ReadFixed(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, out)

	// The returned slice is a copy, not a view over the input.
	out[0] = 0xff
	assert.Equal(t, byte(0x01), data[0])

	_, err = c.ReadFixed(2)
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	_, err = c.ReadFixed(-1)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestCursor_ReadKey32(t *testing.T) {
	data := make([]byte, 32)
	data[31] = 0xaa

	c := New(data)
	key, err := c.ReadKey32()
	require.NoError(t, err)
	assert.Equal(t, byte(0xaa), key[31])
	assert.True(t, c.Done())

	_, err = c.ReadKey32()
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

func TestCursor_Skip(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03})

	require.NoError(t, c.Skip(2))
	assert.Equal(t, 1, c.Remaining())

	assert.ErrorIs(t, c.Skip(2), vsign.ErrTruncated)
	assert.Equal(t, 1, c.Remaining())

	assert.ErrorIs(t, c.Skip(-1), vsign.ErrMalformedLength)
}

func TestCursor_ReadLengthPrefixed(t *testing.T) {
	c := New([]byte{0x02, 0xaa, 0xbb})
	out, err := c.ReadLengthPrefixed(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, out)
	assert.True(t, c.Done())

	c = New([]byte{0x03, 0x00, 0xaa, 0xbb, 0xcc})
	out, err = c.ReadLengthPrefixed(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, out)

	c = New([]byte{0x01, 0x00, 0x00, 0x00, 0xdd})
	out, err = c.ReadLengthPrefixed(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xdd}, out)
}

func TestCursor_ReadLengthPrefixed_ShortBody(t *testing.T) {
	c := New([]byte{0x05, 0xaa})

	_, err := c.ReadLengthPrefixed(1)
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	// Neither the length byte nor the body advanced the cursor.
	assert.Equal(t, 0, c.Offset())
}

func TestCursor_ReadLengthPrefixed_BadWidth(t *testing.T) {
	c := New([]byte{0x01, 0xaa})
	_, err := c.ReadLengthPrefixed(3)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestCursor_Rest(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03})
	_, err := c.ReadU8()
	require.NoError(t, err)

	assert.Equal(t, []byte{0x02, 0x03}, c.Rest())
	assert.True(t, c.Done())
	assert.Empty(t, c.Rest())
}

func TestCompactLen_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 0xffff} {
		encoded := AppendCompactLen(nil, n)

		c := New(encoded)
		decoded, err := c.ReadCompactLen()
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, decoded, "n=%d", n)
		assert.True(t, c.Done(), "n=%d", n)
	}
}

func TestCompactLen_Encoding(t *testing.T) {
	assert.Equal(t, []byte{0x00}, AppendCompactLen(nil, 0))
	assert.Equal(t, []byte{0x7f}, AppendCompactLen(nil, 0x7f))
	assert.Equal(t, []byte{0x80, 0x01}, AppendCompactLen(nil, 0x80))
	assert.Equal(t, []byte{0xff, 0xff, 0x03}, AppendCompactLen(nil, 0xffff))
}

func TestCompactLen_TooLong(t *testing.T) {
	c := New([]byte{0x80, 0x80, 0x80, 0x01})
	_, err := c.ReadCompactLen()
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
	assert.Equal(t, 0, c.Offset())
}

func TestCompactLen_Truncated(t *testing.T) {
	c := New([]byte{0x80})
	_, err := c.ReadCompactLen()
	assert.ErrorIs(t, err, vsign.ErrTruncated)
	assert.Equal(t, 0, c.Offset())
}

func TestAppendCompactLen_OutOfRange(t *testing.T) {
	assert.Panics(t, func() { AppendCompactLen(nil, -1) })
	assert.Panics(t, func() { AppendCompactLen(nil, 0x10000) })
}

package computebudget

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

func TestDecompile_SetComputeUnitLimit(t *testing.T) {
	data := []byte{byte(CommandSetComputeUnitLimit)}
	data = binary.LittleEndian.AppendUint32(data, 200000)

	decoded, err := Decompile(data, nil)
	require.NoError(t, err)

	limit, ok := decoded.(*SetComputeUnitLimit)
	require.True(t, ok)
	assert.EqualValues(t, 200000, limit.Units)
	assert.Equal(t, "Set Compute Unit Limit: 200000 units", limit.Summary())
}

func TestDecompile_SetComputeUnitPrice(t *testing.T) {
	data := []byte{byte(CommandSetComputeUnitPrice)}
	data = binary.LittleEndian.AppendUint64(data, 50000)

	decoded, err := Decompile(data, nil)
	require.NoError(t, err)

	price, ok := decoded.(*SetComputeUnitPrice)
	require.True(t, ok)
	assert.EqualValues(t, 50000, price.MicroLamports)
	assert.Equal(t, "Set Compute Unit Price: 50000 micro-lamports", price.Summary())
}

func TestDecompile_RequestHeapFrame(t *testing.T) {
	data := []byte{byte(CommandRequestHeapFrame)}
	data = binary.LittleEndian.AppendUint32(data, 262144)

	decoded, err := Decompile(data, nil)
	require.NoError(t, err)

	heap, ok := decoded.(*RequestHeapFrame)
	require.True(t, ok)
	assert.EqualValues(t, 262144, heap.Bytes)

	for _, field := range heap.Fields() {
		assert.NoError(t, field.Validate())
	}
}

func TestDecompile_UnknownCommand(t *testing.T) {
	decoded, err := Decompile([]byte{99, 0, 0, 0, 0}, nil)
	require.NoError(t, err)

	unknown, ok := decoded.(*Unknown)
	require.True(t, ok)
	assert.EqualValues(t, 99, unknown.Command)
	assert.Equal(t, "Compute Budget: Unknown instruction (99)", unknown.Summary())

	for _, field := range unknown.Fields() {
		assert.NoError(t, field.Validate())
	}
}

func TestDecompile_Truncated(t *testing.T) {
	_, err := Decompile(nil, nil)
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	_, err = Decompile([]byte{byte(CommandSetComputeUnitLimit), 1, 2}, nil)
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

func TestDecompile_TrailingBytes(t *testing.T) {
	data := []byte{byte(CommandSetComputeUnitLimit)}
	data = binary.LittleEndian.AppendUint32(data, 1)
	data = append(data, 0xff)

	_, err := Decompile(data, nil)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

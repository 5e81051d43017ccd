package swig

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// appendAction appends one permission record with a correct next-offset
// header to blob.
func appendAction(blob []byte, permission Permission, payload []byte) []byte {
	boundary := len(blob) + 8 + len(payload)
	blob = binary.LittleEndian.AppendUint16(blob, uint16(permission))
	blob = binary.LittleEndian.AppendUint16(blob, uint16(len(payload)))
	blob = binary.LittleEndian.AppendUint32(blob, uint32(boundary))
	return append(blob, payload...)
}

func TestDecodeActions_All(t *testing.T) {
	blob, err := hex.DecodeString("0700000008000000")
	require.NoError(t, err)

	actions, err := DecodeActions(blob)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, PermissionAll, actions[0].Permission)
	assert.Equal(t, "All permissions (full access)", actions[0].Description)
}

func TestDecodeActions_SolLimit(t *testing.T) {
	payload := binary.LittleEndian.AppendUint64(nil, 1500000000)
	blob := appendAction(nil, PermissionSolLimit, payload)

	actions, err := DecodeActions(blob)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "SOL limit: 1500000000 lamports (~1.5 SOL)", actions[0].Description)
}

func TestDecodeActions_Multiple(t *testing.T) {
	blob := appendAction(nil, PermissionManageAuthority, nil)
	blob = appendAction(blob, PermissionStakeAll, nil)
	blob = appendAction(blob, PermissionSolLimit, binary.LittleEndian.AppendUint64(nil, 1))

	actions, err := DecodeActions(blob)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "Manage authority (add/remove/update authorities)", actions[0].Description)
	assert.Equal(t, "Stake all permissions (unrestricted staking)", actions[1].Description)
	assert.Equal(t, "SOL limit: 1 lamports (~0.000000001 SOL)", actions[2].Description)
}

func TestDecodeActions_Empty(t *testing.T) {
	actions, err := DecodeActions(nil)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDecodeActions_BoundaryMismatch(t *testing.T) {
	blob := appendAction(nil, PermissionAll, nil)
	// Corrupt the declared next offset.
	binary.LittleEndian.PutUint32(blob[4:8], 99)

	_, err := DecodeActions(blob)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestDecodeActions_TruncatedPayload(t *testing.T) {
	blob := appendAction(nil, PermissionSolLimit, binary.LittleEndian.AppendUint64(nil, 5))
	_, err := DecodeActions(blob[:len(blob)-2])
	assert.True(t, vsign.IsDecodeFailure(err))
}

func TestDecodeActions_TruncatedHeader(t *testing.T) {
	_, err := DecodeActions([]byte{0x07, 0x00, 0x00})
	assert.True(t, vsign.IsDecodeFailure(err))
}

func TestDecodeActions_WrongPayloadSize(t *testing.T) {
	// SolLimit requires exactly 8 payload bytes.
	blob := appendAction(nil, PermissionSolLimit, []byte{1, 2, 3, 4})
	_, err := DecodeActions(blob)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestDecodeActions_UnknownPermission(t *testing.T) {
	blob := appendAction(nil, Permission(42), []byte{0xaa, 0xbb})

	actions, err := DecodeActions(blob)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "Unknown permission 42 (2 bytes)", actions[0].Description)
}

func TestDecodeActions_TokenLimit(t *testing.T) {
	mint := make([]byte, 32)
	mint[31] = 1
	payload := append(append([]byte{}, mint...), binary.LittleEndian.AppendUint64(nil, 250)...)
	blob := appendAction(nil, PermissionTokenLimit, payload)

	actions, err := DecodeActions(blob)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0].Description, "Token limit: mint ")
	assert.Contains(t, actions[0].Description, "remaining 250")
}

func TestCountActions(t *testing.T) {
	blob := appendAction(nil, PermissionAll, nil)
	blob = appendAction(blob, PermissionSolLimit, binary.LittleEndian.AppendUint64(nil, 1))

	assert.Equal(t, 2, CountActions(blob))
	assert.Equal(t, 0, CountActions(nil))

	// A truncated tail record does not count.
	assert.Equal(t, 2, CountActions(append(blob, 0x01, 0x00, 0x08, 0x00)))
}

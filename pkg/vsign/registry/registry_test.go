package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

func testDecoder(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	return nil, nil
}

func testKey(disc string) Key {
	return Key{
		Network:       NetworkSolana,
		Program:       "TestProgram1111111111111111111111111111111",
		Discriminator: disc,
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testKey("0400"), testDecoder))
	require.Equal(t, 1, r.Size())

	decoder, ok := r.Lookup(testKey("0400"))
	assert.True(t, ok)
	assert.NotNil(t, decoder)

	_, ok = r.Lookup(testKey("0500"))
	assert.False(t, ok)

	// Same discriminator under a different network is a distinct key.
	other := testKey("0400")
	other.Network = NetworkEthereum
	_, ok = r.Lookup(other)
	assert.False(t, ok)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testKey("0400"), testDecoder))
	assert.Error(t, r.Register(testKey("0400"), testDecoder))
	assert.Equal(t, 1, r.Size())
}

func TestRegistry_NilDecoder(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(testKey("0400"), nil))
}

func TestRegistry_Frozen(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testKey("0400"), testDecoder))
	r.Freeze()

	assert.Error(t, r.Register(testKey("0500"), testDecoder))

	_, ok := r.Lookup(testKey("0400"))
	assert.True(t, ok)
}

func TestDiscriminatorKey(t *testing.T) {
	assert.Equal(t, "0400", DiscriminatorKey([]byte{0x04, 0x00}))
	assert.Equal(t, "a9059cbb", DiscriminatorKey([]byte{0xa9, 0x05, 0x9c, 0xbb}))
	assert.Equal(t, "", DiscriminatorKey(nil))
}

package ethereum

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

const fixtureHex = "df1180031482520894f39Fd6e51aad88F6F4ce6aB8827279cffFb922660180c0"

func TestDecodePartialTransaction_Fixture(t *testing.T) {
	tx, err := DecodePartialTransactionHex(fixtureHex)
	require.NoError(t, err)

	assert.EqualValues(t, 17, tx.ChainID.Uint64())
	assert.EqualValues(t, 0, tx.Nonce.Uint64())
	assert.EqualValues(t, 3, tx.GasPrice.Uint64())
	assert.EqualValues(t, 20, tx.GasTip.Uint64())
	assert.EqualValues(t, 21000, tx.GasLimit.Uint64())
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), tx.To)
	assert.EqualValues(t, 1, tx.Value.Uint64())
	assert.Empty(t, tx.Data)
	assert.Empty(t, tx.AccessList)
}

func TestPartialTransaction_RoundTrip(t *testing.T) {
	tx, err := DecodePartialTransactionHex("0x" + fixtureHex)
	require.NoError(t, err)

	encoded, err := tx.Encode()
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(fixtureHex), common.Bytes2Hex(encoded))

	decoded, err := DecodePartialTransaction(encoded)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
}

func TestDecodePartialTransaction_Empty(t *testing.T) {
	_, err := DecodePartialTransaction(nil)
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	_, err = DecodePartialTransactionHex("0x")
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

func TestDecodePartialTransaction_Malformed(t *testing.T) {
	_, err := DecodePartialTransaction([]byte{0xdf, 0x11})
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)

	_, err = DecodePartialTransactionHex("not hex")
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)

	// Trailing bytes after the list.
	raw := common.Hex2Bytes(fixtureHex)
	_, err = DecodePartialTransaction(append(raw, 0x00))
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestPartialTransaction_ChainName(t *testing.T) {
	for chainID, want := range map[uint64]string{
		1:        "Ethereum Mainnet",
		5:        "Goerli Testnet",
		137:      "Polygon Mainnet",
		11155111: "Sepolia Testnet",
		17:       "Chain ID: 17",
	} {
		tx := &PartialTransaction{ChainID: new(big.Int).SetUint64(chainID)}
		assert.Equal(t, want, tx.ChainName())
	}
}

func TestPartialTransaction_Fields(t *testing.T) {
	tx, err := DecodePartialTransactionHex(fixtureHex)
	require.NoError(t, err)

	fields := tx.Fields()
	byLabel := map[string]string{}
	for _, field := range fields {
		assert.NoError(t, field.Validate())
		byLabel[field.Label] = field.Text
	}

	assert.Equal(t, "Chain ID: 17", byLabel["Network"])
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", byLabel["To Address"])
	assert.Equal(t, "1 wei", byLabel["Value"])
	assert.Equal(t, "0", byLabel["Nonce"])
	assert.Equal(t, "21000", byLabel["Gas Limit"])
	assert.Equal(t, "3 wei", byLabel["Gas Price"])

	// Empty input data is omitted entirely.
	_, ok := byLabel["Input Data"]
	assert.False(t, ok)
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "0 wei", formatWei(nil))
	assert.Equal(t, "999 wei", formatWei(big.NewInt(999)))
	assert.Equal(t, "0.000000000000001 ETH", formatWei(big.NewInt(1000)))

	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, "1 ETH", formatWei(one))
	assert.Equal(t, "1.5 ETH", formatWei(new(big.Int).Add(one, new(big.Int).Div(one, big.NewInt(2)))))
}

package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

var (
	testRecipient = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testSender    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func addressWord(address common.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], address.Bytes())
	return word
}

func uint256Word(v *big.Int) []byte {
	word := make([]byte, 32)
	v.FillBytes(word)
	return word
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, TransferSelector)
	assert.Equal(t, [4]byte{0x09, 0x5e, 0xa7, 0xb3}, ApproveSelector)
	assert.Equal(t, [4]byte{0x23, 0xb8, 0x72, 0xdd}, TransferFromSelector)
	assert.Equal(t, [4]byte{0x40, 0xc1, 0x0f, 0x19}, MintSelector)
	assert.Equal(t, [4]byte{0x42, 0x96, 0x6c, 0x68}, BurnSelector)
	assert.Equal(t, [4]byte{0x70, 0xa0, 0x82, 0x31}, BalanceOfSelector)
	assert.Equal(t, [4]byte{0x18, 0x16, 0x0d, 0xdd}, TotalSupplySelector)
}

func TestDecodeCalldata_Transfer(t *testing.T) {
	amount := big.NewInt(1000000)
	input := append(TransferSelector[:], addressWord(testRecipient)...)
	input = append(input, uint256Word(amount)...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	transfer, ok := decoded.(*Transfer)
	require.True(t, ok)
	assert.Equal(t, testRecipient, transfer.To)
	assert.Equal(t, amount, transfer.Amount)
	assert.Equal(t, "Transfer 1000000 tokens to 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", transfer.Summary())

	for _, field := range transfer.Fields() {
		assert.NoError(t, field.Validate())
	}
}

func TestDecodeCalldata_Approve(t *testing.T) {
	input := append(ApproveSelector[:], addressWord(testSender)...)
	input = append(input, uint256Word(big.NewInt(500))...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	approve, ok := decoded.(*Approve)
	require.True(t, ok)
	assert.Equal(t, testSender, approve.Spender)
	assert.EqualValues(t, 500, approve.Amount.Int64())
}

func TestDecodeCalldata_TransferFrom(t *testing.T) {
	input := append(TransferFromSelector[:], addressWord(testSender)...)
	input = append(input, addressWord(testRecipient)...)
	input = append(input, uint256Word(big.NewInt(42))...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	transfer, ok := decoded.(*TransferFrom)
	require.True(t, ok)
	assert.Equal(t, testSender, transfer.From)
	assert.Equal(t, testRecipient, transfer.To)
	assert.EqualValues(t, 42, transfer.Amount.Int64())
}

func TestDecodeCalldata_Mint(t *testing.T) {
	input := append(MintSelector[:], addressWord(testRecipient)...)
	input = append(input, uint256Word(big.NewInt(777))...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	mint, ok := decoded.(*Mint)
	require.True(t, ok)
	assert.Equal(t, testRecipient, mint.To)
	assert.EqualValues(t, 777, mint.Amount.Int64())
	assert.Equal(t, "Mint 777 tokens to 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", mint.Summary())
}

func TestDecodeCalldata_Burn(t *testing.T) {
	input := append(BurnSelector[:], uint256Word(big.NewInt(9))...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	burn, ok := decoded.(*Burn)
	require.True(t, ok)
	assert.EqualValues(t, 9, burn.Amount.Int64())
	assert.Equal(t, "Burn 9 tokens", burn.Summary())

	_, err = DecodeCalldata(BurnSelector[:])
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

func TestDecodeCalldata_BalanceOf(t *testing.T) {
	input := append(BalanceOfSelector[:], addressWord(testRecipient)...)

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	query, ok := decoded.(*Query)
	require.True(t, ok)
	assert.Equal(t, "balanceOf", query.Method)
	assert.Equal(t, "Query balance of 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", query.Summary())
}

func TestDecodeCalldata_NoArgQueries(t *testing.T) {
	for _, sel := range [][4]byte{NameSelector, SymbolSelector, DecimalsSelector, TotalSupplySelector} {
		decoded, err := DecodeCalldata(sel[:])
		require.NoError(t, err)

		query, ok := decoded.(*Query)
		require.True(t, ok)
		assert.NotEmpty(t, query.Method)
	}
}

func TestDecodeCalldata_UnknownSelector(t *testing.T) {
	input := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}

	decoded, err := DecodeCalldata(input)
	require.NoError(t, err)

	unknown, ok := decoded.(*UnknownCall)
	require.True(t, ok)
	assert.Equal(t, "Contract call 0xdeadbeef (2 argument bytes)", unknown.Summary())

	for _, field := range unknown.Fields() {
		assert.NoError(t, field.Validate())
	}
}

func TestDecodeCalldata_Truncated(t *testing.T) {
	_, err := DecodeCalldata([]byte{0xa9, 0x05})
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	// Valid selector, short argument words.
	input := append(TransferSelector[:], addressWord(testRecipient)...)
	_, err = DecodeCalldata(input)
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

func TestDecodeCalldata_TrailingBytes(t *testing.T) {
	input := append(TransferSelector[:], addressWord(testRecipient)...)
	input = append(input, uint256Word(big.NewInt(1))...)
	input = append(input, 0xff)

	_, err := DecodeCalldata(input)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestDecodeCalldata_BadAddressPadding(t *testing.T) {
	word := addressWord(testRecipient)
	word[0] = 0x01

	input := append(TransferSelector[:], word...)
	input = append(input, uint256Word(big.NewInt(1))...)

	_, err := DecodeCalldata(input)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

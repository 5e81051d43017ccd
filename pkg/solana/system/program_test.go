package system

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

var testAccounts = []vsign.AccountRef{
	{Address: "Acc1111111111111111111111111111111111111111", IsSigner: true, IsWritable: true},
	{Address: "Acc2222222222222222222222222222222222222222", IsWritable: true},
	{Address: "Acc3333333333333333333333333333333333333333"},
}

func commandData(command Command, rest ...byte) []byte {
	data := binary.LittleEndian.AppendUint32(nil, uint32(command))
	return append(data, rest...)
}

func validateFields(t *testing.T, decoded vsign.DecodedInstruction) {
	t.Helper()
	require.NotEmpty(t, decoded.Name())
	require.NotEmpty(t, decoded.Summary())
	for _, field := range decoded.Fields() {
		assert.NoError(t, field.Validate())
	}
}

func TestDecompile_Transfer(t *testing.T) {
	data := commandData(CommandTransfer)
	data = binary.LittleEndian.AppendUint64(data, 1234567890)

	decoded, err := Decompile(data, testAccounts)
	require.NoError(t, err)

	transfer, ok := decoded.(*Transfer)
	require.True(t, ok)
	assert.EqualValues(t, 1234567890, transfer.Lamports)
	assert.Equal(t,
		"From: Acc1111111111111111111111111111111111111111\nTo: Acc2222222222222222222222222222222222222222\nAmount: 1234567890",
		transfer.Summary())
	validateFields(t, transfer)
}

func TestDecompile_Transfer_TrailingBytes(t *testing.T) {
	data := commandData(CommandTransfer)
	data = binary.LittleEndian.AppendUint64(data, 1)
	data = append(data, 0xff)

	_, err := Decompile(data, testAccounts)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestDecompile_Transfer_MissingAccounts(t *testing.T) {
	data := commandData(CommandTransfer)
	data = binary.LittleEndian.AppendUint64(data, 5)

	decoded, err := Decompile(data, nil)
	require.NoError(t, err)

	transfer := decoded.(*Transfer)
	assert.True(t, transfer.Source.Unresolved)
	assert.Equal(t, "From: Unresolved account #0 (lookup table)\nTo: Unresolved account #1 (lookup table)\nAmount: 5", transfer.Summary())
	validateFields(t, transfer)
}

func TestDecompile_CreateAccount(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58(solana.TokenProgramAddress)

	data := commandData(CommandCreateAccount)
	data = binary.LittleEndian.AppendUint64(data, 2039280)
	data = binary.LittleEndian.AppendUint64(data, 165)
	data = append(data, owner...)

	decoded, err := Decompile(data, testAccounts)
	require.NoError(t, err)

	create, ok := decoded.(*CreateAccount)
	require.True(t, ok)
	assert.EqualValues(t, 2039280, create.Lamports)
	assert.EqualValues(t, 165, create.Space)
	assert.Equal(t, "Create Account (owner: "+solana.TokenProgramAddress+")", create.Summary())
	validateFields(t, create)
}

func TestDecompile_CreateAccountWithSeed(t *testing.T) {
	base := make([]byte, 32)
	base[0] = 9
	seed := "nonce-account"

	data := commandData(CommandCreateAccountWithSeed)
	data = append(data, base...)
	data = binary.LittleEndian.AppendUint64(data, uint64(len(seed)))
	data = append(data, seed...)
	data = binary.LittleEndian.AppendUint64(data, 100)
	data = binary.LittleEndian.AppendUint64(data, 80)
	data = append(data, make([]byte, 32)...)

	decoded, err := Decompile(data, testAccounts)
	require.NoError(t, err)

	create, ok := decoded.(*CreateAccountWithSeed)
	require.True(t, ok)
	assert.Equal(t, seed, create.Seed)
	assert.EqualValues(t, 100, create.Lamports)
	validateFields(t, create)
}

func TestDecompile_SeedTooLong(t *testing.T) {
	data := commandData(CommandCreateAccountWithSeed)
	data = append(data, make([]byte, 32)...)
	data = binary.LittleEndian.AppendUint64(data, 1<<20)

	_, err := Decompile(data, testAccounts)
	assert.ErrorIs(t, err, vsign.ErrMalformedLength)
}

func TestDecompile_NonceInstructions(t *testing.T) {
	decoded, err := Decompile(commandData(CommandAdvanceNonceAccount), testAccounts)
	require.NoError(t, err)
	assert.Equal(t, "Advance Nonce Account", decoded.Summary())

	data := commandData(CommandWithdrawNonceAccount)
	data = binary.LittleEndian.AppendUint64(data, 42)
	decoded, err = Decompile(data, testAccounts)
	require.NoError(t, err)
	assert.Equal(t, "Withdraw Nonce Account (42 lamports)", decoded.Summary())

	authority := make([]byte, 32)
	authority[31] = 1
	decoded, err = Decompile(commandData(CommandInitializeNonceAccount, authority...), testAccounts)
	require.NoError(t, err)
	initialize := decoded.(*InitializeNonce)
	assert.Equal(t, authority, initialize.Authority[:])
	validateFields(t, initialize)

	decoded, err = Decompile(commandData(CommandAuthorizeNonceAccount, authority...), testAccounts)
	require.NoError(t, err)
	validateFields(t, decoded)
}

func TestDecompile_Allocate(t *testing.T) {
	data := commandData(CommandAllocate)
	data = binary.LittleEndian.AppendUint64(data, 640)

	decoded, err := Decompile(data, testAccounts)
	require.NoError(t, err)
	assert.Equal(t, "Allocate (space: 640)", decoded.Summary())
}

func TestDecompile_TransferWithSeed(t *testing.T) {
	seed := "seed"
	owner := make([]byte, 32)
	owner[0] = 3

	data := commandData(CommandTransferWithSeed)
	data = binary.LittleEndian.AppendUint64(data, 777)
	data = binary.LittleEndian.AppendUint64(data, uint64(len(seed)))
	data = append(data, seed...)
	data = append(data, owner...)

	decoded, err := Decompile(data, testAccounts)
	require.NoError(t, err)

	transfer, ok := decoded.(*TransferWithSeed)
	require.True(t, ok)
	assert.EqualValues(t, 777, transfer.Lamports)
	assert.Equal(t, seed, transfer.Seed)
	validateFields(t, transfer)
}

func TestDecompile_Assign(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58(solana.SwigProgramAddress)

	decoded, err := Decompile(commandData(CommandAssign, owner...), testAccounts)
	require.NoError(t, err)
	assert.Equal(t, "Assign (owner: "+solana.SwigProgramAddress+")", decoded.Summary())
}

func TestDecompile_UnknownCommand(t *testing.T) {
	decoded, err := Decompile(commandData(Command(99)), testAccounts)
	require.NoError(t, err)

	unknown, ok := decoded.(*Unknown)
	require.True(t, ok)
	assert.EqualValues(t, 99, unknown.Command)
	assert.Equal(t, "System: Unknown instruction (99)", unknown.Summary())
	validateFields(t, unknown)
}

func TestDecompile_Truncated(t *testing.T) {
	_, err := Decompile([]byte{2, 0}, testAccounts)
	assert.ErrorIs(t, err, vsign.ErrTruncated)

	_, err = Decompile(commandData(CommandTransfer, 1, 2, 3), testAccounts)
	assert.ErrorIs(t, err, vsign.ErrTruncated)
}

package parser

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/ethereum"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/computebudget"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/swig"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/system"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/token"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/registry"
)

func testParser(t *testing.T) *Parser {
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	return p
}

func testAccounts(count int) []vsign.AccountRef {
	accounts := make([]vsign.AccountRef, count)
	for i := range accounts {
		raw := bytes.Repeat([]byte{byte(i + 1)}, ed25519.PublicKeySize)
		accounts[i] = vsign.AccountRef{
			Address: solana.Base58(raw),
			Raw:     raw,
		}
	}
	return accounts
}

func systemTransferData(lamports uint64) []byte {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], uint32(system.CommandTransfer))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	return data
}

func transferMessage(t *testing.T, lamports uint64) solana.Message {
	m := solana.Message{
		Version: solana.MessageVersionLegacy,
		Header: solana.Header{
			NumSignatures:       1,
			NumReadonlyUnsigned: 1,
		},
		Accounts: []ed25519.PublicKey{
			bytes.Repeat([]byte{0x01}, ed25519.PublicKeySize),
			bytes.Repeat([]byte{0x02}, ed25519.PublicKeySize),
			solana.MustPublicKeyFromBase58(solana.SystemProgramAddress),
		},
		Instructions: []solana.CompiledInstruction{
			{
				ProgramIndex: 2,
				Accounts:     []byte{0, 1},
				Data:         systemTransferData(lamports),
			},
		},
	}
	copy(m.RecentBlockhash[:], bytes.Repeat([]byte{0xbb}, solana.BlockhashSize))
	return m
}

func TestBuildRegistry(t *testing.T) {
	r, err := BuildRegistry()
	require.NoError(t, err)

	// 13 swig kinds, 10 system commands, 11 token commands, 3 compute
	// budget commands, 3 jupiter routes, 11 erc20 selectors.
	assert.Equal(t, 51, r.Size())

	err = r.Register(registry.Key{Network: registry.NetworkSolana}, system.Decompile)
	assert.Error(t, err)
}

func TestDecodeSolanaTransaction(t *testing.T) {
	p := testParser(t)

	tx := solana.Transaction{
		Signatures: make([][ed25519.SignatureSize]byte, 1),
		Message:    transferMessage(t, 1_000_000_000),
	}

	payload, err := p.DecodeSolanaTransaction(tx.Marshal())
	require.NoError(t, err)
	require.NoError(t, payload.Validate())

	assert.Equal(t, "Solana Transaction", payload.Title)
	assert.Equal(t, "1 signature(s), 1 instruction(s)", payload.Subtitle)
	assert.Equal(t, PayloadKindSolanaTransaction, payload.PayloadKind)

	require.Len(t, payload.Fields, 1)
	assert.Equal(t, "Instruction 1: Transfer", payload.Fields[0].Label)
}

func TestDecodeSolanaTransaction_InvalidEnvelope(t *testing.T) {
	p := testParser(t)

	_, err := p.DecodeSolanaTransaction([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestDecodeSolanaMessage(t *testing.T) {
	p := testParser(t)

	payload, err := p.DecodeSolanaMessage(transferMessage(t, 42).Marshal())
	require.NoError(t, err)
	require.NoError(t, payload.Validate())
	assert.Equal(t, PayloadKindSolanaMessage, payload.PayloadKind)
}

func TestDecodeSolanaMessage_UnknownProgram(t *testing.T) {
	p := testParser(t)

	m := transferMessage(t, 42)
	m.Accounts[2] = bytes.Repeat([]byte{0xee}, ed25519.PublicKeySize)

	payload, err := p.DecodeSolanaMessage(m.Marshal())
	require.NoError(t, err)
	require.NoError(t, payload.Validate())

	require.Len(t, payload.Fields, 1)
	assert.Equal(t, "Instruction 1: Unknown Instruction", payload.Fields[0].Label)
}

func TestDecodeSolanaInstruction_CorruptedRecognizedProgram(t *testing.T) {
	p := testParser(t)

	// A valid swig discriminator followed by garbage: both structured tiers
	// reject it, and the terminal tier renders the input as a hex dump.
	data := []byte{0x00, 0x00, 0xde, 0xad}

	payload, err := p.DecodeSolanaInstruction(swig.ProgramAddress, data, nil)
	require.NoError(t, err)
	require.NoError(t, payload.Validate())

	assert.Equal(t, "Unknown Instruction", payload.Title)
	require.Len(t, payload.Fields, 1)
	assert.Equal(t, vsign.FieldRaw, payload.Fields[0].Kind)
	assert.Equal(t, "0000dead", payload.Fields[0].FallbackText)
}

func TestDecodeSolanaInstruction_UnknownSwigKind(t *testing.T) {
	p := testParser(t)

	// Discriminator 8 is unassigned: the family decoder reports it as an
	// unknown kind instead of failing.
	payload, err := p.DecodeSolanaInstruction(swig.ProgramAddress, []byte{0x08, 0x00, 0xaa}, nil)
	require.NoError(t, err)
	require.NoError(t, payload.Validate())
	assert.Equal(t, "Unknown", payload.Title)
	assert.Equal(t, "Swig: Unknown instruction (8)", payload.Subtitle)
}

func TestDecodeSolanaInstruction_RandomData(t *testing.T) {
	p := testParser(t)
	rng := rand.New(rand.NewSource(1))

	programs := []string{
		swig.ProgramAddress,
		system.ProgramAddress,
		token.ProgramAddress,
		computebudget.ProgramAddress,
		solana.JupiterV6ProgramAddress,
		"unregistered-program",
	}

	for i := 0; i < 100; i++ {
		data := make([]byte, rng.Intn(64))
		rng.Read(data)
		accounts := testAccounts(rng.Intn(4))
		program := programs[rng.Intn(len(programs))]

		payload, err := p.DecodeSolanaInstruction(program, data, accounts)
		require.NoError(t, err, "case %d program %s data %x", i, program, data)
		require.NoError(t, payload.Validate(), "case %d program %s data %x", i, program, data)
	}
}

func TestDecodeEthereumTransaction(t *testing.T) {
	p := testParser(t)

	raw, err := (&ethereum.PartialTransaction{}).Encode()
	require.NoError(t, err)

	payload, err := p.DecodeEthereumTransaction(raw)
	require.NoError(t, err)
	require.NoError(t, payload.Validate())
	assert.Equal(t, PayloadKindEthereumPartialTx, payload.PayloadKind)
}

func TestDecodeEthereumTransaction_WithCalldata(t *testing.T) {
	p := testParser(t)

	calldata := append([]byte{}, ethereum.TransferSelector[:]...)
	word := make([]byte, 32)
	word[31] = 0x42
	calldata = append(calldata, word...) // recipient
	calldata = append(calldata, word...) // amount

	tx := &ethereum.PartialTransaction{Data: calldata}
	raw, err := tx.Encode()
	require.NoError(t, err)

	payload, err := p.DecodeEthereumTransaction(raw)
	require.NoError(t, err)
	require.NoError(t, payload.Validate())

	last := payload.Fields[len(payload.Fields)-1]
	assert.Equal(t, "Contract Call", last.Label)
	assert.NotEmpty(t, last.Children)
}

func TestDecodeEthereumTransaction_InvalidEnvelope(t *testing.T) {
	p := testParser(t)

	_, err := p.DecodeEthereumTransaction([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestDecodeEthereumCalldata_UnknownSelector(t *testing.T) {
	p := testParser(t)

	payload, err := p.DecodeEthereumCalldata([]byte{0xde, 0xad, 0xbe, 0xef, 0x01})
	require.NoError(t, err)
	require.NoError(t, payload.Validate())
}

func TestDecode_OversizedPayload(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPayloadSize = 16
	p, err := New(cfg)
	require.NoError(t, err)

	_, err = p.DecodeSolanaTransaction(make([]byte, 17))
	assert.Error(t, err)

	_, err = p.DecodeEthereumTransaction(make([]byte, 17))
	assert.Error(t, err)
}

func TestDecode_DisabledNetwork(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnabledNetworks = []string{string(registry.NetworkSolana)}
	p, err := New(cfg)
	require.NoError(t, err)

	_, err = p.DecodeEthereumCalldata([]byte{0x01})
	assert.Error(t, err)

	_, err = p.DecodeSolanaInstruction(system.ProgramAddress, systemTransferData(1), testAccounts(2))
	assert.NoError(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPayloadSize = 0
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.EnabledNetworks = []string{"bitcoin"}
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.LogLevel = "verbose"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*1024, cfg.MaxPayloadSize)
	assert.True(t, cfg.NetworkEnabled(registry.NetworkSolana))
	assert.True(t, cfg.NetworkEnabled(registry.NetworkEthereum))
}

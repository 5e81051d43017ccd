// Package parser is the integration layer over the pure decoders: it owns
// configuration, populates the decoder registry at startup, and runs the
// fallback pipeline that turns raw signing requests into SignablePayload
// trees.
//
// Decoding runs through three tiers. The primary tier dispatches on the
// derived discriminator through the frozen registry. If the registered
// decoder rejects the bytes, the secondary tier retries with the program
// family's loose decoder, which tolerates unknown discriminators. If that
// fails too, the terminal tier renders the bytes as a hex dump; it cannot
// fail. The only error a caller ever sees is an input that is not even a
// structurally valid envelope, or one rejected by the size guard.
package parser

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/ethereum"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/registry"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/selector"
)

// Payload kinds emitted by the Decode entry points.
const (
	PayloadKindSolanaTransaction = "solana-transaction"
	PayloadKindSolanaMessage     = "solana-message"
	PayloadKindSolanaInstruction = "solana-instruction"
	PayloadKindEthereumPartialTx = "ethereum-partial-transaction"
	PayloadKindEthereumCalldata  = "ethereum-calldata"
)

// Parser decodes raw signing requests into SignablePayload trees. A Parser is
// immutable after construction and safe for concurrent use.
type Parser struct {
	config   Config
	registry *registry.Registry
	log      *logrus.Entry
}

// New builds a Parser: the registry is populated and frozen here, before any
// decode call can observe it.
func New(config Config) (*Parser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", config.LogLevel)
	}

	r, err := BuildRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "building decoder registry")
	}

	return &Parser{
		config:   config,
		registry: r,
		log:      logrus.StandardLogger().WithField("type", "parser"),
	}, nil
}

// MustNew is New for static configurations known to be valid.
func MustNew(config Config) *Parser {
	p, err := New(config)
	if err != nil {
		panic(err)
	}
	return p
}

// DecodeSolanaTransaction decodes a full wire-format transaction (signature
// list plus message) into a signable payload. The error cases are an
// oversized input, a disabled network, and bytes that do not form a
// structurally valid transaction envelope; individual instructions that fail
// to decode degrade to hex-dump fields instead of failing the call.
func (p *Parser) DecodeSolanaTransaction(raw []byte) (*vsign.SignablePayload, error) {
	log := p.methodLogger("DecodeSolanaTransaction")

	if err := p.checkInput(registry.NetworkSolana, raw); err != nil {
		return nil, err
	}

	tx, err := solana.UnmarshalTransaction(raw)
	if err != nil {
		log.WithError(err).Info("transaction envelope rejected")
		return nil, errors.Wrap(err, "invalid transaction envelope")
	}

	payload := p.solanaMessagePayload(log, tx.Message, PayloadKindSolanaTransaction)
	payload.Subtitle = fmt.Sprintf("%d signature(s), %d instruction(s)", len(tx.Signatures), len(tx.Message.Instructions))
	return payload, nil
}

// DecodeSolanaMessage decodes a bare wire-format message (no signature list).
func (p *Parser) DecodeSolanaMessage(raw []byte) (*vsign.SignablePayload, error) {
	log := p.methodLogger("DecodeSolanaMessage")

	if err := p.checkInput(registry.NetworkSolana, raw); err != nil {
		return nil, err
	}

	message, err := solana.UnmarshalMessage(raw)
	if err != nil {
		log.WithError(err).Info("message envelope rejected")
		return nil, errors.Wrap(err, "invalid message envelope")
	}

	return p.solanaMessagePayload(log, message, PayloadKindSolanaMessage), nil
}

// DecodeSolanaInstruction decodes a single already-extracted instruction.
// Decode failures never surface: unrecognized or corrupted data degrades to a
// hex-dump payload.
func (p *Parser) DecodeSolanaInstruction(program string, data []byte, accounts []vsign.AccountRef) (*vsign.SignablePayload, error) {
	log := p.methodLogger("DecodeSolanaInstruction")

	if err := p.checkInput(registry.NetworkSolana, data); err != nil {
		return nil, err
	}

	decoded := p.decodeInstruction(log, registry.NetworkSolana, program, data, accounts)
	return &vsign.SignablePayload{
		Title:       decoded.Name(),
		Subtitle:    decoded.Summary(),
		Fields:      decoded.Fields(),
		PayloadKind: PayloadKindSolanaInstruction,
	}, nil
}

// DecodeEthereumTransaction decodes the RLP partial-transaction envelope. If
// the transaction carries calldata, the calldata is additionally decoded
// through the registry and appended as a contract-call group; calldata decode
// failures degrade within that group rather than failing the call.
func (p *Parser) DecodeEthereumTransaction(raw []byte) (*vsign.SignablePayload, error) {
	log := p.methodLogger("DecodeEthereumTransaction")

	if err := p.checkInput(registry.NetworkEthereum, raw); err != nil {
		return nil, err
	}

	tx, err := ethereum.DecodePartialTransaction(raw)
	if err != nil {
		log.WithError(err).Info("partial transaction envelope rejected")
		return nil, errors.Wrap(err, "invalid partial transaction envelope")
	}

	payload := &vsign.SignablePayload{
		Title:       tx.Name(),
		Subtitle:    tx.Summary(),
		Fields:      tx.Fields(),
		PayloadKind: PayloadKindEthereumPartialTx,
	}

	if len(tx.Data) > 0 {
		call := p.decodeInstruction(log, registry.NetworkEthereum, Erc20ContractIdentity, tx.Data, nil)
		payload.Fields = append(payload.Fields, vsign.NewGroupField("Contract Call", call.Fields()...))
	}

	return payload, nil
}

// DecodeEthereumCalldata decodes bare contract calldata. Unrecognized
// selectors and malformed argument blocks degrade to a hex-dump payload.
func (p *Parser) DecodeEthereumCalldata(data []byte) (*vsign.SignablePayload, error) {
	log := p.methodLogger("DecodeEthereumCalldata")

	if err := p.checkInput(registry.NetworkEthereum, data); err != nil {
		return nil, err
	}

	decoded := p.decodeInstruction(log, registry.NetworkEthereum, Erc20ContractIdentity, data, nil)
	return &vsign.SignablePayload{
		Title:       decoded.Name(),
		Subtitle:    decoded.Summary(),
		Fields:      decoded.Fields(),
		PayloadKind: PayloadKindEthereumCalldata,
	}, nil
}

func (p *Parser) solanaMessagePayload(log *logrus.Entry, message solana.Message, kind string) *vsign.SignablePayload {
	instructions := message.ResolveInstructions()

	fields := make([]vsign.Field, 0, len(instructions))
	for i, instruction := range instructions {
		program := instruction.Program.Display()
		decoded := p.decodeInstruction(log, registry.NetworkSolana, instruction.Program.Address, instruction.Data, instruction.Accounts)
		fields = append(fields, vsign.NewGroupField(
			fmt.Sprintf("Instruction %d: %s", i+1, decoded.Name()),
			append([]vsign.Field{vsign.NewAddressField("Program", program)}, decoded.Fields()...)...,
		))
	}

	return &vsign.SignablePayload{
		Title:       "Solana Transaction",
		Fields:      fields,
		PayloadKind: kind,
	}
}

// decodeInstruction runs the three-tier pipeline for one instruction. It
// always returns a usable DecodedInstruction; the terminal tier cannot fail.
func (p *Parser) decodeInstruction(log *logrus.Entry, network registry.Network, program string, data []byte, accounts []vsign.AccountRef) vsign.DecodedInstruction {
	if decoded, ok := p.primaryDecode(log, network, program, data, accounts); ok {
		return decoded
	}
	if decoded, ok := p.secondaryDecode(log, network, program, data, accounts); ok {
		return decoded
	}
	return &rawInstruction{Program: program, Data: data}
}

func (p *Parser) primaryDecode(log *logrus.Entry, network registry.Network, program string, data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, bool) {
	width, ok := discriminatorWidths[network][program]
	if !ok {
		return nil, false
	}

	disc, err := selector.LeadingBytes(data, width)
	if err != nil {
		log.WithError(err).Debug("discriminator derivation failed")
		return nil, false
	}

	decoder, ok := p.registry.Lookup(registry.Key{
		Network:       network,
		Program:       program,
		Discriminator: registry.DiscriminatorKey(disc),
	})
	if !ok {
		return nil, false
	}

	decoded, err := decoder(data, accounts)
	if err != nil {
		log.WithError(err).WithField("program", program).Debug("primary decode failed")
		return nil, false
	}
	return decoded, true
}

func (p *Parser) secondaryDecode(log *logrus.Entry, network registry.Network, program string, data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, bool) {
	family, ok := familyDecoders[network][program]
	if !ok {
		return nil, false
	}

	decoded, err := family(data, accounts)
	if err != nil {
		log.WithError(err).WithField("program", program).Debug("secondary decode failed")
		return nil, false
	}
	return decoded, true
}

func (p *Parser) checkInput(network registry.Network, data []byte) error {
	if !p.config.NetworkEnabled(network) {
		return errors.Errorf("network %s is disabled", network)
	}
	if len(data) > p.config.MaxPayloadSize {
		return errors.Errorf("payload size %d exceeds limit %d", len(data), p.config.MaxPayloadSize)
	}
	return nil
}

func (p *Parser) methodLogger(method string) *logrus.Entry {
	return p.log.WithFields(logrus.Fields{
		"method":   method,
		"trace_id": uuid.NewString(),
	})
}

// rawInstruction is the terminal fallback: a hex dump of bytes nothing
// managed to decode. Its sole field always validates.
type rawInstruction struct {
	Program string
	Data    []byte
}

func (r *rawInstruction) Name() string {
	return "Unknown Instruction"
}

func (r *rawInstruction) Summary() string {
	return fmt.Sprintf("Unrecognized instruction (%d bytes)", len(r.Data))
}

func (r *rawInstruction) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewRawDataField("Raw Data", r.Data),
	}
}

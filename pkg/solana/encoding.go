package solana

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// MessageVersion distinguishes the legacy wire layout from versioned
// messages introduced with address lookup tables.
type MessageVersion uint8

const (
	MessageVersionLegacy MessageVersion = iota
	MessageVersion0
)

const versionPrefixMask = 0x80

// BlockhashSize is the byte length of a recent blockhash.
const BlockhashSize = 32

// Header carries the signer/writability counts that determine account
// permissions by table position.
type Header struct {
	NumSignatures       byte
	NumReadonlySigned   byte
	NumReadonlyUnsigned byte
}

// LookupTable references an address lookup table account and the entries
// a v0 message loads from it. The loaded addresses are not part of the
// message; decoders must treat their indices as unresolved.
type LookupTable struct {
	Account         ed25519.PublicKey
	WritableIndexes []byte
	ReadonlyIndexes []byte
}

// Message is the signable portion of a transaction.
type Message struct {
	Version         MessageVersion
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash [BlockhashSize]byte
	Instructions    []CompiledInstruction
	LookupTables    []LookupTable
}

// Transaction pairs signatures with the message they sign.
type Transaction struct {
	Signatures [][ed25519.SignatureSize]byte
	Message    Message
}

// UnmarshalMessage decodes a wire-format message, detecting the version
// from the leading byte.
func UnmarshalMessage(data []byte) (Message, error) {
	var m Message

	if len(data) == 0 {
		return m, errors.Wrap(vsign.ErrTruncated, "empty message")
	}

	c := cursor.New(data)

	if data[0]&versionPrefixMask != 0 {
		prefix, err := c.ReadU8()
		if err != nil {
			return m, err
		}
		version := prefix & ^byte(versionPrefixMask)
		if version != 0 {
			return m, errors.Wrapf(vsign.ErrMalformedLength, "unsupported message version %d", version)
		}
		m.Version = MessageVersion0
	} else {
		m.Version = MessageVersionLegacy
	}

	var err error
	if m.Header.NumSignatures, err = c.ReadU8(); err != nil {
		return m, errors.Wrap(err, "required signatures")
	}
	if m.Header.NumReadonlySigned, err = c.ReadU8(); err != nil {
		return m, errors.Wrap(err, "readonly signed accounts")
	}
	if m.Header.NumReadonlyUnsigned, err = c.ReadU8(); err != nil {
		return m, errors.Wrap(err, "readonly unsigned accounts")
	}

	accountCount, err := c.ReadCompactLen()
	if err != nil {
		return m, errors.Wrap(err, "account table length")
	}
	if int(m.Header.NumSignatures) > accountCount {
		return m, errors.Wrap(vsign.ErrMalformedLength, "more signers than accounts")
	}
	// Validate declared counts against the bytes actually present before
	// allocating; a hostile 3-byte compact length must not buy a large
	// allocation from a tiny payload.
	if accountCount*ed25519.PublicKeySize > c.Remaining() {
		return m, errors.Wrapf(vsign.ErrTruncated, "account table declares %d keys, %d bytes remain", accountCount, c.Remaining())
	}
	m.Accounts = make([]ed25519.PublicKey, accountCount)
	for i := 0; i < accountCount; i++ {
		key, err := c.ReadFixed(ed25519.PublicKeySize)
		if err != nil {
			return m, errors.Wrapf(err, "account key %d", i)
		}
		m.Accounts[i] = key
	}

	blockhash, err := c.ReadFixed(BlockhashSize)
	if err != nil {
		return m, errors.Wrap(err, "recent blockhash")
	}
	copy(m.RecentBlockhash[:], blockhash)

	instructionCount, err := c.ReadCompactLen()
	if err != nil {
		return m, errors.Wrap(err, "instruction list length")
	}
	// Each instruction occupies at least 3 bytes on the wire: a program
	// index and two compact lengths.
	if instructionCount*3 > c.Remaining() {
		return m, errors.Wrapf(vsign.ErrTruncated, "instruction list declares %d entries, %d bytes remain", instructionCount, c.Remaining())
	}
	m.Instructions = make([]CompiledInstruction, instructionCount)
	for i := 0; i < instructionCount; i++ {
		instruction, err := unmarshalCompiledInstruction(c)
		if err != nil {
			return m, errors.Wrapf(err, "instruction %d", i)
		}
		m.Instructions[i] = instruction
	}

	if m.Version == MessageVersion0 {
		tableCount, err := c.ReadCompactLen()
		if err != nil {
			return m, errors.Wrap(err, "lookup table list length")
		}
		// A lookup table is at least a 32-byte account plus two compact
		// lengths.
		if tableCount*(ed25519.PublicKeySize+2) > c.Remaining() {
			return m, errors.Wrapf(vsign.ErrTruncated, "lookup table list declares %d entries, %d bytes remain", tableCount, c.Remaining())
		}
		m.LookupTables = make([]LookupTable, tableCount)
		for i := 0; i < tableCount; i++ {
			table, err := unmarshalLookupTable(c)
			if err != nil {
				return m, errors.Wrapf(err, "lookup table %d", i)
			}
			m.LookupTables[i] = table
		}
	}

	if !c.Done() {
		return m, errors.Wrapf(vsign.ErrMalformedLength, "%d trailing bytes after message", c.Remaining())
	}
	return m, nil
}

func unmarshalCompiledInstruction(c *cursor.Cursor) (CompiledInstruction, error) {
	var instruction CompiledInstruction

	programIndex, err := c.ReadU8()
	if err != nil {
		return instruction, errors.Wrap(err, "program index")
	}
	instruction.ProgramIndex = programIndex

	accountCount, err := c.ReadCompactLen()
	if err != nil {
		return instruction, errors.Wrap(err, "account index list length")
	}
	if instruction.Accounts, err = c.ReadFixed(accountCount); err != nil {
		return instruction, errors.Wrap(err, "account indexes")
	}

	dataLen, err := c.ReadCompactLen()
	if err != nil {
		return instruction, errors.Wrap(err, "instruction data length")
	}
	if instruction.Data, err = c.ReadFixed(dataLen); err != nil {
		return instruction, errors.Wrap(err, "instruction data")
	}

	return instruction, nil
}

func unmarshalLookupTable(c *cursor.Cursor) (LookupTable, error) {
	var table LookupTable

	account, err := c.ReadFixed(ed25519.PublicKeySize)
	if err != nil {
		return table, errors.Wrap(err, "lookup table account")
	}
	table.Account = account

	writableCount, err := c.ReadCompactLen()
	if err != nil {
		return table, errors.Wrap(err, "writable index list length")
	}
	if table.WritableIndexes, err = c.ReadFixed(writableCount); err != nil {
		return table, errors.Wrap(err, "writable indexes")
	}

	readonlyCount, err := c.ReadCompactLen()
	if err != nil {
		return table, errors.Wrap(err, "readonly index list length")
	}
	if table.ReadonlyIndexes, err = c.ReadFixed(readonlyCount); err != nil {
		return table, errors.Wrap(err, "readonly indexes")
	}

	return table, nil
}

// Marshal renders the message back into its wire format. Unmarshal and
// Marshal are inverses for any message Unmarshal accepts.
func (m Message) Marshal() []byte {
	var b []byte

	if m.Version == MessageVersion0 {
		b = append(b, versionPrefixMask)
	}

	b = append(b, m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadonlyUnsigned)

	b = cursor.AppendCompactLen(b, len(m.Accounts))
	for _, key := range m.Accounts {
		b = append(b, key...)
	}

	b = append(b, m.RecentBlockhash[:]...)

	b = cursor.AppendCompactLen(b, len(m.Instructions))
	for _, instruction := range m.Instructions {
		b = append(b, instruction.ProgramIndex)
		b = cursor.AppendCompactLen(b, len(instruction.Accounts))
		b = append(b, instruction.Accounts...)
		b = cursor.AppendCompactLen(b, len(instruction.Data))
		b = append(b, instruction.Data...)
	}

	if m.Version == MessageVersion0 {
		b = cursor.AppendCompactLen(b, len(m.LookupTables))
		for _, table := range m.LookupTables {
			b = append(b, table.Account...)
			b = cursor.AppendCompactLen(b, len(table.WritableIndexes))
			b = append(b, table.WritableIndexes...)
			b = cursor.AppendCompactLen(b, len(table.ReadonlyIndexes))
			b = append(b, table.ReadonlyIndexes...)
		}
	}

	return b
}

// UnmarshalTransaction decodes a full signed (or partially signed)
// transaction: a compact signature list followed by the message.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	var tx Transaction

	c := cursor.New(data)
	signatureCount, err := c.ReadCompactLen()
	if err != nil {
		return tx, errors.Wrap(err, "signature list length")
	}
	if signatureCount*ed25519.SignatureSize > c.Remaining() {
		return tx, errors.Wrapf(vsign.ErrTruncated, "signature list declares %d entries, %d bytes remain", signatureCount, c.Remaining())
	}
	tx.Signatures = make([][ed25519.SignatureSize]byte, signatureCount)
	for i := 0; i < signatureCount; i++ {
		sig, err := c.ReadFixed(ed25519.SignatureSize)
		if err != nil {
			return tx, errors.Wrapf(err, "signature %d", i)
		}
		copy(tx.Signatures[i][:], sig)
	}

	message, err := UnmarshalMessage(c.Rest())
	if err != nil {
		return tx, err
	}
	tx.Message = message

	return tx, nil
}

// Marshal renders the transaction into its wire format.
func (tx Transaction) Marshal() []byte {
	b := cursor.AppendCompactLen(nil, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		b = append(b, sig[:]...)
	}
	return append(b, tx.Message.Marshal()...)
}

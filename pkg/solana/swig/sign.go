package swig

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/computebudget"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/system"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/token"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

const (
	signHeaderLen           = 8
	subAccountSignHeaderLen = 16
)

// InnerInstruction is one instruction wrapped inside a Sign payload. The
// wrapped indices point into the outer Swig instruction's account list; an
// index past that list stays unresolved.
type InnerInstruction struct {
	Program  vsign.AccountRef
	Accounts []vsign.AccountRef
	Data     []byte
	// Summary is a one-line description of the wrapped instruction,
	// decoded when the program is recognized, a byte-count line otherwise.
	Summary string
}

// Sign executes a list of wrapped instructions under a wallet role. It
// covers the SignV1, SignV2 and SubAccountSignV1 wire kinds, which differ
// only in header length.
type Sign struct {
	Kind                  InstructionKind
	RoleID                uint32
	InstructionPayloadLen int
	AuthorityPayload      []byte
	InnerInstructions     []InnerInstruction
}

func decompileSign(kind InstructionKind, data []byte, headerLen int, accounts []vsign.AccountRef) (*Sign, error) {
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "sign header")
	}

	c := cursor.New(data)
	_, _ = c.ReadU16()

	payloadLen, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	roleID, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := c.Skip(headerLen - c.Offset()); err != nil {
		return nil, err
	}

	payload, err := c.ReadFixed(int(payloadLen))
	if err != nil {
		return nil, errors.Wrap(err, "sign instruction payload")
	}

	inner, err := decodeCompactInstructions(payload, accounts)
	if err != nil {
		return nil, err
	}

	return &Sign{
		Kind:                  kind,
		RoleID:                roleID,
		InstructionPayloadLen: int(payloadLen),
		AuthorityPayload:      c.Rest(),
		InnerInstructions:     inner,
	}, nil
}

// decodeCompactInstructions parses Swig's packed inner instruction list: a
// one-byte count, then per instruction a one-byte program index, a one-byte
// account count, that many index bytes, a u16 data length and the data.
func decodeCompactInstructions(payload []byte, accounts []vsign.AccountRef) ([]InnerInstruction, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	c := cursor.New(payload)
	count, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	instructions := make([]InnerInstruction, 0, count)
	for i := 0; i < int(count); i++ {
		programIndex, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "inner instruction %d program index", i)
		}

		accountCount, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "inner instruction %d account count", i)
		}
		indexes, err := c.ReadFixed(int(accountCount))
		if err != nil {
			return nil, errors.Wrapf(err, "inner instruction %d account indexes", i)
		}

		data, err := c.ReadLengthPrefixed(2)
		if err != nil {
			return nil, errors.Wrapf(err, "inner instruction %d data", i)
		}

		inner := InnerInstruction{
			Program:  resolveRef(accounts, int(programIndex)),
			Accounts: make([]vsign.AccountRef, len(indexes)),
			Data:     data,
		}
		for j, idx := range indexes {
			inner.Accounts[j] = resolveRef(accounts, int(idx))
		}
		inner.Summary = describeInner(inner.Program, inner.Accounts, data)
		instructions = append(instructions, inner)
	}

	return instructions, nil
}

func resolveRef(accounts []vsign.AccountRef, index int) vsign.AccountRef {
	if index < 0 || index >= len(accounts) {
		return vsign.AccountRef{
			Unresolved:  true,
			LookupIndex: index,
		}
	}
	return accounts[index]
}

// describeInner attempts a nested decode of the wrapped instruction for the
// programs this module understands. An unrecognized or undecodable wrapped
// instruction falls back to a program-and-byte-count line; the raw bytes are
// rendered separately, so this never fails.
func describeInner(program vsign.AccountRef, accounts []vsign.AccountRef, data []byte) string {
	switch program.Address {
	case solana.TokenProgramAddress:
		if decoded, err := token.Decompile(data, accounts); err == nil {
			return decoded.Summary()
		}
	case solana.SystemProgramAddress:
		if decoded, err := system.Decompile(data, accounts); err == nil {
			return decoded.Summary()
		}
	case solana.ComputeBudgetProgramAddress:
		if decoded, err := computebudget.Decompile(data, accounts); err == nil {
			return decoded.Summary()
		}
	}
	return fmt.Sprintf("Program %s (%d bytes)", program.Display(), len(data))
}

package solana

import (
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// CompiledInstruction is an instruction as it appears on the wire: the
// program and accounts are indices into the message account table.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}

// Instruction is a compiled instruction with its account indices resolved
// against the message's static keys. Indices that point past the static
// table (v0 lookup-table entries) resolve to unresolved refs rather than
// guessed addresses.
type Instruction struct {
	Program  vsign.AccountRef
	Accounts []vsign.AccountRef
	Data     []byte
}

// ResolveAccount maps an account-table index to an AccountRef. Indices
// beyond the static key table are reported as unresolved with their
// lookup position preserved.
func (m *Message) ResolveAccount(index int) vsign.AccountRef {
	if index < 0 || index >= len(m.Accounts) {
		return vsign.AccountRef{
			Unresolved:  true,
			LookupIndex: index,
		}
	}

	key := m.Accounts[index]
	return vsign.AccountRef{
		Address:    Base58(key),
		Raw:        append([]byte(nil), key...),
		IsSigner:   index < int(m.Header.NumSignatures),
		IsWritable: m.isWritable(index),
	}
}

func (m *Message) isWritable(index int) bool {
	numSigners := int(m.Header.NumSignatures)
	numStatic := len(m.Accounts)

	if index < numSigners {
		return index < numSigners-int(m.Header.NumReadonlySigned)
	}
	if index < numStatic {
		return index < numStatic-int(m.Header.NumReadonlyUnsigned)
	}
	return false
}

// ResolveInstruction resolves a compiled instruction's indices into
// addressed account refs.
func (m *Message) ResolveInstruction(compiled CompiledInstruction) Instruction {
	accounts := make([]vsign.AccountRef, len(compiled.Accounts))
	for i, idx := range compiled.Accounts {
		accounts[i] = m.ResolveAccount(int(idx))
	}
	return Instruction{
		Program:  m.ResolveAccount(int(compiled.ProgramIndex)),
		Accounts: accounts,
		Data:     compiled.Data,
	}
}

// ResolveInstructions resolves every compiled instruction in the message.
func (m *Message) ResolveInstructions() []Instruction {
	resolved := make([]Instruction, len(m.Instructions))
	for i, compiled := range m.Instructions {
		resolved[i] = m.ResolveInstruction(compiled)
	}
	return resolved
}

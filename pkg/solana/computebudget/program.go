// Package computebudget decodes ComputeBudget111111111111111111111111111111
// instructions for display.
package computebudget

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// ProgramAddress is the compute budget program.
const ProgramAddress = solana.ComputeBudgetProgramAddress

type Command byte

const (
	CommandRequestUnits Command = iota
	CommandRequestHeapFrame
	CommandSetComputeUnitLimit
	CommandSetComputeUnitPrice
)

// RequestHeapFrame asks for a larger heap, in bytes.
type RequestHeapFrame struct {
	Bytes uint32
}

// SetComputeUnitLimit caps the compute units the transaction may consume.
type SetComputeUnitLimit struct {
	Units uint32
}

// SetComputeUnitPrice sets the priority fee in micro-lamports per compute
// unit.
type SetComputeUnitPrice struct {
	MicroLamports uint64
}

// Decompile decodes a compute budget instruction. The account list is unused
// by this program but accepted for interface uniformity.
func Decompile(data []byte, _ []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	c := cursor.New(data)
	command, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "compute budget command")
	}

	switch Command(command) {
	case CommandRequestHeapFrame:
		bytes, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing bytes")
		}
		return &RequestHeapFrame{Bytes: bytes}, nil

	case CommandSetComputeUnitLimit:
		units, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing bytes")
		}
		return &SetComputeUnitLimit{Units: units}, nil

	case CommandSetComputeUnitPrice:
		price, err := c.ReadU64()
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing bytes")
		}
		return &SetComputeUnitPrice{MicroLamports: price}, nil
	}

	return &Unknown{Command: command, RawData: data}, nil
}

func (args *RequestHeapFrame) Name() string {
	return "Request Heap Frame"
}

func (args *RequestHeapFrame) Summary() string {
	return fmt.Sprintf("Request Heap Frame: %d bytes", args.Bytes)
}

func (args *RequestHeapFrame) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Heap Frame Bytes", uint64(args.Bytes)),
	}
}

func (args *SetComputeUnitLimit) Name() string {
	return "Set Compute Unit Limit"
}

func (args *SetComputeUnitLimit) Summary() string {
	return fmt.Sprintf("Set Compute Unit Limit: %d units", args.Units)
}

func (args *SetComputeUnitLimit) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Compute Unit Limit", uint64(args.Units)),
	}
}

func (args *SetComputeUnitPrice) Name() string {
	return "Set Compute Unit Price"
}

func (args *SetComputeUnitPrice) Summary() string {
	return fmt.Sprintf("Set Compute Unit Price: %d micro-lamports", args.MicroLamports)
}

func (args *SetComputeUnitPrice) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Compute Unit Price (micro-lamports)", args.MicroLamports),
	}
}

// Unknown is a compute budget instruction whose command this decoder does
// not catalogue. It renders honestly rather than failing.
type Unknown struct {
	Command uint8
	RawData []byte
}

func (args *Unknown) Name() string { return "Unknown" }

func (args *Unknown) Summary() string {
	return fmt.Sprintf("Compute Budget: Unknown instruction (%d)", args.Command)
}

func (args *Unknown) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Command", uint64(args.Command)),
		vsign.NewRawDataField("Raw Data (hex)", args.RawData),
	}
}

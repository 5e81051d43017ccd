package vsign

import (
	"github.com/pkg/errors"
)

// FieldKind discriminates the typed value carried by a leaf Field.
type FieldKind uint8

const (
	FieldText FieldKind = iota
	FieldAddress
	FieldNumber
	FieldAmount
	FieldRaw
	FieldGroup
)

func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldAddress:
		return "address"
	case FieldNumber:
		return "number"
	case FieldAmount:
		return "amount"
	case FieldRaw:
		return "raw"
	case FieldGroup:
		return "group"
	}
	return "unknown"
}

// Amount carries a token amount as both the raw on-chain integer and a
// decimal-scaled display string. The display string is produced with integer
// string arithmetic; float conversion of on-chain amounts is never allowed.
type Amount struct {
	Raw      string
	Scaled   string
	Decimals uint8
	Unit     string
}

// Field is one node of the display tree handed to a signer. Leaves carry a
// typed value; groups carry children. Every node carries FallbackText, a
// plain-text rendering synthesized independently of whether the typed value
// decoded, so a renderer that understands nothing else can still show
// something honest for every node.
type Field struct {
	Kind         FieldKind
	Label        string
	FallbackText string

	// Leaf values. Text doubles as the address / number string for those
	// kinds; Amount is set only for FieldAmount; Raw only for FieldRaw.
	Text   string
	Amount *Amount
	Raw    []byte

	Children []Field
}

// Validate checks the blind-signing-prevention invariant on the node and all
// of its children: FallbackText must be non-empty everywhere.
func (f *Field) Validate() error {
	if f.FallbackText == "" {
		return errors.Errorf("field %q has empty fallback text", f.Label)
	}
	for i := range f.Children {
		if err := f.Children[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits the node and all descendants depth-first.
func (f *Field) Walk(visit func(*Field)) {
	visit(f)
	for i := range f.Children {
		f.Children[i].Walk(visit)
	}
}

// SignablePayload is the root of the structured description shown to a signer
// before authorization. Fields are ordered; the caller owns the value after
// return.
type SignablePayload struct {
	Title       string
	Subtitle    string
	Fields      []Field
	PayloadKind string
}

// Validate enforces payload-level invariants: a title, a payload kind, and
// non-empty fallback text on every node of every field tree.
func (p *SignablePayload) Validate() error {
	if p.Title == "" {
		return errors.New("payload title is empty")
	}
	if p.PayloadKind == "" {
		return errors.New("payload kind is empty")
	}
	for i := range p.Fields {
		if err := p.Fields[i].Validate(); err != nil {
			return errors.Wrapf(err, "field %d", i)
		}
	}
	return nil
}

// ValidateCharset rejects payload text outside printable ASCII plus newline.
// Downstream signing devices render on constrained displays; anything
// exotic must have been hex- or base58-encoded by the assembler already.
func (p *SignablePayload) ValidateCharset() error {
	check := func(s string) error {
		for _, r := range s {
			if r == '\n' {
				continue
			}
			if r < 0x20 || r > 0x7e {
				return errors.Errorf("non-printable character %q in payload text", r)
			}
		}
		return nil
	}

	if err := check(p.Title); err != nil {
		return err
	}
	if err := check(p.Subtitle); err != nil {
		return err
	}

	var failed error
	for i := range p.Fields {
		p.Fields[i].Walk(func(f *Field) {
			if failed != nil {
				return
			}
			if err := check(f.Label); err != nil {
				failed = err
				return
			}
			if err := check(f.FallbackText); err != nil {
				failed = err
				return
			}
			failed = check(f.Text)
		})
		if failed != nil {
			return failed
		}
	}
	return nil
}

// DecodedInstruction is implemented by every program family's decoded
// instruction kinds. Implementations are constructible purely from a byte
// slice plus an account list and are consumed immediately by the assembler.
type DecodedInstruction interface {
	// Name is the human name of the instruction kind, e.g. "Add Authority".
	Name() string
	// Summary is a one-line description suitable as a condensed view.
	Summary() string
	// Fields is the expanded display tree for the instruction.
	Fields() []Field
}

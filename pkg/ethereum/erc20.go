package ethereum

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/selector"
)

func mustSelector(sig string) [4]byte {
	sel, err := selector.FromSignature(sig)
	if err != nil {
		panic(err)
	}
	return sel
}

// ERC-20 function selectors, derived from the canonical signatures.
var (
	TransferSelector     = mustSelector("transfer(address,uint256)")
	ApproveSelector      = mustSelector("approve(address,uint256)")
	TransferFromSelector = mustSelector("transferFrom(address,address,uint256)")
	MintSelector         = mustSelector("mint(address,uint256)")
	BurnSelector         = mustSelector("burn(uint256)")
	BalanceOfSelector    = mustSelector("balanceOf(address)")
	AllowanceSelector    = mustSelector("allowance(address,address)")
	NameSelector         = mustSelector("name()")
	SymbolSelector       = mustSelector("symbol()")
	DecimalsSelector     = mustSelector("decimals()")
	TotalSupplySelector  = mustSelector("totalSupply()")
)

// DecodeCalldata decodes ERC-20 calldata into its display form. Calldata
// with an unrecognized selector decodes to UnknownCall; only data too short
// to carry a selector, or argument words that do not match the selector's
// signature, is an error.
func DecodeCalldata(input []byte) (vsign.DecodedInstruction, error) {
	sel, err := selector.LeadingBytes(input, 4)
	if err != nil {
		return nil, err
	}
	args := input[4:]

	switch {
	case bytes.Equal(sel, TransferSelector[:]):
		to, amount, err := decodeAddressAmount(args)
		if err != nil {
			return nil, err
		}
		return &Transfer{To: to, Amount: amount}, nil

	case bytes.Equal(sel, ApproveSelector[:]):
		spender, amount, err := decodeAddressAmount(args)
		if err != nil {
			return nil, err
		}
		return &Approve{Spender: spender, Amount: amount}, nil

	case bytes.Equal(sel, TransferFromSelector[:]):
		c := cursor.New(args)
		from, err := readAddressWord(c)
		if err != nil {
			return nil, err
		}
		to, err := readAddressWord(c)
		if err != nil {
			return nil, err
		}
		amount, err := readUint256Word(c)
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
		}
		return &TransferFrom{From: from, To: to, Amount: amount}, nil

	case bytes.Equal(sel, MintSelector[:]):
		to, amount, err := decodeAddressAmount(args)
		if err != nil {
			return nil, err
		}
		return &Mint{To: to, Amount: amount}, nil

	case bytes.Equal(sel, BurnSelector[:]):
		c := cursor.New(args)
		amount, err := readUint256Word(c)
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
		}
		return &Burn{Amount: amount}, nil

	case bytes.Equal(sel, BalanceOfSelector[:]):
		c := cursor.New(args)
		account, err := readAddressWord(c)
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
		}
		return &Query{Method: "balanceOf", Addresses: map[string]common.Address{"Account": account}}, nil

	case bytes.Equal(sel, AllowanceSelector[:]):
		c := cursor.New(args)
		owner, err := readAddressWord(c)
		if err != nil {
			return nil, err
		}
		spender, err := readAddressWord(c)
		if err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
		}
		return &Query{Method: "allowance", Addresses: map[string]common.Address{"Owner": owner, "Spender": spender}}, nil

	case bytes.Equal(sel, NameSelector[:]),
		bytes.Equal(sel, SymbolSelector[:]),
		bytes.Equal(sel, DecimalsSelector[:]),
		bytes.Equal(sel, TotalSupplySelector[:]):
		if len(args) != 0 {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
		}
		return &Query{Method: queryMethodName(sel)}, nil
	}

	return &UnknownCall{Selector: sel, Args: args}, nil
}

func queryMethodName(sel []byte) string {
	switch {
	case bytes.Equal(sel, NameSelector[:]):
		return "name"
	case bytes.Equal(sel, SymbolSelector[:]):
		return "symbol"
	case bytes.Equal(sel, DecimalsSelector[:]):
		return "decimals"
	}
	return "totalSupply"
}

// decodeAddressAmount reads the shared (address, uint256) argument layout of
// transfer and approve.
func decodeAddressAmount(args []byte) (common.Address, *big.Int, error) {
	c := cursor.New(args)
	address, err := readAddressWord(c)
	if err != nil {
		return common.Address{}, nil, err
	}
	amount, err := readUint256Word(c)
	if err != nil {
		return common.Address{}, nil, err
	}
	if !c.Done() {
		return common.Address{}, nil, errors.Wrap(vsign.ErrMalformedLength, "trailing calldata")
	}
	return address, amount, nil
}

// readAddressWord reads one 32-byte ABI word holding an address in its last
// 20 bytes. The 12 leading pad bytes must be zero.
func readAddressWord(c *cursor.Cursor) (common.Address, error) {
	word, err := c.ReadFixed(32)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "address word")
	}
	for _, b := range word[:12] {
		if b != 0 {
			return common.Address{}, errors.Wrap(vsign.ErrMalformedLength, "address word has non-zero padding")
		}
	}
	return common.BytesToAddress(word[12:]), nil
}

func readUint256Word(c *cursor.Cursor) (*big.Int, error) {
	word, err := c.ReadFixed(32)
	if err != nil {
		return nil, errors.Wrap(err, "uint256 word")
	}
	return new(big.Int).SetBytes(word), nil
}

// Transfer is transfer(address,uint256).
type Transfer struct {
	To     common.Address
	Amount *big.Int
}

func (call *Transfer) Name() string { return "ERC20 Transfer" }

func (call *Transfer) Summary() string {
	return fmt.Sprintf("Transfer %s tokens to %s", call.Amount, call.To.Hex())
}

func (call *Transfer) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Recipient", call.To.Hex()),
		vsign.NewAmountField("Amount", call.Amount, 0, "tokens"),
	}
}

// Approve is approve(address,uint256).
type Approve struct {
	Spender common.Address
	Amount  *big.Int
}

func (call *Approve) Name() string { return "ERC20 Approve" }

func (call *Approve) Summary() string {
	return fmt.Sprintf("Approve %s tokens for spender %s", call.Amount, call.Spender.Hex())
}

func (call *Approve) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Spender", call.Spender.Hex()),
		vsign.NewAmountField("Amount", call.Amount, 0, "tokens"),
	}
}

// TransferFrom is transferFrom(address,address,uint256).
type TransferFrom struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
}

func (call *TransferFrom) Name() string { return "ERC20 Transfer From" }

func (call *TransferFrom) Summary() string {
	return fmt.Sprintf("Transfer %s tokens from %s to %s", call.Amount, call.From.Hex(), call.To.Hex())
}

func (call *TransferFrom) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Sender", call.From.Hex()),
		vsign.NewAddressField("Recipient", call.To.Hex()),
		vsign.NewAmountField("Amount", call.Amount, 0, "tokens"),
	}
}

// Mint is mint(address,uint256).
type Mint struct {
	To     common.Address
	Amount *big.Int
}

func (call *Mint) Name() string { return "ERC20 Mint" }

func (call *Mint) Summary() string {
	return fmt.Sprintf("Mint %s tokens to %s", call.Amount, call.To.Hex())
}

func (call *Mint) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Recipient", call.To.Hex()),
		vsign.NewAmountField("Amount", call.Amount, 0, "tokens"),
	}
}

// Burn is burn(uint256), burning from the caller's own balance.
type Burn struct {
	Amount *big.Int
}

func (call *Burn) Name() string { return "ERC20 Burn" }

func (call *Burn) Summary() string {
	return fmt.Sprintf("Burn %s tokens", call.Amount)
}

func (call *Burn) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAmountField("Amount", call.Amount, 0, "tokens"),
	}
}

// Query covers the read-only ERC-20 methods; signing one moves no funds but
// is still shown honestly.
type Query struct {
	Method    string
	Addresses map[string]common.Address
}

func (call *Query) Name() string { return "ERC20 Query" }

func (call *Query) Summary() string {
	if account, ok := call.Addresses["Account"]; ok {
		return fmt.Sprintf("Query balance of %s", account.Hex())
	}
	return fmt.Sprintf("Query token %s", call.Method)
}

func (call *Query) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewTextField("Method", call.Method),
	}
	for _, label := range []string{"Account", "Owner", "Spender"} {
		if address, ok := call.Addresses[label]; ok {
			fields = append(fields, vsign.NewAddressField(label, address.Hex()))
		}
	}
	return fields
}

// UnknownCall is calldata with a selector this decoder does not recognize.
type UnknownCall struct {
	Selector []byte
	Args     []byte
}

func (call *UnknownCall) Name() string { return "Contract Call" }

func (call *UnknownCall) Summary() string {
	return fmt.Sprintf("Contract call 0x%x (%d argument bytes)", call.Selector, len(call.Args))
}

func (call *UnknownCall) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewTextField("Selector", fmt.Sprintf("0x%x", call.Selector)),
		vsign.NewRawDataField("Calldata", call.Args),
	}
}

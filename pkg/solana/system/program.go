// Package system decodes instructions of the system program
// (11111111111111111111111111111111) for display.
package system

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// ProgramAddress is the system program.
const ProgramAddress = solana.SystemProgramAddress

// Command is the little-endian u32 tag at the front of system instruction
// data.
type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
	CommandCreateAccountWithSeed
	CommandAdvanceNonceAccount
	CommandWithdrawNonceAccount
	CommandInitializeNonceAccount
	CommandAuthorizeNonceAccount
	CommandAllocate
	CommandAllocateWithSeed
	CommandAssignWithSeed
	CommandTransferWithSeed
	CommandUpgradeNonceAccount
)

// Seeds are length-prefixed strings; cap the declared length so a hostile
// prefix cannot force a huge allocation.
const maxSeedLen = 1024

// Decompile decodes a system instruction into its display form.
func Decompile(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	c := cursor.New(data)
	command, err := c.ReadU32()
	if err != nil {
		return nil, errors.Wrap(err, "system command")
	}

	switch Command(command) {
	case CommandCreateAccount:
		args := &CreateAccount{
			Funder:  refAt(accounts, 0),
			Address: refAt(accounts, 1),
		}
		if args.Lamports, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Space, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Owner, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandAssign:
		args := &Assign{Account: refAt(accounts, 0)}
		if args.Owner, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandTransfer:
		args := &Transfer{
			Source:      refAt(accounts, 0),
			Destination: refAt(accounts, 1),
		}
		if args.Lamports, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if !c.Done() {
			return nil, errors.Wrap(vsign.ErrMalformedLength, "trailing bytes after transfer")
		}
		return args, nil

	case CommandCreateAccountWithSeed:
		args := &CreateAccountWithSeed{
			Funder:  refAt(accounts, 0),
			Address: refAt(accounts, 1),
		}
		if args.Base, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		if args.Seed, err = readSeed(c); err != nil {
			return nil, err
		}
		if args.Lamports, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Space, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Owner, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandAdvanceNonceAccount:
		return &AdvanceNonce{Nonce: refAt(accounts, 0)}, nil

	case CommandWithdrawNonceAccount:
		args := &WithdrawNonce{
			Nonce:       refAt(accounts, 0),
			Destination: refAt(accounts, 1),
		}
		if args.Lamports, err = c.ReadU64(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandInitializeNonceAccount:
		args := &InitializeNonce{Nonce: refAt(accounts, 0)}
		if args.Authority, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandAuthorizeNonceAccount:
		args := &AuthorizeNonce{Nonce: refAt(accounts, 0)}
		if args.NewAuthority, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandAllocate:
		args := &Allocate{Account: refAt(accounts, 0)}
		if args.Space, err = c.ReadU64(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandTransferWithSeed:
		args := &TransferWithSeed{
			Source:      refAt(accounts, 0),
			Base:        refAt(accounts, 1),
			Destination: refAt(accounts, 2),
		}
		if args.Lamports, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Seed, err = readSeed(c); err != nil {
			return nil, err
		}
		if args.FromOwner, err = c.ReadKey32(); err != nil {
			return nil, err
		}
		return args, nil
	}

	return &Unknown{Command: command, RawData: data}, nil
}

// readSeed reads a bincode string: a u64 byte length followed by UTF-8
// bytes.
func readSeed(c *cursor.Cursor) (string, error) {
	n, err := c.ReadU64()
	if err != nil {
		return "", err
	}
	if n > maxSeedLen {
		return "", errors.Wrapf(vsign.ErrMalformedLength, "seed length %d", n)
	}
	seed, err := c.ReadFixed(int(n))
	if err != nil {
		return "", err
	}
	return string(seed), nil
}

func refAt(accounts []vsign.AccountRef, index int) vsign.AccountRef {
	if index < 0 || index >= len(accounts) {
		return vsign.AccountRef{Unresolved: true, LookupIndex: index}
	}
	return accounts[index]
}

// CreateAccount funds and allocates a new account owned by a program.
type CreateAccount struct {
	Funder   vsign.AccountRef
	Address  vsign.AccountRef
	Lamports uint64
	Space    uint64
	Owner    [32]byte
}

func (args *CreateAccount) Name() string { return "Create Account" }

func (args *CreateAccount) Summary() string {
	return fmt.Sprintf("Create Account (owner: %s)", solana.Base58(args.Owner[:]))
}

func (args *CreateAccount) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Funder", args.Funder.Display()),
		vsign.NewAddressField("New Account", args.Address.Display()),
		vsign.NewAmountFieldU64("Lamports", args.Lamports, 9, "SOL"),
		vsign.NewNumberField("Space", args.Space),
		vsign.NewAddressField("Owner", solana.Base58(args.Owner[:])),
	}
}

// Assign changes an account's owning program.
type Assign struct {
	Account vsign.AccountRef
	Owner   [32]byte
}

func (args *Assign) Name() string { return "Assign" }

func (args *Assign) Summary() string {
	return fmt.Sprintf("Assign (owner: %s)", solana.Base58(args.Owner[:]))
}

func (args *Assign) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Account", args.Account.Display()),
		vsign.NewAddressField("Owner", solana.Base58(args.Owner[:])),
	}
}

// Transfer moves lamports between accounts.
type Transfer struct {
	Source      vsign.AccountRef
	Destination vsign.AccountRef
	Lamports    uint64
}

func (args *Transfer) Name() string { return "Transfer" }

func (args *Transfer) Summary() string {
	return fmt.Sprintf("From: %s\nTo: %s\nAmount: %d", args.Source.Display(), args.Destination.Display(), args.Lamports)
}

func (args *Transfer) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("From", args.Source.Display()),
		vsign.NewAddressField("To", args.Destination.Display()),
		vsign.NewAmountFieldU64("Amount", args.Lamports, 9, "SOL"),
	}
}

// CreateAccountWithSeed derives and funds an account from a base key and
// seed string.
type CreateAccountWithSeed struct {
	Funder   vsign.AccountRef
	Address  vsign.AccountRef
	Base     [32]byte
	Seed     string
	Lamports uint64
	Space    uint64
	Owner    [32]byte
}

func (args *CreateAccountWithSeed) Name() string { return "Create Account With Seed" }

func (args *CreateAccountWithSeed) Summary() string {
	return fmt.Sprintf("Create Account With Seed (owner: %s)", solana.Base58(args.Owner[:]))
}

func (args *CreateAccountWithSeed) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Funder", args.Funder.Display()),
		vsign.NewAddressField("New Account", args.Address.Display()),
		vsign.NewAddressField("Base", solana.Base58(args.Base[:])),
		vsign.NewTextField("Seed", args.Seed),
		vsign.NewAmountFieldU64("Lamports", args.Lamports, 9, "SOL"),
		vsign.NewNumberField("Space", args.Space),
		vsign.NewAddressField("Owner", solana.Base58(args.Owner[:])),
	}
}

// AdvanceNonce advances a durable nonce account.
type AdvanceNonce struct {
	Nonce vsign.AccountRef
}

func (args *AdvanceNonce) Name() string    { return "Advance Nonce Account" }
func (args *AdvanceNonce) Summary() string { return "Advance Nonce Account" }

func (args *AdvanceNonce) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Nonce Account", args.Nonce.Display()),
	}
}

// WithdrawNonce withdraws lamports from a nonce account.
type WithdrawNonce struct {
	Nonce       vsign.AccountRef
	Destination vsign.AccountRef
	Lamports    uint64
}

func (args *WithdrawNonce) Name() string { return "Withdraw Nonce Account" }

func (args *WithdrawNonce) Summary() string {
	return fmt.Sprintf("Withdraw Nonce Account (%d lamports)", args.Lamports)
}

func (args *WithdrawNonce) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Nonce Account", args.Nonce.Display()),
		vsign.NewAddressField("Destination", args.Destination.Display()),
		vsign.NewAmountFieldU64("Amount", args.Lamports, 9, "SOL"),
	}
}

// InitializeNonce initializes a nonce account with an authority.
type InitializeNonce struct {
	Nonce     vsign.AccountRef
	Authority [32]byte
}

func (args *InitializeNonce) Name() string    { return "Initialize Nonce Account" }
func (args *InitializeNonce) Summary() string { return "Initialize Nonce Account" }

func (args *InitializeNonce) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Nonce Account", args.Nonce.Display()),
		vsign.NewAddressField("Authority", solana.Base58(args.Authority[:])),
	}
}

// AuthorizeNonce changes a nonce account's authority.
type AuthorizeNonce struct {
	Nonce        vsign.AccountRef
	NewAuthority [32]byte
}

func (args *AuthorizeNonce) Name() string    { return "Authorize Nonce Account" }
func (args *AuthorizeNonce) Summary() string { return "Authorize Nonce Account" }

func (args *AuthorizeNonce) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Nonce Account", args.Nonce.Display()),
		vsign.NewAddressField("New Authority", solana.Base58(args.NewAuthority[:])),
	}
}

// Allocate reserves space in an account.
type Allocate struct {
	Account vsign.AccountRef
	Space   uint64
}

func (args *Allocate) Name() string { return "Allocate" }

func (args *Allocate) Summary() string {
	return fmt.Sprintf("Allocate (space: %d)", args.Space)
}

func (args *Allocate) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Account", args.Account.Display()),
		vsign.NewNumberField("Space", args.Space),
	}
}

// TransferWithSeed moves lamports out of a seed-derived account.
type TransferWithSeed struct {
	Source      vsign.AccountRef
	Base        vsign.AccountRef
	Destination vsign.AccountRef
	Lamports    uint64
	Seed        string
	FromOwner   [32]byte
}

func (args *TransferWithSeed) Name() string { return "Transfer With Seed" }

func (args *TransferWithSeed) Summary() string {
	return fmt.Sprintf("Transfer With Seed (from_owner: %s)", solana.Base58(args.FromOwner[:]))
}

func (args *TransferWithSeed) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("From", args.Source.Display()),
		vsign.NewAddressField("Base", args.Base.Display()),
		vsign.NewAddressField("To", args.Destination.Display()),
		vsign.NewAmountFieldU64("Amount", args.Lamports, 9, "SOL"),
		vsign.NewTextField("Seed", args.Seed),
		vsign.NewAddressField("From Owner", solana.Base58(args.FromOwner[:])),
	}
}

// Unknown is a system instruction whose command this decoder does not
// catalogue. It renders honestly rather than failing.
type Unknown struct {
	Command uint32
	RawData []byte
}

func (args *Unknown) Name() string { return "Unknown" }

func (args *Unknown) Summary() string {
	return fmt.Sprintf("System: Unknown instruction (%d)", args.Command)
}

func (args *Unknown) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Command", uint64(args.Command)),
		vsign.NewRawDataField("Raw Data (hex)", args.RawData),
	}
}

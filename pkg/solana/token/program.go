// Package token decodes SPL token program instructions for display.
package token

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// ProgramAddress is the SPL token program.
const ProgramAddress = solana.TokenProgramAddress

// Command is the one-byte tag at the front of token instruction data.
type Command byte

const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	CommandInitializeMultisig
	CommandTransfer
	CommandApprove
	CommandRevoke
	CommandSetAuthority
	CommandMintTo
	CommandBurn
	CommandCloseAccount
	CommandFreezeAccount
	CommandThawAccount
	CommandTransferChecked
	CommandApproveChecked
	CommandMintToChecked
	CommandBurnChecked
	CommandInitializeAccount2
	CommandSyncNative
)

// AuthorityType selects which authority a SetAuthority instruction changes.
type AuthorityType byte

const (
	AuthorityMintTokens AuthorityType = iota
	AuthorityFreezeAccount
	AuthorityAccountOwner
	AuthorityCloseAccount
)

func (t AuthorityType) String() string {
	switch t {
	case AuthorityMintTokens:
		return "MintTokens"
	case AuthorityFreezeAccount:
		return "FreezeAccount"
	case AuthorityAccountOwner:
		return "AccountOwner"
	case AuthorityCloseAccount:
		return "CloseAccount"
	}
	return "Unknown"
}

// Decompile decodes a token instruction into its display form.
func Decompile(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	c := cursor.New(data)
	command, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "token command")
	}

	switch Command(command) {
	case CommandTransfer:
		args := &Transfer{
			Source:      refAt(accounts, 0),
			Destination: refAt(accounts, 1),
			Owner:       refAt(accounts, 2),
		}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandTransferChecked:
		args := &TransferChecked{
			Source:      refAt(accounts, 0),
			Mint:        refAt(accounts, 1),
			Destination: refAt(accounts, 2),
			Owner:       refAt(accounts, 3),
		}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Decimals, err = c.ReadU8(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandApprove:
		args := &Approve{
			Owner:    refAt(accounts, 0),
			Delegate: refAt(accounts, 1),
		}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandApproveChecked:
		args := &ApproveChecked{}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if args.Decimals, err = c.ReadU8(); err != nil {
			return nil, err
		}
		return args, nil

	case CommandSetAuthority:
		args := &SetAuthority{Account: refAt(accounts, 0)}
		authorityType, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		args.AuthorityType = AuthorityType(authorityType)
		hasNew, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		if hasNew != 0 {
			key, err := c.ReadKey32()
			if err != nil {
				return nil, err
			}
			args.NewAuthority = solana.Base58(key[:])
		}
		return args, nil

	case CommandMintTo, CommandMintToChecked:
		args := &MintTo{
			Mint:        refAt(accounts, 0),
			Destination: refAt(accounts, 1),
			Authority:   refAt(accounts, 2),
		}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if Command(command) == CommandMintToChecked {
			decimals, err := c.ReadU8()
			if err != nil {
				return nil, err
			}
			args.Decimals = &decimals
		}
		return args, nil

	case CommandBurn, CommandBurnChecked:
		args := &Burn{
			Source:    refAt(accounts, 0),
			Mint:      refAt(accounts, 1),
			Authority: refAt(accounts, 2),
		}
		if args.Amount, err = c.ReadU64(); err != nil {
			return nil, err
		}
		if Command(command) == CommandBurnChecked {
			decimals, err := c.ReadU8()
			if err != nil {
				return nil, err
			}
			args.Decimals = &decimals
		}
		return args, nil

	case CommandCloseAccount:
		return &CloseAccount{
			Account:     refAt(accounts, 0),
			Destination: refAt(accounts, 1),
			Authority:   refAt(accounts, 2),
		}, nil

	case CommandSyncNative:
		return &SyncNative{Account: refAt(accounts, 0)}, nil
	}

	return &Unknown{Command: command, RawData: data}, nil
}

func refAt(accounts []vsign.AccountRef, index int) vsign.AccountRef {
	if index < 0 || index >= len(accounts) {
		return vsign.AccountRef{Unresolved: true, LookupIndex: index}
	}
	return accounts[index]
}

// Transfer moves tokens between token accounts.
type Transfer struct {
	Source      vsign.AccountRef
	Destination vsign.AccountRef
	Owner       vsign.AccountRef
	Amount      uint64
}

func (args *Transfer) Name() string { return "Token Transfer" }

func (args *Transfer) Summary() string {
	return fmt.Sprintf("From: %s\nTo: %s\nOwner: %s\nAmount: %d",
		args.Source.Display(), args.Destination.Display(), args.Owner.Display(), args.Amount)
}

func (args *Transfer) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("From", args.Source.Display()),
		vsign.NewAddressField("To", args.Destination.Display()),
		vsign.NewAddressField("Owner", args.Owner.Display()),
		vsign.NewNumberField("Amount", args.Amount),
	}
}

// TransferChecked moves tokens with an explicit mint and decimal check.
type TransferChecked struct {
	Source      vsign.AccountRef
	Mint        vsign.AccountRef
	Destination vsign.AccountRef
	Owner       vsign.AccountRef
	Amount      uint64
	Decimals    uint8
}

func (args *TransferChecked) Name() string { return "Token Transfer (Checked)" }

func (args *TransferChecked) Summary() string {
	return fmt.Sprintf("From: %s\nTo: %s\nOwner: %s\nAmount: %d\nMint: %s\nDecimals: %d",
		args.Source.Display(), args.Destination.Display(), args.Owner.Display(),
		args.Amount, args.Mint.Display(), args.Decimals)
}

func (args *TransferChecked) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("From", args.Source.Display()),
		vsign.NewAddressField("To", args.Destination.Display()),
		vsign.NewAddressField("Owner", args.Owner.Display()),
		vsign.NewAddressField("Mint", args.Mint.Display()),
		vsign.NewAmountFieldU64("Amount", args.Amount, args.Decimals, "tokens"),
	}
}

// Approve delegates spending rights over a token account.
type Approve struct {
	Owner    vsign.AccountRef
	Delegate vsign.AccountRef
	Amount   uint64
}

func (args *Approve) Name() string { return "Token Approve" }

func (args *Approve) Summary() string {
	return fmt.Sprintf("Owner: %s\nDelegate: %s\nAmount: %d",
		args.Owner.Display(), args.Delegate.Display(), args.Amount)
}

func (args *Approve) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Owner", args.Owner.Display()),
		vsign.NewAddressField("Delegate", args.Delegate.Display()),
		vsign.NewNumberField("Amount", args.Amount),
	}
}

// ApproveChecked delegates spending rights with a decimal check.
type ApproveChecked struct {
	Amount   uint64
	Decimals uint8
}

func (args *ApproveChecked) Name() string { return "Token Approve (Checked)" }

func (args *ApproveChecked) Summary() string {
	return fmt.Sprintf("SPL Token: approve checked for %d (%d decimals)", args.Amount, args.Decimals)
}

func (args *ApproveChecked) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAmountFieldU64("Amount", args.Amount, args.Decimals, "tokens"),
	}
}

// SetAuthority changes one of a token account's or mint's authorities.
type SetAuthority struct {
	Account       vsign.AccountRef
	AuthorityType AuthorityType
	// NewAuthority is empty when the authority is being removed.
	NewAuthority string
}

func (args *SetAuthority) Name() string { return "Token Set Authority" }

func (args *SetAuthority) Summary() string {
	target := args.NewAuthority
	if target == "" {
		target = "None"
	}
	return fmt.Sprintf("Account: %s\nAuthority Type: %s\nNew Authority: %s",
		args.Account.Display(), args.AuthorityType, target)
}

func (args *SetAuthority) Fields() []vsign.Field {
	target := args.NewAuthority
	if target == "" {
		target = "None"
	}
	return []vsign.Field{
		vsign.NewAddressField("Account", args.Account.Display()),
		vsign.NewTextField("Authority Type", args.AuthorityType.String()),
		vsign.NewTextField("New Authority", target),
	}
}

// MintTo creates new tokens in a destination account. Decimals is set for
// the checked variant.
type MintTo struct {
	Mint        vsign.AccountRef
	Destination vsign.AccountRef
	Authority   vsign.AccountRef
	Amount      uint64
	Decimals    *uint8
}

func (args *MintTo) Name() string { return "Token Mint To" }

func (args *MintTo) Summary() string {
	s := fmt.Sprintf("Mint: %s\nDestination: %s\nAuthority: %s\nAmount: %d",
		args.Mint.Display(), args.Destination.Display(), args.Authority.Display(), args.Amount)
	if args.Decimals != nil {
		s += fmt.Sprintf("\nDecimals: %d", *args.Decimals)
	}
	return s
}

func (args *MintTo) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewAddressField("Mint", args.Mint.Display()),
		vsign.NewAddressField("Destination", args.Destination.Display()),
		vsign.NewAddressField("Authority", args.Authority.Display()),
	}
	if args.Decimals != nil {
		fields = append(fields, vsign.NewAmountFieldU64("Amount", args.Amount, *args.Decimals, "tokens"))
	} else {
		fields = append(fields, vsign.NewNumberField("Amount", args.Amount))
	}
	return fields
}

// Burn destroys tokens from a source account. Decimals is set for the
// checked variant.
type Burn struct {
	Source    vsign.AccountRef
	Mint      vsign.AccountRef
	Authority vsign.AccountRef
	Amount    uint64
	Decimals  *uint8
}

func (args *Burn) Name() string { return "Token Burn" }

func (args *Burn) Summary() string {
	s := fmt.Sprintf("Source: %s\nMint: %s\nAuthority: %s\nAmount: %d",
		args.Source.Display(), args.Mint.Display(), args.Authority.Display(), args.Amount)
	if args.Decimals != nil {
		s += fmt.Sprintf("\nDecimals: %d", *args.Decimals)
	}
	return s
}

func (args *Burn) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewAddressField("Source", args.Source.Display()),
		vsign.NewAddressField("Mint", args.Mint.Display()),
		vsign.NewAddressField("Authority", args.Authority.Display()),
	}
	if args.Decimals != nil {
		fields = append(fields, vsign.NewAmountFieldU64("Amount", args.Amount, *args.Decimals, "tokens"))
	} else {
		fields = append(fields, vsign.NewNumberField("Amount", args.Amount))
	}
	return fields
}

// CloseAccount closes a token account, sending its lamports to a
// destination.
type CloseAccount struct {
	Account     vsign.AccountRef
	Destination vsign.AccountRef
	Authority   vsign.AccountRef
}

func (args *CloseAccount) Name() string { return "Token Close Account" }

func (args *CloseAccount) Summary() string {
	return fmt.Sprintf("Account: %s\nDestination: %s\nAuthority: %s",
		args.Account.Display(), args.Destination.Display(), args.Authority.Display())
}

func (args *CloseAccount) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Account", args.Account.Display()),
		vsign.NewAddressField("Destination", args.Destination.Display()),
		vsign.NewAddressField("Authority", args.Authority.Display()),
	}
}

// SyncNative reconciles a wrapped SOL account's token balance with its
// lamports.
type SyncNative struct {
	Account vsign.AccountRef
}

func (args *SyncNative) Name() string { return "Token Sync Native" }

func (args *SyncNative) Summary() string {
	return fmt.Sprintf("Account: %s\nAction: Sync Native", args.Account.Display())
}

func (args *SyncNative) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewAddressField("Account", args.Account.Display()),
	}
}

// Unknown is a token instruction whose command this decoder does not
// catalogue. It renders honestly rather than failing.
type Unknown struct {
	Command uint8
	RawData []byte
}

func (args *Unknown) Name() string { return "Unknown" }

func (args *Unknown) Summary() string {
	return fmt.Sprintf("SPL Token: Unknown instruction (%d)", args.Command)
}

func (args *Unknown) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Command", uint64(args.Command)),
		vsign.NewRawDataField("Raw Data (hex)", args.RawData),
	}
}

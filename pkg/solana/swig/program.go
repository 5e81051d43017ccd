// Package swig decodes instructions of the Swig smart-wallet program into
// signer-facing display values.
//
// Swig instruction data starts with a little-endian u16 discriminator
// followed by a kind-specific fixed header, then variable-length sections
// (authority material, permission actions, inner instruction payloads) whose
// lengths the header declares. Everything here decodes attacker-influenced
// bytes, so all reads are bounds checked and declared lengths are verified
// against the actual input before use.
package swig

import (
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// ProgramAddress is the Swig wallet program.
const ProgramAddress = solana.SwigProgramAddress

// InstructionKind is the u16 discriminator at the front of Swig instruction
// data.
type InstructionKind uint16

const (
	KindCreateV1                 InstructionKind = 0
	KindAddAuthorityV1           InstructionKind = 1
	KindRemoveAuthorityV1        InstructionKind = 2
	KindUpdateAuthorityV1        InstructionKind = 3
	KindSignV1                   InstructionKind = 4
	KindCreateSessionV1          InstructionKind = 5
	KindCreateSubAccountV1       InstructionKind = 6
	KindWithdrawFromSubAccountV1 InstructionKind = 7
	KindSubAccountSignV1         InstructionKind = 9
	KindToggleSubAccountV1       InstructionKind = 10
	KindSignV2                   InstructionKind = 11
	KindMigrateToWalletAddressV1 InstructionKind = 12
	KindTransferAssetsV1         InstructionKind = 13
)

// Kinds lists every known discriminator, in wire order.
var Kinds = []InstructionKind{
	KindCreateV1,
	KindAddAuthorityV1,
	KindRemoveAuthorityV1,
	KindUpdateAuthorityV1,
	KindSignV1,
	KindCreateSessionV1,
	KindCreateSubAccountV1,
	KindWithdrawFromSubAccountV1,
	KindSubAccountSignV1,
	KindToggleSubAccountV1,
	KindSignV2,
	KindMigrateToWalletAddressV1,
	KindTransferAssetsV1,
}

func (k InstructionKind) String() string {
	switch k {
	case KindCreateV1:
		return "Create Wallet"
	case KindAddAuthorityV1:
		return "Add Authority"
	case KindRemoveAuthorityV1:
		return "Remove Authority"
	case KindUpdateAuthorityV1:
		return "Update Authority"
	case KindSignV1:
		return "Sign Transaction (v1)"
	case KindSignV2:
		return "Sign Transaction (v2)"
	case KindCreateSessionV1:
		return "Create Session"
	case KindCreateSubAccountV1:
		return "Create Sub-Account"
	case KindWithdrawFromSubAccountV1:
		return "Withdraw From Sub-Account"
	case KindSubAccountSignV1:
		return "Sub-Account Sign"
	case KindToggleSubAccountV1:
		return "Toggle Sub-Account"
	case KindMigrateToWalletAddressV1:
		return "Migrate Wallet"
	case KindTransferAssetsV1:
		return "Transfer Assets"
	}
	return "Unknown"
}

// Known reports whether the discriminator maps to a decodable kind.
func (k InstructionKind) Known() bool {
	switch k {
	case KindCreateV1, KindAddAuthorityV1, KindRemoveAuthorityV1,
		KindUpdateAuthorityV1, KindSignV1, KindCreateSessionV1,
		KindCreateSubAccountV1, KindWithdrawFromSubAccountV1,
		KindSubAccountSignV1, KindToggleSubAccountV1, KindSignV2,
		KindMigrateToWalletAddressV1, KindTransferAssetsV1:
		return true
	}
	return false
}

// Decompile decodes any Swig instruction. Unknown discriminators decode into
// an Unknown value rather than failing; truncated or inconsistent data for a
// known kind fails with a vsign decode error.
func Decompile(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	if len(data) < 2 {
		return nil, errors.Wrap(vsign.ErrTruncated, "missing discriminator")
	}

	kind := InstructionKind(uint16(data[0]) | uint16(data[1])<<8)
	if !kind.Known() {
		return &Unknown{Discriminator: uint16(kind), RawData: data}, nil
	}
	return DecompileKind(kind, data, accounts)
}

// DecompileKind decodes instruction data already known to carry the given
// discriminator.
func DecompileKind(kind InstructionKind, data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	switch kind {
	case KindCreateV1:
		return decompileCreate(data)
	case KindAddAuthorityV1:
		return decompileAddAuthority(data)
	case KindRemoveAuthorityV1:
		return decompileRemoveAuthority(data)
	case KindUpdateAuthorityV1:
		return decompileUpdateAuthority(data)
	case KindSignV1:
		return decompileSign(kind, data, signHeaderLen, accounts)
	case KindSignV2:
		return decompileSign(kind, data, signHeaderLen, accounts)
	case KindSubAccountSignV1:
		return decompileSign(kind, data, subAccountSignHeaderLen, accounts)
	case KindCreateSessionV1:
		return decompileCreateSession(data)
	case KindCreateSubAccountV1:
		return decompileCreateSubAccount(data)
	case KindWithdrawFromSubAccountV1:
		return decompileWithdrawFromSubAccount(data)
	case KindToggleSubAccountV1:
		return decompileToggleSubAccount(data)
	case KindMigrateToWalletAddressV1:
		return decompileMigrate(data)
	case KindTransferAssetsV1:
		return decompileTransferAssets(data)
	}
	return nil, errors.Wrapf(vsign.ErrUnsupportedDiscriminator, "swig kind %d", kind)
}

// Create opens a new wallet with an initial authority and its permission
// actions.
type Create struct {
	AuthorityType uint16
	Bump          uint8
	WalletBump    uint8
	WalletID      [32]byte
	AuthorityData []byte
	Actions       []byte
}

func decompileCreate(data []byte) (*Create, error) {
	const headerLen = 40
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "create header")
	}

	c := cursor.New(data)
	_, _ = c.ReadU16() // discriminator
	args := &Create{}

	var err error
	if args.AuthorityType, err = c.ReadU16(); err != nil {
		return nil, err
	}
	authorityDataLen, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if args.Bump, err = c.ReadU8(); err != nil {
		return nil, err
	}
	if args.WalletBump, err = c.ReadU8(); err != nil {
		return nil, err
	}
	if args.WalletID, err = c.ReadKey32(); err != nil {
		return nil, err
	}

	if args.AuthorityData, err = c.ReadFixed(int(authorityDataLen)); err != nil {
		return nil, errors.Wrap(err, "create authority data")
	}
	args.Actions = c.Rest()
	return args, nil
}

// AddAuthority registers a new authority with its permission actions, acting
// under an existing role.
type AddAuthority struct {
	ActingRoleID     uint32
	NewAuthorityType uint16
	NumActions       uint8
	AuthorityData    []byte
	Actions          []byte
	AuthorityPayload []byte
}

func decompileAddAuthority(data []byte) (*AddAuthority, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "add_authority header")
	}

	c := cursor.New(data)
	_, _ = c.ReadU16()
	args := &AddAuthority{}

	authorityDataLen, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	actionsDataLen, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if args.NewAuthorityType, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if args.NumActions, err = c.ReadU8(); err != nil {
		return nil, err
	}
	if err = c.Skip(3); err != nil { // padding to the role id
		return nil, err
	}
	if args.ActingRoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}

	if args.AuthorityData, err = c.ReadFixed(int(authorityDataLen)); err != nil {
		return nil, errors.Wrap(err, "add_authority authority data")
	}
	if args.Actions, err = c.ReadFixed(int(actionsDataLen)); err != nil {
		return nil, errors.Wrap(err, "add_authority actions")
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// RemoveAuthority deletes an authority by role id.
type RemoveAuthority struct {
	ActingRoleID        uint32
	AuthorityToRemoveID uint32
	AuthorityPayload    []byte
}

func decompileRemoveAuthority(data []byte) (*RemoveAuthority, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "remove_authority header")
	}

	c := cursor.New(data)
	_ = c.Skip(8) // discriminator + padding
	args := &RemoveAuthority{}

	var err error
	if args.ActingRoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.AuthorityToRemoveID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// UpdateOp discriminates the operation carried by an UpdateAuthority
// instruction.
type UpdateOp uint8

const (
	UpdateOpReplaceAll UpdateOp = iota
	UpdateOpAddActions
	UpdateOpRemoveActionsByType
	UpdateOpRemoveActionsByIndex
	// UpdateOpLegacy marks payloads from the pre-operation wire format,
	// where the bytes are the raw action blob.
	UpdateOpLegacy UpdateOp = 0xff
)

func (op UpdateOp) String() string {
	switch op {
	case UpdateOpReplaceAll:
		return "Replace actions"
	case UpdateOpAddActions:
		return "Add actions"
	case UpdateOpRemoveActionsByType:
		return "Remove actions by type"
	case UpdateOpRemoveActionsByIndex:
		return "Remove actions by index"
	case UpdateOpLegacy:
		return "Legacy payload"
	}
	return "Unknown operation"
}

// UpdateAuthority modifies the permission actions of an existing authority.
type UpdateAuthority struct {
	ActingRoleID        uint32
	AuthorityToUpdateID uint32
	Op                  UpdateOp
	// OpPayload is the operation's byte payload: an action blob for
	// replace/add/legacy, permission type bytes for remove-by-type.
	OpPayload []byte
	// RemoveIndices is set only for UpdateOpRemoveActionsByIndex.
	RemoveIndices    []uint16
	AuthorityPayload []byte
}

func decompileUpdateAuthority(data []byte) (*UpdateAuthority, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "update_authority header")
	}

	c := cursor.New(data)
	_, _ = c.ReadU16()
	args := &UpdateAuthority{}

	actionsDataLen, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	numActions, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if err = c.Skip(3); err != nil {
		return nil, err
	}
	if args.ActingRoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.AuthorityToUpdateID, err = c.ReadU32(); err != nil {
		return nil, err
	}

	operationBytes, err := c.ReadFixed(int(actionsDataLen))
	if err != nil {
		return nil, errors.Wrap(err, "update_authority operation")
	}
	args.AuthorityPayload = c.Rest()

	if err := args.parseOperation(numActions, operationBytes); err != nil {
		return nil, err
	}
	return args, nil
}

func (args *UpdateAuthority) parseOperation(numActions uint8, operationBytes []byte) error {
	// A non-zero declared action count marks the legacy wire format: the
	// operation bytes are the raw action blob with no leading opcode.
	if numActions != 0 {
		args.Op = UpdateOpLegacy
		args.OpPayload = operationBytes
		return nil
	}

	if len(operationBytes) == 0 {
		return errors.Wrap(vsign.ErrTruncated, "update_authority missing operation byte")
	}

	op := UpdateOp(operationBytes[0])
	payload := operationBytes[1:]
	switch op {
	case UpdateOpReplaceAll, UpdateOpAddActions, UpdateOpRemoveActionsByType:
		args.Op = op
		args.OpPayload = payload
	case UpdateOpRemoveActionsByIndex:
		if len(payload)%2 != 0 {
			return errors.Wrap(vsign.ErrMalformedLength, "remove-by-index payload must be u16 aligned")
		}
		args.Op = op
		args.RemoveIndices = make([]uint16, 0, len(payload)/2)
		for i := 0; i < len(payload); i += 2 {
			args.RemoveIndices = append(args.RemoveIndices, uint16(payload[i])|uint16(payload[i+1])<<8)
		}
	default:
		args.Op = UpdateOpLegacy
		args.OpPayload = operationBytes
	}
	return nil
}

// CreateSession grants a temporary session key under a role.
type CreateSession struct {
	RoleID           uint32
	SessionDuration  uint64
	SessionKey       [32]byte
	AuthorityPayload []byte
}

func decompileCreateSession(data []byte) (*CreateSession, error) {
	const headerLen = 48
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "create_session header")
	}

	c := cursor.New(data)
	_ = c.Skip(4) // discriminator + padding
	args := &CreateSession{}

	var err error
	if args.RoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.SessionDuration, err = c.ReadU64(); err != nil {
		return nil, err
	}
	if args.SessionKey, err = c.ReadKey32(); err != nil {
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// CreateSubAccount derives a sub-account under a role.
type CreateSubAccount struct {
	RoleID           uint32
	SubAccountBump   uint8
	AuthorityPayload []byte
}

func decompileCreateSubAccount(data []byte) (*CreateSubAccount, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "create_sub_account header")
	}

	c := cursor.New(data)
	_ = c.Skip(4)
	args := &CreateSubAccount{}

	var err error
	if args.RoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.SubAccountBump, err = c.ReadU8(); err != nil {
		return nil, err
	}
	if err = c.Skip(7); err != nil { // padding to header end
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// WithdrawFromSubAccount moves lamports out of a sub-account.
type WithdrawFromSubAccount struct {
	RoleID           uint32
	Amount           uint64
	AuthorityPayload []byte
}

func decompileWithdrawFromSubAccount(data []byte) (*WithdrawFromSubAccount, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "withdraw_sub_account header")
	}

	c := cursor.New(data)
	_ = c.Skip(4)
	args := &WithdrawFromSubAccount{}

	var err error
	if args.RoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.Amount, err = c.ReadU64(); err != nil {
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// ToggleSubAccount enables or disables a sub-account role.
type ToggleSubAccount struct {
	TargetRoleID     uint32
	AuthorityRoleID  uint32
	Enabled          bool
	AuthorityPayload []byte
}

func decompileToggleSubAccount(data []byte) (*ToggleSubAccount, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "toggle_sub_account header")
	}

	c := cursor.New(data)
	_, _ = c.ReadU16()
	args := &ToggleSubAccount{}

	enabled, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	args.Enabled = enabled != 0
	if err = c.Skip(5); err != nil {
		return nil, err
	}
	if args.TargetRoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if args.AuthorityRoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// Migrate moves a wallet to the wallet-address account layout.
type Migrate struct {
	WalletBump uint8
}

func decompileMigrate(data []byte) (*Migrate, error) {
	const headerLen = 8
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "migrate header")
	}
	return &Migrate{WalletBump: data[2]}, nil
}

// TransferAssets moves wallet assets during migration.
type TransferAssets struct {
	RoleID           uint32
	AuthorityPayload []byte
}

func decompileTransferAssets(data []byte) (*TransferAssets, error) {
	const headerLen = 8
	if len(data) < headerLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "transfer_assets header")
	}

	c := cursor.New(data)
	_ = c.Skip(4)
	args := &TransferAssets{}

	var err error
	if args.RoleID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	args.AuthorityPayload = c.Rest()
	return args, nil
}

// Unknown carries an unrecognized discriminator and its raw data. It renders
// honestly instead of failing, so new program versions degrade to a hex view.
type Unknown struct {
	Discriminator uint16
	RawData       []byte
}

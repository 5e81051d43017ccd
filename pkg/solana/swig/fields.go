package swig

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

func (args *Create) Name() string {
	return KindCreateV1.String()
}

func (args *Create) Summary() string {
	return fmt.Sprintf("Swig: Create wallet (%s)", AuthorityType(args.AuthorityType))
}

func (args *Create) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewTextField("Authority Type", AuthorityType(args.AuthorityType).String()),
		vsign.NewNumberField("Wallet PDA Bump", uint64(args.Bump)),
		vsign.NewNumberField("Wallet Address Bump", uint64(args.WalletBump)),
		vsign.NewTextField("Wallet ID (hex)", hex.EncodeToString(args.WalletID[:])),
	}
	fields = append(fields, authorityDataFields(AuthorityType(args.AuthorityType), args.AuthorityData)...)
	fields = append(fields, actionFields("Actions", args.Actions)...)
	return fields
}

func (args *AddAuthority) Name() string {
	return KindAddAuthorityV1.String()
}

func (args *AddAuthority) Summary() string {
	return fmt.Sprintf("Swig: Add authority role #%d (%s)", args.ActingRoleID, AuthorityType(args.NewAuthorityType))
}

func (args *AddAuthority) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Acting Role", uint64(args.ActingRoleID)),
		vsign.NewTextField("New Authority Type", AuthorityType(args.NewAuthorityType).String()),
		vsign.NewNumberField("Declared Action Count", uint64(args.NumActions)),
	}
	fields = append(fields, authorityDataFields(AuthorityType(args.NewAuthorityType), args.AuthorityData)...)
	fields = append(fields, actionFields("Actions", args.Actions)...)
	fields = append(fields, authorityPayloadFields(args.AuthorityPayload)...)
	return fields
}

func (args *RemoveAuthority) Name() string {
	return KindRemoveAuthorityV1.String()
}

func (args *RemoveAuthority) Summary() string {
	return fmt.Sprintf("Swig: Remove authority #%d (by role #%d)", args.AuthorityToRemoveID, args.ActingRoleID)
}

func (args *RemoveAuthority) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Acting Role", uint64(args.ActingRoleID)),
		vsign.NewNumberField("Authority To Remove", uint64(args.AuthorityToRemoveID)),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *UpdateAuthority) Name() string {
	return KindUpdateAuthorityV1.String()
}

func (args *UpdateAuthority) Summary() string {
	return fmt.Sprintf("Swig: Update authority #%d (by role #%d)", args.AuthorityToUpdateID, args.ActingRoleID)
}

func (args *UpdateAuthority) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Acting Role", uint64(args.ActingRoleID)),
		vsign.NewNumberField("Authority To Update", uint64(args.AuthorityToUpdateID)),
		vsign.NewTextField("Operation Type", args.Op.String()),
	}

	switch args.Op {
	case UpdateOpReplaceAll:
		fields = append(fields, actionFields("Updated Actions", args.OpPayload)...)
	case UpdateOpAddActions:
		fields = append(fields, actionFields("Actions To Add", args.OpPayload)...)
	case UpdateOpRemoveActionsByType:
		names := "(none)"
		if len(args.OpPayload) > 0 {
			parts := make([]string, len(args.OpPayload))
			for i, value := range args.OpPayload {
				parts[i] = Permission(value).String()
			}
			names = strings.Join(parts, ", ")
		}
		fields = append(fields, vsign.NewTextField("Action Types", names))
		if len(args.OpPayload) > 0 {
			fields = append(fields, vsign.NewTextField("Action Type Bytes (hex)", hex.EncodeToString(args.OpPayload)))
		}
	case UpdateOpRemoveActionsByIndex:
		list := "(none)"
		if len(args.RemoveIndices) > 0 {
			parts := make([]string, len(args.RemoveIndices))
			for i, idx := range args.RemoveIndices {
				parts[i] = fmt.Sprintf("%d", idx)
			}
			list = strings.Join(parts, ", ")
		}
		fields = append(fields, vsign.NewTextField("Action Indices", list))
	default:
		fields = append(fields, actionFields("Legacy Actions", args.OpPayload)...)
	}

	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *Sign) Name() string {
	return args.Kind.String()
}

func (args *Sign) Summary() string {
	count := len(args.InnerInstructions)
	switch args.Kind {
	case KindSignV2:
		return fmt.Sprintf("Swig: Sign v2 (%d inner instruction(s), role #%d)", count, args.RoleID)
	case KindSubAccountSignV1:
		return fmt.Sprintf("Swig: Sub-account sign (%d inner instruction(s), role #%d)", count, args.RoleID)
	}
	return fmt.Sprintf("Swig: Sign v1 (%d inner instruction(s), role #%d)", count, args.RoleID)
}

func (args *Sign) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Role ID", uint64(args.RoleID)),
		vsign.NewTextField("Instruction Payload Length", fmt.Sprintf("%d bytes", args.InstructionPayloadLen)),
		vsign.NewNumberField("Inner Instruction Count", uint64(len(args.InnerInstructions))),
	}

	if len(args.AuthorityPayload) > 0 {
		fields = append(fields, vsign.NewTextField("Authority Payload (hex)", hex.EncodeToString(args.AuthorityPayload)))
		if decoded, err := DecodeAuthorityPayload(args.AuthorityPayload); err == nil {
			fields = append(fields, decoded...)
		}
	}

	for i, inner := range args.InnerInstructions {
		n := i + 1
		fields = append(fields,
			vsign.NewTextField(fmt.Sprintf("Inner Instruction %d Summary", n), inner.Summary),
			vsign.NewTextField(fmt.Sprintf("Inner Instruction %d Program", n), inner.Program.Display()),
		)
		if inner.Program.Unresolved {
			fields = append(fields, vsign.NewTextField(
				fmt.Sprintf("Inner Instruction %d Program Resolution", n),
				"Program account supplied via address lookup table; full details require on-chain lookup",
			))
		}
		fields = append(fields, vsign.NewTextField(
			fmt.Sprintf("Inner Instruction %d Accounts", n),
			formatInnerAccounts(inner.Accounts),
		))
		if unresolved := formatUnresolvedAccounts(inner.Accounts); unresolved != "" {
			fields = append(fields, vsign.NewTextField(
				fmt.Sprintf("Inner Instruction %d Account Resolution", n),
				unresolved,
			))
		}
		if len(inner.Data) > 0 {
			fields = append(fields, vsign.NewTextField(
				fmt.Sprintf("Inner Instruction %d Data (hex)", n),
				hex.EncodeToString(inner.Data),
			))
		}
	}

	return fields
}

func (args *CreateSession) Name() string {
	return KindCreateSessionV1.String()
}

func (args *CreateSession) Summary() string {
	return fmt.Sprintf("Swig: Create session (role #%d)", args.RoleID)
}

func (args *CreateSession) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Role ID", uint64(args.RoleID)),
		vsign.NewTextField("Session Duration", fmt.Sprintf("%d slots", args.SessionDuration)),
		vsign.NewTextField("Session Key (hex)", hex.EncodeToString(args.SessionKey[:])),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *CreateSubAccount) Name() string {
	return KindCreateSubAccountV1.String()
}

func (args *CreateSubAccount) Summary() string {
	return fmt.Sprintf("Swig: Create sub-account (role #%d)", args.RoleID)
}

func (args *CreateSubAccount) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Role ID", uint64(args.RoleID)),
		vsign.NewNumberField("Sub-Account Bump", uint64(args.SubAccountBump)),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *WithdrawFromSubAccount) Name() string {
	return KindWithdrawFromSubAccountV1.String()
}

func (args *WithdrawFromSubAccount) Summary() string {
	return fmt.Sprintf("Swig: Withdraw %d lamports from sub-account (role #%d)", args.Amount, args.RoleID)
}

func (args *WithdrawFromSubAccount) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Role ID", uint64(args.RoleID)),
		vsign.NewAmountFieldU64("Amount", args.Amount, 9, "SOL"),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *ToggleSubAccount) Name() string {
	return KindToggleSubAccountV1.String()
}

func (args *ToggleSubAccount) Summary() string {
	state := "disable"
	if args.Enabled {
		state = "enable"
	}
	return fmt.Sprintf("Swig: %s sub-account role #%d", state, args.TargetRoleID)
}

func (args *ToggleSubAccount) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Target Role", uint64(args.TargetRoleID)),
		vsign.NewNumberField("Authority Role", uint64(args.AuthorityRoleID)),
		vsign.NewTextField("Enabled", fmt.Sprintf("%t", args.Enabled)),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *Migrate) Name() string {
	return KindMigrateToWalletAddressV1.String()
}

func (args *Migrate) Summary() string {
	return "Swig: Migrate wallet"
}

func (args *Migrate) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Wallet Address Bump", uint64(args.WalletBump)),
	}
}

func (args *TransferAssets) Name() string {
	return KindTransferAssetsV1.String()
}

func (args *TransferAssets) Summary() string {
	return fmt.Sprintf("Swig: Transfer assets (role #%d)", args.RoleID)
}

func (args *TransferAssets) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewNumberField("Role ID", uint64(args.RoleID)),
	}
	return append(fields, authorityPayloadFields(args.AuthorityPayload)...)
}

func (args *Unknown) Name() string {
	return "Unknown"
}

func (args *Unknown) Summary() string {
	return fmt.Sprintf("Swig: Unknown instruction (%d)", args.Discriminator)
}

func (args *Unknown) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewNumberField("Discriminator", uint64(args.Discriminator)),
		vsign.NewRawDataField("Raw Data (hex)", args.RawData),
	}
}

// authorityDataFields renders the authority material section shared by
// Create and AddAuthority: a byte length, per-type details when the data
// matches the declared type, and the raw hex.
func authorityDataFields(authorityType AuthorityType, data []byte) []vsign.Field {
	fields := []vsign.Field{
		vsign.NewTextField("Authority Data Length", fmt.Sprintf("%d bytes", len(data))),
	}
	if details, ok := DecodeAuthorityDetails(authorityType, data); ok {
		fields = append(fields, details...)
	}
	if len(data) > 0 {
		fields = append(fields, vsign.NewTextField("Authority Data (hex)", hex.EncodeToString(data)))
	}
	return fields
}

// actionFields renders a permission action blob: a summary line, the decoded
// record descriptions (or an explicit undecodable marker), and the raw hex.
func actionFields(label string, blob []byte) []vsign.Field {
	summary := fmt.Sprintf("%d bytes (~%d action(s))", len(blob), CountActions(blob))
	fields := []vsign.Field{
		vsign.NewTextField("Actions Summary", summary),
	}

	if actions, err := DecodeActions(blob); err == nil {
		lines := make([]string, len(actions))
		for i, action := range actions {
			lines[i] = fmt.Sprintf("Action %d: %s", i+1, action.Description)
		}
		text := "(none)"
		if len(lines) > 0 {
			text = strings.Join(lines, "\n")
		}
		fields = append(fields, vsign.NewTextField(label, text))
	} else {
		fields = append(fields, vsign.NewTextField(label, fmt.Sprintf("%s (unable to decode)", summary)))
	}

	if len(blob) > 0 {
		fields = append(fields, vsign.NewTextField(label+" (hex)", hex.EncodeToString(blob)))
	}
	return fields
}

func authorityPayloadFields(payload []byte) []vsign.Field {
	if len(payload) == 0 {
		return nil
	}
	return []vsign.Field{
		vsign.NewTextField("Authority Payload (hex)", hex.EncodeToString(payload)),
	}
}

func formatInnerAccounts(accounts []vsign.AccountRef) string {
	if len(accounts) == 0 {
		return "(none)"
	}
	lines := make([]string, len(accounts))
	for i, account := range accounts {
		lines[i] = fmt.Sprintf("%d: %s%s", i+1, account.Display(), account.Flags())
	}
	return strings.Join(lines, "\n")
}

func formatUnresolvedAccounts(accounts []vsign.AccountRef) string {
	var lines []string
	for i, account := range accounts {
		if account.Unresolved {
			lines = append(lines, fmt.Sprintf("%d: %s", i+1, account.Display()))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "Unresolved lookup-table accounts:\n" + strings.Join(lines, "\n")
}

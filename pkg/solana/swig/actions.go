package swig

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// Permission is the u16 kind tag of one permission action record.
type Permission uint16

const (
	PermissionSolLimit                       Permission = 1
	PermissionSolRecurringLimit              Permission = 2
	PermissionProgram                        Permission = 3
	PermissionProgramScope                   Permission = 4
	PermissionTokenLimit                     Permission = 5
	PermissionTokenRecurringLimit            Permission = 6
	PermissionAll                            Permission = 7
	PermissionManageAuthority                Permission = 8
	PermissionSubAccount                     Permission = 9
	PermissionTokenDestinationLimit          Permission = 10
	PermissionTokenRecurringDestinationLimit Permission = 11
	PermissionSolDestinationLimit            Permission = 12
	PermissionSolRecurringDestinationLimit   Permission = 13
	PermissionStakeLimit                     Permission = 14
	PermissionStakeRecurringLimit            Permission = 15
	PermissionStakeAll                       Permission = 16
	PermissionProgramAll                     Permission = 17
	PermissionProgramCurated                 Permission = 18
	PermissionAllButManageAuthority          Permission = 19
)

func (p Permission) String() string {
	switch p {
	case PermissionSolLimit:
		return "SolLimit"
	case PermissionSolRecurringLimit:
		return "SolRecurringLimit"
	case PermissionProgram:
		return "Program"
	case PermissionProgramScope:
		return "ProgramScope"
	case PermissionTokenLimit:
		return "TokenLimit"
	case PermissionTokenRecurringLimit:
		return "TokenRecurringLimit"
	case PermissionAll:
		return "All"
	case PermissionManageAuthority:
		return "ManageAuthority"
	case PermissionSubAccount:
		return "SubAccount"
	case PermissionTokenDestinationLimit:
		return "TokenDestinationLimit"
	case PermissionTokenRecurringDestinationLimit:
		return "TokenRecurringDestinationLimit"
	case PermissionSolDestinationLimit:
		return "SolDestinationLimit"
	case PermissionSolRecurringDestinationLimit:
		return "SolRecurringDestinationLimit"
	case PermissionStakeLimit:
		return "StakeLimit"
	case PermissionStakeRecurringLimit:
		return "StakeRecurringLimit"
	case PermissionStakeAll:
		return "StakeAll"
	case PermissionProgramAll:
		return "ProgramAll"
	case PermissionProgramCurated:
		return "ProgramCurated"
	case PermissionAllButManageAuthority:
		return "AllButManageAuthority"
	}
	return "Unknown"
}

// Action is one decoded permission record.
type Action struct {
	Permission  Permission
	Data        []byte
	Description string
}

// DecodeActions parses a packed permission action blob. Each record is an
// 8-byte header (u16 permission kind, u16 payload length, u32 absolute
// offset of the next record) followed by the payload. The declared next
// offset must land exactly at the end of the payload, and the final record
// must end exactly at the end of the blob.
func DecodeActions(b []byte) ([]Action, error) {
	if len(b) == 0 {
		return nil, nil
	}

	c := cursor.New(b)
	var actions []Action
	for !c.Done() {
		start := c.Offset()

		permission, err := c.ReadU16()
		if err != nil {
			return nil, errors.Wrapf(err, "action %d header", len(actions)+1)
		}
		length, err := c.ReadU16()
		if err != nil {
			return nil, errors.Wrapf(err, "action %d header", len(actions)+1)
		}
		boundary, err := c.ReadU32()
		if err != nil {
			return nil, errors.Wrapf(err, "action %d header", len(actions)+1)
		}

		data, err := c.ReadFixed(int(length))
		if err != nil {
			return nil, errors.Wrapf(err, "action %d payload", len(actions)+1)
		}
		if int(boundary) != start+8+int(length) {
			return nil, errors.Wrapf(vsign.ErrMalformedLength,
				"action %d declares next offset %d, payload ends at %d",
				len(actions)+1, boundary, start+8+int(length))
		}

		description, err := describeAction(Permission(permission), data)
		if err != nil {
			return nil, errors.Wrapf(err, "action %d", len(actions)+1)
		}
		actions = append(actions, Action{
			Permission:  Permission(permission),
			Data:        data,
			Description: description,
		})
	}
	return actions, nil
}

// CountActions estimates the record count of an action blob by walking the
// headers only, tolerating undecodable payloads. Used for summary lines.
func CountActions(b []byte) int {
	var count int
	cursor := 0
	for cursor+8 <= len(b) {
		length := int(b[cursor+2]) | int(b[cursor+3])<<8
		total := 8 + length
		if cursor+total > len(b) {
			break
		}
		cursor += total
		count++
	}
	return count
}

func expectActionLen(data []byte, want int) error {
	if len(data) != want {
		return errors.Wrapf(vsign.ErrMalformedLength, "payload %d bytes, want %d", len(data), want)
	}
	return nil
}

func describeAction(permission Permission, data []byte) (string, error) {
	c := cursor.New(data)

	switch permission {
	case PermissionSolLimit:
		if err := expectActionLen(data, 8); err != nil {
			return "", err
		}
		amount, _ := c.ReadU64()
		return fmt.Sprintf("SOL limit: %s", formatLamports(amount)), nil

	case PermissionSolRecurringLimit:
		if err := expectActionLen(data, 32); err != nil {
			return "", err
		}
		amount, _ := c.ReadU64()
		window, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		current, _ := c.ReadU64()
		return fmt.Sprintf(
			"SOL recurring limit: %s per %d slot(s); current %s (last reset %d)",
			formatLamports(amount), window, formatLamports(current), lastReset,
		), nil

	case PermissionProgram:
		if err := expectActionLen(data, 32); err != nil {
			return "", err
		}
		return fmt.Sprintf("Program access: %s", solana.Base58(data)), nil

	case PermissionProgramScope:
		if len(data) < 144 {
			return "", errors.Wrapf(vsign.ErrMalformedLength, "payload %d bytes, want at least 144", len(data))
		}
		currentAmount, _ := c.ReadU128()
		limit, _ := c.ReadU128()
		window, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		program, _ := c.ReadKey32()
		target, _ := c.ReadKey32()
		scopeType, _ := c.ReadU64()
		numericType, _ := c.ReadU64()
		balanceStart, _ := c.ReadU64()
		balanceEnd, _ := c.ReadU64()
		return fmt.Sprintf(
			"Program scope (%s) for program %s target %s; limit %s (current %s), window %d slot(s), last reset %d, numeric %s, balance field bytes %d..%d",
			programScopeTypeName(scopeType), solana.Base58(program[:]), solana.Base58(target[:]),
			limit, currentAmount, window, lastReset,
			numericTypeName(numericType), balanceStart, balanceEnd,
		), nil

	case PermissionTokenLimit:
		if err := expectActionLen(data, 40); err != nil {
			return "", err
		}
		mint, _ := c.ReadKey32()
		amount, _ := c.ReadU64()
		return fmt.Sprintf("Token limit: mint %s remaining %d", solana.Base58(mint[:]), amount), nil

	case PermissionTokenRecurringLimit:
		if err := expectActionLen(data, 64); err != nil {
			return "", err
		}
		mint, _ := c.ReadKey32()
		window, _ := c.ReadU64()
		limit, _ := c.ReadU64()
		current, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		return fmt.Sprintf(
			"Token recurring limit: mint %s limit %d per %d slot(s); current %d (last reset %d)",
			solana.Base58(mint[:]), limit, window, current, lastReset,
		), nil

	case PermissionAll:
		return "All permissions (full access)", nil

	case PermissionManageAuthority:
		return "Manage authority (add/remove/update authorities)", nil

	case PermissionSubAccount:
		if err := expectActionLen(data, 72); err != nil {
			return "", err
		}
		target, _ := c.ReadKey32()
		bump, _ := c.ReadU8()
		enabled, _ := c.ReadU8()
		_ = c.Skip(2)
		roleID, _ := c.ReadU32()
		swigID, _ := c.ReadKey32()
		targetDisplay := "Uninitialized (assigned on creation)"
		if !bytes.Equal(target[:], make([]byte, 32)) {
			targetDisplay = solana.Base58(target[:])
		}
		return fmt.Sprintf(
			"Sub-account permission: target %s, role %d, bump %d, enabled %t, swig id %s",
			targetDisplay, roleID, bump, enabled != 0, solana.Base58(swigID[:]),
		), nil

	case PermissionTokenDestinationLimit:
		if err := expectActionLen(data, 72); err != nil {
			return "", err
		}
		mint, _ := c.ReadKey32()
		destination, _ := c.ReadKey32()
		amount, _ := c.ReadU64()
		return fmt.Sprintf(
			"Token destination limit: mint %s destination %s remaining %d",
			solana.Base58(mint[:]), solana.Base58(destination[:]), amount,
		), nil

	case PermissionTokenRecurringDestinationLimit:
		if err := expectActionLen(data, 96); err != nil {
			return "", err
		}
		mint, _ := c.ReadKey32()
		destination, _ := c.ReadKey32()
		limit, _ := c.ReadU64()
		window, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		current, _ := c.ReadU64()
		return fmt.Sprintf(
			"Token recurring destination limit: mint %s destination %s limit %d per %d slot(s); current %d (last reset %d)",
			solana.Base58(mint[:]), solana.Base58(destination[:]), limit, window, current, lastReset,
		), nil

	case PermissionSolDestinationLimit:
		if err := expectActionLen(data, 40); err != nil {
			return "", err
		}
		destination, _ := c.ReadKey32()
		amount, _ := c.ReadU64()
		return fmt.Sprintf(
			"SOL destination limit: destination %s remaining %s",
			solana.Base58(destination[:]), formatLamports(amount),
		), nil

	case PermissionSolRecurringDestinationLimit:
		if err := expectActionLen(data, 64); err != nil {
			return "", err
		}
		destination, _ := c.ReadKey32()
		limit, _ := c.ReadU64()
		window, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		current, _ := c.ReadU64()
		return fmt.Sprintf(
			"SOL recurring destination limit: destination %s limit %s per %d slot(s); current %s (last reset %d)",
			solana.Base58(destination[:]), formatLamports(limit), window, formatLamports(current), lastReset,
		), nil

	case PermissionStakeLimit:
		if err := expectActionLen(data, 8); err != nil {
			return "", err
		}
		amount, _ := c.ReadU64()
		return fmt.Sprintf("Stake limit: %s", formatLamports(amount)), nil

	case PermissionStakeRecurringLimit:
		if err := expectActionLen(data, 32); err != nil {
			return "", err
		}
		amount, _ := c.ReadU64()
		window, _ := c.ReadU64()
		lastReset, _ := c.ReadU64()
		current, _ := c.ReadU64()
		return fmt.Sprintf(
			"Stake recurring limit: %s per %d slot(s); current %s (last reset %d)",
			formatLamports(amount), window, formatLamports(current), lastReset,
		), nil

	case PermissionStakeAll:
		return "Stake all permissions (unrestricted staking)", nil

	case PermissionProgramAll:
		return "Program access: all programs (unrestricted CPI)", nil

	case PermissionProgramCurated:
		return "Program access: curated set of well-known programs", nil

	case PermissionAllButManageAuthority:
		return "All operations except authority management", nil
	}

	return fmt.Sprintf("Unknown permission %d (%d bytes)", permission, len(data)), nil
}

func programScopeTypeName(value uint64) string {
	switch value {
	case 0:
		return "basic"
	case 1:
		return "fixed limit"
	case 2:
		return "recurring limit"
	}
	return "unknown"
}

func numericTypeName(value uint64) string {
	switch value {
	case 0:
		return "u8"
	case 1:
		return "u32"
	case 2:
		return "u64"
	case 3:
		return "u128"
	}
	return "unknown"
}

// formatLamports renders a lamport amount with its approximate SOL value,
// using string arithmetic only.
func formatLamports(lamports uint64) string {
	return fmt.Sprintf("%d lamports (~%s SOL)", lamports, vsign.ScaleDecimalU64(lamports, 9))
}

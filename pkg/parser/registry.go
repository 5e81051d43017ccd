package parser

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/ethereum"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/computebudget"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/jupiter"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/swig"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/system"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana/token"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/registry"
)

// Erc20ContractIdentity is the program-identity slot for ERC-20 calldata.
// The registry keys on (network, program, discriminator); ethereum calldata
// has no program address known at decode time, so every token contract
// shares one identity and dispatch happens purely on the selector.
const Erc20ContractIdentity = "erc20"

// discriminatorWidths records how many leading bytes of instruction data form
// the dispatch key for each registered program identity.
var discriminatorWidths = map[registry.Network]map[string]int{
	registry.NetworkSolana: {
		swig.ProgramAddress:          2,
		system.ProgramAddress:        4,
		token.ProgramAddress:         1,
		computebudget.ProgramAddress: 1,
		jupiter.ProgramAddress:       8,
	},
	registry.NetworkEthereum: {
		Erc20ContractIdentity: 4,
	},
}

// familyDecoders maps each program identity to its loose whole-family
// decoder: the entry point that tolerates unknown discriminators by
// producing an Unknown value. The orchestrator uses these as the secondary
// decode tier.
var familyDecoders = map[registry.Network]map[string]registry.Decoder{
	registry.NetworkSolana: {
		swig.ProgramAddress:          swig.Decompile,
		system.ProgramAddress:        system.Decompile,
		token.ProgramAddress:         token.Decompile,
		computebudget.ProgramAddress: computebudget.Decompile,
		jupiter.ProgramAddress:       jupiter.Decompile,
	},
	registry.NetworkEthereum: {
		Erc20ContractIdentity: func(data []byte, _ []vsign.AccountRef) (vsign.DecodedInstruction, error) {
			return ethereum.DecodeCalldata(data)
		},
	},
}

// BuildRegistry constructs and freezes the full decoder dispatch table. It is
// called once during Parser construction; duplicate registrations are
// misconfigurations and fail here rather than at decode time.
func BuildRegistry() (*registry.Registry, error) {
	r := registry.New()

	if err := registerSwig(r); err != nil {
		return nil, err
	}
	if err := registerSystem(r); err != nil {
		return nil, err
	}
	if err := registerToken(r); err != nil {
		return nil, err
	}
	if err := registerComputeBudget(r); err != nil {
		return nil, err
	}
	if err := registerJupiter(r); err != nil {
		return nil, err
	}
	if err := registerErc20(r); err != nil {
		return nil, err
	}

	r.Freeze()
	return r, nil
}

func registerSwig(r *registry.Registry) error {
	for _, kind := range swig.Kinds {
		kind := kind

		var disc [2]byte
		binary.LittleEndian.PutUint16(disc[:], uint16(kind))

		key := registry.Key{
			Network:       registry.NetworkSolana,
			Program:       swig.ProgramAddress,
			Discriminator: registry.DiscriminatorKey(disc[:]),
		}
		decoder := func(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
			return swig.DecompileKind(kind, data, accounts)
		}
		if err := r.Register(key, decoder); err != nil {
			return errors.Wrapf(err, "registering swig kind %d", kind)
		}
	}
	return nil
}

func registerSystem(r *registry.Registry) error {
	commands := []system.Command{
		system.CommandCreateAccount,
		system.CommandAssign,
		system.CommandTransfer,
		system.CommandCreateAccountWithSeed,
		system.CommandAdvanceNonceAccount,
		system.CommandWithdrawNonceAccount,
		system.CommandInitializeNonceAccount,
		system.CommandAuthorizeNonceAccount,
		system.CommandAllocate,
		system.CommandTransferWithSeed,
	}
	for _, command := range commands {
		var disc [4]byte
		binary.LittleEndian.PutUint32(disc[:], uint32(command))

		key := registry.Key{
			Network:       registry.NetworkSolana,
			Program:       system.ProgramAddress,
			Discriminator: registry.DiscriminatorKey(disc[:]),
		}
		if err := r.Register(key, system.Decompile); err != nil {
			return errors.Wrapf(err, "registering system command %d", command)
		}
	}
	return nil
}

func registerToken(r *registry.Registry) error {
	commands := []token.Command{
		token.CommandTransfer,
		token.CommandApprove,
		token.CommandSetAuthority,
		token.CommandMintTo,
		token.CommandBurn,
		token.CommandCloseAccount,
		token.CommandTransferChecked,
		token.CommandApproveChecked,
		token.CommandMintToChecked,
		token.CommandBurnChecked,
		token.CommandSyncNative,
	}
	for _, command := range commands {
		key := registry.Key{
			Network:       registry.NetworkSolana,
			Program:       token.ProgramAddress,
			Discriminator: registry.DiscriminatorKey([]byte{byte(command)}),
		}
		if err := r.Register(key, token.Decompile); err != nil {
			return errors.Wrapf(err, "registering token command %d", command)
		}
	}
	return nil
}

func registerComputeBudget(r *registry.Registry) error {
	commands := []computebudget.Command{
		computebudget.CommandRequestHeapFrame,
		computebudget.CommandSetComputeUnitLimit,
		computebudget.CommandSetComputeUnitPrice,
	}
	for _, command := range commands {
		key := registry.Key{
			Network:       registry.NetworkSolana,
			Program:       computebudget.ProgramAddress,
			Discriminator: registry.DiscriminatorKey([]byte{byte(command)}),
		}
		if err := r.Register(key, computebudget.Decompile); err != nil {
			return errors.Wrapf(err, "registering compute budget command %d", command)
		}
	}
	return nil
}

func registerJupiter(r *registry.Registry) error {
	for _, disc := range [][]byte{
		jupiter.RouteDiscriminator,
		jupiter.ExactOutRouteDiscriminator,
		jupiter.SharedAccountsRouteDiscriminator,
	} {
		key := registry.Key{
			Network:       registry.NetworkSolana,
			Program:       jupiter.ProgramAddress,
			Discriminator: registry.DiscriminatorKey(disc),
		}
		if err := r.Register(key, jupiter.Decompile); err != nil {
			return errors.Wrapf(err, "registering jupiter discriminator %x", disc)
		}
	}
	return nil
}

func registerErc20(r *registry.Registry) error {
	selectors := [][4]byte{
		ethereum.TransferSelector,
		ethereum.ApproveSelector,
		ethereum.TransferFromSelector,
		ethereum.MintSelector,
		ethereum.BurnSelector,
		ethereum.BalanceOfSelector,
		ethereum.AllowanceSelector,
		ethereum.NameSelector,
		ethereum.SymbolSelector,
		ethereum.DecimalsSelector,
		ethereum.TotalSupplySelector,
	}
	for _, sel := range selectors {
		sel := sel

		key := registry.Key{
			Network:       registry.NetworkEthereum,
			Program:       Erc20ContractIdentity,
			Discriminator: registry.DiscriminatorKey(sel[:]),
		}
		decoder := func(data []byte, _ []vsign.AccountRef) (vsign.DecodedInstruction, error) {
			return ethereum.DecodeCalldata(data)
		}
		if err := r.Register(key, decoder); err != nil {
			return errors.Wrapf(err, "registering erc20 selector %x", sel)
		}
	}
	return nil
}

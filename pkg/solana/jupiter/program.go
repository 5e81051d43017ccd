// Package jupiter decodes Jupiter v6 aggregator swap instructions for
// display. Only the route-style entrypoints are decoded; every other
// discriminator is surfaced as an explicit unknown rather than an error.
package jupiter

import (
	"bytes"
	"fmt"

	"github.com/near/borsh-go"
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// ProgramAddress is the Jupiter v6 aggregator program.
const ProgramAddress = solana.JupiterV6ProgramAddress

// Anchor instruction discriminators for the route entrypoints.
var (
	RouteDiscriminator               = []byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a}
	ExactOutRouteDiscriminator       = []byte{0x4b, 0xd7, 0xdf, 0xa8, 0x0c, 0xd0, 0xb6, 0x2a}
	SharedAccountsRouteDiscriminator = []byte{0x3a, 0xf2, 0xaa, 0xae, 0x2f, 0xb6, 0xd4, 0x2a}
)

// Route discriminator length plus the trailing argument block.
const (
	discriminatorLen = 8

	// The route entrypoints all end with the same argument suffix:
	// in_amount u64, out_amount u64, slippage_bps u16, platform_fee_bps u8.
	// The route plan between the discriminator and the suffix is variable
	// length and not needed for display.
	argSuffixLen = 19
)

// RouteKind distinguishes the Jupiter route entrypoints.
type RouteKind int

const (
	RouteKindRoute RouteKind = iota
	RouteKindExactOut
	RouteKindSharedAccounts
)

func (k RouteKind) String() string {
	switch k {
	case RouteKindRoute:
		return "Jupiter Swap"
	case RouteKindExactOut:
		return "Jupiter Exact Out Route"
	case RouteKindSharedAccounts:
		return "Jupiter Shared Accounts Route"
	}
	return "Jupiter"
}

// Swap is a decoded route-style Jupiter instruction.
type Swap struct {
	Kind           RouteKind
	InToken        TokenInfo
	OutToken       TokenInfo
	InAmount       uint64
	OutAmount      uint64
	SlippageBps    uint16
	PlatformFeeBps uint8
	RawData        []byte
}

// Unknown is a Jupiter instruction with a discriminator this decoder does
// not recognize.
type Unknown struct {
	Discriminator []byte
	RawData       []byte
}

// Decompile decodes a Jupiter v6 instruction. Unrecognized discriminators
// decode to Unknown; only data too short to carry a discriminator, or a
// route payload too short to carry its argument suffix, is an error.
func Decompile(data []byte, accounts []vsign.AccountRef) (vsign.DecodedInstruction, error) {
	if len(data) < discriminatorLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "jupiter discriminator")
	}

	var kind RouteKind
	switch {
	case bytes.Equal(data[:discriminatorLen], RouteDiscriminator):
		kind = RouteKindRoute
	case bytes.Equal(data[:discriminatorLen], ExactOutRouteDiscriminator):
		kind = RouteKindExactOut
	case bytes.Equal(data[:discriminatorLen], SharedAccountsRouteDiscriminator):
		kind = RouteKindSharedAccounts
	default:
		return &Unknown{
			Discriminator: data[:discriminatorLen],
			RawData:       data,
		}, nil
	}

	if len(data) < discriminatorLen+argSuffixLen {
		return nil, errors.Wrap(vsign.ErrTruncated, "jupiter route arguments")
	}

	// The argument suffix sits at the very end of the data, after the
	// variable-length route plan.
	var args routeArgs
	if err := borsh.Deserialize(&args, data[len(data)-argSuffixLen:]); err != nil {
		return nil, errors.Wrap(vsign.ErrMalformedLength, err.Error())
	}

	inMint, outMint := extractMints(accounts)

	return &Swap{
		Kind:           kind,
		InToken:        LookupToken(inMint),
		OutToken:       LookupToken(outMint),
		InAmount:       args.InAmount,
		OutAmount:      args.OutAmount,
		SlippageBps:    args.SlippageBps,
		PlatformFeeBps: args.PlatformFeeBps,
		RawData:        data,
	}, nil
}

// routeArgs is the borsh-encoded argument suffix shared by every route
// entrypoint.
type routeArgs struct {
	InAmount       uint64
	OutAmount      uint64
	SlippageBps    uint16
	PlatformFeeBps uint8
}

// extractMints guesses the input and output mints from the route's account
// list. The route plan does not name the mints directly, so this scans for
// well-known mint addresses and falls back to positional heuristics, the
// same order of preference a human reading the account list would use.
func extractMints(accounts []vsign.AccountRef) (inMint, outMint string) {
	var found []string
	for _, ref := range accounts {
		if ref.Unresolved {
			continue
		}
		if _, ok := knownMints[ref.Address]; ok {
			found = append(found, ref.Address)
		}
	}
	if len(found) >= 2 {
		return found[0], found[1]
	}

	// Destination mint is at index 5 in the route account layout when the
	// list is not using shared accounts.
	outMint = firstCandidate(accounts, 5, "")
	if len(found) == 1 && found[0] != outMint {
		inMint = found[0]
	} else {
		inMint = firstCandidate(accounts, 5, outMint)
	}
	return inMint, outMint
}

// firstCandidate returns the first resolved account at or after start that
// is not a known program address and not equal to exclude.
func firstCandidate(accounts []vsign.AccountRef, start int, exclude string) string {
	for i := start; i < len(accounts); i++ {
		ref := accounts[i]
		if ref.Unresolved || ref.Address == "" || ref.Address == exclude {
			continue
		}
		if _, ok := notMints[ref.Address]; ok {
			continue
		}
		return ref.Address
	}
	return ""
}

func (s *Swap) Name() string {
	return s.Kind.String()
}

func (s *Swap) Summary() string {
	summary := fmt.Sprintf(
		"%s: From %d %s To %d %s (slippage: %dbps",
		s.Kind, s.InAmount, s.InToken.Symbol, s.OutAmount, s.OutToken.Symbol, s.SlippageBps,
	)
	if s.PlatformFeeBps > 0 {
		summary += fmt.Sprintf(", platform fee: %dbps", s.PlatformFeeBps)
	}
	return summary + ")"
}

func (s *Swap) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewTextField("Program ID", ProgramAddress),
		vsign.NewTextField("Input Token", s.InToken.Symbol),
		vsign.NewAmountFieldU64("Input Amount", s.InAmount, s.InToken.Decimals, s.InToken.Symbol),
		vsign.NewTextField("Input Token Name", s.InToken.Name),
		vsign.NewAddressField("Input Token Address", s.InToken.Address),
		vsign.NewTextField("Output Token", s.OutToken.Symbol),
		vsign.NewAmountFieldU64("Quoted Output Amount", s.OutAmount, s.OutToken.Decimals, s.OutToken.Symbol),
		vsign.NewTextField("Output Token Name", s.OutToken.Name),
		vsign.NewAddressField("Output Token Address", s.OutToken.Address),
		vsign.NewNumberField("Slippage (bps)", uint64(s.SlippageBps)),
	}
	if s.PlatformFeeBps > 0 {
		fields = append(fields, vsign.NewNumberField("Platform Fee (bps)", uint64(s.PlatformFeeBps)))
	}
	fields = append(fields, vsign.NewRawDataField("Raw Data", s.RawData))
	return fields
}

func (u *Unknown) Name() string {
	return "Jupiter"
}

func (u *Unknown) Summary() string {
	return "Jupiter: Unknown Instruction"
}

func (u *Unknown) Fields() []vsign.Field {
	return []vsign.Field{
		vsign.NewTextField("Program ID", ProgramAddress),
		vsign.NewTextField("Status", "Unknown Jupiter instruction type"),
		vsign.NewRawDataField("Raw Data", u.RawData),
	}
}

package swig

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/solana"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/cursor"
)

// AuthorityType is the u16 tag describing how a wallet authority signs.
type AuthorityType uint16

const (
	AuthorityEd25519          AuthorityType = 1
	AuthorityEd25519Session   AuthorityType = 2
	AuthoritySecp256k1        AuthorityType = 3
	AuthoritySecp256k1Session AuthorityType = 4
	AuthoritySecp256r1        AuthorityType = 5
	AuthoritySecp256r1Session AuthorityType = 6
)

func (t AuthorityType) String() string {
	switch t {
	case AuthorityEd25519:
		return "Ed25519"
	case AuthorityEd25519Session:
		return "Ed25519 Session"
	case AuthoritySecp256k1:
		return "Secp256k1"
	case AuthoritySecp256k1Session:
		return "Secp256k1 Session"
	case AuthoritySecp256r1:
		return "Secp256r1"
	case AuthoritySecp256r1Session:
		return "Secp256r1 Session"
	}
	return "Unknown"
}

// DecodeAuthorityDetails renders the per-type authority material as display
// fields. The second return is false when the type is unknown or the data
// does not match the type's expected shape; callers then show the raw hex
// only.
func DecodeAuthorityDetails(authorityType AuthorityType, data []byte) ([]vsign.Field, bool) {
	switch authorityType {
	case AuthorityEd25519:
		if len(data) != 32 {
			return nil, false
		}
		return []vsign.Field{
			vsign.NewAddressField("Authority Public Key", solana.Base58(data)),
		}, true

	case AuthorityEd25519Session:
		if len(data) != 72 {
			return nil, false
		}
		c := cursor.New(data)
		root, _ := c.ReadKey32()
		session, _ := c.ReadKey32()
		maxSessionLength, _ := c.ReadU64()
		return []vsign.Field{
			vsign.NewAddressField("Root Authority Public Key", solana.Base58(root[:])),
			vsign.NewAddressField("Initial Session Key", solana.Base58(session[:])),
			vsign.NewNumberField("Max Session Length (slots)", maxSessionLength),
		}, true

	case AuthoritySecp256k1:
		switch len(data) {
		case 33:
			return []vsign.Field{
				vsign.NewTextField("Secp256k1 Public Key (compressed hex)", hex.EncodeToString(data)),
			}, true
		case 64:
			fields := []vsign.Field{
				vsign.NewTextField("Secp256k1 Public Key (uncompressed hex)", hex.EncodeToString(data)),
			}
			if address, ok := deriveEthereumAddress(data); ok {
				fields = append(fields, vsign.NewAddressField("Derived EVM Address", address))
			}
			return fields, true
		case 65:
			if data[0] != 0x04 {
				return nil, false
			}
			fields := []vsign.Field{
				vsign.NewTextField("Secp256k1 Public Key (uncompressed hex)", hex.EncodeToString(data[1:])),
			}
			if address, ok := deriveEthereumAddress(data[1:]); ok {
				fields = append(fields, vsign.NewAddressField("Derived EVM Address", address))
			}
			return fields, true
		}
		return nil, false

	case AuthoritySecp256k1Session:
		if len(data) != 104 {
			return nil, false
		}
		publicKey := data[:64]
		sessionKey := data[64:96]
		c := cursor.New(data[96:])
		maxSessionLength, _ := c.ReadU64()
		fields := []vsign.Field{
			vsign.NewTextField("Secp256k1 Public Key (uncompressed hex)", hex.EncodeToString(publicKey)),
		}
		if address, ok := deriveEthereumAddress(publicKey); ok {
			fields = append(fields, vsign.NewAddressField("Derived EVM Address", address))
		}
		fields = append(fields,
			vsign.NewTextField("Session Key (hex)", hex.EncodeToString(sessionKey)),
			vsign.NewNumberField("Max Session Length (slots)", maxSessionLength),
		)
		return fields, true

	case AuthoritySecp256r1:
		if len(data) != 33 {
			return nil, false
		}
		return []vsign.Field{
			vsign.NewTextField("Secp256r1 Public Key (compressed hex)", hex.EncodeToString(data)),
		}, true

	case AuthoritySecp256r1Session:
		if len(data) != 80 {
			return nil, false
		}
		c := cursor.New(data[72:])
		maxSessionLength, _ := c.ReadU64()
		return []vsign.Field{
			vsign.NewTextField("Secp256r1 Public Key (compressed hex)", hex.EncodeToString(data[:33])),
			vsign.NewTextField("Session Key (hex)", hex.EncodeToString(data[40:72])),
			vsign.NewNumberField("Max Session Length (slots)", maxSessionLength),
		}, true
	}

	return nil, false
}

// deriveEthereumAddress computes the EVM address for a 64-byte uncompressed
// secp256k1 public key (keccak-256 hash, last 20 bytes).
func deriveEthereumAddress(uncompressed []byte) (string, bool) {
	if len(uncompressed) != 64 {
		return "", false
	}
	hash := crypto.Keccak256(uncompressed)
	return "0x" + hex.EncodeToString(hash[12:]), true
}

// DecodeAuthorityPayload renders the proof-of-authority trailer carried by
// Sign and related instructions: a slot, a replay counter, the index of the
// account holding the authority, reserved bytes, and optionally an
// authentication detail section (currently WebAuthn).
func DecodeAuthorityPayload(payload []byte) ([]vsign.Field, error) {
	if len(payload) < 13 {
		return nil, errors.Wrap(vsign.ErrTruncated, "authority payload")
	}

	c := cursor.New(payload)
	slot, _ := c.ReadU64()
	counter, _ := c.ReadU32()
	accountIndex, _ := c.ReadU8()

	fields := []vsign.Field{
		vsign.NewNumberField("Authority Slot", slot),
		vsign.NewNumberField("Authority Counter", uint64(counter)),
		vsign.NewNumberField("Authority Instruction Account Index", uint64(accountIndex)),
	}

	if len(payload) >= 17 {
		reserved := payload[13:17]
		for _, b := range reserved {
			if b != 0 {
				fields = append(fields, vsign.NewTextField("Authority Reserved (hex)", hex.EncodeToString(reserved)))
				break
			}
		}
	}

	if len(payload) <= 17 {
		return fields, nil
	}
	extra := payload[17:]
	if len(extra) < 2 {
		return fields, nil
	}

	authKind := uint16(extra[0]) | uint16(extra[1])<<8
	switch authKind {
	case 1:
		fields = append(fields, vsign.NewTextField("Authority Authentication Kind", "WebAuthn"))
		webauthn, err := decodeWebAuthn(extra)
		if err != nil {
			return nil, err
		}
		fields = append(fields, webauthn...)
	default:
		fields = append(fields, vsign.NewTextField("Authority Authentication Kind", fmt.Sprintf("Unknown (%d)", authKind)))
	}

	return fields, nil
}

// decodeWebAuthn parses the WebAuthn detail section, whose origin string is
// Huffman compressed. The section starts at the u16 authentication kind.
func decodeWebAuthn(payload []byte) ([]vsign.Field, error) {
	c := cursor.New(payload)
	if err := c.Skip(2); err != nil { // authentication kind, already read
		return nil, err
	}

	authenticatorData, err := c.ReadLengthPrefixed(2)
	if err != nil {
		return nil, errors.Wrap(err, "webauthn authenticator data")
	}
	fieldOrder, err := c.ReadFixed(4)
	if err != nil {
		return nil, errors.Wrap(err, "webauthn field order")
	}
	originLen, err := c.ReadU16()
	if err != nil {
		return nil, errors.Wrap(err, "webauthn origin length")
	}
	treeLen, err := c.ReadU16()
	if err != nil {
		return nil, errors.Wrap(err, "webauthn huffman tree length")
	}
	encodedLen, err := c.ReadU16()
	if err != nil {
		return nil, errors.Wrap(err, "webauthn huffman encoded length")
	}
	tree, err := c.ReadFixed(int(treeLen))
	if err != nil {
		return nil, errors.Wrap(err, "webauthn huffman tree")
	}
	encoded, err := c.ReadFixed(int(encodedLen))
	if err != nil {
		return nil, errors.Wrap(err, "webauthn huffman stream")
	}

	origin, err := DecodeHuffman(tree, encoded, int(originLen))
	if err != nil {
		return nil, errors.Wrap(err, "webauthn origin")
	}

	return []vsign.Field{
		vsign.NewTextField("WebAuthn Authenticator Data (base64)", base64.StdEncoding.EncodeToString(authenticatorData)),
		vsign.NewTextField("WebAuthn Field Order", formatWebAuthnFieldOrder(fieldOrder)),
		vsign.NewTextField("WebAuthn Origin", origin),
		vsign.NewNumberField("WebAuthn Huffman Tree Length", uint64(len(tree))),
		vsign.NewNumberField("WebAuthn Huffman Encoded Length", uint64(len(encoded))),
	}, nil
}

func formatWebAuthnFieldOrder(order []byte) string {
	var names []string
	for _, value := range order {
		switch value {
		case 1:
			names = append(names, "type")
		case 2:
			names = append(names, "challenge")
		case 3:
			names = append(names, "origin")
		case 4:
			names = append(names, "crossOrigin")
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

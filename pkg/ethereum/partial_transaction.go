// Package ethereum decodes pre-signing Ethereum payloads: the partial
// transaction RLP envelope and ERC-20 calldata.
package ethereum

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// PartialTransaction is the pre-signing transaction envelope: an RLP list of
// [chain_id, nonce, gas_price, gas_tip, gas_limit, to, value, data,
// access_list]. Fields the signer has not filled in yet are present but
// zero.
type PartialTransaction struct {
	ChainID    *big.Int
	Nonce      *big.Int
	GasPrice   *big.Int
	GasTip     *big.Int
	GasLimit   *big.Int
	To         common.Address
	Value      *big.Int
	Data       []byte
	AccessList []uint64
}

// DecodePartialTransaction parses the RLP envelope. Trailing bytes after the
// list are rejected.
func DecodePartialTransaction(data []byte) (*PartialTransaction, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(vsign.ErrTruncated, "empty transaction data")
	}

	var tx PartialTransaction
	if err := rlp.DecodeBytes(data, &tx); err != nil {
		return nil, errors.Wrapf(vsign.ErrMalformedLength, "rlp decode: %v", err)
	}
	return &tx, nil
}

// DecodePartialTransactionHex parses the envelope from a hex string, with or
// without a 0x prefix.
func DecodePartialTransactionHex(s string) (*PartialTransaction, error) {
	clean := strings.TrimPrefix(s, "0x")
	if clean == "" {
		return nil, errors.Wrap(vsign.ErrTruncated, "empty transaction hex")
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Wrap(vsign.ErrMalformedLength, err.Error())
	}
	return DecodePartialTransaction(raw)
}

// Encode renders the envelope back to RLP bytes.
func (tx *PartialTransaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// ChainName maps well-known chain ids to display names; unknown ids render
// the numeric id.
func (tx *PartialTransaction) ChainName() string {
	if tx.ChainID == nil || !tx.ChainID.IsUint64() {
		return fmt.Sprintf("Chain ID: %s", tx.ChainID)
	}
	switch tx.ChainID.Uint64() {
	case 1:
		return "Ethereum Mainnet"
	case 5:
		return "Goerli Testnet"
	case 137:
		return "Polygon Mainnet"
	case 11155111:
		return "Sepolia Testnet"
	}
	return fmt.Sprintf("Chain ID: %d", tx.ChainID.Uint64())
}

func (tx *PartialTransaction) Name() string {
	return "Partial Ethereum Transaction"
}

func (tx *PartialTransaction) Summary() string {
	return fmt.Sprintf("Send %s to %s on %s", formatWei(tx.Value), tx.To.Hex(), tx.ChainName())
}

func (tx *PartialTransaction) Fields() []vsign.Field {
	fields := []vsign.Field{
		vsign.NewTextField("Network", tx.ChainName()),
		vsign.NewTextField("Transaction Type", "Partial Transaction"),
		vsign.NewAddressField("To Address", tx.To.Hex()),
		vsign.NewTextField("Value", formatWei(tx.Value)),
		vsign.NewTextField("Nonce", bigString(tx.Nonce)),
		vsign.NewTextField("Gas Limit", bigString(tx.GasLimit)),
		vsign.NewTextField("Gas Price", bigString(tx.GasPrice)+" wei"),
		vsign.NewTextField("Gas Tip", bigString(tx.GasTip)+" wei"),
	}
	if len(tx.Data) > 0 {
		fields = append(fields, vsign.NewTextField("Input Data", "0x"+hex.EncodeToString(tx.Data)))
	}
	return fields
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// formatWei renders small values as wei and everything else scaled to ETH,
// using string arithmetic only.
func formatWei(wei *big.Int) string {
	if wei == nil {
		return "0 wei"
	}
	if wei.Cmp(big.NewInt(1000)) < 0 {
		return fmt.Sprintf("%s wei", wei)
	}
	return fmt.Sprintf("%s ETH", vsign.ScaleDecimal(wei, 18))
}

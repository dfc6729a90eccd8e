// Package ctf builds calldata for the Conditional Token Framework contract,
// letting callers sign a redeemPositions transaction offline before
// submitting it. Encoding only; nothing here touches a chain.
package ctf

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

const (
	// ContractAddress is the CTF contract on Polygon mainnet.
	ContractAddress = "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045"

	// USDCAddress is the collateral token for redeemPositions on Polygon.
	USDCAddress = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"

	// redeemPositionsSelector is the first 4 bytes of
	// keccak256("redeemPositions(address,bytes32,bytes32,uint256[])").
	redeemPositionsSelector = "6a338026"
)

// redeemArgs is the ABI layout of the redeemPositions parameters.
var redeemArgs = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("bytes32")},
	{Type: mustType("bytes32")},
	{Type: mustType("uint256[]")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("ctf: bad ABI type %q: %v", t, err))
	}
	return typ
}

// Transaction is an unsigned transaction template ready for offline signing.
type Transaction struct {
	To    string   `json:"to"`
	Data  string   `json:"data"`
	Value *big.Int `json:"value"`
}

// BuildRedeemCalldata encodes the redeemPositions call for a binary market.
// Outcome index 0 maps to indexSets=[1] and outcome index 1 to indexSets=[2]
// (1 << outcomeIndex). Indexes above 62 are rejected so the shift stays
// within int64; no deployed condition has that many outcomes. The condition
// ID may carry a 0x or 0X prefix. The parent collection is always the zero
// bytes32 for top-level conditions.
func BuildRedeemCalldata(conditionID string, outcomeIndex int) (string, error) {
	if outcomeIndex < 0 {
		return "", fmt.Errorf("ctf: %w: outcome index must be non-negative, got %d",
			domain.ErrValidation, outcomeIndex)
	}
	if outcomeIndex > 62 {
		return "", fmt.Errorf("ctf: %w: outcome index too large: %d",
			domain.ErrValidation, outcomeIndex)
	}

	cid := conditionID
	if len(cid) >= 2 && (cid[:2] == "0x" || cid[:2] == "0X") {
		cid = cid[2:]
	}
	if len(cid) != 64 {
		return "", fmt.Errorf("ctf: %w: condition ID must be 32 bytes (64 hex chars), got %d",
			domain.ErrValidation, len(cid))
	}
	raw, err := hex.DecodeString(cid)
	if err != nil {
		return "", fmt.Errorf("ctf: %w: invalid condition ID hex: %v", domain.ErrValidation, err)
	}

	var condition [32]byte
	copy(condition[:], raw)

	var parentCollection [32]byte
	indexSets := []*big.Int{big.NewInt(1 << outcomeIndex)}

	encoded, err := redeemArgs.Pack(
		common.HexToAddress(USDCAddress),
		parentCollection,
		condition,
		indexSets,
	)
	if err != nil {
		return "", fmt.Errorf("ctf: encoding redeemPositions parameters: %w", err)
	}

	return "0x" + redeemPositionsSelector + hex.EncodeToString(encoded), nil
}

// BuildRedeemTransaction wraps the redeemPositions calldata in an unsigned
// transaction template addressed to the CTF contract. Value is always zero.
func BuildRedeemTransaction(conditionID string, outcomeIndex int) (Transaction, error) {
	data, err := BuildRedeemCalldata(conditionID, outcomeIndex)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		To:    ContractAddress,
		Data:  data,
		Value: big.NewInt(0),
	}, nil
}

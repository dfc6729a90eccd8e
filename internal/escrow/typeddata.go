// Package escrow implements the fee-authorization core of the DomeFeeEscrow
// protocol: deterministic order identifiers, basis-point fee calculation,
// authorization construction and validation, EIP-712 signing and signature
// verification. Everything except signing through a remote wallet is pure and
// safe for concurrent use.
package escrow

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

const (
	// DomainName and DomainVersion identify the DomeFeeEscrow contract in
	// the EIP-712 domain. They must match the deployed contract exactly.
	DomainName    = "DomeFeeEscrow"
	DomainVersion = "1"
)

// Struct schemas for the three authorization kinds. Field order determines
// the struct hash and must match the contract's type hashes; never reorder.
var (
	orderFeeTypes = map[string][]crypto.Field{
		"OrderFeeAuthorization": {
			{Name: "orderId", Type: "bytes32"},
			{Name: "payer", Type: "address"},
			{Name: "domeAmount", Type: "uint256"},
			{Name: "affiliateAmount", Type: "uint256"},
			{Name: "chainId", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
	}

	performanceFeeTypes = map[string][]crypto.Field{
		"PerformanceFeeAuthorization": {
			{Name: "positionId", Type: "bytes32"},
			{Name: "payer", Type: "address"},
			{Name: "expectedWinnings", Type: "uint256"},
			{Name: "domeAmount", Type: "uint256"},
			{Name: "affiliateAmount", Type: "uint256"},
			{Name: "chainId", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
	}

	legacyFeeTypes = map[string][]crypto.Field{
		"FeeAuthorization": {
			{Name: "orderId", Type: "bytes32"},
			{Name: "payer", Type: "address"},
			{Name: "feeAmount", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
	}
)

// NewDomain builds the EIP-712 domain binding a signature to one escrow
// contract deployment on one chain.
func NewDomain(escrowAddress string, chainID int64) (crypto.Domain, error) {
	if !common.IsHexAddress(escrowAddress) {
		return crypto.Domain{}, fmt.Errorf("escrow: %w: invalid escrow address %q",
			domain.ErrValidation, escrowAddress)
	}
	return crypto.Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           chainID,
		VerifyingContract: common.HexToAddress(escrowAddress).Hex(),
	}, nil
}

// orderFeeTypedData renders an order fee authorization as signable typed data.
func orderFeeTypedData(d crypto.Domain, auth domain.OrderFeeAuthorization) crypto.TypedData {
	return crypto.TypedData{
		Domain:      d,
		PrimaryType: "OrderFeeAuthorization",
		Types:       orderFeeTypes,
		Message: map[string]string{
			"orderId":         auth.OrderID,
			"payer":           auth.Payer,
			"domeAmount":      auth.DomeAmount.String(),
			"affiliateAmount": auth.AffiliateAmount.String(),
			"chainId":         strconv.FormatInt(auth.ChainID, 10),
			"deadline":        strconv.FormatInt(auth.Deadline, 10),
		},
	}
}

// performanceFeeTypedData renders a performance fee authorization as signable
// typed data.
func performanceFeeTypedData(d crypto.Domain, auth domain.PerformanceFeeAuthorization) crypto.TypedData {
	return crypto.TypedData{
		Domain:      d,
		PrimaryType: "PerformanceFeeAuthorization",
		Types:       performanceFeeTypes,
		Message: map[string]string{
			"positionId":       auth.PositionID,
			"payer":            auth.Payer,
			"expectedWinnings": auth.ExpectedWinnings.String(),
			"domeAmount":       auth.DomeAmount.String(),
			"affiliateAmount":  auth.AffiliateAmount.String(),
			"chainId":          strconv.FormatInt(auth.ChainID, 10),
			"deadline":         strconv.FormatInt(auth.Deadline, 10),
		},
	}
}

// legacyFeeTypedData renders a v1 single-amount authorization as signable
// typed data.
func legacyFeeTypedData(d crypto.Domain, auth domain.FeeAuthorization) crypto.TypedData {
	return crypto.TypedData{
		Domain:      d,
		PrimaryType: "FeeAuthorization",
		Types:       legacyFeeTypes,
		Message: map[string]string{
			"orderId":   auth.OrderID,
			"payer":     auth.Payer,
			"feeAmount": auth.FeeAmount.String(),
			"deadline":  strconv.FormatInt(auth.Deadline, 10),
		},
	}
}

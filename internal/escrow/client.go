package escrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// PolygonChainID is the default chain for escrow deployments.
const PolygonChainID = 137

// Client bundles one escrow contract deployment with its chain ID and offers
// the high-level create+sign and verify operations. The zero value is not
// usable; construct with NewClient.
type Client struct {
	escrowAddress string
	chainID       int64
}

// NewClient creates a client for the escrow contract at escrowAddress on
// chainID (use PolygonChainID for mainnet).
func NewClient(escrowAddress string, chainID int64) (*Client, error) {
	if !common.IsHexAddress(escrowAddress) {
		return nil, fmt.Errorf("escrow: %w: invalid escrow address %q",
			domain.ErrValidation, escrowAddress)
	}
	return &Client{
		escrowAddress: common.HexToAddress(escrowAddress).Hex(),
		chainID:       chainID,
	}, nil
}

// EscrowAddress returns the checksummed contract address.
func (c *Client) EscrowAddress() string { return c.escrowAddress }

// ChainID returns the chain the client signs for.
func (c *Client) ChainID() int64 { return c.chainID }

// SignOrderFeeAuth creates and signs an order fee authorization. The payer is
// the signer's own address.
func (c *Client) SignOrderFeeAuth(
	ctx context.Context,
	signer crypto.TypedDataSigner,
	orderID string,
	domeAmount, affiliateAmount *big.Int,
	deadlineSeconds int64,
) (domain.SignedOrderFeeAuthorization, error) {
	payer, err := signer.Address(ctx)
	if err != nil {
		return domain.SignedOrderFeeAuthorization{}, fmt.Errorf(
			"escrow: resolving signer address: %w", err)
	}

	auth, err := NewOrderFeeAuthorization(
		orderID, payer, domeAmount, affiliateAmount, c.chainID, deadlineSeconds)
	if err != nil {
		return domain.SignedOrderFeeAuthorization{}, err
	}

	return SignOrderFeeAuthorization(ctx, signer, c.escrowAddress, auth)
}

// SignPerformanceFeeAuth creates and signs a performance fee authorization.
// The payer is the signer's own address.
func (c *Client) SignPerformanceFeeAuth(
	ctx context.Context,
	signer crypto.TypedDataSigner,
	positionID string,
	expectedWinnings, domeAmount, affiliateAmount *big.Int,
	deadlineSeconds int64,
) (domain.SignedPerformanceFeeAuthorization, error) {
	payer, err := signer.Address(ctx)
	if err != nil {
		return domain.SignedPerformanceFeeAuthorization{}, fmt.Errorf(
			"escrow: resolving signer address: %w", err)
	}

	auth, err := NewPerformanceFeeAuthorization(
		positionID, payer, expectedWinnings, domeAmount, affiliateAmount, c.chainID, deadlineSeconds)
	if err != nil {
		return domain.SignedPerformanceFeeAuthorization{}, err
	}

	return SignPerformanceFeeAuthorization(ctx, signer, c.escrowAddress, auth)
}

// VerifyOrderFeeSignature verifies signed against this client's contract.
func (c *Client) VerifyOrderFeeSignature(
	signed domain.SignedOrderFeeAuthorization,
	expectedSigner string,
) VerifyResult {
	return VerifyOrderFeeSignature(signed, c.escrowAddress, expectedSigner)
}

// VerifyPerformanceFeeSignature verifies signed against this client's
// contract.
func (c *Client) VerifyPerformanceFeeSignature(
	signed domain.SignedPerformanceFeeAuthorization,
	expectedSigner string,
) VerifyResult {
	return VerifyPerformanceFeeSignature(signed, c.escrowAddress, expectedSigner)
}

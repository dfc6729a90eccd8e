package escrow

import (
	"context"
	"fmt"

	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// SignOrderFeeAuthorization signs auth for the given escrow contract. The
// signer can be local or remote; either way the signature covers the same
// digest the verifier and the on-chain contract recompute.
func SignOrderFeeAuthorization(
	ctx context.Context,
	signer crypto.TypedDataSigner,
	escrowAddress string,
	auth domain.OrderFeeAuthorization,
) (domain.SignedOrderFeeAuthorization, error) {
	d, err := NewDomain(escrowAddress, auth.ChainID)
	if err != nil {
		return domain.SignedOrderFeeAuthorization{}, err
	}

	sig, err := signer.SignTypedData(ctx, orderFeeTypedData(d, auth))
	if err != nil {
		return domain.SignedOrderFeeAuthorization{}, fmt.Errorf(
			"escrow: signing order fee authorization: %w", err)
	}

	return domain.SignedOrderFeeAuthorization{
		OrderFeeAuthorization: auth,
		Signature:             sig,
	}, nil
}

// SignPerformanceFeeAuthorization signs auth for the given escrow contract.
func SignPerformanceFeeAuthorization(
	ctx context.Context,
	signer crypto.TypedDataSigner,
	escrowAddress string,
	auth domain.PerformanceFeeAuthorization,
) (domain.SignedPerformanceFeeAuthorization, error) {
	d, err := NewDomain(escrowAddress, auth.ChainID)
	if err != nil {
		return domain.SignedPerformanceFeeAuthorization{}, err
	}

	sig, err := signer.SignTypedData(ctx, performanceFeeTypedData(d, auth))
	if err != nil {
		return domain.SignedPerformanceFeeAuthorization{}, fmt.Errorf(
			"escrow: signing performance fee authorization: %w", err)
	}

	return domain.SignedPerformanceFeeAuthorization{
		PerformanceFeeAuthorization: auth,
		Signature:                   sig,
	}, nil
}

// SignFeeAuthorization signs a legacy v1 authorization for the given escrow
// contract on the given chain. The v1 struct does not carry the chain ID, so
// replay protection comes from the domain alone.
func SignFeeAuthorization(
	ctx context.Context,
	signer crypto.TypedDataSigner,
	escrowAddress string,
	chainID int64,
	auth domain.FeeAuthorization,
) (domain.SignedFeeAuthorization, error) {
	d, err := NewDomain(escrowAddress, chainID)
	if err != nil {
		return domain.SignedFeeAuthorization{}, err
	}

	sig, err := signer.SignTypedData(ctx, legacyFeeTypedData(d, auth))
	if err != nil {
		return domain.SignedFeeAuthorization{}, fmt.Errorf(
			"escrow: signing fee authorization: %w", err)
	}

	return domain.SignedFeeAuthorization{
		FeeAuthorization: auth,
		Signature:        sig,
	}, nil
}

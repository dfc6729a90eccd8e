package escrow

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// Deadline bounds for every authorization kind, in seconds from now.
const (
	MinDeadlineSeconds = 60    // 1 minute
	MaxDeadlineSeconds = 86400 // 24 hours

	// DefaultDeadlineSeconds is the validity period callers get when they
	// have no opinion.
	DefaultDeadlineSeconds = 3600
)

// NewOrderFeeAuthorization validates the inputs and assembles an order fee
// authorization with deadline = now + deadlineSeconds. The order ID is not
// validated here; a malformed ID surfaces when the authorization is hashed
// for signing or verification.
func NewOrderFeeAuthorization(
	orderID, payer string,
	domeAmount, affiliateAmount *big.Int,
	chainID int64,
	deadlineSeconds int64,
) (domain.OrderFeeAuthorization, error) {
	if domeAmount == nil || affiliateAmount == nil {
		return domain.OrderFeeAuthorization{}, fmt.Errorf(
			"escrow: %w: fee amounts must not be nil", domain.ErrValidation)
	}
	total := new(big.Int).Add(domeAmount, affiliateAmount)
	checksummed, deadline, err := validateAuthorization(payer, deadlineSeconds, total, MinOrderFee)
	if err != nil {
		return domain.OrderFeeAuthorization{}, err
	}

	return domain.OrderFeeAuthorization{
		OrderID:         orderID,
		Payer:           checksummed,
		DomeAmount:      new(big.Int).Set(domeAmount),
		AffiliateAmount: new(big.Int).Set(affiliateAmount),
		ChainID:         chainID,
		Deadline:        deadline,
	}, nil
}

// NewPerformanceFeeAuthorization validates the inputs and assembles a
// performance fee authorization with deadline = now + deadlineSeconds.
func NewPerformanceFeeAuthorization(
	positionID, payer string,
	expectedWinnings, domeAmount, affiliateAmount *big.Int,
	chainID int64,
	deadlineSeconds int64,
) (domain.PerformanceFeeAuthorization, error) {
	if domeAmount == nil || affiliateAmount == nil {
		return domain.PerformanceFeeAuthorization{}, fmt.Errorf(
			"escrow: %w: fee amounts must not be nil", domain.ErrValidation)
	}
	total := new(big.Int).Add(domeAmount, affiliateAmount)
	checksummed, deadline, err := validateAuthorization(payer, deadlineSeconds, total, MinPerformanceFee)
	if err != nil {
		return domain.PerformanceFeeAuthorization{}, err
	}

	if expectedWinnings == nil || expectedWinnings.Sign() <= 0 {
		return domain.PerformanceFeeAuthorization{}, fmt.Errorf(
			"escrow: %w: expected winnings must be positive", domain.ErrValidation)
	}

	return domain.PerformanceFeeAuthorization{
		PositionID:       positionID,
		Payer:            checksummed,
		ExpectedWinnings: new(big.Int).Set(expectedWinnings),
		DomeAmount:       new(big.Int).Set(domeAmount),
		AffiliateAmount:  new(big.Int).Set(affiliateAmount),
		ChainID:          chainID,
		Deadline:         deadline,
	}, nil
}

// NewFeeAuthorization validates the inputs and assembles a legacy v1
// single-amount authorization with deadline = now + deadlineSeconds. The v1
// contract has no per-party floor, so the only amount requirement is that
// the fee is positive.
func NewFeeAuthorization(
	orderID, payer string,
	feeAmount *big.Int,
	deadlineSeconds int64,
) (domain.FeeAuthorization, error) {
	if !common.IsHexAddress(payer) {
		return domain.FeeAuthorization{}, fmt.Errorf(
			"escrow: %w: invalid payer address %q", domain.ErrValidation, payer)
	}
	if err := checkDeadline(deadlineSeconds); err != nil {
		return domain.FeeAuthorization{}, err
	}
	if feeAmount == nil || feeAmount.Sign() <= 0 {
		return domain.FeeAuthorization{}, fmt.Errorf(
			"escrow: %w: fee amount must be positive", domain.ErrValidation)
	}

	return domain.FeeAuthorization{
		OrderID:   orderID,
		Payer:     common.HexToAddress(payer).Hex(),
		FeeAmount: new(big.Int).Set(feeAmount),
		Deadline:  time.Now().Unix() + deadlineSeconds,
	}, nil
}

// validateAuthorization runs the shared dual-payee checks in a fixed order:
// payer address, deadline bounds, then the total fee against zero, the
// type's floor, and the absolute cap. It returns the checksummed payer and
// the computed deadline.
func validateAuthorization(payer string, deadlineSeconds int64, totalFee *big.Int, minFee int64) (string, int64, error) {
	if !common.IsHexAddress(payer) {
		return "", 0, fmt.Errorf("escrow: %w: invalid payer address %q", domain.ErrValidation, payer)
	}
	if err := checkDeadline(deadlineSeconds); err != nil {
		return "", 0, err
	}

	if totalFee.Sign() == 0 {
		return "", 0, fmt.Errorf("escrow: %w: total fee cannot be zero", domain.ErrValidation)
	}
	if totalFee.Sign() < 0 {
		return "", 0, fmt.Errorf("escrow: %w: total fee cannot be negative", domain.ErrValidation)
	}
	if totalFee.Cmp(big.NewInt(minFee)) < 0 {
		return "", 0, fmt.Errorf("escrow: %w: total fee too low: %s, minimum %d",
			domain.ErrValidation, totalFee, minFee)
	}
	if totalFee.Cmp(big.NewInt(MaxFeeAbsolute)) > 0 {
		return "", 0, fmt.Errorf("escrow: %w: total fee too high: %s, maximum %d",
			domain.ErrValidation, totalFee, MaxFeeAbsolute)
	}

	return common.HexToAddress(payer).Hex(), time.Now().Unix() + deadlineSeconds, nil
}

func checkDeadline(deadlineSeconds int64) error {
	if deadlineSeconds < MinDeadlineSeconds {
		return fmt.Errorf("escrow: %w: deadline too short: %ds, minimum %ds",
			domain.ErrValidation, deadlineSeconds, MinDeadlineSeconds)
	}
	if deadlineSeconds > MaxDeadlineSeconds {
		return fmt.Errorf("escrow: %w: deadline too long: %ds, maximum %ds",
			domain.ErrValidation, deadlineSeconds, MaxDeadlineSeconds)
	}
	return nil
}

package escrow

import (
	"fmt"
	"math/big"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// Fee constants, matching the escrow contract. All amounts are in the
// smallest USDC unit (6 decimals).
const (
	// MinOrderFee is the order fee floor ($0.01).
	MinOrderFee = 10_000
	// MinPerformanceFee is the performance fee floor ($0.10).
	MinPerformanceFee = 100_000
	// MaxFeeAbsolute is the absolute cap on any total fee ($10,000).
	MaxFeeAbsolute = 10_000_000_000

	// MaxOrderFeeBps caps each party's order fee rate at 1%.
	MaxOrderFeeBps = 100
	// MaxPerformanceFeeBps caps each party's performance fee rate at 10%.
	MaxPerformanceFeeBps = 1000

	// bpsDenominator converts basis points to a fraction.
	bpsDenominator = 10_000
)

// CalculateOrderFees computes the dome and affiliate order fees for a given
// order size. Each rate is capped at MaxOrderFeeBps; the total is raised to
// MinOrderFee when it would otherwise fall below the floor.
func CalculateOrderFees(orderSize *big.Int, domeBps, affiliateBps int64) (domain.CalculatedFees, error) {
	if err := checkBpsRate("dome", domeBps, MaxOrderFeeBps); err != nil {
		return domain.CalculatedFees{}, err
	}
	if err := checkBpsRate("affiliate", affiliateBps, MaxOrderFeeBps); err != nil {
		return domain.CalculatedFees{}, err
	}
	return calculateSplit(orderSize, domeBps, affiliateBps, MinOrderFee), nil
}

// CalculatePerformanceFees computes the dome and affiliate performance fees
// for given winnings. Each rate is capped at MaxPerformanceFeeBps; the total
// is raised to MinPerformanceFee when it would otherwise fall below the floor.
func CalculatePerformanceFees(winnings *big.Int, domeBps, affiliateBps int64) (domain.CalculatedFees, error) {
	if err := checkBpsRate("dome", domeBps, MaxPerformanceFeeBps); err != nil {
		return domain.CalculatedFees{}, err
	}
	if err := checkBpsRate("affiliate", affiliateBps, MaxPerformanceFeeBps); err != nil {
		return domain.CalculatedFees{}, err
	}
	return calculateSplit(winnings, domeBps, affiliateBps, MinPerformanceFee), nil
}

func checkBpsRate(party string, bps, max int64) error {
	if bps < 0 {
		return fmt.Errorf("escrow: %w: %s fee rate cannot be negative: %d bps",
			domain.ErrValidation, party, bps)
	}
	if bps > max {
		return fmt.Errorf("escrow: %w: %s fee rate too high: %d bps, maximum %d bps",
			domain.ErrValidation, party, bps, max)
	}
	return nil
}

// calculateSplit applies the basis-point rates and the minimum-fee floor.
// All arithmetic is exact integer arithmetic.
//
// When the combined fee lands strictly between zero and the floor, both
// amounts are scaled up so the total equals the floor. The dome share is the
// scaled-down quotient and the affiliate share is the remainder of the floor:
// the affiliate absorbs the rounding slack. When the combined fee is zero the
// dome takes the entire floor.
func calculateSplit(base *big.Int, domeBps, affiliateBps int64, floor int64) domain.CalculatedFees {
	denom := big.NewInt(bpsDenominator)
	floorAmt := big.NewInt(floor)

	domeFee := new(big.Int).Mul(base, big.NewInt(domeBps))
	domeFee.Quo(domeFee, denom)

	affiliateFee := new(big.Int).Mul(base, big.NewInt(affiliateBps))
	affiliateFee.Quo(affiliateFee, denom)

	totalFee := new(big.Int).Add(domeFee, affiliateFee)

	switch {
	case totalFee.Sign() > 0 && totalFee.Cmp(floorAmt) < 0:
		scale := new(big.Int).Mul(floorAmt, denom)
		scale.Quo(scale, totalFee)
		domeFee.Mul(domeFee, scale)
		domeFee.Quo(domeFee, denom)
		affiliateFee = new(big.Int).Sub(floorAmt, domeFee)
		totalFee = new(big.Int).Set(floorAmt)

	case totalFee.Sign() == 0:
		domeFee = new(big.Int).Set(floorAmt)
		affiliateFee = big.NewInt(0)
		totalFee = new(big.Int).Set(floorAmt)
	}

	return domain.CalculatedFees{
		DomeFee:      domeFee,
		AffiliateFee: affiliateFee,
		TotalFee:     totalFee,
	}
}

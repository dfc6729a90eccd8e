package escrow

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// USDCDecimals is the number of decimal places in on-chain USDC amounts.
const USDCDecimals = 6

// ZeroAddress is the canonical null address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var usdcUnit = big.NewInt(1_000_000)

// FormatUSDC renders a raw 6-decimal amount as a human-readable dollar
// string, trimming trailing zeros: 1_000_000 is "1", 1_500_000 is "1.5".
func FormatUSDC(amount *big.Int) string {
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(amount, usdcUnit, frac)

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := new(big.Int).Abs(frac).String()
	fracStr = strings.Repeat("0", USDCDecimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")

	// -0.x loses the sign in the integer quotient.
	sign := ""
	if amount.Sign() < 0 && whole.Sign() == 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + fracStr
}

// ParseUSDC converts a dollar amount to the smallest USDC unit, rounding to
// the nearest unit: 0.01 becomes 10_000.
func ParseUSDC(dollars float64) *big.Int {
	return big.NewInt(int64(math.Round(dollars * float64(1_000_000))))
}

// CalculateFee returns amount * bps / 10000, truncated.
func CalculateFee(amount *big.Int, bps int64) *big.Int {
	fee := new(big.Int).Mul(amount, big.NewInt(bps))
	return fee.Quo(fee, big.NewInt(bpsDenominator))
}

// CalculateOrderSizeUSDC returns the USDC cost of buying shares at price,
// in the smallest unit: 10 shares at 0.50 is 5_000_000.
func CalculateOrderSizeUSDC(shares, price float64) *big.Int {
	return big.NewInt(int64(math.Round(shares * price * float64(1_000_000))))
}

// FormatBps renders a basis-point rate as a percentage string: 25 is "0.25%",
// 100 is "1%".
func FormatBps(bps int64) string {
	whole := bps / 100
	frac := bps % 100
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	s := strings.TrimRight(fmt.Sprintf("%d.%02d", whole, frac), "0")
	return s + "%"
}

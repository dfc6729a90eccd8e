package domain

import "math/big"

// FeeAuthorization is the legacy (v1) single-amount fee authorization for the
// original DomeFeeEscrow contract: one undivided fee pulled by the escrow for
// a specific order.
type FeeAuthorization struct {
	// OrderID is the bytes32 order identifier, hex encoded.
	OrderID string

	// Payer is the address the escrow pulls the fee from.
	Payer string

	// FeeAmount is the fee in the smallest USDC unit (6 decimals).
	FeeAmount *big.Int

	// Deadline is the Unix-seconds expiry of the authorization.
	Deadline int64
}

// SignedFeeAuthorization is a FeeAuthorization plus its EIP-712 signature.
type SignedFeeAuthorization struct {
	FeeAuthorization

	// Signature is the 65-byte r||s||v signature, hex encoded.
	Signature string
}

// OrderFeeAuthorization (v2) authorizes the escrow to pull order fees with
// independent dome and affiliate amounts. The two amounts are not a split of
// one fee: each is authorized on its own and paid to a distinct party.
type OrderFeeAuthorization struct {
	OrderID         string
	Payer           string
	DomeAmount      *big.Int
	AffiliateAmount *big.Int
	ChainID         int64
	Deadline        int64
}

// TotalFee returns DomeAmount + AffiliateAmount.
func (a OrderFeeAuthorization) TotalFee() *big.Int {
	return new(big.Int).Add(a.DomeAmount, a.AffiliateAmount)
}

// SignedOrderFeeAuthorization is an OrderFeeAuthorization plus its signature.
type SignedOrderFeeAuthorization struct {
	OrderFeeAuthorization

	Signature string
}

// PerformanceFeeAuthorization authorizes the escrow to pull performance fees
// for a winning position. Same dual-payee shape as OrderFeeAuthorization but
// scoped to a resolved position and its expected winnings.
type PerformanceFeeAuthorization struct {
	PositionID       string
	Payer            string
	ExpectedWinnings *big.Int
	DomeAmount       *big.Int
	AffiliateAmount  *big.Int
	ChainID          int64
	Deadline         int64
}

// TotalFee returns DomeAmount + AffiliateAmount.
func (a PerformanceFeeAuthorization) TotalFee() *big.Int {
	return new(big.Int).Add(a.DomeAmount, a.AffiliateAmount)
}

// SignedPerformanceFeeAuthorization is a PerformanceFeeAuthorization plus its
// signature.
type SignedPerformanceFeeAuthorization struct {
	PerformanceFeeAuthorization

	Signature string
}

// CalculatedFees is the result of a fee calculation. All amounts are in the
// smallest USDC unit (6 decimals) and non-negative.
type CalculatedFees struct {
	DomeFee      *big.Int
	AffiliateFee *big.Int
	TotalFee     *big.Int
}

package escrow

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// VerifyStatus classifies the outcome of a signature verification.
type VerifyStatus int

const (
	// VerifyValid means the signature recovers to the expected signer.
	VerifyValid VerifyStatus = iota

	// VerifyMismatch means the signature is well formed and recoverable but
	// was produced by a different address.
	VerifyMismatch

	// VerifyMalformed means the inputs could not be processed at all: a bad
	// signature encoding, a bad address, or an unhashable authorization.
	VerifyMalformed
)

// String implements fmt.Stringer.
func (s VerifyStatus) String() string {
	switch s {
	case VerifyValid:
		return "valid"
	case VerifyMismatch:
		return "mismatch"
	case VerifyMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("VerifyStatus(%d)", int(s))
	}
}

// VerifyResult is the outcome of verifying a signed authorization. It
// distinguishes a cryptographic mismatch from inputs that could not be
// parsed; call sites that only care about trust can use OK.
type VerifyResult struct {
	Status VerifyStatus

	// Recovered is the checksummed address recovered from the signature.
	// Empty when Status is VerifyMalformed.
	Recovered string

	// Err describes what made the input malformed. Nil otherwise.
	Err error
}

// OK reports whether the signature is valid and from the expected signer.
func (r VerifyResult) OK() bool {
	return r.Status == VerifyValid
}

// VerifyOrderFeeSignature checks that signed was signed by expectedSigner for
// the given escrow contract. EOA signatures only: contract-wallet signatures
// need on-chain EIP-1271 verification.
func VerifyOrderFeeSignature(
	signed domain.SignedOrderFeeAuthorization,
	escrowAddress, expectedSigner string,
) VerifyResult {
	d, err := NewDomain(escrowAddress, signed.ChainID)
	if err != nil {
		return malformed(err)
	}
	return verifySignature(orderFeeTypedData(d, signed.OrderFeeAuthorization),
		signed.Signature, expectedSigner)
}

// VerifyPerformanceFeeSignature checks that signed was signed by
// expectedSigner for the given escrow contract. EOA signatures only.
func VerifyPerformanceFeeSignature(
	signed domain.SignedPerformanceFeeAuthorization,
	escrowAddress, expectedSigner string,
) VerifyResult {
	d, err := NewDomain(escrowAddress, signed.ChainID)
	if err != nil {
		return malformed(err)
	}
	return verifySignature(performanceFeeTypedData(d, signed.PerformanceFeeAuthorization),
		signed.Signature, expectedSigner)
}

// VerifyFeeSignature checks a legacy v1 authorization signature. The chain ID
// is supplied by the caller because the v1 struct does not carry it.
func VerifyFeeSignature(
	signed domain.SignedFeeAuthorization,
	escrowAddress string,
	chainID int64,
	expectedSigner string,
) VerifyResult {
	d, err := NewDomain(escrowAddress, chainID)
	if err != nil {
		return malformed(err)
	}
	return verifySignature(legacyFeeTypedData(d, signed.FeeAuthorization),
		signed.Signature, expectedSigner)
}

// verifySignature recovers the signer of td from signature and compares it to
// expectedSigner, ignoring address case.
func verifySignature(td crypto.TypedData, signature, expectedSigner string) VerifyResult {
	if !common.IsHexAddress(expectedSigner) {
		return malformed(fmt.Errorf("escrow: %w: invalid expected signer address %q",
			domain.ErrValidation, expectedSigner))
	}

	recovered, err := crypto.RecoverTypedData(td, signature)
	if err != nil {
		return malformed(fmt.Errorf("escrow: recovering signer: %w", err))
	}

	if recovered != common.HexToAddress(expectedSigner) {
		return VerifyResult{Status: VerifyMismatch, Recovered: recovered.Hex()}
	}
	return VerifyResult{Status: VerifyValid, Recovered: recovered.Hex()}
}

func malformed(err error) VerifyResult {
	return VerifyResult{Status: VerifyMalformed, Err: err}
}

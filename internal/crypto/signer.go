package crypto

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// TypedDataSigner signs EIP-712 typed data on behalf of one address. The two
// implementations are LocalSigner (in-process private key) and PrivySigner
// (custodial wallet reached over HTTPS).
type TypedDataSigner interface {
	// Address returns the checksummed signing address.
	Address(ctx context.Context) (string, error)

	// SignTypedData returns the hex-encoded 65-byte r||s||v signature over
	// the typed data's digest, with v in {27, 28}.
	SignTypedData(ctx context.Context, td TypedData) (string, error)
}

// LocalSigner signs with an in-process secp256k1 private key.
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewLocalSigner creates a LocalSigner from a hex-encoded private key, with
// or without a 0x prefix.
func NewLocalSigner(privateKeyHex string) (*LocalSigner, error) {
	keyHex := strings.TrimPrefix(privateKeyHex, "0x")
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid private key: %w", err)
	}
	return &LocalSigner{
		privateKey: pk,
		address:    ethcrypto.PubkeyToAddress(pk.PublicKey),
	}, nil
}

// Address returns the address derived from the signer's private key.
func (s *LocalSigner) Address(_ context.Context) (string, error) {
	return s.address.Hex(), nil
}

// SignTypedData hashes the typed data and signs the digest.
func (s *LocalSigner) SignTypedData(_ context.Context, td TypedData) (string, error) {
	digest, err := td.Digest()
	if err != nil {
		return "", err
	}
	return s.signDigest(digest)
}

// signDigest signs a 32-byte digest and returns the hex-encoded signature
// (r || s || v, 65 bytes).
func (s *LocalSigner) signDigest(digest []byte) (string, error) {
	sig, err := ethcrypto.Sign(digest, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("crypto: signing: %w", err)
	}

	// go-ethereum returns v in {0,1}; EIP-712 expects v in {27,28}.
	if sig[64] < 27 {
		sig[64] += 27
	}

	return "0x" + hex.EncodeToString(sig), nil
}

// RecoverTypedData recovers the address that produced signature over td's
// digest. It accepts v in {0,1} or {27,28}.
func RecoverTypedData(td TypedData, signature string) (common.Address, error) {
	raw, err := hex.DecodeString(strip0x(signature))
	if err != nil {
		return common.Address{}, fmt.Errorf("crypto: invalid signature hex: %w", err)
	}
	if len(raw) != 65 {
		return common.Address{}, fmt.Errorf("crypto: signature must be 65 bytes, got %d", len(raw))
	}

	digest, err := td.Digest()
	if err != nil {
		return common.Address{}, err
	}

	// SigToPub expects v in {0,1}. Work on a copy so the caller's slice is
	// untouched.
	sig := make([]byte, 65)
	copy(sig, raw)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("crypto: recovering signer: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

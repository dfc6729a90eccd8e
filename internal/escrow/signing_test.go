package escrow

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
)

const (
	testEscrowAddress = "0x1111111111111111111111111111111111111111"
	testSignerKey     = "0x" + "abababababababababababababababababababababababababababababababab"
)

func testSigner(t *testing.T) (*crypto.LocalSigner, string) {
	t.Helper()
	signer, err := crypto.NewLocalSigner(testSignerKey)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}
	addr, err := signer.Address(context.Background())
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	return signer, addr
}

func TestOrderFeeSignVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewOrderFeeAuthorization(
		validOrderID(), addr,
		big.NewInt(25_000), big.NewInt(5_000),
		PolygonChainID, 3600,
	)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}

	signed, err := SignOrderFeeAuthorization(ctx, signer, testEscrowAddress, auth)
	if err != nil {
		t.Fatalf("SignOrderFeeAuthorization: %v", err)
	}
	if !strings.HasPrefix(signed.Signature, "0x") {
		t.Errorf("signature %q missing 0x prefix", signed.Signature)
	}

	res := VerifyOrderFeeSignature(signed, testEscrowAddress, addr)
	if !res.OK() {
		t.Fatalf("verification failed: status %s, err %v", res.Status, res.Err)
	}
	if !strings.EqualFold(res.Recovered, addr) {
		t.Errorf("recovered %s, want %s", res.Recovered, addr)
	}

	// Lowercased expected signer must still match.
	res = VerifyOrderFeeSignature(signed, testEscrowAddress, strings.ToLower(addr))
	if !res.OK() {
		t.Errorf("case-insensitive comparison failed: status %s", res.Status)
	}
}

func TestOrderFeeVerifyWrongSigner(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewOrderFeeAuthorization(
		validOrderID(), addr, big.NewInt(25_000), big.NewInt(5_000), PolygonChainID, 3600)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}
	signed, err := SignOrderFeeAuthorization(ctx, signer, testEscrowAddress, auth)
	if err != nil {
		t.Fatalf("SignOrderFeeAuthorization: %v", err)
	}

	res := VerifyOrderFeeSignature(signed, testEscrowAddress,
		"0x9999999999999999999999999999999999999999")
	if res.Status != VerifyMismatch {
		t.Fatalf("status = %s, want mismatch", res.Status)
	}
	if res.OK() {
		t.Error("mismatch reported OK")
	}
	if !strings.EqualFold(res.Recovered, addr) {
		t.Errorf("recovered %s, want the actual signer %s", res.Recovered, addr)
	}
}

func TestOrderFeeVerifyTamperedAmount(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewOrderFeeAuthorization(
		validOrderID(), addr, big.NewInt(25_000), big.NewInt(5_000), PolygonChainID, 3600)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}
	signed, err := SignOrderFeeAuthorization(ctx, signer, testEscrowAddress, auth)
	if err != nil {
		t.Fatalf("SignOrderFeeAuthorization: %v", err)
	}

	signed.DomeAmount = big.NewInt(1)
	res := VerifyOrderFeeSignature(signed, testEscrowAddress, addr)
	if res.OK() {
		t.Error("tampered authorization verified")
	}
	if res.Status != VerifyMismatch {
		t.Errorf("status = %s, want mismatch", res.Status)
	}
}

func TestOrderFeeVerifyMalformedInputs(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewOrderFeeAuthorization(
		validOrderID(), addr, big.NewInt(25_000), big.NewInt(5_000), PolygonChainID, 3600)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}
	signed, err := SignOrderFeeAuthorization(ctx, signer, testEscrowAddress, auth)
	if err != nil {
		t.Fatalf("SignOrderFeeAuthorization: %v", err)
	}

	t.Run("bad escrow address", func(t *testing.T) {
		res := VerifyOrderFeeSignature(signed, "nope", addr)
		if res.Status != VerifyMalformed || res.Err == nil {
			t.Errorf("status = %s, err = %v, want malformed with error", res.Status, res.Err)
		}
	})
	t.Run("bad expected signer", func(t *testing.T) {
		res := VerifyOrderFeeSignature(signed, testEscrowAddress, "nope")
		if res.Status != VerifyMalformed {
			t.Errorf("status = %s, want malformed", res.Status)
		}
	})
	t.Run("bad signature", func(t *testing.T) {
		bad := signed
		bad.Signature = "0x1234"
		res := VerifyOrderFeeSignature(bad, testEscrowAddress, addr)
		if res.Status != VerifyMalformed {
			t.Errorf("status = %s, want malformed", res.Status)
		}
	})
	t.Run("bad order id", func(t *testing.T) {
		bad := signed
		bad.OrderID = "0x1234"
		res := VerifyOrderFeeSignature(bad, testEscrowAddress, addr)
		if res.Status != VerifyMalformed {
			t.Errorf("status = %s, want malformed", res.Status)
		}
	})
}

func TestPerformanceFeeSignVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewPerformanceFeeAuthorization(
		validOrderID(), addr,
		big.NewInt(100_000_000), big.NewInt(5_000_000), big.NewInt(1_000_000),
		PolygonChainID, 3600,
	)
	if err != nil {
		t.Fatalf("NewPerformanceFeeAuthorization: %v", err)
	}

	signed, err := SignPerformanceFeeAuthorization(ctx, signer, testEscrowAddress, auth)
	if err != nil {
		t.Fatalf("SignPerformanceFeeAuthorization: %v", err)
	}

	res := VerifyPerformanceFeeSignature(signed, testEscrowAddress, addr)
	if !res.OK() {
		t.Fatalf("verification failed: status %s, err %v", res.Status, res.Err)
	}

	signed.ExpectedWinnings = big.NewInt(1)
	res = VerifyPerformanceFeeSignature(signed, testEscrowAddress, addr)
	if res.OK() {
		t.Error("tampered winnings verified")
	}
}

func TestLegacyFeeSignVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	auth, err := NewFeeAuthorization(validOrderID(), addr, big.NewInt(30_000), 3600)
	if err != nil {
		t.Fatalf("NewFeeAuthorization: %v", err)
	}

	signed, err := SignFeeAuthorization(ctx, signer, testEscrowAddress, PolygonChainID, auth)
	if err != nil {
		t.Fatalf("SignFeeAuthorization: %v", err)
	}

	res := VerifyFeeSignature(signed, testEscrowAddress, PolygonChainID, addr)
	if !res.OK() {
		t.Fatalf("verification failed: status %s, err %v", res.Status, res.Err)
	}

	// A different chain produces a different domain separator.
	res = VerifyFeeSignature(signed, testEscrowAddress, 1, addr)
	if res.OK() {
		t.Error("signature verified under a different chain ID")
	}
}

func TestClientSignAndVerify(t *testing.T) {
	ctx := context.Background()
	signer, addr := testSigner(t)

	client, err := NewClient(testEscrowAddress, PolygonChainID)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	signed, err := client.SignOrderFeeAuth(ctx, signer, validOrderID(),
		big.NewInt(25_000), big.NewInt(5_000), 3600)
	if err != nil {
		t.Fatalf("SignOrderFeeAuth: %v", err)
	}
	if !strings.EqualFold(signed.Payer, addr) {
		t.Errorf("payer = %s, want signer address %s", signed.Payer, addr)
	}
	if !client.VerifyOrderFeeSignature(signed, addr).OK() {
		t.Error("client-signed order fee authorization did not verify")
	}

	perfSigned, err := client.SignPerformanceFeeAuth(ctx, signer, validOrderID(),
		big.NewInt(100_000_000), big.NewInt(5_000_000), big.NewInt(1_000_000), 3600)
	if err != nil {
		t.Fatalf("SignPerformanceFeeAuth: %v", err)
	}
	if !client.VerifyPerformanceFeeSignature(perfSigned, addr).OK() {
		t.Error("client-signed performance fee authorization did not verify")
	}
}

func TestNewClientRejectsBadAddress(t *testing.T) {
	if _, err := NewClient("not-an-address", PolygonChainID); err == nil {
		t.Fatal("expected error")
	}
}

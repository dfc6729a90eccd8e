package crypto

import (
	"context"
	"strings"
	"testing"
)

const testKeyHex = "0x" + "abababababababababababababababababababababababababababababababab"

func TestLocalSignerRoundTrip(t *testing.T) {
	ctx := context.Background()
	signer, err := NewLocalSigner(testKeyHex)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}

	addr, err := signer.Address(ctx)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}

	td := testTypedData()
	sig, err := signer.SignTypedData(ctx, td)
	if err != nil {
		t.Fatalf("SignTypedData: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+130 {
		t.Fatalf("signature = %q, want 0x-prefixed 65-byte hex", sig)
	}

	recovered, err := RecoverTypedData(td, sig)
	if err != nil {
		t.Fatalf("RecoverTypedData: %v", err)
	}
	if recovered.Hex() != addr {
		t.Errorf("recovered %s, want %s", recovered.Hex(), addr)
	}
}

func TestLocalSignerDeterministicAddress(t *testing.T) {
	ctx := context.Background()
	s1, err := NewLocalSigner(testKeyHex)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}
	s2, err := NewLocalSigner(strings.TrimPrefix(testKeyHex, "0x"))
	if err != nil {
		t.Fatalf("NewLocalSigner without prefix: %v", err)
	}
	a1, _ := s1.Address(ctx)
	a2, _ := s2.Address(ctx)
	if a1 != a2 {
		t.Errorf("prefix handling changed the address: %s vs %s", a1, a2)
	}
}

func TestNewLocalSignerRejectsBadKey(t *testing.T) {
	for _, key := range []string{"", "0x1234", "not hex at all"} {
		if _, err := NewLocalSigner(key); err == nil {
			t.Errorf("NewLocalSigner(%q): expected error", key)
		}
	}
}

func TestSignatureVByteNormalized(t *testing.T) {
	ctx := context.Background()
	signer, err := NewLocalSigner(testKeyHex)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}
	sig, err := signer.SignTypedData(ctx, testTypedData())
	if err != nil {
		t.Fatalf("SignTypedData: %v", err)
	}
	// Last byte of the hex string is the low nibble of v; v must be 27 (0x1b)
	// or 28 (0x1c).
	vHex := sig[len(sig)-2:]
	if vHex != "1b" && vHex != "1c" {
		t.Errorf("v byte = %s, want 1b or 1c", vHex)
	}
}

func TestRecoverTypedDataTamperedMessage(t *testing.T) {
	ctx := context.Background()
	signer, err := NewLocalSigner(testKeyHex)
	if err != nil {
		t.Fatalf("NewLocalSigner: %v", err)
	}
	addr, _ := signer.Address(ctx)

	td := testTypedData()
	sig, err := signer.SignTypedData(ctx, td)
	if err != nil {
		t.Fatalf("SignTypedData: %v", err)
	}

	tampered := testTypedData()
	tampered.Message["domeAmount"] = "999999"
	recovered, err := RecoverTypedData(tampered, sig)
	if err == nil && recovered.Hex() == addr {
		t.Error("tampered message recovered the original signer")
	}
}

func TestRecoverTypedDataRejectsMalformedSignature(t *testing.T) {
	td := testTypedData()
	for _, sig := range []string{
		"",
		"0x1234",
		"0x" + strings.Repeat("zz", 65),
		"0x" + strings.Repeat("00", 64), // 64 bytes, missing v
	} {
		if _, err := RecoverTypedData(td, sig); err == nil {
			t.Errorf("RecoverTypedData(%.20q): expected error", sig)
		}
	}
}

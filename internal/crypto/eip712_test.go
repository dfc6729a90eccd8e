package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func testTypedData() TypedData {
	return TypedData{
		Domain: Domain{
			Name:              "DomeFeeEscrow",
			Version:           "1",
			ChainID:           137,
			VerifyingContract: "0x1111111111111111111111111111111111111111",
		},
		PrimaryType: "OrderFeeAuthorization",
		Types: map[string][]Field{
			"OrderFeeAuthorization": {
				{Name: "orderId", Type: "bytes32"},
				{Name: "payer", Type: "address"},
				{Name: "domeAmount", Type: "uint256"},
				{Name: "affiliateAmount", Type: "uint256"},
				{Name: "chainId", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		Message: map[string]string{
			"orderId":         "0x" + strings.Repeat("ab", 32),
			"payer":           "0x2222222222222222222222222222222222222222",
			"domeAmount":      "25000",
			"affiliateAmount": "5000",
			"chainId":         "137",
			"deadline":        "1700000000",
		},
	}
}

func TestTypeStringCanonicalForm(t *testing.T) {
	td := testTypedData()
	got, err := td.TypeString("OrderFeeAuthorization")
	if err != nil {
		t.Fatalf("TypeString: %v", err)
	}
	want := "OrderFeeAuthorization(bytes32 orderId,address payer,uint256 domeAmount,uint256 affiliateAmount,uint256 chainId,uint256 deadline)"
	if got != want {
		t.Errorf("type string = %q, want %q", got, want)
	}
}

func TestTypeStringUnknownType(t *testing.T) {
	td := testTypedData()
	if _, err := td.TypeString("Nope"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestDigestDeterministic(t *testing.T) {
	td := testTypedData()
	d1, err := td.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, err := td.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if len(d1) != 32 {
		t.Fatalf("digest length = %d, want 32", len(d1))
	}
	if !bytes.Equal(d1, d2) {
		t.Error("same input produced different digests")
	}
}

func TestDigestSensitiveToEveryField(t *testing.T) {
	base := testTypedData()
	baseDigest, err := base.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	mutations := map[string]string{
		"orderId":         "0x" + strings.Repeat("cd", 32),
		"payer":           "0x3333333333333333333333333333333333333333",
		"domeAmount":      "25001",
		"affiliateAmount": "5001",
		"chainId":         "1",
		"deadline":        "1700000001",
	}
	for field, value := range mutations {
		td := testTypedData()
		td.Message[field] = value
		d, err := td.Digest()
		if err != nil {
			t.Fatalf("Digest with %s changed: %v", field, err)
		}
		if bytes.Equal(d, baseDigest) {
			t.Errorf("changing %s did not change the digest", field)
		}
	}
}

func TestDigestSensitiveToDomain(t *testing.T) {
	base := testTypedData()
	baseDigest, _ := base.Digest()

	chainChanged := testTypedData()
	chainChanged.Domain.ChainID = 1
	d, err := chainChanged.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if bytes.Equal(d, baseDigest) {
		t.Error("changing domain chain ID did not change the digest")
	}

	contractChanged := testTypedData()
	contractChanged.Domain.VerifyingContract = "0x9999999999999999999999999999999999999999"
	d, err = contractChanged.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if bytes.Equal(d, baseDigest) {
		t.Error("changing verifying contract did not change the digest")
	}
}

func TestDigestMissingField(t *testing.T) {
	td := testTypedData()
	delete(td.Message, "payer")
	if _, err := td.Digest(); err == nil {
		t.Fatal("expected error for missing message field")
	}
}

func TestEncodeFieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		typ   string
		value string
	}{
		{"short bytes32", "bytes32", "0xabcd"},
		{"bad bytes32 hex", "bytes32", "0x" + strings.Repeat("zz", 32)},
		{"bad address", "address", "not-an-address"},
		{"negative uint256", "uint256", "-1"},
		{"non-numeric uint256", "uint256", "abc"},
		{"oversized uint8", "uint8", "256"},
		{"unsupported type", "bytes", "0x00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := encodeField(tc.typ, tc.value); err == nil {
				t.Errorf("encodeField(%q, %q): expected error", tc.typ, tc.value)
			}
		})
	}
}

func TestEncodeFieldWidths(t *testing.T) {
	cases := []struct {
		typ   string
		value string
	}{
		{"address", "0x2222222222222222222222222222222222222222"},
		{"bytes32", strings.Repeat("00", 32)},
		{"uint256", "123456789012345678901234567890"},
		{"uint8", "1"},
		{"string", "hello"},
	}
	for _, tc := range cases {
		word, err := encodeField(tc.typ, tc.value)
		if err != nil {
			t.Fatalf("encodeField(%q, %q): %v", tc.typ, tc.value, err)
		}
		if len(word) != 32 {
			t.Errorf("encodeField(%q) word length = %d, want 32", tc.typ, len(word))
		}
	}
}

func TestBytes32AcceptsUpperPrefix(t *testing.T) {
	lower, err := encodeField("bytes32", "0x"+strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("lower prefix: %v", err)
	}
	upper, err := encodeField("bytes32", "0X"+strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("upper prefix: %v", err)
	}
	if !bytes.Equal(lower, upper) {
		t.Error("0x and 0X prefixes encoded differently")
	}
}

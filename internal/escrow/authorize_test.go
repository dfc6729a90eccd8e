package escrow

import (
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

const testPayer = "0x1234567890123456789012345678901234567890"

func validOrderID() string {
	return "0x" + strings.Repeat("ab", 32)
}

func TestNewOrderFeeAuthorization(t *testing.T) {
	before := time.Now().Unix()
	auth, err := NewOrderFeeAuthorization(
		validOrderID(), testPayer,
		big.NewInt(25_000), big.NewInt(5_000),
		PolygonChainID, 3600,
	)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}

	if auth.OrderID != validOrderID() {
		t.Errorf("order ID = %q", auth.OrderID)
	}
	if !strings.EqualFold(auth.Payer, testPayer) {
		t.Errorf("payer = %q, want %q", auth.Payer, testPayer)
	}
	if auth.TotalFee().Cmp(big.NewInt(30_000)) != 0 {
		t.Errorf("total fee = %s, want 30000", auth.TotalFee())
	}
	if auth.ChainID != PolygonChainID {
		t.Errorf("chain ID = %d, want %d", auth.ChainID, PolygonChainID)
	}

	deadline := auth.Deadline - before
	if deadline < 3600 || deadline > 3602 {
		t.Errorf("deadline offset = %ds, want about 3600s", deadline)
	}
}

func TestNewOrderFeeAuthorizationValidation(t *testing.T) {
	cases := []struct {
		name            string
		payer           string
		dome, affiliate int64
		deadline        int64
	}{
		{"bad payer", "not-an-address", 25_000, 5_000, 3600},
		{"deadline too short", testPayer, 25_000, 5_000, 30},
		{"deadline too long", testPayer, 25_000, 5_000, 100_000},
		{"zero total", testPayer, 0, 0, 3600},
		{"below floor", testPayer, 5_000, 4_000, 3600},
		{"above absolute cap", testPayer, MaxFeeAbsolute, 1, 3600},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrderFeeAuthorization(
				validOrderID(), tc.payer,
				big.NewInt(tc.dome), big.NewInt(tc.affiliate),
				PolygonChainID, tc.deadline,
			)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
		})
	}
}

func TestNewOrderFeeAuthorizationDeadlineBoundaries(t *testing.T) {
	for _, secs := range []int64{MinDeadlineSeconds, MaxDeadlineSeconds} {
		_, err := NewOrderFeeAuthorization(
			validOrderID(), testPayer,
			big.NewInt(25_000), big.NewInt(5_000),
			PolygonChainID, secs,
		)
		if err != nil {
			t.Errorf("deadline %ds rejected: %v", secs, err)
		}
	}
}

func TestNewPerformanceFeeAuthorization(t *testing.T) {
	auth, err := NewPerformanceFeeAuthorization(
		validOrderID(), testPayer,
		big.NewInt(100_000_000), big.NewInt(5_000_000), big.NewInt(1_000_000),
		PolygonChainID, 3600,
	)
	if err != nil {
		t.Fatalf("NewPerformanceFeeAuthorization: %v", err)
	}
	if auth.TotalFee().Cmp(big.NewInt(6_000_000)) != 0 {
		t.Errorf("total fee = %s, want 6000000", auth.TotalFee())
	}
}

func TestNewPerformanceFeeAuthorizationValidation(t *testing.T) {
	// Performance floor is 100_000, higher than the order floor.
	_, err := NewPerformanceFeeAuthorization(
		validOrderID(), testPayer,
		big.NewInt(100_000_000), big.NewInt(25_000), big.NewInt(5_000),
		PolygonChainID, 3600,
	)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("total below performance floor accepted: %v", err)
	}

	_, err = NewPerformanceFeeAuthorization(
		validOrderID(), testPayer,
		big.NewInt(0), big.NewInt(5_000_000), big.NewInt(1_000_000),
		PolygonChainID, 3600,
	)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero expected winnings accepted: %v", err)
	}
}

func TestNewFeeAuthorizationLegacy(t *testing.T) {
	auth, err := NewFeeAuthorization(validOrderID(), testPayer, big.NewInt(30_000), 3600)
	if err != nil {
		t.Fatalf("NewFeeAuthorization: %v", err)
	}
	if auth.FeeAmount.Cmp(big.NewInt(30_000)) != 0 {
		t.Errorf("fee amount = %s, want 30000", auth.FeeAmount)
	}

	if _, err := NewFeeAuthorization(validOrderID(), testPayer, big.NewInt(0), 3600); err == nil {
		t.Error("zero legacy fee accepted")
	}
	if _, err := NewFeeAuthorization(validOrderID(), "bad", big.NewInt(30_000), 3600); err == nil {
		t.Error("bad payer accepted")
	}
	if _, err := NewFeeAuthorization(validOrderID(), testPayer, big.NewInt(30_000), 10); err == nil {
		t.Error("short deadline accepted")
	}
}

func TestAuthorizationAmountsCopied(t *testing.T) {
	dome := big.NewInt(25_000)
	auth, err := NewOrderFeeAuthorization(
		validOrderID(), testPayer, dome, big.NewInt(5_000), PolygonChainID, 3600)
	if err != nil {
		t.Fatalf("NewOrderFeeAuthorization: %v", err)
	}
	dome.SetInt64(0)
	if auth.DomeAmount.Cmp(big.NewInt(25_000)) != 0 {
		t.Error("authorization aliases the caller's big.Int")
	}
}

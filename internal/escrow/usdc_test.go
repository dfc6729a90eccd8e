package escrow

import (
	"math/big"
	"testing"
)

func TestFormatUSDC(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{1_000_000, "1"},
		{1_500_000, "1.5"},
		{1_234_567, "1.234567"},
		{100, "0.0001"},
		{0, "0"},
		{10_000_000_000, "10000"},
		{-1_500_000, "-1.5"},
		{-100, "-0.0001"},
	}
	for _, tc := range cases {
		if got := FormatUSDC(big.NewInt(tc.amount)); got != tc.want {
			t.Errorf("FormatUSDC(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestParseUSDC(t *testing.T) {
	cases := []struct {
		dollars float64
		want    int64
	}{
		{0.01, 10_000},
		{1, 1_000_000},
		{1.5, 1_500_000},
		{0.0001, 100},
	}
	for _, tc := range cases {
		if got := ParseUSDC(tc.dollars); got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Errorf("ParseUSDC(%v) = %s, want %d", tc.dollars, got, tc.want)
		}
	}
}

func TestCalculateFee(t *testing.T) {
	got := CalculateFee(big.NewInt(100_000_000), 25)
	if got.Cmp(big.NewInt(250_000)) != 0 {
		t.Errorf("CalculateFee = %s, want 250000", got)
	}
}

func TestFormatBps(t *testing.T) {
	cases := []struct {
		bps  int64
		want string
	}{
		{25, "0.25%"},
		{100, "1%"},
		{250, "2.5%"},
		{1000, "10%"},
		{0, "0%"},
	}
	for _, tc := range cases {
		if got := FormatBps(tc.bps); got != tc.want {
			t.Errorf("FormatBps(%d) = %q, want %q", tc.bps, got, tc.want)
		}
	}
}

func TestCalculateOrderSizeUSDC(t *testing.T) {
	got := CalculateOrderSizeUSDC(10, 0.50)
	if got.Cmp(big.NewInt(5_000_000)) != 0 {
		t.Errorf("CalculateOrderSizeUSDC = %s, want 5000000", got)
	}
}

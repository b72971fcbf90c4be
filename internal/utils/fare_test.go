package utils

import (
	"strings"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	// 30 km: 2 l fuel = 210 INR, +30% wear = 63 INR, total 273
	total, breakdown, err := EstimateCost(30)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if total != 273 {
		t.Fatalf("EstimateCost(30) = %d, want 273", total)
	}
	if !strings.Contains(breakdown, "Rs 273") {
		t.Fatalf("breakdown does not mention the total: %q", breakdown)
	}
}

func TestEstimateCostDeterministic(t *testing.T) {
	a, _, _ := EstimateCost(42.5)
	b, _, _ := EstimateCost(42.5)
	if a != b {
		t.Fatalf("same input gave %d and %d", a, b)
	}
}

func TestEstimateCostRejectsNonPositive(t *testing.T) {
	for _, km := range []float64{0, -5} {
		if _, _, err := EstimateCost(km); err == nil {
			t.Fatalf("EstimateCost(%v) should fail", km)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rs 0"},
		{500, "Rs 500"},
		{1500, "Rs 1.500"},
		{1234567, "Rs 1.234.567"},
		{-750, "-Rs 750"},
	}
	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.want {
			t.Fatalf("FormatINR(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package ticks

import (
	"math"
	"testing"
)

// Reference values taken from a live USDC/ETH pool whose range was set to
// 2,617.59..2,643.9 USDC per ETH.
func TestToPrices(t *testing.T) {
	const ethDecimals = 18
	const usdcDecimals = 6

	cases := []struct {
		tick       int32
		wantDirect float64
		wantOther  float64
	}{
		{-197520, 0.00037822978504465244, 2643.895429552021},
		{-197620, 0.00038203086657781255, 2617.5895391853596},
	}

	for _, tc := range cases {
		direct, other := ToPrices(tc.tick, ethDecimals, usdcDecimals)
		if !closeTo(direct, tc.wantDirect) {
			t.Fatalf("tick %d: direct price %v != %v", tc.tick, direct, tc.wantDirect)
		}
		if !closeTo(other, tc.wantOther) {
			t.Fatalf("tick %d: other price %v != %v", tc.tick, other, tc.wantOther)
		}
	}
}

func TestToPricesReciprocal(t *testing.T) {
	for _, tick := range []int32{-197520, -195480, 0, 1, 245160, 887000} {
		direct, other := ToPrices(tick, 18, 6)
		if product := direct * other; !closeTo(product, 1) {
			t.Fatalf("tick %d: price product %v != 1", tick, product)
		}
	}
}

func TestToPricesEqualDecimals(t *testing.T) {
	direct, _ := ToPrices(0, 18, 18)
	if !closeTo(direct, 1) {
		t.Fatalf("tick 0 with equal decimals should price at 1, got %v", direct)
	}
}

func closeTo(got, want float64) bool {
	if want == 0 {
		return math.Abs(got) < 1e-12
	}
	return math.Abs(got-want)/math.Abs(want) < 1e-12
}

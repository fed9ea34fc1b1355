package ticks

import (
	"testing"

	"liquidationScope/internal/model"
)

func TestClassifyDirectDirection(t *testing.T) {
	// decimals0 > decimals1 (e.g. WETH/USDC): ticks read directly.
	cases := []struct {
		name        string
		lower       int32
		upper       int32
		current     int32
		want        model.RangeStatus
	}{
		{"above upper", -195480, -195270, -195194, model.AboveRange},
		{"below lower", -195480, -195270, -195481, model.BelowRange},
		{"inside", -195480, -195270, -195300, model.InRange},
		{"just inside lower", -195480, -195270, -195479, model.InRange},
	}

	for _, tc := range cases {
		got := Classify(tc.lower, tc.upper, tc.current, 18, 6)
		if got != tc.want {
			t.Fatalf("%s: %v != %v", tc.name, got, tc.want)
		}
	}
}

func TestClassifySwappedDirection(t *testing.T) {
	// decimals0 <= decimals1 (e.g. USDC/LINK): ABOVE and BELOW swap.
	if got := Classify(245160, 245400, 245914, 6, 18); got != model.BelowRange {
		t.Fatalf("beyond upper with swapped decimals: %v != BELOW_RANGE", got)
	}
	if got := Classify(245160, 245400, 24000, 6, 18); got != model.AboveRange {
		t.Fatalf("under lower with swapped decimals: %v != ABOVE_RANGE", got)
	}
	if got := Classify(245160, 245400, 245200, 6, 18); got != model.InRange {
		t.Fatalf("inside is unaffected by decimal order: %v != IN_RANGE", got)
	}
}

func TestClassifyBoundaryTicksAreNoRange(t *testing.T) {
	// Bounds are exclusive on both sides; landing exactly on one is the
	// defined NO_RANGE fallback in either decimal ordering.
	for _, decimals := range [][2]uint8{{18, 6}, {6, 18}, {18, 18}} {
		if got := Classify(100, 200, 100, decimals[0], decimals[1]); got != model.NoRange {
			t.Fatalf("lower bound with decimals %v: %v != NO_RANGE", decimals, got)
		}
		if got := Classify(100, 200, 200, decimals[0], decimals[1]); got != model.NoRange {
			t.Fatalf("upper bound with decimals %v: %v != NO_RANGE", decimals, got)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every triple with lower <= upper lands on exactly one of the four
	// states, and only bound-equal ticks reach NO_RANGE.
	const lower, upper = -10, 10
	for current := int32(-25); current <= 25; current++ {
		got := Classify(lower, upper, current, 18, 6)
		switch got {
		case model.BelowRange, model.InRange, model.AboveRange:
			if current == lower || current == upper {
				t.Fatalf("boundary tick %d classified %v", current, got)
			}
		case model.NoRange:
			if current != lower && current != upper {
				t.Fatalf("non-boundary tick %d classified NO_RANGE", current)
			}
		default:
			t.Fatalf("tick %d produced unknown status %d", current, got)
		}
	}

	// Degenerate zero-width range: every tick is on or outside the bounds.
	if got := Classify(50, 50, 50, 18, 6); got != model.NoRange {
		t.Fatalf("zero-width range on bound: %v != NO_RANGE", got)
	}
	if got := Classify(50, 50, 51, 18, 6); got != model.AboveRange {
		t.Fatalf("zero-width range above: %v != ABOVE_RANGE", got)
	}
}

package fixedpoint

import (
	"errors"
	"math/big"
	"testing"
)

func TestDivide(t *testing.T) {
	cases := []struct {
		name      string
		numerator string
		divisor   string
		precision int
		want      string
	}{
		{"fraction", "12345", "1000000", 10, "0.0123450000"},
		{"zero numerator", "0", "1000000", 10, "0.0000000000"},
		{"greater than one", "2643895429", "1000000", 6, "2643.895429"},
		{"truncates not rounds", "2", "3", 4, "0.6666"},
		{"exact", "10", "2", 2, "5.00"},
		{"precision exceeds digits", "1", "1000000000000", 6, "0.000000"},
		{"zero precision", "7", "2", 0, "3"},
		{"wei to ether", "1573942110000000000", "1000000000000000000", 18, "1.573942110000000000"},
		{"negative numerator", "-12345", "1000000", 10, "-0.0123450000"},
	}

	for _, tc := range cases {
		got, err := Divide(tc.numerator, tc.divisor, tc.precision)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: %q != %q", tc.name, got, tc.want)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	for _, numerator := range []string{"0", "1", "99999999999999999999999999"} {
		_, err := Divide(numerator, "0", 10)
		if err == nil {
			t.Fatalf("expected error for zero divisor, numerator %s", numerator)
		}
		var numErr *NumericError
		if !errors.As(err, &numErr) {
			t.Fatalf("expected NumericError, got %T: %v", err, err)
		}
		if numErr.Code != CodeDivisionByZero {
			t.Fatalf("fault code mismatch: %q", numErr.Code)
		}
	}
}

func TestDivideInvalidInput(t *testing.T) {
	if _, err := Divide("not-a-number", "10", 2); err == nil {
		t.Fatalf("expected error for invalid numerator")
	}
	if _, err := Divide("10", "1.5", 2); err == nil {
		t.Fatalf("expected error for invalid divisor")
	}
	if _, err := Divide("10", "2", -1); err == nil {
		t.Fatalf("expected error for negative precision")
	}
}

func TestDivideBeyondFloatRange(t *testing.T) {
	// 2^128 - 1, far outside float64's exact-integer range.
	numerator := "340282366920938463463374607431768211455"
	got, err := Divide(numerator, "1000000000000000000", 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "340282366920938463463.374607431768211455"
	if got != want {
		t.Fatalf("%q != %q", got, want)
	}
}

func TestFormatUnits(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	got, err := FormatUnits(wei, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.500000000000000000" {
		t.Fatalf("unexpected render: %q", got)
	}

	usdc := big.NewInt(3145802)
	got, err = FormatUnits(usdc, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3.145802" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	value, ok := ParseAmount(" 340282366920938463463374607431768211455 ")
	if !ok {
		t.Fatalf("expected ok for valid amount")
	}
	if value.String() != "340282366920938463463374607431768211455" {
		t.Fatalf("value mismatch: %s", value)
	}

	if _, ok := ParseAmount("12.5"); ok {
		t.Fatalf("expected not ok for non-integer")
	}
	if _, ok := ParseAmount(""); ok {
		t.Fatalf("expected not ok for empty input")
	}
}

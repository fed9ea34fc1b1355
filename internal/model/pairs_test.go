package model

import (
	"reflect"
	"testing"
)

func TestParsePairs(t *testing.T) {
	got, err := ParsePairs([]string{"WETH/USDC", " wbtc / usdc "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []TokenPair{
		{Token0: "WETH", Token1: "USDC"},
		{Token0: "WBTC", Token1: "USDC"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pairs mismatch: %+v != %+v", got, want)
	}
}

func TestParsePairsInvalid(t *testing.T) {
	if _, err := ParsePairs([]string{"WETHUSDC"}); err == nil {
		t.Fatalf("expected error for missing separator")
	}
	if _, err := ParsePairs([]string{"WETH/"}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}

func TestExpandPairsContainsBothOrderings(t *testing.T) {
	base := []TokenPair{
		{Token0: "WETH", Token1: "USDC"},
		{Token0: "WBTC", Token1: "USDC"},
		{Token0: "USDC", Token1: "LINK"},
	}

	expanded := ExpandPairs(base)

	if len(expanded) != len(base)*2 {
		t.Fatalf("expected %d pairs, got %d", len(base)*2, len(expanded))
	}

	contains := func(pair TokenPair) bool {
		for _, candidate := range expanded {
			if candidate == pair {
				return true
			}
		}
		return false
	}

	for _, pair := range base {
		if !contains(pair) {
			t.Fatalf("missing base pair %s", pair)
		}
		if !contains(TokenPair{Token0: pair.Token1, Token1: pair.Token0}) {
			t.Fatalf("missing reversed pair for %s", pair)
		}
	}
}

func TestExpandPairsDeduplicates(t *testing.T) {
	base := []TokenPair{
		{Token0: "WETH", Token1: "USDC"},
		{Token0: "USDC", Token1: "WETH"},
		{Token0: "WETH", Token1: "USDC"},
	}

	expanded := ExpandPairs(base)

	seen := make(map[TokenPair]int)
	for _, pair := range expanded {
		seen[pair]++
	}
	for pair, count := range seen {
		if count != 1 {
			t.Fatalf("pair %s appears %d times", pair, count)
		}
	}
	if len(expanded) != 2 {
		t.Fatalf("expected 2 unique pairs, got %d", len(expanded))
	}
}

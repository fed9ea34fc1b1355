package model

import (
	"fmt"
	"strings"
)

// TokenPair names a monitored token ordering by ERC20 symbol.
type TokenPair struct {
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
}

func (p TokenPair) String() string {
	return p.Token0 + "/" + p.Token1
}

// ParsePairs parses "SYM0/SYM1" entries into pairs.
func ParsePairs(entries []string) ([]TokenPair, error) {
	pairs := make([]TokenPair, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid pair %q, want SYM0/SYM1", entry)
		}
		token0 := strings.ToUpper(strings.TrimSpace(parts[0]))
		token1 := strings.ToUpper(strings.TrimSpace(parts[1]))
		if token0 == "" || token1 == "" {
			return nil, fmt.Errorf("invalid pair %q, empty symbol", entry)
		}
		pairs = append(pairs, TokenPair{Token0: token0, Token1: token1})
	}
	return pairs, nil
}

// ExpandPairs duplicates each pair in the reversed ordering so positions
// match regardless of how the underlying pool sorted its tokens. Duplicates
// are dropped, first occurrence wins.
func ExpandPairs(base []TokenPair) []TokenPair {
	out := make([]TokenPair, 0, len(base)*2)
	seen := make(map[TokenPair]struct{}, len(base)*2)

	add := func(pair TokenPair) {
		if _, ok := seen[pair]; ok {
			return
		}
		seen[pair] = struct{}{}
		out = append(out, pair)
	}

	for _, pair := range base {
		add(pair)
	}
	for _, pair := range base {
		add(TokenPair{Token0: pair.Token1, Token1: pair.Token0})
	}

	return out
}

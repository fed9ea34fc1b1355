// Package liquidator selects positions that have fallen out of range and
// removes their liquidity on chain.
package liquidator

import "liquidationScope/internal/model"

// Filter returns the open positions matching the pair's exact symbol
// ordering whose range status is BELOW_RANGE, plus whether anything matched.
// Pure over its input: no mutation, no reordering.
func Filter(records []model.PositionRecord, token0, token1 string) ([]model.PositionRecord, bool) {
	candidates := make([]model.PositionRecord, 0)
	for _, record := range records {
		if !record.IsOpen {
			continue
		}
		if record.Token0.Symbol != token0 || record.Token1.Symbol != token1 {
			continue
		}
		if record.RangeStatus != model.BelowRange {
			continue
		}
		candidates = append(candidates, record)
	}
	return candidates, len(candidates) > 0
}

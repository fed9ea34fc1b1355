package ticks

import "liquidationScope/internal/model"

// Classify places currentTick relative to the [tickLower, tickUpper] range.
// Comparisons are strict: a tick exactly on either bound classifies as
// NoRange, which is the defined fallback rather than an error.
//
// When token0 carries no more decimals than token1 the conventional
// base/quote direction flips, so ABOVE and BELOW swap while IN_RANGE is
// unaffected. This mirrors which token the operator reads as the base for
// the monitored pair types; it is a pair heuristic, not a pool invariant.
func Classify(tickLower, tickUpper, currentTick int32, decimals0, decimals1 uint8) model.RangeStatus {
	status := model.NoRange
	switch {
	case currentTick > tickLower && currentTick < tickUpper:
		status = model.InRange
	case currentTick > tickUpper:
		status = model.AboveRange
	case currentTick < tickLower:
		status = model.BelowRange
	}

	if decimals0 <= decimals1 {
		switch status {
		case model.AboveRange:
			status = model.BelowRange
		case model.BelowRange:
			status = model.AboveRange
		}
	}

	return status
}

// Package ticks converts raw pool ticks into range classifications and
// display prices. Classification is integer-exact; price conversion is
// float64 on purpose, it never touches the money-moving path.
package ticks

import "math"

// tickBase is the fixed per-tick price step of the pool.
const tickBase = 1.0001

// ToPrices converts a tick into the pair's two price directions, adjusted
// for the tokens' decimal scales. The first value is token1-per-token0, the
// second its reciprocal.
func ToPrices(tick int32, decimals0, decimals1 uint8) (float64, float64) {
	t := float64(-tick)
	decimalShift := math.Pow(10, float64(int(decimals0)-int(decimals1)))
	priceToken1PerToken0 := math.Exp(math.Log(tickBase)*t) / decimalShift
	return priceToken1PerToken0, 1 / priceToken1PerToken0
}

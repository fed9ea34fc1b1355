package model

import "math/big"

// PositionDetails is the typed result of the position manager's positions()
// call. Big integers stay raw here; rendering happens at the edges.
type PositionDetails struct {
	TokenID                  *big.Int
	Token0                   string
	Token1                   string
	Fee                      uint32
	TickLower                int32
	TickUpper                int32
	Liquidity                *big.Int
	FeeGrowthInside0LastX128 *big.Int
	FeeGrowthInside1LastX128 *big.Int
	TokensOwed0              *big.Int
	TokensOwed1              *big.Int
}

// PositionRecord is one concentrated-liquidity position annotated with its
// range state and display prices. Built fresh each poll cycle from current
// chain state and discarded after the cycle; never mutated once assembled.
type PositionRecord struct {
	TokenID     *big.Int    `json:"tokenId"`
	Token0      TokenMeta   `json:"token0"`
	Token1      TokenMeta   `json:"token1"`
	Fee         uint32      `json:"fee"`
	TickLower   int32       `json:"tickLower"`
	TickUpper   int32       `json:"tickUpper"`
	CurrentTick int32       `json:"currentTick"`
	Liquidity   *big.Int    `json:"liquidity"`
	TokensOwed0 *big.Int    `json:"tokensOwed0"`
	TokensOwed1 *big.Int    `json:"tokensOwed1"`
	IsOpen      bool        `json:"isOpen"`
	RangeStatus RangeStatus `json:"rangeStatus"`
	PoolAddress string      `json:"poolAddress"`

	// Display prices derived from CurrentTick, float by design.
	PriceToken1PerToken0 float64 `json:"priceToken1PerToken0"`
	PriceToken0PerToken1 float64 `json:"priceToken0PerToken1"`
}

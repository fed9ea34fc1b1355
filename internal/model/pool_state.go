package model

import "math/big"

// PoolState captures the live pool fields a liquidation needs: the slot0
// price/tick plus in-range liquidity and the immutable fee tier.
type PoolState struct {
	Address      string   `json:"address"`
	Token0       string   `json:"token0"`
	Token1       string   `json:"token1"`
	Fee          uint32   `json:"fee"`
	TickSpacing  int32    `json:"tick_spacing"`
	SqrtPriceX96 *big.Int `json:"-"`
	Tick         int32    `json:"tick"`
	Liquidity    *big.Int `json:"-"`
}

package scanner

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidationScope/internal/chain"
	"liquidationScope/internal/dex"
	"liquidationScope/internal/model"
)

// ChainTokenMetas resolves token metadata over RPC through a shared cache.
type ChainTokenMetas struct {
	Chain  *chain.Client
	Cache  *dex.TokenMetaCache
	Logger *zap.Logger
}

func (c *ChainTokenMetas) TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error) {
	return c.Cache.TokenMeta(ctx, c.Chain, token, c.Logger)
}

// ChainPoolStates reads live pool state over RPC.
type ChainPoolStates struct {
	Chain *chain.Client
}

func (c *ChainPoolStates) PoolState(ctx context.Context, pool common.Address) (model.PoolState, error) {
	return dex.FetchPoolState(ctx, c.Chain, pool)
}

// Package scanner assembles annotated position records from current chain
// state. Records are rebuilt from scratch every cycle; nothing here carries
// state between cycles.
package scanner

import (
	"context"
	"fmt"
	"math/big"

	coreentities "github.com/daoleno/uniswap-sdk-core/entities"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"liquidationScope/internal/dex"
	"liquidationScope/internal/model"
	"liquidationScope/internal/ticks"
)

// PositionSource reads position tokens from the position manager.
type PositionSource interface {
	PositionCount(ctx context.Context, owner common.Address) (uint64, error)
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index uint64) (*big.Int, error)
	PositionDetails(ctx context.Context, tokenID *big.Int) (model.PositionDetails, error)
}

// TokenMetaSource resolves ERC20 metadata.
type TokenMetaSource interface {
	TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error)
}

// PoolStateSource reads live pool state.
type PoolStateSource interface {
	PoolState(ctx context.Context, pool common.Address) (model.PoolState, error)
}

// Config holds the immutable parameters record assembly needs.
type Config struct {
	Factory common.Address
	ChainID uint
}

// Scanner builds PositionRecords for one owner.
type Scanner struct {
	cfg       Config
	positions PositionSource
	tokens    TokenMetaSource
	pools     PoolStateSource
	logger    *zap.Logger
}

// NewScanner builds a Scanner with its dependencies.
func NewScanner(cfg Config, positions PositionSource, tokens TokenMetaSource, pools PoolStateSource, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		cfg:       cfg,
		positions: positions,
		tokens:    tokens,
		pools:     pools,
		logger:    logger,
	}
}

// OwnedTokenIDs fetches every position token id the owner holds. The
// per-index reads go out as one concurrent batch; results keep index order.
func (s *Scanner) OwnedTokenIDs(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	count, err := s.positions.PositionCount(ctx, owner)
	if err != nil {
		s.logger.Warn("position count failed", zap.String("owner", owner.Hex()), zap.Error(err))
		return nil, fmt.Errorf("position count: %w", err)
	}

	ids := make([]*big.Int, count)
	group, groupCtx := errgroup.WithContext(ctx)
	for i := uint64(0); i < count; i++ {
		index := i
		group.Go(func() error {
			tokenID, err := s.positions.TokenOfOwnerByIndex(groupCtx, owner, index)
			if err != nil {
				s.logger.Warn("token id fetch failed", zap.Uint64("index", index), zap.Error(err))
				return fmt.Errorf("token of owner at %d: %w", index, err)
			}
			ids[index] = tokenID
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Scan fetches and annotates the positions behind the given token ids.
// Positions whose liquidity is zero or undecodable are dropped; everything
// returned is open. Output order follows input order.
func (s *Scanner) Scan(ctx context.Context, tokenIDs []*big.Int) ([]model.PositionRecord, error) {
	details := make([]model.PositionDetails, len(tokenIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, tokenID := range tokenIDs {
		index, id := i, tokenID
		group.Go(func() error {
			d, err := s.positions.PositionDetails(groupCtx, id)
			if err != nil {
				s.logger.Warn("position details failed", zap.String("token_id", id.String()), zap.Error(err))
				return fmt.Errorf("position %s: %w", id, err)
			}
			details[index] = d
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	records := make([]model.PositionRecord, 0, len(details))
	for _, d := range details {
		if d.Liquidity == nil || d.Liquidity.Sign() == 0 {
			continue
		}

		record, err := s.annotate(ctx, d)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *Scanner) annotate(ctx context.Context, d model.PositionDetails) (model.PositionRecord, error) {
	meta0, err := s.tokens.TokenMeta(ctx, common.HexToAddress(d.Token0))
	if err != nil {
		s.logger.Warn("token0 metadata failed", zap.String("token", d.Token0), zap.Error(err))
		return model.PositionRecord{}, fmt.Errorf("token0 metadata: %w", err)
	}
	meta1, err := s.tokens.TokenMeta(ctx, common.HexToAddress(d.Token1))
	if err != nil {
		s.logger.Warn("token1 metadata failed", zap.String("token", d.Token1), zap.Error(err))
		return model.PositionRecord{}, fmt.Errorf("token1 metadata: %w", err)
	}

	tokenA := coreentities.NewToken(s.cfg.ChainID, common.HexToAddress(meta0.Address), uint(meta0.Decimals), meta0.Symbol, meta0.Name)
	tokenB := coreentities.NewToken(s.cfg.ChainID, common.HexToAddress(meta1.Address), uint(meta1.Decimals), meta1.Symbol, meta1.Name)

	poolAddress, err := dex.PoolAddress(s.cfg.Factory, tokenA, tokenB, d.Fee)
	if err != nil {
		return model.PositionRecord{}, err
	}

	poolState, err := s.pools.PoolState(ctx, poolAddress)
	if err != nil {
		s.logger.Warn("pool state failed", zap.String("pool", poolAddress.Hex()), zap.Error(err))
		return model.PositionRecord{}, fmt.Errorf("pool %s: %w", poolAddress.Hex(), err)
	}

	status := ticks.Classify(d.TickLower, d.TickUpper, poolState.Tick, meta0.Decimals, meta1.Decimals)
	price1Per0, price0Per1 := ticks.ToPrices(poolState.Tick, meta0.Decimals, meta1.Decimals)

	return model.PositionRecord{
		TokenID:              d.TokenID,
		Token0:               meta0,
		Token1:               meta1,
		Fee:                  d.Fee,
		TickLower:            d.TickLower,
		TickUpper:            d.TickUpper,
		CurrentTick:          poolState.Tick,
		Liquidity:            d.Liquidity,
		TokensOwed0:          d.TokensOwed0,
		TokensOwed1:          d.TokensOwed1,
		IsOpen:               true,
		RangeStatus:          status,
		PoolAddress:          poolAddress.Hex(),
		PriceToken1PerToken0: price1Per0,
		PriceToken0PerToken1: price0Per1,
	}, nil
}

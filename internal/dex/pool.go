package dex

import (
	"context"
	"fmt"

	coreentities "github.com/daoleno/uniswap-sdk-core/entities"
	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/daoleno/uniswapv3-sdk/utils"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"liquidationScope/internal/chain"
	"liquidationScope/internal/model"
)

// PoolAddress derives the deterministic pool address for a token pair and
// fee tier from the factory, without touching the chain.
func PoolAddress(factory common.Address, tokenA, tokenB *coreentities.Token, fee uint32) (common.Address, error) {
	address, err := utils.ComputePoolAddress(factory, tokenA, tokenB, constants.FeeAmount(fee), "")
	if err != nil {
		return common.Address{}, fmt.Errorf("compute pool address: %w", err)
	}
	return address, nil
}

// FetchPoolState reads the live pool fields a liquidation depends on. The
// four independent reads (liquidity, slot0, token0, token1) go out as one
// concurrent batch; fee and tick spacing follow.
func FetchPoolState(ctx context.Context, chainClient *chain.Client, pool common.Address) (model.PoolState, error) {
	if chainClient == nil {
		return model.PoolState{}, fmt.Errorf("chain client is nil")
	}

	poolABI, err := V3PoolABI()
	if err != nil {
		return model.PoolState{}, fmt.Errorf("parse pool abi: %w", err)
	}

	var (
		liquidityValues []interface{}
		slot0Values     []interface{}
		token0Values    []interface{}
		token1Values    []interface{}
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		liquidityValues, err = callPoolMethod(groupCtx, chainClient, pool, poolABI, "liquidity")
		return err
	})
	group.Go(func() error {
		var err error
		slot0Values, err = callPoolMethod(groupCtx, chainClient, pool, poolABI, "slot0")
		return err
	})
	group.Go(func() error {
		var err error
		token0Values, err = callPoolMethod(groupCtx, chainClient, pool, poolABI, "token0")
		return err
	})
	group.Go(func() error {
		var err error
		token1Values, err = callPoolMethod(groupCtx, chainClient, pool, poolABI, "token1")
		return err
	})
	if err := group.Wait(); err != nil {
		return model.PoolState{}, err
	}

	state := model.PoolState{Address: pool.Hex()}

	liquidity, err := asBigInt(liquidityValues[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("liquidity: %w", err)
	}
	state.Liquidity = liquidity

	if len(slot0Values) < 2 {
		return model.PoolState{}, fmt.Errorf("slot0 returned %d values", len(slot0Values))
	}
	sqrtPrice, err := asBigInt(slot0Values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("sqrt price: %w", err)
	}
	state.SqrtPriceX96 = sqrtPrice
	tickInt, err := asBigInt(slot0Values[1])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick: %w", err)
	}
	state.Tick = tick

	token0, err := asAddress(token0Values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("token0: %w", err)
	}
	state.Token0 = token0.Hex()
	token1, err := asAddress(token1Values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("token1: %w", err)
	}
	state.Token1 = token1.Hex()

	values, err := callPoolMethod(ctx, chainClient, pool, poolABI, "fee")
	if err != nil {
		return model.PoolState{}, err
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("fee: %w", err)
	}
	state.Fee = uint32(feeInt.Uint64())

	values, err = callPoolMethod(ctx, chainClient, pool, poolABI, "tickSpacing")
	if err != nil {
		return model.PoolState{}, err
	}
	tickSpacingInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick spacing: %w", err)
	}
	tickSpacing, err := int24FromBig(tickSpacingInt)
	if err != nil {
		return model.PoolState{}, fmt.Errorf("tick spacing: %w", err)
	}
	state.TickSpacing = tickSpacing

	return state, nil
}

func callPoolMethod(ctx context.Context, chainClient *chain.Client, pool common.Address, poolABI abi.ABI, method string) ([]interface{}, error) {
	data, err := poolABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &pool, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := poolABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

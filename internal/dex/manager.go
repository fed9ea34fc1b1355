package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"liquidationScope/internal/chain"
	"liquidationScope/internal/model"
)

// maxUint128 caps the static collect amounts so the simulation reports every
// collectible wei of fees.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Manager wraps the nonfungible position manager contract.
type Manager struct {
	chain   *chain.Client
	address common.Address
}

// NewManager binds a Manager to the position manager contract address.
func NewManager(chainClient *chain.Client, address common.Address) *Manager {
	return &Manager{chain: chainClient, address: address}
}

// Address returns the position manager contract address.
func (m *Manager) Address() common.Address {
	return m.address
}

// PositionCount returns how many position tokens the owner holds.
func (m *Manager) PositionCount(ctx context.Context, owner common.Address) (uint64, error) {
	values, err := m.call(ctx, "balanceOf", common.Address{}, owner)
	if err != nil {
		return 0, err
	}
	count, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("balanceOf: %w", err)
	}
	if !count.IsUint64() {
		return 0, fmt.Errorf("balanceOf does not fit in uint64: %s", count)
	}
	return count.Uint64(), nil
}

// TokenOfOwnerByIndex returns the owner's position token id at index.
func (m *Manager) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index uint64) (*big.Int, error) {
	values, err := m.call(ctx, "tokenOfOwnerByIndex", common.Address{}, owner, new(big.Int).SetUint64(index))
	if err != nil {
		return nil, err
	}
	tokenID, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("tokenOfOwnerByIndex: %w", err)
	}
	return tokenID, nil
}

// PositionDetails returns the typed positions() record for a token id.
func (m *Manager) PositionDetails(ctx context.Context, tokenID *big.Int) (model.PositionDetails, error) {
	values, err := m.call(ctx, "positions", common.Address{}, tokenID)
	if err != nil {
		return model.PositionDetails{}, err
	}
	return decodePositionDetails(tokenID, values)
}

// CollectableFees simulates a full collect for the owner and returns the raw
// collectible fee amounts per token. The state-changing call runs as an
// eth_call from the owner, so nothing moves on chain.
func (m *Manager) CollectableFees(ctx context.Context, tokenID *big.Int, owner common.Address) (*big.Int, *big.Int, error) {
	params := struct {
		TokenId    *big.Int
		Recipient  common.Address
		Amount0Max *big.Int
		Amount1Max *big.Int
	}{
		TokenId:    tokenID,
		Recipient:  owner,
		Amount0Max: maxUint128,
		Amount1Max: maxUint128,
	}

	values, err := m.call(ctx, "collect", owner, params)
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, fmt.Errorf("collect returned %d values", len(values))
	}
	amount0, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("collect amount0: %w", err)
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("collect amount1: %w", err)
	}
	return amount0, amount1, nil
}

func (m *Manager) call(ctx context.Context, method string, from common.Address, args ...interface{}) ([]interface{}, error) {
	if m.chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	managerABI, err := PositionManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse position manager abi: %w", err)
	}

	data, err := managerABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{From: from, To: &m.address, Data: data}
	resp, err := m.chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := managerABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func decodePositionDetails(tokenID *big.Int, values []interface{}) (model.PositionDetails, error) {
	if len(values) != 12 {
		return model.PositionDetails{}, fmt.Errorf("positions returned %d values, want 12", len(values))
	}

	details := model.PositionDetails{TokenID: new(big.Int).Set(tokenID)}

	token0, err := asAddress(values[2])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("token0: %w", err)
	}
	details.Token0 = token0.Hex()

	token1, err := asAddress(values[3])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("token1: %w", err)
	}
	details.Token1 = token1.Hex()

	fee, err := asBigInt(values[4])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("fee: %w", err)
	}
	details.Fee = uint32(fee.Uint64())

	tickLowerInt, err := asBigInt(values[5])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tickLower: %w", err)
	}
	tickLower, err := int24FromBig(tickLowerInt)
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tickLower: %w", err)
	}
	details.TickLower = tickLower

	tickUpperInt, err := asBigInt(values[6])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tickUpper: %w", err)
	}
	tickUpper, err := int24FromBig(tickUpperInt)
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tickUpper: %w", err)
	}
	details.TickUpper = tickUpper

	liquidity, err := asBigInt(values[7])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("liquidity: %w", err)
	}
	details.Liquidity = liquidity

	feeGrowth0, err := asBigInt(values[8])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("feeGrowthInside0: %w", err)
	}
	details.FeeGrowthInside0LastX128 = feeGrowth0

	feeGrowth1, err := asBigInt(values[9])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("feeGrowthInside1: %w", err)
	}
	details.FeeGrowthInside1LastX128 = feeGrowth1

	owed0, err := asBigInt(values[10])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tokensOwed0: %w", err)
	}
	details.TokensOwed0 = owed0

	owed1, err := asBigInt(values[11])
	if err != nil {
		return model.PositionDetails{}, fmt.Errorf("tokensOwed1: %w", err)
	}
	details.TokensOwed1 = owed1

	return details, nil
}

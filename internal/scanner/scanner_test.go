package scanner

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidationScope/internal/model"
)

var (
	testFactory = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	testOwner   = common.HexToAddress("0x4444444444444444444444444444444444444444")
	usdcAddress = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	wethAddress = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

type fakePositions struct {
	ids     []*big.Int
	details map[string]model.PositionDetails
	fail    bool
}

func (f *fakePositions) PositionCount(_ context.Context, _ common.Address) (uint64, error) {
	if f.fail {
		return 0, fmt.Errorf("rpc down")
	}
	return uint64(len(f.ids)), nil
}

func (f *fakePositions) TokenOfOwnerByIndex(_ context.Context, _ common.Address, index uint64) (*big.Int, error) {
	if f.fail {
		return nil, fmt.Errorf("rpc down")
	}
	return f.ids[index], nil
}

func (f *fakePositions) PositionDetails(_ context.Context, tokenID *big.Int) (model.PositionDetails, error) {
	if f.fail {
		return model.PositionDetails{}, fmt.Errorf("rpc down")
	}
	d, ok := f.details[tokenID.String()]
	if !ok {
		return model.PositionDetails{}, fmt.Errorf("unknown token %s", tokenID)
	}
	return d, nil
}

type fakeTokenMetas struct {
	metas map[common.Address]model.TokenMeta
}

func (f *fakeTokenMetas) TokenMeta(_ context.Context, token common.Address) (model.TokenMeta, error) {
	meta, ok := f.metas[token]
	if !ok {
		return model.TokenMeta{}, fmt.Errorf("unknown token %s", token.Hex())
	}
	return meta, nil
}

type fakePoolStates struct {
	tick int32
}

func (f *fakePoolStates) PoolState(_ context.Context, pool common.Address) (model.PoolState, error) {
	return model.PoolState{
		Address:      pool.Hex(),
		Fee:          3000,
		TickSpacing:  60,
		SqrtPriceX96: big.NewInt(1),
		Tick:         f.tick,
		Liquidity:    big.NewInt(1000),
	}, nil
}

func newTestScanner(positions *fakePositions, tick int32) *Scanner {
	tokens := &fakeTokenMetas{metas: map[common.Address]model.TokenMeta{
		usdcAddress: {Address: usdcAddress.Hex(), Decimals: 6, Symbol: "USDC", Name: "USD Coin"},
		wethAddress: {Address: wethAddress.Hex(), Decimals: 18, Symbol: "WETH", Name: "Wrapped Ether"},
	}}
	return NewScanner(
		Config{Factory: testFactory, ChainID: 1},
		positions,
		tokens,
		&fakePoolStates{tick: tick},
		nil,
	)
}

func openDetails(tokenID int64) model.PositionDetails {
	return model.PositionDetails{
		TokenID:     big.NewInt(tokenID),
		Token0:      usdcAddress.Hex(),
		Token1:      wethAddress.Hex(),
		Fee:         3000,
		TickLower:   245160,
		TickUpper:   245400,
		Liquidity:   big.NewInt(987654321),
		TokensOwed0: big.NewInt(12),
		TokensOwed1: big.NewInt(34),
	}
}

func TestOwnedTokenIDsPreservesIndexOrder(t *testing.T) {
	positions := &fakePositions{
		ids: []*big.Int{big.NewInt(31), big.NewInt(7), big.NewInt(99)},
	}
	s := newTestScanner(positions, 0)

	ids, err := s.OwnedTokenIDs(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"31", "7", "99"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Fatalf("id order mismatch at %d: %s != %s", i, id, want[i])
		}
	}
}

func TestScanDropsClosedPositions(t *testing.T) {
	closed := openDetails(8)
	closed.Liquidity = big.NewInt(0)
	positions := &fakePositions{
		ids: []*big.Int{big.NewInt(8), big.NewInt(9)},
		details: map[string]model.PositionDetails{
			"8": closed,
			"9": openDetails(9),
		},
	}
	s := newTestScanner(positions, 245914)

	records, err := s.Scan(context.Background(), positions.ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(records))
	}
	if records[0].TokenID.String() != "9" {
		t.Fatalf("wrong position survived: %s", records[0].TokenID)
	}
	if !records[0].IsOpen {
		t.Fatalf("surviving record not marked open")
	}
}

func TestScanAnnotatesRangeAndPrices(t *testing.T) {
	positions := &fakePositions{
		ids:     []*big.Int{big.NewInt(9)},
		details: map[string]model.PositionDetails{"9": openDetails(9)},
	}
	// Current tick beyond the upper bound; token0 has fewer decimals than
	// token1, so the reading flips to BELOW_RANGE.
	s := newTestScanner(positions, 245914)

	records, err := s.Scan(context.Background(), positions.ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.RangeStatus != model.BelowRange {
		t.Fatalf("range status %v != BELOW_RANGE", record.RangeStatus)
	}
	if record.CurrentTick != 245914 {
		t.Fatalf("current tick mismatch: %d", record.CurrentTick)
	}
	if record.Token0.Symbol != "USDC" || record.Token1.Symbol != "WETH" {
		t.Fatalf("token metadata mismatch: %+v", record)
	}
	if record.PoolAddress == "" || !common.IsHexAddress(record.PoolAddress) {
		t.Fatalf("pool address not derived: %q", record.PoolAddress)
	}
	if product := record.PriceToken1PerToken0 * record.PriceToken0PerToken1; product < 0.999999 || product > 1.000001 {
		t.Fatalf("price pair not reciprocal: %v", product)
	}
}

func TestScanIsIdempotentForUnchangedState(t *testing.T) {
	positions := &fakePositions{
		ids:     []*big.Int{big.NewInt(9)},
		details: map[string]model.PositionDetails{"9": openDetails(9)},
	}
	s := newTestScanner(positions, 245914)

	first, err := s.Scan(context.Background(), positions.ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Scan(context.Background(), positions.ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated scan diverged: %+v != %+v", first, second)
	}
}

func TestScanPropagatesReadFailures(t *testing.T) {
	positions := &fakePositions{
		ids:  []*big.Int{big.NewInt(9)},
		fail: true,
	}
	s := newTestScanner(positions, 0)

	if _, err := s.Scan(context.Background(), positions.ids); err == nil {
		t.Fatalf("expected read failure to propagate")
	}
	if _, err := s.OwnedTokenIDs(context.Background(), testOwner); err == nil {
		t.Fatalf("expected count failure to propagate")
	}
}

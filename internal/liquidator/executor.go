package liquidator

import (
	"context"
	"fmt"
	"math/big"
	"time"

	coreentities "github.com/daoleno/uniswap-sdk-core/entities"
	"github.com/daoleno/uniswapv3-sdk/constants"
	sdkentities "github.com/daoleno/uniswapv3-sdk/entities"
	"github.com/daoleno/uniswapv3-sdk/periphery"
	sdkutils "github.com/daoleno/uniswapv3-sdk/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidationScope/internal/audit"
	"liquidationScope/internal/dex"
	"liquidationScope/internal/fixedpoint"
	"liquidationScope/internal/model"
)

// ExecutionStatus says how an execution ended. Transaction failures end in
// StatusFailed, not an error: the loop must outlive them.
type ExecutionStatus int

const (
	// StatusSubmitted means the removal transaction was mined.
	StatusSubmitted ExecutionStatus = iota
	// StatusSkipped means safe mode stopped short of submission.
	StatusSkipped
	// StatusFailed means submission or confirmation failed; the failure
	// text is in FailureDetail and mirrored into the audit line.
	StatusFailed
)

func (s ExecutionStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExecutionResult pairs the audit outcome with a typed status so callers
// branch on Status instead of inspecting the hash text.
type ExecutionResult struct {
	Outcome       model.LiquidationOutcome
	Status        ExecutionStatus
	TxHash        string
	FailureDetail string
}

// safeModeHashText is recorded in place of a hash when safe mode holds back
// the transaction.
const safeModeHashText = "Running in Safe Mode so no Transaction Hash"

const (
	removePercent        = 100
	slippageNumerator    = 50
	slippageDenominator  = 10_000
	removalDeadline      = 20 * time.Minute
	defaultSettleDelay   = 10 * time.Second
	nativeDecimals       = 18
	balanceErrorSentinel = "-1"
)

// PositionReader re-fetches position state right before execution.
type PositionReader interface {
	PositionDetails(ctx context.Context, tokenID *big.Int) (model.PositionDetails, error)
	CollectableFees(ctx context.Context, tokenID *big.Int, owner common.Address) (*big.Int, *big.Int, error)
}

// TokenMetaSource resolves ERC20 metadata.
type TokenMetaSource interface {
	TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error)
}

// PoolStateSource reads live pool state.
type PoolStateSource interface {
	PoolState(ctx context.Context, pool common.Address) (model.PoolState, error)
}

// TxBackend covers the chain operations of the write path.
type TxBackend interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Signer signs resolved envelopes for the operator wallet.
type Signer interface {
	Address() common.Address
	SignEnvelope(envelope model.TxEnvelope, nonce uint64) (*types.Transaction, error)
}

// ExecutorConfig holds the immutable parameters of the write path.
type ExecutorConfig struct {
	ChainID         uint
	Factory         common.Address
	PositionManager common.Address
	SettleDelay     time.Duration
}

// Executor removes the full liquidity of one position and records the
// outcome. Executions are strictly sequential; the wallet's nonce ordering
// depends on it.
type Executor struct {
	cfg       ExecutorConfig
	positions PositionReader
	tokens    TokenMetaSource
	pools     PoolStateSource
	backend   TxBackend
	signer    Signer
	sinks     []audit.Sink
	logger    *zap.Logger
	now       func() time.Time
}

// NewExecutor builds an Executor with its dependencies.
func NewExecutor(cfg ExecutorConfig, positions PositionReader, tokens TokenMetaSource, pools PoolStateSource, backend TxBackend, signer Signer, sinks []audit.Sink, logger *zap.Logger) *Executor {
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		cfg:       cfg,
		positions: positions,
		tokens:    tokens,
		pools:     pools,
		backend:   backend,
		signer:    signer,
		sinks:     sinks,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute re-derives the position's withdrawable amounts from current chain
// state, builds the removal transaction, and submits it unless safeMode
// holds it back. Read failures and gas-price failures propagate; submission
// and confirmation failures are folded into the result and audit line.
func (e *Executor) Execute(ctx context.Context, tokenID *big.Int, safeMode bool) (ExecutionResult, error) {
	details, err := e.positions.PositionDetails(ctx, tokenID)
	if err != nil {
		e.logger.Warn("position refetch failed", zap.String("token_id", tokenID.String()), zap.Error(err))
		return ExecutionResult{}, fmt.Errorf("position %s: %w", tokenID, err)
	}

	meta0, err := e.tokens.TokenMeta(ctx, common.HexToAddress(details.Token0))
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("token0 metadata: %w", err)
	}
	meta1, err := e.tokens.TokenMeta(ctx, common.HexToAddress(details.Token1))
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("token1 metadata: %w", err)
	}

	tokenA := coreentities.NewToken(e.cfg.ChainID, common.HexToAddress(meta0.Address), uint(meta0.Decimals), meta0.Symbol, meta0.Name)
	tokenB := coreentities.NewToken(e.cfg.ChainID, common.HexToAddress(meta1.Address), uint(meta1.Decimals), meta1.Symbol, meta1.Name)

	poolAddress, err := dex.PoolAddress(e.cfg.Factory, tokenA, tokenB, details.Fee)
	if err != nil {
		return ExecutionResult{}, err
	}
	state, err := e.pools.PoolState(ctx, poolAddress)
	if err != nil {
		e.logger.Warn("pool state failed", zap.String("pool", poolAddress.Hex()), zap.Error(err))
		return ExecutionResult{}, fmt.Errorf("pool %s: %w", poolAddress.Hex(), err)
	}

	pool, err := sdkentities.NewPool(tokenA, tokenB, constants.FeeAmount(state.Fee), state.SqrtPriceX96, state.Liquidity, int(state.Tick), nil)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("build pool model: %w", err)
	}

	spacing := int(state.TickSpacing)
	position, err := sdkentities.NewPosition(
		pool,
		details.Liquidity,
		sdkentities.NearestUsableTick(int(details.TickLower), spacing),
		sdkentities.NearestUsableTick(int(details.TickUpper), spacing),
	)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("build position model: %w", err)
	}

	e.logWithdrawable(position, meta0, meta1, tokenID)

	before := e.balanceText(ctx)

	fee0, fee1, err := e.collectableFeeText(ctx, tokenID, meta0, meta1)
	if err != nil {
		return ExecutionResult{}, err
	}

	params, err := e.removeParameters(position, tokenA, tokenB, tokenID)
	if err != nil {
		return ExecutionResult{}, err
	}

	// Gas price failure is a read-path fault: propagate, abort the cycle.
	gasPrice, err := e.backend.SuggestGasPrice(ctx)
	if err != nil {
		e.logger.Warn("gas price fetch failed", zap.Error(err))
		return ExecutionResult{}, fmt.Errorf("gas price: %w", err)
	}

	envelope := model.TxEnvelope{
		To:       e.cfg.PositionManager,
		From:     e.signer.Address(),
		Data:     params.Calldata,
		Value:    params.Value,
		GasPrice: gasPrice,
		// Gas limit follows the position token id, preserving the sizing
		// the audit history was produced under.
		// TODO: switch to an eth_estimateGas-based limit once the intended
		// sizing is confirmed against past receipts.
		GasLimit: tokenID.Uint64(),
	}

	status, hashText, failureDetail := e.submit(ctx, envelope, safeMode)

	e.sleepSettle(ctx)
	after := e.balanceText(ctx)

	outcome := model.LiquidationOutcome{
		CurrentDate:      e.now().UTC().Format(time.RFC3339),
		TokenID:          tokenID.String(),
		Percent:          removePercent,
		BeforeEthBalance: before,
		AfterEthBalance:  after,
		Symbol0:          meta0.Symbol,
		Symbol1:          meta1.Symbol,
		Fee0:             fee0,
		Fee1:             fee1,
		TransactionHash:  hashText,
	}

	for _, sink := range e.sinks {
		if err := sink.Append(ctx, outcome); err != nil {
			return ExecutionResult{}, fmt.Errorf("append audit record: %w", err)
		}
	}

	result := ExecutionResult{
		Outcome:       outcome,
		Status:        status,
		FailureDetail: failureDetail,
	}
	if status == StatusSubmitted {
		result.TxHash = hashText
	}
	return result, nil
}

func (e *Executor) submit(ctx context.Context, envelope model.TxEnvelope, safeMode bool) (ExecutionStatus, string, string) {
	if safeMode {
		e.logger.Info("safe mode, transaction withheld",
			zap.String("to", envelope.To.Hex()),
			zap.Uint64("gas_limit", envelope.GasLimit),
		)
		return StatusSkipped, safeModeHashText, ""
	}

	nonce, err := e.backend.PendingNonceAt(ctx, envelope.From)
	if err != nil {
		detail := describeFailure(err)
		e.logger.Error("nonce fetch failed", zap.String("detail", detail))
		return StatusFailed, detail, detail
	}

	tx, err := e.signer.SignEnvelope(envelope, nonce)
	if err != nil {
		detail := describeFailure(err)
		e.logger.Error("signing failed", zap.String("detail", detail))
		return StatusFailed, detail, detail
	}

	if err := e.backend.SendTransaction(ctx, tx); err != nil {
		detail := describeFailure(err)
		e.logger.Error("submission failed", zap.String("detail", detail))
		return StatusFailed, detail, detail
	}

	receipt, err := e.backend.WaitMined(ctx, tx)
	if err != nil {
		detail := describeFailure(err)
		e.logger.Error("confirmation failed", zap.String("tx", tx.Hash().Hex()), zap.String("detail", detail))
		return StatusFailed, detail, detail
	}

	e.logger.Info("liquidation mined",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
	)
	return StatusSubmitted, receipt.TxHash.Hex(), ""
}

func (e *Executor) removeParameters(position *sdkentities.Position, tokenA, tokenB *coreentities.Token, tokenID *big.Int) (*sdkutils.MethodParameters, error) {
	deadline := big.NewInt(e.now().Add(removalDeadline).Unix())

	opts := &periphery.RemoveLiquidityOptions{
		SlippageTolerance:   coreentities.NewPercent(big.NewInt(slippageNumerator), big.NewInt(slippageDenominator)),
		Deadline:            deadline,
		TokenID:             tokenID,
		LiquidityPercentage: coreentities.NewPercent(big.NewInt(removePercent), big.NewInt(100)),
		CollectOptions: &periphery.CollectOptions{
			TokenID:               tokenID,
			ExpectedCurrencyOwed0: coreentities.FromRawAmount(tokenA, big.NewInt(0)),
			ExpectedCurrencyOwed1: coreentities.FromRawAmount(tokenB, big.NewInt(0)),
			Recipient:             e.signer.Address(),
		},
	}

	params, err := periphery.RemoveCallParameters(position, opts)
	if err != nil {
		return nil, fmt.Errorf("remove call parameters: %w", err)
	}
	return params, nil
}

func (e *Executor) collectableFeeText(ctx context.Context, tokenID *big.Int, meta0, meta1 model.TokenMeta) (string, string, error) {
	raw0, raw1, err := e.positions.CollectableFees(ctx, tokenID, e.signer.Address())
	if err != nil {
		e.logger.Warn("fee simulation failed", zap.String("token_id", tokenID.String()), zap.Error(err))
		return "", "", fmt.Errorf("collectable fees: %w", err)
	}

	fee0, err := fixedpoint.FormatUnits(raw0, meta0.Decimals)
	if err != nil {
		return "", "", fmt.Errorf("render fee0: %w", err)
	}
	fee1, err := fixedpoint.FormatUnits(raw1, meta1.Decimals)
	if err != nil {
		return "", "", fmt.Errorf("render fee1: %w", err)
	}
	return fee0, fee1, nil
}

// balanceText renders the wallet's native balance; a failed read becomes
// the "-1" sentinel so the audit line still gets written.
func (e *Executor) balanceText(ctx context.Context) string {
	balance, err := e.backend.BalanceAt(ctx, e.signer.Address())
	if err != nil {
		e.logger.Warn("balance read failed", zap.Error(err))
		return balanceErrorSentinel
	}
	text, err := fixedpoint.FormatUnits(balance, nativeDecimals)
	if err != nil {
		e.logger.Warn("balance render failed", zap.Error(err))
		return balanceErrorSentinel
	}
	return text
}

func (e *Executor) logWithdrawable(position *sdkentities.Position, meta0, meta1 model.TokenMeta, tokenID *big.Int) {
	amount0, err0 := position.Amount0()
	amount1, err1 := position.Amount1()
	if err0 != nil || err1 != nil {
		e.logger.Warn("withdrawable amounts unavailable", zap.String("token_id", tokenID.String()))
		return
	}

	text0, _ := fixedpoint.FormatUnits(amount0.Quotient(), meta0.Decimals)
	text1, _ := fixedpoint.FormatUnits(amount1.Quotient(), meta1.Decimals)
	e.logger.Info("withdrawable amounts",
		zap.String("token_id", tokenID.String()),
		zap.String(meta0.Symbol, text0),
		zap.String(meta1.Symbol, text1),
	)
}

func (e *Executor) sleepSettle(ctx context.Context) {
	if e.cfg.SettleDelay <= 0 {
		return
	}
	timer := time.NewTimer(e.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

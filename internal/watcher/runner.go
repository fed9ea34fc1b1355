package watcher

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidationScope/internal/liquidator"
	"liquidationScope/internal/model"
)

// Scanner produces annotated position records for the watched wallet.
type Scanner interface {
	OwnedTokenIDs(ctx context.Context, owner common.Address) ([]*big.Int, error)
	Scan(ctx context.Context, tokenIDs []*big.Int) ([]model.PositionRecord, error)
}

// Executor removes one position's liquidity and audits the outcome.
type Executor interface {
	Execute(ctx context.Context, tokenID *big.Int, safeMode bool) (liquidator.ExecutionResult, error)
}

// RunConfig holds runtime settings for the poll loop.
type RunConfig struct {
	Owner        common.Address
	Pairs        []model.TokenPair
	PollInterval time.Duration
	ExitAt       int
	SafeMode     bool
	MaxRetries   int
	RetryBackoff time.Duration
}

// CycleResult summarizes one poll cycle.
type CycleResult struct {
	Open      int
	Matched   int
	Submitted int
	Skipped   int
	Failed    int
	Exit      bool
	Fault     error
}

// Runner drives the scan, filter, execute cycle until the wallet's open
// position count drops to the exit threshold or the context ends. A faulted
// cycle is logged and the next cycle starts fresh; one bad RPC window must
// not take the watcher down.
type Runner struct {
	cfg      RunConfig
	scanner  Scanner
	executor Executor
	logger   *zap.Logger
	pairs    []model.TokenPair
}

// NewRunner builds a Runner with its dependencies. The configured pairs are
// expanded into both orderings once, up front.
func NewRunner(cfg RunConfig, scanner Scanner, executor Executor, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		scanner:  scanner,
		executor: executor,
		logger:   logger,
		pairs:    model.ExpandPairs(cfg.Pairs),
	}
}

// Run executes the poll loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.scanner == nil {
		return fmt.Errorf("scanner is nil")
	}
	if r.executor == nil {
		return fmt.Errorf("executor is nil")
	}
	if len(r.pairs) == 0 {
		return fmt.Errorf("at least one pair is required")
	}
	if r.cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	// Token ids are seeded once: position NFTs stay with the wallet for
	// the watcher's whole lifetime, and closed ones are dropped per cycle
	// by their zero liquidity.
	tokenIDs, err := r.seedTokenIDs(ctx)
	if err != nil {
		return fmt.Errorf("seed token ids: %w", err)
	}
	r.logger.Info("watching positions",
		zap.String("owner", r.cfg.Owner.Hex()),
		zap.Int("token_ids", len(tokenIDs)),
		zap.Int("pairs", len(r.pairs)),
		zap.Bool("safe_mode", r.cfg.SafeMode),
	)

	for {
		result := r.cycle(ctx, tokenIDs)

		switch {
		case result.Fault != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("cycle faulted", zap.Error(result.Fault))
		case result.Exit:
			r.logger.Info("open positions at exit threshold, stopping",
				zap.Int("open", result.Open),
				zap.Int("exit_at", r.cfg.ExitAt),
			)
			return nil
		default:
			r.logger.Info("cycle complete",
				zap.Int("open", result.Open),
				zap.Int("matched", result.Matched),
				zap.Int("submitted", result.Submitted),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
		}

		timer := time.NewTimer(r.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) seedTokenIDs(ctx context.Context) ([]*big.Int, error) {
	var tokenIDs []*big.Int
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		tokenIDs, err = r.scanner.OwnedTokenIDs(ctx, r.cfg.Owner)
		if err != nil {
			r.logger.Warn("token id enumeration failed", zap.Error(err))
		}
		return err
	})
	return tokenIDs, err
}

// cycle runs one scan, filter, execute pass. Executions are sequential so
// the wallet's nonces stay ordered.
func (r *Runner) cycle(ctx context.Context, tokenIDs []*big.Int) CycleResult {
	records, err := r.scanWithRetry(ctx, tokenIDs)
	if err != nil {
		return CycleResult{Fault: fmt.Errorf("scan: %w", err)}
	}

	result := CycleResult{Open: len(records)}
	if result.Open <= r.cfg.ExitAt {
		result.Exit = true
		return result
	}

	for _, pair := range r.pairs {
		matches, found := liquidator.Filter(records, pair.Token0, pair.Token1)
		if !found {
			continue
		}
		result.Matched += len(matches)

		for _, record := range matches {
			execution, err := r.executor.Execute(ctx, record.TokenID, r.cfg.SafeMode)
			if err != nil {
				result.Fault = fmt.Errorf("liquidate %s: %w", record.TokenID, err)
				return result
			}
			switch execution.Status {
			case liquidator.StatusSubmitted:
				result.Submitted++
				r.logger.Info("position liquidated",
					zap.String("token_id", record.TokenID.String()),
					zap.String("pair", pair.String()),
					zap.String("tx", execution.TxHash),
				)
			case liquidator.StatusSkipped:
				result.Skipped++
				r.logger.Info("liquidation skipped in safe mode",
					zap.String("token_id", record.TokenID.String()),
					zap.String("pair", pair.String()),
				)
			case liquidator.StatusFailed:
				result.Failed++
				r.logger.Warn("liquidation failed",
					zap.String("token_id", record.TokenID.String()),
					zap.String("pair", pair.String()),
					zap.String("detail", execution.FailureDetail),
				)
			}
		}
	}

	return result
}

func (r *Runner) scanWithRetry(ctx context.Context, tokenIDs []*big.Int) ([]model.PositionRecord, error) {
	var records []model.PositionRecord
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		records, err = r.scanner.Scan(ctx, tokenIDs)
		if err != nil {
			r.logger.Warn("scan failed", zap.Error(err))
		}
		return err
	})
	return records, err
}

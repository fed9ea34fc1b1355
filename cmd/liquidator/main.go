package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"liquidationScope/internal/audit"
	"liquidationScope/internal/chain"
	"liquidationScope/internal/config"
	"liquidationScope/internal/dex"
	"liquidationScope/internal/liquidator"
	"liquidationScope/internal/model"
	"liquidationScope/internal/scanner"
	"liquidationScope/internal/storage/postgres"
	"liquidationScope/internal/wallet"
	"liquidationScope/internal/watcher"
)

func main() {
	root := &cobra.Command{
		Use:          "liquidator",
		Short:        "Concentrated liquidity position watcher and liquidator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the wallet's positions and liquidate the ones below range",
		RunE:  runWatcher,
	}

	runCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	runCmd.Flags().String("position-manager", "", "NonfungiblePositionManager contract address")
	runCmd.Flags().String("factory", "", "pool factory contract address")
	runCmd.Flags().String("private-key", "", "wallet private key (hex)")
	runCmd.Flags().Uint("chain-id", 1, "expected chain id")
	runCmd.Flags().StringSlice("pair", config.DefaultPairs, "watched pairs as SYM0/SYM1 (comma-separated)")
	runCmd.Flags().Duration("poll-interval", 5*time.Minute, "delay between poll cycles")
	runCmd.Flags().Int("exit-at", 1, "stop when open positions drop to this count")
	runCmd.Flags().Bool("safe-mode", false, "build transactions but never submit them")
	runCmd.Flags().String("audit-out", "./data/liquidations.jsonl", "audit trail JSONL path")
	runCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the audit trail")
	runCmd.Flags().Duration("settle-delay", 10*time.Second, "wait before the post-liquidation balance read")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts for chain reads")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Print a wallet's open positions without touching them",
		RunE:  runScan,
	}

	scanCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	scanCmd.Flags().String("position-manager", "", "NonfungiblePositionManager contract address")
	scanCmd.Flags().String("factory", "", "pool factory contract address")
	scanCmd.Flags().String("owner", "", "wallet address to scan")
	scanCmd.Flags().Uint("chain-id", 1, "expected chain id")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWatcher(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	positionManager, err := parseAddress(cfg.PositionManager, "position-manager")
	if err != nil {
		return err
	}
	factory, err := parseAddress(cfg.Factory, "factory")
	if err != nil {
		return err
	}
	if cfg.PrivateKey == "" {
		return fmt.Errorf("private key is required")
	}
	pairs, err := model.ParsePairs(cfg.Pairs)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("at least one pair is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	if err := verifyChainID(ctx, chainClient, cfg.ChainID); err != nil {
		return err
	}

	operator, err := wallet.New(cfg.PrivateKey, new(big.Int).SetUint64(uint64(cfg.ChainID)))
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	manager := dex.NewManager(chainClient, positionManager)
	tokenMetas := &scanner.ChainTokenMetas{
		Chain:  chainClient,
		Cache:  dex.NewTokenMetaCache(),
		Logger: logger,
	}
	poolStates := &scanner.ChainPoolStates{Chain: chainClient}

	positionScanner := scanner.NewScanner(scanner.Config{
		Factory: factory,
		ChainID: cfg.ChainID,
	}, manager, tokenMetas, poolStates, logger)

	sinks := []audit.Sink{audit.NewJsonlSink(cfg.AuditOut)}
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	executor := liquidator.NewExecutor(liquidator.ExecutorConfig{
		ChainID:         cfg.ChainID,
		Factory:         factory,
		PositionManager: positionManager,
		SettleDelay:     cfg.SettleDelay,
	}, manager, tokenMetas, poolStates, chainClient, operator, sinks, logger)

	runner := watcher.NewRunner(watcher.RunConfig{
		Owner:        operator.Address(),
		Pairs:        pairs,
		PollInterval: cfg.PollInterval,
		ExitAt:       cfg.ExitAt,
		SafeMode:     cfg.SafeMode,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, positionScanner, executor, logger)

	logger.Info("liquidator start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("owner", operator.Address().Hex()),
		zap.String("position_manager", positionManager.Hex()),
		zap.String("factory", factory.Hex()),
		zap.Uint("chain_id", cfg.ChainID),
		zap.Strings("pairs", cfg.Pairs),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int("exit_at", cfg.ExitAt),
		zap.Bool("safe_mode", cfg.SafeMode),
		zap.String("audit_out", cfg.AuditOut),
		zap.Bool("postgres", cfg.PgDSN != ""),
	)

	return runner.Run(ctx)
}

func verifyChainID(ctx context.Context, chainClient *chain.Client, expected uint) (err error) {
	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != uint64(expected) {
		return fmt.Errorf("node reports chain id %s, configured %d", chainID, expected)
	}
	return nil
}

func parseAddress(value, name string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s address is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, value)
	}
	return common.HexToAddress(value), nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

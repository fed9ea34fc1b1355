package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidationScope/internal/chain"
	"liquidationScope/internal/config"
	"liquidationScope/internal/dex"
	"liquidationScope/internal/fixedpoint"
	"liquidationScope/internal/scanner"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
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
	owner, err := parseAddress(cfg.Owner, "owner")
	if err != nil {
		return err
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

	manager := dex.NewManager(chainClient, positionManager)
	positionScanner := scanner.NewScanner(scanner.Config{
		Factory: factory,
		ChainID: cfg.ChainID,
	}, manager, &scanner.ChainTokenMetas{
		Chain:  chainClient,
		Cache:  dex.NewTokenMetaCache(),
		Logger: logger,
	}, &scanner.ChainPoolStates{Chain: chainClient}, logger)

	tokenIDs, err := positionScanner.OwnedTokenIDs(ctx, owner)
	if err != nil {
		return fmt.Errorf("enumerate positions: %w", err)
	}
	records, err := positionScanner.Scan(ctx, tokenIDs)
	if err != nil {
		return fmt.Errorf("scan positions: %w", err)
	}

	fmt.Printf("%s holds %d position tokens, %d open\n\n", owner.Hex(), len(tokenIDs), len(records))

	for _, record := range records {
		fmt.Printf("#%s  %s/%s  fee %d\n", record.TokenID, record.Token0.Symbol, record.Token1.Symbol, record.Fee)
		fmt.Printf("  pool          %s\n", record.PoolAddress)
		fmt.Printf("  range         [%d, %d]  current %d  %s\n",
			record.TickLower, record.TickUpper, record.CurrentTick, record.RangeStatus)
		fmt.Printf("  price         %.12g %s per %s, %.12g %s per %s\n",
			record.PriceToken1PerToken0, record.Token1.Symbol, record.Token0.Symbol,
			record.PriceToken0PerToken1, record.Token0.Symbol, record.Token1.Symbol)
		fmt.Printf("  liquidity     %s\n", record.Liquidity)

		fee0, fee1, err := manager.CollectableFees(ctx, record.TokenID, owner)
		if err != nil {
			logger.Warn("fee simulation failed", zap.Error(err))
			fmt.Printf("  fees          unavailable\n\n")
			continue
		}
		text0, err0 := fixedpoint.FormatUnits(fee0, record.Token0.Decimals)
		text1, err1 := fixedpoint.FormatUnits(fee1, record.Token1.Decimals)
		if err0 != nil || err1 != nil {
			fmt.Printf("  fees          unavailable\n\n")
			continue
		}
		fmt.Printf("  fees          %s %s, %s %s\n\n", text0, record.Token0.Symbol, text1, record.Token1.Symbol)
	}

	return nil
}

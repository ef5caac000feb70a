package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pairScope/internal/chain"
	"pairScope/internal/config"
	"pairScope/internal/derive"
	"pairScope/internal/dex"
	"pairScope/internal/state"
	"pairScope/internal/storage/postgres"
)

func runDerive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDerive(cfgFile, cmd.Flags())
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
	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	params, err := buildParams(cfg)
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

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	var stateStore derive.StateStore
	if cfg.StateFile != "" {
		stateStore = &derive.FileStateStore{Path: cfg.StateFile}
	} else if store != nil {
		stateStore = &derive.DBStateStore{Store: store, Name: "derive"}
	}

	engine := derive.NewEngine(
		state.NewDB(),
		params,
		dex.NewResolver(chainClient, logger),
		dex.NewPairBalanceReader(chainClient),
		logger,
	)

	runner := derive.NewRunner(engine, store, stateStore, cfg.ExportDir, logger)

	logger.Info("derive start",
		zap.String("chain_id", chainID.String()),
		zap.String("in", cfg.In),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("export_dir", cfg.ExportDir),
		zap.String("factory", params.FactoryAddress.Hex()),
	)

	return runner.Run(ctx, cfg.In)
}

// buildParams starts from mainnet defaults and applies any overrides.
func buildParams(cfg config.DeriveConfig) (derive.Params, error) {
	params := derive.MainnetParams()

	if cfg.FactoryAddress != "" {
		addr, err := parseAddress(cfg.FactoryAddress)
		if err != nil {
			return derive.Params{}, fmt.Errorf("factory-address: %w", err)
		}
		params.FactoryAddress = addr
	}
	if cfg.NativeToken != "" {
		addr, err := parseAddress(cfg.NativeToken)
		if err != nil {
			return derive.Params{}, fmt.Errorf("native-token: %w", err)
		}
		params.NativeToken = addr
	}
	if len(cfg.Whitelist) > 0 {
		whitelist := make(map[common.Address]bool, len(cfg.Whitelist))
		for _, raw := range cfg.Whitelist {
			addr, err := parseAddress(raw)
			if err != nil {
				return derive.Params{}, fmt.Errorf("whitelist: %w", err)
			}
			whitelist[addr] = true
		}
		params.Whitelist = whitelist
	}
	if len(cfg.UntrackedPairs) > 0 {
		untracked := make(map[common.Address]bool, len(cfg.UntrackedPairs))
		for _, raw := range cfg.UntrackedPairs {
			addr, err := parseAddress(raw)
			if err != nil {
				return derive.Params{}, fmt.Errorf("untracked-pairs: %w", err)
			}
			untracked[addr] = true
		}
		params.UntrackedPairs = untracked
	}

	return params, nil
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address: %s", raw)
	}
	return common.HexToAddress(raw), nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}

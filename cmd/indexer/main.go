package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "pairscope",
		Short:        "AMM pair event correlator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw logs into typed events",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("rpc", "", "Ethereum RPC URL, used to backfill missing block timestamps")
	decodeCmd.Flags().String("in", "", "input raw logs JSONL")
	decodeCmd.Flags().String("out", "./data/typed_events.jsonl", "output typed events JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive pair, token, and rollup state from typed events",
		RunE:  runDerive,
	}

	deriveCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	deriveCmd.Flags().String("in", "", "input typed events JSONL")
	deriveCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	deriveCmd.Flags().String("export-dir", "", "optional directory for business-record JSONL export")
	deriveCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	deriveCmd.Flags().String("factory-address", "", "factory contract address override")
	deriveCmd.Flags().String("native-token", "", "wrapped native token address override")
	deriveCmd.Flags().StringSlice("whitelist", nil, "pricing whitelist token addresses (comma-separated)")
	deriveCmd.Flags().StringSlice("untracked-pairs", nil, "pair addresses excluded from tracked valuation (comma-separated)")
	deriveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(deriveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
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

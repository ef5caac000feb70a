package config

import (
	"github.com/spf13/pflag"
)

// DeriveConfig holds configuration for the derive command. The pricing
// parameters default to Ethereum mainnet and can be overridden for forks of
// the protocol on other chains.
type DeriveConfig struct {
	RPCURL    string
	In        string
	PGDSN     string
	ExportDir string
	StateFile string
	LogLevel  string

	FactoryAddress string
	NativeToken    string
	Whitelist      []string
	UntrackedPairs []string
}

// LoadDerive merges config file, environment variables, and flags into DeriveConfig.
func LoadDerive(cfgFile string, flags *pflag.FlagSet) (DeriveConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return DeriveConfig{}, err
	}

	cfg := DeriveConfig{
		RPCURL:         v.GetString("rpc"),
		In:             v.GetString("in"),
		PGDSN:          v.GetString("pg-dsn"),
		ExportDir:      v.GetString("export-dir"),
		StateFile:      v.GetString("state-file"),
		LogLevel:       v.GetString("log-level"),
		FactoryAddress: v.GetString("factory-address"),
		NativeToken:    v.GetString("native-token"),
		Whitelist:      getStringSlice(v, "whitelist"),
		UntrackedPairs: getStringSlice(v, "untracked-pairs"),
	}

	return cfg, nil
}

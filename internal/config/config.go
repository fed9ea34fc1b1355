package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL          string
	PositionManager string
	Factory         string
	PrivateKey      string
	ChainID         uint
	Pairs           []string
	PollInterval    time.Duration
	ExitAt          int
	SafeMode        bool
	AuditOut        string
	PgDSN           string
	SettleDelay     time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// DefaultPairs are the pool pairings watched when none are configured.
var DefaultPairs = []string{"WETH/USDC", "WBTC/USDC", "USDC/LINK"}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LIQUIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint(1))
	v.SetDefault("pair", DefaultPairs)
	v.SetDefault("poll-interval", 5*time.Minute)
	v.SetDefault("exit-at", 1)
	v.SetDefault("safe-mode", false)
	v.SetDefault("audit-out", "./data/liquidations.jsonl")
	v.SetDefault("settle-delay", 10*time.Second)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := readConfigFile(v, cfgFile); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		PositionManager: v.GetString("position-manager"),
		Factory:         v.GetString("factory"),
		PrivateKey:      v.GetString("private-key"),
		ChainID:         v.GetUint("chain-id"),
		Pairs:           getStringSlice(v, "pair"),
		PollInterval:    v.GetDuration("poll-interval"),
		ExitAt:          v.GetInt("exit-at"),
		SafeMode:        v.GetBool("safe-mode"),
		AuditOut:        v.GetString("audit-out"),
		PgDSN:           v.GetString("pg-dsn"),
		SettleDelay:     v.GetDuration("settle-delay"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// ScanConfig holds configuration for the read-only scan command.
type ScanConfig struct {
	RPCURL          string
	PositionManager string
	Factory         string
	Owner           string
	ChainID         uint
	LogLevel        string
}

// LoadScan merges config file, environment variables, and flags into ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("LIQUIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint(1))
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ScanConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := readConfigFile(v, cfgFile); err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		RPCURL:          v.GetString("rpc"),
		PositionManager: v.GetString("position-manager"),
		Factory:         v.GetString("factory"),
		Owner:           v.GetString("owner"),
		ChainID:         v.GetUint("chain-id"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

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
	RPCURL           string
	ChainID          uint64
	StorePath        string
	KeyFile          string
	PgDSN            string
	SnapshotOut      string
	CatalogTTL       time.Duration
	WatcherStaleness time.Duration
	WatcherRefresh   time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	LogLevel         string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEXRAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(1))
	v.SetDefault("store-path", "./data/custom_tokens.json")
	v.SetDefault("snapshot-out", "./data/position_snapshots.jsonl")
	v.SetDefault("catalog-ttl", 5*time.Minute)
	v.SetDefault("watcher-staleness", 30*time.Second)
	v.SetDefault("watcher-refresh", 60*time.Second)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:           v.GetString("rpc"),
		ChainID:          v.GetUint64("chain-id"),
		StorePath:        v.GetString("store-path"),
		KeyFile:          v.GetString("keyfile"),
		PgDSN:            v.GetString("pg-dsn"),
		SnapshotOut:      v.GetString("snapshot-out"),
		CatalogTTL:       v.GetDuration("catalog-ttl"),
		WatcherStaleness: v.GetDuration("watcher-staleness"),
		WatcherRefresh:   v.GetDuration("watcher-refresh"),
		MaxRetries:       v.GetInt("max-retries"),
		RetryBackoff:     v.GetDuration("retry-backoff"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}

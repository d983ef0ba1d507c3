package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dexray/internal/catalog"
	"dexray/internal/chain"
	"dexray/internal/config"
	"dexray/internal/notify"
	"dexray/internal/tokenstore"
)

func main() {
	root := &cobra.Command{
		Use:          "dexray",
		Short:        "Uniswap V3 token and position explorer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "RPC URL")
	root.PersistentFlags().Uint64("chain-id", 1, "chain id")
	root.PersistentFlags().String("store-path", "./data/custom_tokens.json", "custom token store path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newTokensCmd())
	root.AddCommand(newPoolCmd())
	root.AddCommand(newPositionsCmd())
	root.AddCommand(newCollectCmd())
	root.AddCommand(newMintCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the pieces every subcommand needs.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	notifier *notify.Notifier
	store    *tokenstore.Store
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		notifier: notify.NewNotifier(32, logger),
		store:    tokenstore.NewStore(cfg.StorePath, logger),
	}, nil
}

func (a *app) close() {
	a.logger.Sync()
}

// report routes an error through the notifier before returning it.
func (a *app) report(err error) error {
	if err != nil {
		a.notifier.NotifyError(err)
	}
	return err
}

func (a *app) dial(ctx context.Context) (*chain.Client, error) {
	if a.cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	client, err := chain.NewClient(ctx, a.cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	return client, nil
}

func (a *app) wallet(ctx context.Context) (*chain.Client, *chain.Wallet, error) {
	client, err := a.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	if a.cfg.KeyFile == "" {
		client.Close()
		return nil, nil, fmt.Errorf("keyfile is required for state-changing commands")
	}
	wallet, err := chain.NewWalletFromFile(client, a.cfg.KeyFile, a.cfg.ChainID)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, wallet, nil
}

func (a *app) catalogService(client *chain.Client) *catalog.Service {
	return catalog.NewService(a.store, catalog.ChainFetcher(client), a.cfg.CatalogTTL, a.logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

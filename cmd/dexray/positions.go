package main

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexray/internal/aggregate"
	"dexray/internal/chain"
	"dexray/internal/storage"
	"dexray/internal/storage/postgres"
)

func newPositionsCmd() *cobra.Command {
	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "Liquidity position operations",
	}

	listCmd := &cobra.Command{
		Use:   "list <owner>",
		Short: "List a wallet's open positions with computed values",
		Args:  cobra.ExactArgs(1),
		RunE:  runPositionsList,
	}

	watchCmd := &cobra.Command{
		Use:   "watch <owner>",
		Short: "Keep the wallet's position pools refreshed in the background",
		Args:  cobra.ExactArgs(1),
		RunE:  runPositionsWatch,
	}
	watchCmd.Flags().Duration("watcher-staleness", 30*time.Second, "snapshot staleness threshold")
	watchCmd.Flags().Duration("watcher-refresh", 60*time.Second, "background refresh cadence")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot <owner>",
		Short: "Persist the wallet's computed positions to Postgres or JSONL",
		Args:  cobra.ExactArgs(1),
		RunE:  runPositionsSnapshot,
	}
	snapshotCmd.Flags().String("pg-dsn", "", "Postgres DSN (JSONL fallback when empty)")
	snapshotCmd.Flags().String("snapshot-out", "./data/position_snapshots.jsonl", "JSONL output path")

	positionsCmd.AddCommand(listCmd, watchCmd, snapshotCmd)
	return positionsCmd
}

func runPositionsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !common.IsHexAddress(args[0]) {
		return a.report(fmt.Errorf("invalid owner address: %s", args[0]))
	}

	ctx, stop := signalContext()
	defer stop()

	client, err := a.dial(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	network, err := chain.NetworkByChainID(a.cfg.ChainID)
	if err != nil {
		return a.report(err)
	}

	positions, err := aggregate.AllPositions(ctx, client, network, common.HexToAddress(args[0]))
	if err != nil {
		return a.report(err)
	}

	return printJSON(positions)
}

func runPositionsWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !common.IsHexAddress(args[0]) {
		return a.report(fmt.Errorf("invalid owner address: %s", args[0]))
	}

	ctx, stop := signalContext()
	defer stop()

	client, err := a.dial(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	network, err := chain.NetworkByChainID(a.cfg.ChainID)
	if err != nil {
		return a.report(err)
	}

	positions, err := aggregate.AllPositions(ctx, client, network, common.HexToAddress(args[0]))
	if err != nil {
		return a.report(err)
	}

	watcher := aggregate.NewWatcher(aggregate.WatcherConfig{
		Staleness:    a.cfg.WatcherStaleness,
		Refresh:      a.cfg.WatcherRefresh,
		MaxRetries:   a.cfg.MaxRetries,
		RetryBackoff: a.cfg.RetryBackoff,
	}, client, a.logger)

	tracked := make(map[string]struct{})
	for _, position := range positions {
		watcher.Track(common.HexToAddress(position.Pool.Address), position.Pool.Token0, position.Pool.Token1)
		tracked[position.Pool.Address] = struct{}{}
	}

	a.logger.Info("watching position pools",
		zap.Int("pools", len(tracked)),
		zap.Duration("staleness", a.cfg.WatcherStaleness),
		zap.Duration("refresh", a.cfg.WatcherRefresh))

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return a.report(err)
	}
	return nil
}

func runPositionsSnapshot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !common.IsHexAddress(args[0]) {
		return a.report(fmt.Errorf("invalid owner address: %s", args[0]))
	}

	ctx, stop := signalContext()
	defer stop()

	client, err := a.dial(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	network, err := chain.NetworkByChainID(a.cfg.ChainID)
	if err != nil {
		return a.report(err)
	}

	positions, err := aggregate.AllPositions(ctx, client, network, common.HexToAddress(args[0]))
	if err != nil {
		return a.report(err)
	}

	takenAt := time.Now().UTC()
	if a.cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PgDSN)
		if err != nil {
			return a.report(err)
		}
		defer store.Close()

		if err := store.UpsertPositionSnapshots(ctx, a.cfg.ChainID, takenAt, positions); err != nil {
			return a.report(fmt.Errorf("store snapshots: %w", err))
		}
	} else {
		sink := storage.NewJsonlStorage(a.cfg.SnapshotOut)
		if err := sink.PutPositionBatch(positions); err != nil {
			return a.report(fmt.Errorf("store snapshots: %w", err))
		}
	}

	a.logger.Info("snapshot complete",
		zap.Int("positions", len(positions)),
		zap.String("owner", args[0]),
		zap.Time("taken_at", takenAt))
	return nil
}

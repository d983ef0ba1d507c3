package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"dexray/internal/aggregate"
	"dexray/internal/chain"
	"dexray/internal/dex"
	"dexray/internal/model"
)

func newPoolCmd() *cobra.Command {
	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Pool operations",
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Resolve a pool from the factory and print its live state",
		RunE:  runPoolInfo,
	}
	infoCmd.Flags().String("token0", "", "token0 address")
	infoCmd.Flags().String("token1", "", "token1 address")
	infoCmd.Flags().Uint32("fee", 3000, "fee tier in hundredths of a bip")

	poolCmd.AddCommand(infoCmd)
	return poolCmd
}

func runPoolInfo(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	token0Flag, _ := cmd.Flags().GetString("token0")
	token1Flag, _ := cmd.Flags().GetString("token1")
	fee, _ := cmd.Flags().GetUint32("fee")

	if !common.IsHexAddress(token0Flag) || !common.IsHexAddress(token1Flag) {
		return a.report(fmt.Errorf("token0 and token1 must be valid addresses"))
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

	info, err := fetchPoolInfo(ctx, client, network, common.HexToAddress(token0Flag), common.HexToAddress(token1Flag), fee)
	if err != nil {
		return a.report(err)
	}

	return printJSON(info)
}

func fetchPoolInfo(ctx context.Context, client chain.Reader, network chain.Network, token0Addr, token1Addr common.Address, fee uint32) (model.PoolInfo, error) {
	pool, err := dex.GetPoolAddress(ctx, client, network.Factory, token0Addr, token1Addr, fee)
	if err != nil {
		return model.PoolInfo{}, err
	}

	token0, err := dex.FetchTokenInfo(ctx, client, token0Addr)
	if err != nil {
		return model.PoolInfo{}, err
	}
	token1, err := dex.FetchTokenInfo(ctx, client, token1Addr)
	if err != nil {
		return model.PoolInfo{}, err
	}

	return aggregate.GetPoolInfo(ctx, client, pool, token0, token1)
}

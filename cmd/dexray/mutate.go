package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexray/internal/chain"
	"dexray/internal/dex"
)

func newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect accrued fees from a position",
		RunE:  runCollect,
	}
	cmd.Flags().Uint64("token-id", 0, "position token id")
	cmd.Flags().String("recipient", "", "fee recipient (defaults to the signing wallet)")
	cmd.Flags().String("keyfile", "", "path to the hex-encoded private key file")
	cmd.MarkFlagRequired("token-id")
	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tokenID, _ := cmd.Flags().GetUint64("token-id")
	recipient, _ := cmd.Flags().GetString("recipient")
	if recipient != "" && !common.IsHexAddress(recipient) {
		return a.report(fmt.Errorf("invalid recipient address: %s", recipient))
	}

	ctx, stop := signalContext()
	defer stop()

	client, wallet, err := a.wallet(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	network, err := chain.NetworkByChainID(a.cfg.ChainID)
	if err != nil {
		return a.report(err)
	}

	hash, err := dex.CollectFees(ctx, wallet, network.PositionManager, dex.CollectParams{
		TokenID:   new(big.Int).SetUint64(tokenID),
		Recipient: common.HexToAddress(recipient),
	})
	if err != nil {
		return a.report(err)
	}

	a.logger.Info("collect submitted",
		zap.Uint64("token_id", tokenID),
		zap.String("tx", hash.Hex()))
	fmt.Println(hash.Hex())
	return nil
}

func newMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a new liquidity position",
		RunE:  runMint,
	}
	cmd.Flags().String("token0", "", "first token address")
	cmd.Flags().String("token1", "", "second token address")
	cmd.Flags().Uint32("fee", 3000, "pool fee tier in hundredths of a bip")
	cmd.Flags().Int32("tick-lower", 0, "lower tick boundary")
	cmd.Flags().Int32("tick-upper", 0, "upper tick boundary")
	cmd.Flags().String("amount0-desired", "0", "desired token0 amount in base units")
	cmd.Flags().String("amount1-desired", "0", "desired token1 amount in base units")
	cmd.Flags().String("amount0-min", "0", "minimum token0 amount in base units")
	cmd.Flags().String("amount1-min", "0", "minimum token1 amount in base units")
	cmd.Flags().String("recipient", "", "position recipient (defaults to the signing wallet)")
	cmd.Flags().Duration("deadline", 20*time.Minute, "how long the transaction stays valid")
	cmd.Flags().String("keyfile", "", "path to the hex-encoded private key file")
	cmd.MarkFlagRequired("token0")
	cmd.MarkFlagRequired("token1")
	cmd.MarkFlagRequired("tick-lower")
	cmd.MarkFlagRequired("tick-upper")
	return cmd
}

func runMint(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	token0, _ := cmd.Flags().GetString("token0")
	token1, _ := cmd.Flags().GetString("token1")
	if !common.IsHexAddress(token0) {
		return a.report(fmt.Errorf("invalid token0 address: %s", token0))
	}
	if !common.IsHexAddress(token1) {
		return a.report(fmt.Errorf("invalid token1 address: %s", token1))
	}
	recipient, _ := cmd.Flags().GetString("recipient")
	if recipient != "" && !common.IsHexAddress(recipient) {
		return a.report(fmt.Errorf("invalid recipient address: %s", recipient))
	}

	amount0Desired, err := amountFlag(cmd, "amount0-desired")
	if err != nil {
		return a.report(err)
	}
	amount1Desired, err := amountFlag(cmd, "amount1-desired")
	if err != nil {
		return a.report(err)
	}
	amount0Min, err := amountFlag(cmd, "amount0-min")
	if err != nil {
		return a.report(err)
	}
	amount1Min, err := amountFlag(cmd, "amount1-min")
	if err != nil {
		return a.report(err)
	}

	fee, _ := cmd.Flags().GetUint32("fee")
	tickLower, _ := cmd.Flags().GetInt32("tick-lower")
	tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
	deadline, _ := cmd.Flags().GetDuration("deadline")

	ctx, stop := signalContext()
	defer stop()

	client, wallet, err := a.wallet(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	network, err := chain.NetworkByChainID(a.cfg.ChainID)
	if err != nil {
		return a.report(err)
	}

	hash, err := dex.MintPosition(ctx, wallet, network.PositionManager, dex.MintParams{
		Token0:         common.HexToAddress(token0),
		Token1:         common.HexToAddress(token1),
		Fee:            fee,
		TickLower:      tickLower,
		TickUpper:      tickUpper,
		Amount0Desired: amount0Desired,
		Amount1Desired: amount1Desired,
		Amount0Min:     amount0Min,
		Amount1Min:     amount1Min,
		Recipient:      common.HexToAddress(recipient),
		Deadline:       big.NewInt(time.Now().Add(deadline).Unix()),
	})
	if err != nil {
		return a.report(err)
	}

	a.logger.Info("mint submitted",
		zap.String("token0", token0),
		zap.String("token1", token1),
		zap.Uint32("fee", fee),
		zap.String("tx", hash.Hex()))
	fmt.Println(hash.Hex())
	return nil
}

// amountFlag parses a base-10 integer amount flag into a big.Int.
func amountFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString(name)
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s amount: %s", name, raw)
	}
	return value, nil
}

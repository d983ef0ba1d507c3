package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexray/internal/catalog"
	"dexray/internal/model"
)

func newTokensCmd() *cobra.Command {
	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Token catalog operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the merged token catalog for the chain",
		RunE:  runTokensList,
	}

	searchCmd := &cobra.Command{
		Use:   "search <address>",
		Short: "Look up a token by address on chain and add it to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokensSearch,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom token without a chain lookup",
		RunE:  runTokensAdd,
	}
	addCmd.Flags().String("address", "", "token address")
	addCmd.Flags().String("symbol", "", "token symbol")
	addCmd.Flags().String("name", "", "token name")
	addCmd.Flags().Uint8("decimals", 18, "token decimals")

	removeCmd := &cobra.Command{
		Use:   "remove <address>",
		Short: "Remove a custom token",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokensRemove,
	}

	tokensCmd.AddCommand(listCmd, searchCmd, addCmd, removeCmd)
	return tokensCmd
}

func runTokensList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// The list never touches the network; no client is needed.
	svc := catalog.NewService(a.store, nil, a.cfg.CatalogTTL, a.logger)
	return printJSON(svc.TokensForNetwork(a.cfg.ChainID))
}

func runTokensSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	client, err := a.dial(ctx)
	if err != nil {
		return a.report(err)
	}
	defer client.Close()

	token, found := a.catalogService(client).SearchTokenByAddress(ctx, a.cfg.ChainID, args[0])
	if !found {
		a.logger.Info("token not found", zap.String("address", args[0]), zap.Uint64("chain_id", a.cfg.ChainID))
		fmt.Fprintln(os.Stderr, "not found")
		return nil
	}
	return printJSON(token)
}

func runTokensAdd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	address, _ := cmd.Flags().GetString("address")
	symbol, _ := cmd.Flags().GetString("symbol")
	name, _ := cmd.Flags().GetString("name")
	decimals, _ := cmd.Flags().GetUint8("decimals")

	if address == "" || symbol == "" {
		return a.report(fmt.Errorf("address and symbol are required"))
	}

	svc := catalog.NewService(a.store, nil, a.cfg.CatalogTTL, a.logger)
	svc.SaveCustomToken(model.Token{
		Symbol:   symbol,
		Name:     name,
		Address:  address,
		Decimals: decimals,
	}, a.cfg.ChainID)

	a.logger.Info("custom token saved", zap.String("address", address), zap.Uint64("chain_id", a.cfg.ChainID))
	return nil
}

func runTokensRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc := catalog.NewService(a.store, nil, a.cfg.CatalogTTL, a.logger)
	svc.RemoveCustomToken(args[0], a.cfg.ChainID)

	a.logger.Info("custom token removed", zap.String("address", args[0]), zap.Uint64("chain_id", a.cfg.ChainID))
	return nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"dexray/internal/chain"
	"dexray/internal/model"
)

// FetchTokenInfo reads symbol, name, and decimals for an ERC20 token.
// The three reads go out in parallel and the fetch fails as a whole if
// any of them does: a token missing part of the metadata surface is not
// a token the catalog can carry.
func FetchTokenInfo(ctx context.Context, reader chain.Reader, token common.Address) (model.Token, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return model.Token{}, fmt.Errorf("parse erc20 abi: %w", err)
	}

	var (
		symbol   string
		name     string
		decimals uint8
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		values, err := callMethod(groupCtx, reader, token, parsed, "symbol")
		if err != nil {
			return err
		}
		symbol, err = asString(values[0])
		if err != nil {
			return fmt.Errorf("symbol: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		values, err := callMethod(groupCtx, reader, token, parsed, "name")
		if err != nil {
			return err
		}
		name, err = asString(values[0])
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		values, err := callMethod(groupCtx, reader, token, parsed, "decimals")
		if err != nil {
			return err
		}
		decimals, err = asUint8(values[0])
		if err != nil {
			return fmt.Errorf("decimals: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return model.Token{}, fmt.Errorf("%w: %s: %v", model.ErrTokenNotFound, token.Hex(), err)
	}

	return model.Token{
		Symbol:   symbol,
		Name:     name,
		Address:  model.NormalizeAddress(token.Hex()),
		Decimals: decimals,
	}, nil
}

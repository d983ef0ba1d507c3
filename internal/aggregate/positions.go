package aggregate

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"dexray/internal/chain"
	"dexray/internal/dex"
	"dexray/internal/model"
)

// AllPositions returns the computed view of every open position a wallet
// holds: enumerate token ids, fetch the raw records in parallel, drop
// closed positions (liquidity zero), then compute values in parallel.
func AllPositions(ctx context.Context, reader chain.Reader, network chain.Network, owner common.Address) ([]model.PositionWithValues, error) {
	tokenIDs, err := dex.PositionTokenIDs(ctx, reader, network.PositionManager, owner)
	if err != nil {
		return nil, fmt.Errorf("enumerate positions: %w", err)
	}

	raw := make([]model.Position, len(tokenIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, tokenID := range tokenIDs {
		i, tokenID := i, tokenID
		group.Go(func() error {
			position, err := dex.GetPosition(groupCtx, reader, network.PositionManager, tokenID)
			if err != nil {
				return fmt.Errorf("position %s: %w", tokenID, err)
			}
			raw[i] = position
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	open := raw[:0]
	for _, position := range raw {
		liquidity, ok := new(big.Int).SetString(position.Liquidity, 10)
		if !ok || liquidity.Sign() == 0 {
			continue
		}
		open = append(open, position)
	}

	values := make([]model.PositionWithValues, len(open))
	group, groupCtx = errgroup.WithContext(ctx)
	for i, position := range open {
		i, position := i, position
		group.Go(func() error {
			computed, err := PositionValues(groupCtx, reader, network, position)
			if err != nil {
				return fmt.Errorf("position %s values: %w", position.TokenID, err)
			}
			values[i] = computed
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}

// PositionValues enriches one raw position with its pool's state, the
// price range implied by the tick bounds, derived token amounts, and the
// in-range flag. Token metadata and pool state are independent and fetch
// in parallel; fee counters pass through untouched.
func PositionValues(ctx context.Context, reader chain.Reader, network chain.Network, position model.Position) (model.PositionWithValues, error) {
	var (
		token0 model.Token
		token1 model.Token
		pool   model.PoolInfo
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		token0, err = dex.FetchTokenInfo(groupCtx, reader, common.HexToAddress(position.Token0))
		return err
	})
	group.Go(func() error {
		var err error
		token1, err = dex.FetchTokenInfo(groupCtx, reader, common.HexToAddress(position.Token1))
		return err
	})
	group.Go(func() error {
		poolAddr, err := dex.GetPoolAddress(groupCtx, reader, network.Factory,
			common.HexToAddress(position.Token0), common.HexToAddress(position.Token1), position.Fee)
		if err != nil {
			return err
		}
		pool, err = GetPoolInfo(groupCtx, reader, poolAddr, model.Token{}, model.Token{})
		return err
	})
	if err := group.Wait(); err != nil {
		return model.PositionWithValues{}, err
	}

	pool.Token0 = token0
	pool.Token1 = token1

	current, err := CalculatePrice(pool.SqrtPriceX96, token0.Decimals, token1.Decimals)
	if err != nil {
		return model.PositionWithValues{}, fmt.Errorf("current price: %w", err)
	}

	amount0, amount1, err := positionAmounts(position.Liquidity, pool.SqrtPriceX96,
		position.TickLower, position.TickUpper, token0.Decimals, token1.Decimals)
	if err != nil {
		return model.PositionWithValues{}, fmt.Errorf("amounts: %w", err)
	}

	return model.PositionWithValues{
		Position: position,
		Pool:     pool,
		PriceRange: model.PriceRange{
			Lower:   TickPrice(position.TickLower, token0.Decimals, token1.Decimals),
			Upper:   TickPrice(position.TickUpper, token0.Decimals, token1.Decimals),
			Current: current,
		},
		Amount0: amount0,
		Amount1: amount1,
		InRange: InRange(pool.Tick, position.TickLower, position.TickUpper),
	}, nil
}

// InRange reports whether a tick sits inside a position's bounds. The
// lower bound is inclusive and the upper exclusive, matching
// concentrated-liquidity tick semantics.
func InRange(currentTick, tickLower, tickUpper int32) bool {
	return currentTick >= tickLower && currentTick < tickUpper
}

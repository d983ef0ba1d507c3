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

// GetPoolInfo assembles the live view of a pool. Slot0 and liquidity are
// independent reads fanned out in parallel; the fee read follows once
// both resolve. Any failing branch fails the whole assembly.
func GetPoolInfo(ctx context.Context, reader chain.Reader, pool common.Address, token0, token1 model.Token) (model.PoolInfo, error) {
	var (
		slot0     model.Slot0
		liquidity *big.Int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		slot0, err = dex.GetSlot0(groupCtx, reader, pool)
		return err
	})
	group.Go(func() error {
		var err error
		liquidity, err = dex.GetPoolLiquidity(groupCtx, reader, pool)
		return err
	})
	if err := group.Wait(); err != nil {
		return model.PoolInfo{}, fmt.Errorf("pool %s: %w", pool.Hex(), err)
	}

	fee, err := dex.GetPoolFee(ctx, reader, pool)
	if err != nil {
		return model.PoolInfo{}, fmt.Errorf("pool %s: %w", pool.Hex(), err)
	}

	return model.PoolInfo{
		Address:      model.NormalizeAddress(pool.Hex()),
		Token0:       token0,
		Token1:       token1,
		Fee:          fee,
		Liquidity:    liquidity.String(),
		SqrtPriceX96: slot0.SqrtPriceX96,
		Tick:         slot0.Tick,
	}, nil
}

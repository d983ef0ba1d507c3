package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"dexray/internal/chain"
	"dexray/internal/model"
)

// PositionTokenIDs enumerates the position token ids owned by a wallet.
// The count comes from balanceOf; the indexed lookups fan out in
// parallel and preserve index order in the result.
func PositionTokenIDs(ctx context.Context, reader chain.Reader, manager, owner common.Address) ([]*big.Int, error) {
	parsed, err := PositionManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse position manager abi: %w", err)
	}

	values, err := callMethod(ctx, reader, manager, parsed, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	if !balance.IsUint64() {
		return nil, fmt.Errorf("balanceOf: count out of range: %s", balance)
	}

	count := balance.Uint64()
	tokenIDs := make([]*big.Int, count)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := uint64(0); i < count; i++ {
		index := i
		group.Go(func() error {
			values, err := callMethod(groupCtx, reader, manager, parsed, "tokenOfOwnerByIndex", owner, new(big.Int).SetUint64(index))
			if err != nil {
				return err
			}
			tokenID, err := asBigInt(values[0])
			if err != nil {
				return fmt.Errorf("tokenOfOwnerByIndex %d: %w", index, err)
			}
			tokenIDs[index] = tokenID
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return tokenIDs, nil
}

// GetPosition fetches one raw position record by token id.
func GetPosition(ctx context.Context, reader chain.Reader, manager common.Address, tokenID *big.Int) (model.Position, error) {
	parsed, err := PositionManagerABI()
	if err != nil {
		return model.Position{}, fmt.Errorf("parse position manager abi: %w", err)
	}

	values, err := callMethod(ctx, reader, manager, parsed, "positions", tokenID)
	if err != nil {
		return model.Position{}, err
	}
	if len(values) < 12 {
		return model.Position{}, fmt.Errorf("positions: unexpected output count %d", len(values))
	}

	token0, err := asAddress(values[2])
	if err != nil {
		return model.Position{}, fmt.Errorf("position token0: %w", err)
	}
	token1, err := asAddress(values[3])
	if err != nil {
		return model.Position{}, fmt.Errorf("position token1: %w", err)
	}
	fee, err := asBigInt(values[4])
	if err != nil {
		return model.Position{}, fmt.Errorf("position fee: %w", err)
	}
	tickLowerBig, err := asBigInt(values[5])
	if err != nil {
		return model.Position{}, fmt.Errorf("position tick lower: %w", err)
	}
	tickLower, err := int24FromBig(tickLowerBig)
	if err != nil {
		return model.Position{}, fmt.Errorf("position tick lower: %w", err)
	}
	tickUpperBig, err := asBigInt(values[6])
	if err != nil {
		return model.Position{}, fmt.Errorf("position tick upper: %w", err)
	}
	tickUpper, err := int24FromBig(tickUpperBig)
	if err != nil {
		return model.Position{}, fmt.Errorf("position tick upper: %w", err)
	}
	liquidity, err := asBigInt(values[7])
	if err != nil {
		return model.Position{}, fmt.Errorf("position liquidity: %w", err)
	}
	feeGrowth0, err := asBigInt(values[8])
	if err != nil {
		return model.Position{}, fmt.Errorf("position fee growth 0: %w", err)
	}
	feeGrowth1, err := asBigInt(values[9])
	if err != nil {
		return model.Position{}, fmt.Errorf("position fee growth 1: %w", err)
	}
	owed0, err := asBigInt(values[10])
	if err != nil {
		return model.Position{}, fmt.Errorf("position tokens owed 0: %w", err)
	}
	owed1, err := asBigInt(values[11])
	if err != nil {
		return model.Position{}, fmt.Errorf("position tokens owed 1: %w", err)
	}

	return model.Position{
		TokenID:                  tokenID.String(),
		Token0:                   model.NormalizeAddress(token0.Hex()),
		Token1:                   model.NormalizeAddress(token1.Hex()),
		Fee:                      uint32(fee.Uint64()),
		TickLower:                tickLower,
		TickUpper:                tickUpper,
		Liquidity:                liquidity.String(),
		FeeGrowthInside0LastX128: feeGrowth0.String(),
		FeeGrowthInside1LastX128: feeGrowth1.String(),
		TokensOwed0:              owed0.String(),
		TokensOwed1:              owed1.String(),
	}, nil
}

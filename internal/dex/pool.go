package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"dexray/internal/chain"
	"dexray/internal/model"
)

// GetPoolAddress resolves a pool from the factory for a token pair and
// fee tier. The factory's zero-address sentinel surfaces as
// model.ErrPoolNotFound.
func GetPoolAddress(ctx context.Context, reader chain.Reader, factory, token0, token1 common.Address, fee uint32) (common.Address, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}

	values, err := callMethod(ctx, reader, factory, parsed, "getPool", token0, token1, new(big.Int).SetUint64(uint64(fee)))
	if err != nil {
		return common.Address{}, err
	}

	pool, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	if pool == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s/%s fee %d", model.ErrPoolNotFound, token0.Hex(), token1.Hex(), fee)
	}

	return pool, nil
}

// GetSlot0 reads a pool's packed current state.
func GetSlot0(ctx context.Context, reader chain.Reader, pool common.Address) (model.Slot0, error) {
	parsed, err := V3PoolABI()
	if err != nil {
		return model.Slot0{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := callMethod(ctx, reader, pool, parsed, "slot0")
	if err != nil {
		return model.Slot0{}, err
	}
	if len(values) < 7 {
		return model.Slot0{}, fmt.Errorf("slot0: unexpected output count %d", len(values))
	}

	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 sqrt price: %w", err)
	}
	tickBig, err := asBigInt(values[1])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 tick: %w", err)
	}
	tick, err := int24FromBig(tickBig)
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 tick: %w", err)
	}
	obsIndex, err := asUint16(values[2])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 observation index: %w", err)
	}
	obsCardinality, err := asUint16(values[3])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 observation cardinality: %w", err)
	}
	obsCardinalityNext, err := asUint16(values[4])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 observation cardinality next: %w", err)
	}
	feeProtocol, err := asUint8(values[5])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 fee protocol: %w", err)
	}
	unlocked, err := asBool(values[6])
	if err != nil {
		return model.Slot0{}, fmt.Errorf("slot0 unlocked: %w", err)
	}

	return model.Slot0{
		SqrtPriceX96:               sqrtPrice.String(),
		Tick:                       tick,
		ObservationIndex:           obsIndex,
		ObservationCardinality:     obsCardinality,
		ObservationCardinalityNext: obsCardinalityNext,
		FeeProtocol:                feeProtocol,
		Unlocked:                   unlocked,
	}, nil
}

// GetPoolLiquidity reads a pool's in-range liquidity.
func GetPoolLiquidity(ctx context.Context, reader chain.Reader, pool common.Address) (*big.Int, error) {
	parsed, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := callMethod(ctx, reader, pool, parsed, "liquidity")
	if err != nil {
		return nil, err
	}
	liquidity, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	return liquidity, nil
}

// GetPoolFee reads a pool's fee tier in hundredths of a basis point.
func GetPoolFee(ctx context.Context, reader chain.Reader, pool common.Address) (uint32, error) {
	parsed, err := V3PoolABI()
	if err != nil {
		return 0, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := callMethod(ctx, reader, pool, parsed, "fee")
	if err != nil {
		return 0, err
	}
	fee, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("fee: %w", err)
	}
	return uint32(fee.Uint64()), nil
}

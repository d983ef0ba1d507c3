package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"dexray/internal/chain"
)

// CollectParams describes a fee-collection call for one position.
type CollectParams struct {
	TokenID    *big.Int
	Recipient  common.Address
	Amount0Max *big.Int
	Amount1Max *big.Int
}

// MintParams describes a new position to mint.
type MintParams struct {
	Token0         common.Address
	Token1         common.Address
	Fee            uint32
	TickLower      int32
	TickUpper      int32
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

// collectTuple matches the ABI CollectParams component names for packing.
type collectTuple struct {
	TokenId    *big.Int
	Recipient  common.Address
	Amount0Max *big.Int
	Amount1Max *big.Int
}

// mintTuple matches the ABI MintParams component names for packing.
type mintTuple struct {
	Token0         common.Address
	Token1         common.Address
	Fee            *big.Int
	TickLower      *big.Int
	TickUpper      *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

// maxUint128 caps collect amounts, meaning "collect everything owed".
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// CollectFees submits a fee-collection transaction for a position and
// returns the pending transaction hash.
func CollectFees(ctx context.Context, writer chain.Writer, manager common.Address, params CollectParams) (common.Hash, error) {
	parsed, err := PositionManagerABI()
	if err != nil {
		return common.Hash{}, fmt.Errorf("parse position manager abi: %w", err)
	}
	if params.TokenID == nil {
		return common.Hash{}, fmt.Errorf("collect: token id is required")
	}

	recipient := params.Recipient
	if recipient == (common.Address{}) {
		recipient = writer.From()
	}
	amount0Max := params.Amount0Max
	if amount0Max == nil {
		amount0Max = maxUint128
	}
	amount1Max := params.Amount1Max
	if amount1Max == nil {
		amount1Max = maxUint128
	}

	data, err := parsed.Pack("collect", collectTuple{
		TokenId:    params.TokenID,
		Recipient:  recipient,
		Amount0Max: amount0Max,
		Amount1Max: amount1Max,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack collect: %w", err)
	}

	return writer.SubmitTransaction(ctx, manager, data, nil)
}

// MintPosition submits a mint-position transaction and returns the
// pending transaction hash.
func MintPosition(ctx context.Context, writer chain.Writer, manager common.Address, params MintParams) (common.Hash, error) {
	parsed, err := PositionManagerABI()
	if err != nil {
		return common.Hash{}, fmt.Errorf("parse position manager abi: %w", err)
	}
	if params.TickLower >= params.TickUpper {
		return common.Hash{}, fmt.Errorf("mint: tick lower %d must be below tick upper %d", params.TickLower, params.TickUpper)
	}

	recipient := params.Recipient
	if recipient == (common.Address{}) {
		recipient = writer.From()
	}

	data, err := parsed.Pack("mint", mintTuple{
		Token0:         params.Token0,
		Token1:         params.Token1,
		Fee:            new(big.Int).SetUint64(uint64(params.Fee)),
		TickLower:      big.NewInt(int64(params.TickLower)),
		TickUpper:      big.NewInt(int64(params.TickUpper)),
		Amount0Desired: params.Amount0Desired,
		Amount1Desired: params.Amount1Desired,
		Amount0Min:     params.Amount0Min,
		Amount1Min:     params.Amount1Min,
		Recipient:      recipient,
		Deadline:       params.Deadline,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack mint: %w", err)
	}

	return writer.SubmitTransaction(ctx, manager, data, nil)
}

package chain

import (
	"github.com/ethereum/go-ethereum/common"

	"dexray/internal/model"
)

// Network holds the Uniswap V3 contract addresses for one chain.
type Network struct {
	Name            string
	ChainID         uint64
	Factory         common.Address
	PositionManager common.Address
}

var networks = map[uint64]Network{
	1: {
		Name:            "mainnet",
		ChainID:         1,
		Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
	},
	137: {
		Name:            "polygon",
		ChainID:         137,
		Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
	},
	8453: {
		Name:            "base",
		ChainID:         8453,
		Factory:         common.HexToAddress("0x33128a8fC17869897dcE68Ed026d694621f6FDfD"),
		PositionManager: common.HexToAddress("0x03a520b32C04BF3bEEf7BEb72E919cf822Ed34f1"),
	},
	42161: {
		Name:            "arbitrum",
		ChainID:         42161,
		Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
	},
}

// NetworkByChainID resolves the contract addresses for a chain id.
// Unknown chains are an UnsupportedNetworkError, never a silent default.
func NetworkByChainID(chainID uint64) (Network, error) {
	network, ok := networks[chainID]
	if !ok {
		return Network{}, &model.UnsupportedNetworkError{ChainID: chainID}
	}
	return network, nil
}

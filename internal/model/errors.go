package model

import (
	"errors"
	"fmt"
)

// ErrPoolNotFound is returned when the factory has no pool for a
// (token0, token1, fee) triple.
var ErrPoolNotFound = errors.New("pool not found")

// ErrTokenNotFound is returned when an address does not expose the
// minimum ERC20 surface.
var ErrTokenNotFound = errors.New("token not found")

// UnsupportedNetworkError indicates a chain id with no configured
// contract addresses. Fatal for the calling operation.
type UnsupportedNetworkError struct {
	ChainID uint64
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("unsupported network: chain id %d", e.ChainID)
}

// ChainMismatchError indicates a write refused because the signer's
// configured chain differs from the node's actual chain.
type ChainMismatchError struct {
	WalletChainID uint64
	NodeChainID   uint64
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("chain mismatch: wallet configured for chain %d, node reports chain %d", e.WalletChainID, e.NodeChainID)
}

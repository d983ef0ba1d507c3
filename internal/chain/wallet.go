package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"dexray/internal/model"
)

// Writer is the read-write capability: everything a Reader does plus
// transaction submission.
type Writer interface {
	Reader
	From() common.Address
	SubmitTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
}

// Wallet wraps a Client with a local signing key scoped to one chain.
// Submission refuses to sign when the node reports a different chain
// than the wallet was constructed for.
type Wallet struct {
	*Client

	key     *ecdsa.PrivateKey
	from    common.Address
	chainID uint64
}

// NewWallet builds a Wallet from a client and a hex-encoded private key.
func NewWallet(client *Client, hexKey string, chainID uint64) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Wallet{
		Client:  client,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}, nil
}

// NewWalletFromFile reads a hex private key from a file.
func NewWalletFromFile(client *Client, path string, chainID uint64) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return NewWallet(client, string(data), chainID)
}

// From returns the signing address.
func (w *Wallet) From() common.Address {
	return w.from
}

// SubmitTransaction signs and broadcasts a contract call and returns the
// pending transaction hash. It does not wait for confirmation.
func (w *Wallet) SubmitTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	nodeChainID, err := w.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("get chain id: %w", err)
	}
	if !nodeChainID.IsUint64() || nodeChainID.Uint64() != w.chainID {
		return common.Hash{}, &model.ChainMismatchError{
			WalletChainID: w.chainID,
			NodeChainID:   nodeChainID.Uint64(),
		}
	}

	if value == nil {
		value = new(big.Int)
	}

	nonce, err := w.ethClient.PendingNonceAt(ctx, w.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}

	gasPrice, err := w.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
	}

	gasLimit, err := w.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(nodeChainID), w.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := w.ethClient.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	return signed.Hash(), nil
}

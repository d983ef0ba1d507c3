package aggregate

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"dexray/internal/chain"
	"dexray/internal/dex"
	"dexray/internal/model"
)

// fakeReader serves canned eth_call responses keyed by method selector.
// Selectors are distinct across the ABIs involved, so contract addresses
// do not need to participate in routing.
type fakeReader struct {
	responses map[string][]byte
}

func (f *fakeReader) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	selector := hex.EncodeToString(msg.Data[:4])
	resp, ok := f.responses[selector]
	if !ok {
		return nil, fmt.Errorf("unexpected selector %s", selector)
	}
	return resp, nil
}

func (f *fakeReader) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func mustABI(t *testing.T, load func() (abi.ABI, error)) abi.ABI {
	t.Helper()
	parsed, err := load()
	if err != nil {
		t.Fatalf("abi: %v", err)
	}
	return parsed
}

func respond(t *testing.T, parsed abi.ABI, method string, values ...interface{}) (string, []byte) {
	t.Helper()
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	if err != nil {
		t.Fatalf("pack %s outputs: %v", method, err)
	}
	return hex.EncodeToString(parsed.Methods[method].ID), out
}

func tokenWithDecimals(symbol string, decimals uint8) model.Token {
	return model.Token{Symbol: symbol, Decimals: decimals}
}

func testNetwork(t *testing.T) chain.Network {
	network, err := chain.NetworkByChainID(1)
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	return network
}

func newChainFake(t *testing.T, liquidity *big.Int, tick int64) *fakeReader {
	factoryABI := mustABI(t, dex.FactoryABI)
	poolABI := mustABI(t, dex.V3PoolABI)
	erc20ABI := mustABI(t, dex.ERC20ABI)
	managerABI := mustABI(t, dex.PositionManagerABI)

	token0 := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	token1 := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	pool := common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)

	responses := make(map[string][]byte)
	put := func(selector string, data []byte) { responses[selector] = data }

	put(respond(t, managerABI, "balanceOf", big.NewInt(1)))
	put(respond(t, managerABI, "tokenOfOwnerByIndex", big.NewInt(42)))
	put(respond(t, managerABI, "positions",
		big.NewInt(0), common.Address{}, token0, token1, big.NewInt(3000),
		big.NewInt(-60), big.NewInt(60), liquidity,
		big.NewInt(0), big.NewInt(0), big.NewInt(11), big.NewInt(22)))
	put(respond(t, factoryABI, "getPool", pool))
	put(respond(t, poolABI, "slot0", sqrtPrice, big.NewInt(tick), uint16(0), uint16(1), uint16(1), uint8(0), true))
	put(respond(t, poolABI, "liquidity", big.NewInt(777)))
	put(respond(t, poolABI, "fee", big.NewInt(3000)))

	// Both tokens share the metadata responses; the values differ only
	// in what the test asserts, which is decimals and plumbing.
	put(respond(t, erc20ABI, "symbol", "TKN"))
	put(respond(t, erc20ABI, "name", "Test Token"))
	put(respond(t, erc20ABI, "decimals", uint8(18)))

	return &fakeReader{responses: responses}
}

func TestAllPositions(t *testing.T) {
	reader := newChainFake(t, big.NewInt(1000000), 0)
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	positions, err := AllPositions(context.Background(), reader, testNetwork(t), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}

	position := positions[0]
	if position.TokenID != "42" {
		t.Fatalf("token id mismatch: %s", position.TokenID)
	}
	if !position.InRange {
		t.Fatalf("tick 0 in [-60, 60) should be in range")
	}
	if math.Abs(position.PriceRange.Current-1.0) > 1e-9 {
		t.Fatalf("current price mismatch: %v", position.PriceRange.Current)
	}
	if position.PriceRange.Lower >= position.PriceRange.Upper {
		t.Fatalf("price range inverted: %+v", position.PriceRange)
	}
	if position.TokensOwed0 != "11" || position.TokensOwed1 != "22" {
		t.Fatalf("fee counters must pass through untouched: %+v", position.Position)
	}
	if position.Pool.Fee != 3000 || position.Pool.Liquidity != "777" {
		t.Fatalf("pool info mismatch: %+v", position.Pool)
	}
	if position.Pool.Token0.Decimals != 18 {
		t.Fatalf("token metadata not attached: %+v", position.Pool.Token0)
	}
}

func TestAllPositionsDropsZeroLiquidity(t *testing.T) {
	reader := newChainFake(t, big.NewInt(0), 0)
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	positions, err := AllPositions(context.Background(), reader, testNetwork(t), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 0 {
		t.Fatalf("zero-liquidity positions must be dropped, got %d", len(positions))
	}
}

func TestPositionValuesOutOfRange(t *testing.T) {
	// Current tick right at the upper bound is out of range.
	reader := newChainFake(t, big.NewInt(1000000), 60)
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	positions, err := AllPositions(context.Background(), reader, testNetwork(t), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].InRange {
		t.Fatalf("tick at the upper bound must be out of range")
	}
}

func TestGetPoolInfo(t *testing.T) {
	reader := newChainFake(t, big.NewInt(1), 0)
	pool := common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")

	info, err := GetPoolInfo(context.Background(), reader, pool, tokenWithDecimals("USDC", 6), tokenWithDecimals("WETH", 18))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Fee != 3000 {
		t.Fatalf("fee mismatch: %d", info.Fee)
	}
	if info.Liquidity != "777" {
		t.Fatalf("liquidity mismatch: %s", info.Liquidity)
	}
	if info.Token0.Symbol != "USDC" || info.Token1.Symbol != "WETH" {
		t.Fatalf("tokens not carried: %+v", info)
	}
}

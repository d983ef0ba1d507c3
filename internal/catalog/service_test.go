package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dexray/internal/model"
	"dexray/internal/tokenstore"
)

func newTestService(t *testing.T, fetch TokenFetcher) *Service {
	t.Helper()
	store := tokenstore.NewStore(filepath.Join(t.TempDir(), "custom_tokens.json"), nil)
	return NewService(store, fetch, DefaultTTL, nil)
}

func countAddress(tokens []model.Token, address string) int {
	count := 0
	for _, token := range tokens {
		if token.SameAddress(address) {
			count++
		}
	}
	return count
}

func TestTokensForNetworkUnknownChainFallsBack(t *testing.T) {
	svc := newTestService(t, nil)

	custom := model.Token{Symbol: "XYZ", Address: "0x1234567890123456789012345678901234567890", Decimals: 18}
	svc.store.Save(custom, 424242)
	svc.store.Save(model.Token{Symbol: "MAINNET-ONLY", Address: "0x9999999999999999999999999999999999999999", Decimals: 18}, 1)

	tokens := svc.TokensForNetwork(424242)

	defaults := DefaultTokens(1)
	if len(tokens) != len(defaults)+1 {
		t.Fatalf("expected chain-1 defaults plus one custom, got %d", len(tokens))
	}
	if countAddress(tokens, custom.Address) != 1 {
		t.Fatalf("chain's own custom missing")
	}
	// Chain 1's customs must not leak into another chain's list.
	if countAddress(tokens, "0x9999999999999999999999999999999999999999") != 0 {
		t.Fatalf("chain 1 customs leaked into chain 424242")
	}
}

func TestMergeDeduplicatesKeepingDefaultMetadata(t *testing.T) {
	svc := newTestService(t, nil)

	weth := DefaultTokens(1)[0]
	svc.store.Save(model.Token{
		Symbol:   "FAKE-WETH",
		Address:  model.NormalizeAddress(weth.Address),
		Decimals: 18,
	}, 1)

	tokens := svc.TokensForNetwork(1)
	if countAddress(tokens, weth.Address) != 1 {
		t.Fatalf("expected exactly one entry for %s", weth.Address)
	}
	for _, token := range tokens {
		if token.SameAddress(weth.Address) && token.Symbol != weth.Symbol {
			t.Fatalf("default metadata must win, got %s", token.Symbol)
		}
	}
}

func TestCacheTTL(t *testing.T) {
	svc := newTestService(t, nil)

	base := time.Unix(1700000000, 0)
	svc.cache.now = func() time.Time { return base }

	first := svc.TokensForNetwork(1)

	// A token saved behind the cache's back stays invisible inside TTL.
	svc.store.Save(model.Token{Symbol: "LATE", Address: "0x1111111111111111111111111111111111111111", Decimals: 18}, 1)

	svc.cache.now = func() time.Time { return base.Add(DefaultTTL - time.Second) }
	within := svc.TokensForNetwork(1)
	if len(within) != len(first) {
		t.Fatalf("cached read must not re-merge: %d != %d", len(within), len(first))
	}

	svc.cache.now = func() time.Time { return base.Add(DefaultTTL) }
	after := svc.TokensForNetwork(1)
	if countAddress(after, "0x1111111111111111111111111111111111111111") != 1 {
		t.Fatalf("expired cache must re-merge and pick up the new custom")
	}
}

func TestSearchTokenByAddress(t *testing.T) {
	fetches := 0
	fetch := func(_ context.Context, _ uint64, address common.Address) (model.Token, error) {
		fetches++
		return model.Token{
			Symbol:   "PEPE",
			Name:     "Pepe",
			Address:  model.NormalizeAddress(address.Hex()),
			Decimals: 18,
		}, nil
	}
	svc := newTestService(t, fetch)

	address := "0x6982508145454Ce325dDbE47a25d4ec3d2311933"
	token, found := svc.SearchTokenByAddress(context.Background(), 1, address)
	if !found {
		t.Fatalf("expected token")
	}
	if token.Symbol != "PEPE" {
		t.Fatalf("symbol mismatch: %s", token.Symbol)
	}
	if !svc.IsCustom(address, 1) {
		t.Fatalf("searched token must persist as custom")
	}

	// Searching twice must not duplicate the catalog entry.
	if _, found := svc.SearchTokenByAddress(context.Background(), 1, address); !found {
		t.Fatalf("second search failed")
	}
	tokens := svc.TokensForNetwork(1)
	if countAddress(tokens, address) != 1 {
		t.Fatalf("expected exactly one catalog entry, got %d", countAddress(tokens, address))
	}
	if fetches != 2 {
		t.Fatalf("each search queries the chain, got %d fetches", fetches)
	}
}

func TestSearchTokenByAddressRejectsMalformed(t *testing.T) {
	fetch := func(context.Context, uint64, common.Address) (model.Token, error) {
		t.Fatalf("fetch must not run for malformed addresses")
		return model.Token{}, nil
	}
	svc := newTestService(t, fetch)

	for _, bad := range []string{"", "0x123", "6982508145454Ce325dDbE47a25d4ec3d2311933", "0xZZ82508145454Ce325dDbE47a25d4ec3d2311933"} {
		if _, found := svc.SearchTokenByAddress(context.Background(), 1, bad); found {
			t.Fatalf("malformed address %q accepted", bad)
		}
	}
}

func TestSearchTokenByAddressLookupFailure(t *testing.T) {
	fetch := func(context.Context, uint64, common.Address) (model.Token, error) {
		return model.Token{}, fmt.Errorf("rpc down")
	}
	svc := newTestService(t, fetch)

	if _, found := svc.SearchTokenByAddress(context.Background(), 1, "0x6982508145454Ce325dDbE47a25d4ec3d2311933"); found {
		t.Fatalf("lookup failure must report absent")
	}
}

func TestSearchInvalidatesCache(t *testing.T) {
	fetch := func(_ context.Context, _ uint64, address common.Address) (model.Token, error) {
		return model.Token{Symbol: "NEW", Address: model.NormalizeAddress(address.Hex()), Decimals: 18}, nil
	}
	svc := newTestService(t, fetch)

	before := svc.TokensForNetwork(1)
	address := "0x6982508145454Ce325dDbE47a25d4ec3d2311933"
	if _, found := svc.SearchTokenByAddress(context.Background(), 1, address); !found {
		t.Fatalf("search failed")
	}

	after := svc.TokensForNetwork(1)
	if len(after) != len(before)+1 {
		t.Fatalf("catalog must re-merge after search: %d != %d+1", len(after), len(before))
	}
}

func TestAddCustomTokenCacheOnly(t *testing.T) {
	svc := newTestService(t, nil)
	token := model.Token{Symbol: "TMP", Address: "0x2222222222222222222222222222222222222222", Decimals: 18}

	// Without a held cache entry the fast path is a no-op.
	svc.AddCustomToken(token, 1)
	if countAddress(svc.TokensForNetwork(1), token.Address) != 0 {
		t.Fatalf("cache-only add must not affect a cold catalog")
	}
	if svc.IsCustom(token.Address, 1) {
		t.Fatalf("cache-only add must not persist")
	}

	// With a live entry the token appears immediately, still unpersisted.
	svc.AddCustomToken(token, 1)
	if countAddress(svc.TokensForNetwork(1), token.Address) != 1 {
		t.Fatalf("cache-only add must show in a warm catalog")
	}
	if svc.IsCustom(token.Address, 1) {
		t.Fatalf("cache-only add must not persist")
	}
}

func TestSaveCustomTokenDurable(t *testing.T) {
	svc := newTestService(t, nil)
	token := model.Token{Symbol: "KEEP", Address: "0x3333333333333333333333333333333333333333", Decimals: 18}

	svc.SaveCustomToken(token, 1)
	if !svc.IsCustom(token.Address, 1) {
		t.Fatalf("durable add must persist")
	}
	if countAddress(svc.TokensForNetwork(1), token.Address) != 1 {
		t.Fatalf("durable add must appear in the catalog")
	}
}

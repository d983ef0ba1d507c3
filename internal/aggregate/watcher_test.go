package aggregate

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func TestWatcherStaleness(t *testing.T) {
	reader := newChainFake(t, big.NewInt(1), 0)
	pool := common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")

	watcher := NewWatcher(WatcherConfig{Staleness: 30 * time.Second}, reader, zap.NewNop())
	watcher.Track(pool, tokenWithDecimals("USDC", 6), tokenWithDecimals("WETH", 18))

	base := time.Unix(1700000000, 0)
	watcher.now = func() time.Time { return base }
	watcher.refreshAll(context.Background())

	if _, ok := watcher.Get(pool); !ok {
		t.Fatalf("fresh snapshot should serve")
	}
	if got := watcher.Snapshot(); len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}

	watcher.now = func() time.Time { return base.Add(29 * time.Second) }
	if _, ok := watcher.Get(pool); !ok {
		t.Fatalf("snapshot within the staleness window should serve")
	}

	watcher.now = func() time.Time { return base.Add(30 * time.Second) }
	if _, ok := watcher.Get(pool); ok {
		t.Fatalf("snapshot at the staleness threshold must miss")
	}
	if got := watcher.Snapshot(); len(got) != 0 {
		t.Fatalf("stale snapshots must not be listed, got %d", len(got))
	}
}

func TestWatcherUntrack(t *testing.T) {
	reader := newChainFake(t, big.NewInt(1), 0)
	pool := common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")

	watcher := NewWatcher(WatcherConfig{}, reader, nil)
	watcher.Track(pool, tokenWithDecimals("USDC", 6), tokenWithDecimals("WETH", 18))
	watcher.refreshAll(context.Background())

	watcher.Untrack(pool)
	if _, ok := watcher.Get(pool); ok {
		t.Fatalf("untracked pool should miss")
	}
}

func TestWatcherKeepsSnapshotOnRefreshFailure(t *testing.T) {
	reader := newChainFake(t, big.NewInt(1), 0)
	pool := common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")

	watcher := NewWatcher(WatcherConfig{}, reader, zap.NewNop())
	watcher.Track(pool, tokenWithDecimals("USDC", 6), tokenWithDecimals("WETH", 18))
	watcher.refreshAll(context.Background())

	// Break the fake so the next refresh fails; the old snapshot stays.
	reader.responses = map[string][]byte{}
	watcher.refreshAll(context.Background())

	if _, ok := watcher.Get(pool); !ok {
		t.Fatalf("failed refresh must not evict the previous snapshot")
	}
}

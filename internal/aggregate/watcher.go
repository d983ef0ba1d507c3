package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexray/internal/chain"
	"dexray/internal/model"
)

// WatcherConfig tunes the background pool refresher.
type WatcherConfig struct {
	// Staleness is how old a snapshot may be before Get stops serving it.
	Staleness time.Duration
	// Refresh is the background poll cadence.
	Refresh      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type watchedPool struct {
	token0 model.Token
	token1 model.Token
}

type poolSnapshot struct {
	info      model.PoolInfo
	fetchedAt time.Time
}

// Watcher keeps a tracked set of pools fresh in the background. Reads
// serve the last snapshot while it is within the staleness window; the
// refresh loop replaces snapshots whole, never field by field.
type Watcher struct {
	cfg    WatcherConfig
	reader chain.Reader
	logger *zap.Logger

	mu        sync.RWMutex
	tracked   map[common.Address]watchedPool
	snapshots map[common.Address]poolSnapshot

	now func() time.Time
}

// NewWatcher builds a Watcher. Zero durations fall back to the 30s
// staleness / 60s refresh defaults.
func NewWatcher(cfg WatcherConfig, reader chain.Reader, logger *zap.Logger) *Watcher {
	if cfg.Staleness <= 0 {
		cfg.Staleness = 30 * time.Second
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		cfg:       cfg,
		reader:    reader,
		logger:    logger,
		tracked:   make(map[common.Address]watchedPool),
		snapshots: make(map[common.Address]poolSnapshot),
		now:       time.Now,
	}
}

// Track adds a pool to the refresh set.
func (w *Watcher) Track(pool common.Address, token0, token1 model.Token) {
	w.mu.Lock()
	w.tracked[pool] = watchedPool{token0: token0, token1: token1}
	w.mu.Unlock()
}

// Untrack removes a pool and its snapshot.
func (w *Watcher) Untrack(pool common.Address) {
	w.mu.Lock()
	delete(w.tracked, pool)
	delete(w.snapshots, pool)
	w.mu.Unlock()
}

// Get returns the pool's last snapshot if it is within the staleness
// window. A stale or missing snapshot is a miss; callers fall back to a
// direct fetch.
func (w *Watcher) Get(pool common.Address) (model.PoolInfo, bool) {
	w.mu.RLock()
	snapshot, ok := w.snapshots[pool]
	w.mu.RUnlock()
	if !ok {
		return model.PoolInfo{}, false
	}
	if w.now().Sub(snapshot.fetchedAt) >= w.cfg.Staleness {
		return model.PoolInfo{}, false
	}
	return snapshot.info, true
}

// Snapshot returns every fresh pool view currently held.
func (w *Watcher) Snapshot() []model.PoolInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]model.PoolInfo, 0, len(w.snapshots))
	for _, snapshot := range w.snapshots {
		if w.now().Sub(snapshot.fetchedAt) < w.cfg.Staleness {
			out = append(out, snapshot.info)
		}
	}
	return out
}

// Run refreshes the tracked set immediately and then on every tick until
// the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.cfg.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *Watcher) refreshAll(ctx context.Context) {
	w.mu.RLock()
	pools := make(map[common.Address]watchedPool, len(w.tracked))
	for addr, tracked := range w.tracked {
		pools[addr] = tracked
	}
	w.mu.RUnlock()

	for addr, tracked := range pools {
		var info model.PoolInfo
		err := chain.WithRetry(ctx, w.cfg.MaxRetries, w.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			info, err = GetPoolInfo(ctx, w.reader, addr, tracked.token0, tracked.token1)
			return err
		})
		if err != nil {
			// Keep the previous snapshot; it ages out via the staleness window.
			w.logger.Warn("pool refresh failed", zap.String("pool", addr.Hex()), zap.Error(err))
			continue
		}

		w.mu.Lock()
		w.snapshots[addr] = poolSnapshot{info: info, fetchedAt: w.now()}
		w.mu.Unlock()

		w.logger.Debug("pool refreshed", zap.String("pool", addr.Hex()), zap.Int32("tick", info.Tick))
	}
}

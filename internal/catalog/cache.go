package catalog

import (
	"sync"
	"time"

	"dexray/internal/model"
)

// DefaultTTL is how long a catalog cache entry stays valid.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	tokens []model.Token
	at     time.Time
}

// Cache holds one token list per chain with a TTL. Entries are replaced
// whole; a partially-updated entry is never observable.
type Cache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[uint64]cacheEntry

	now func() time.Time
}

// NewCache builds a cache; a non-positive ttl uses DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[uint64]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached list for a chain while within TTL.
func (c *Cache) Get(chainID uint64) ([]model.Token, bool) {
	c.mu.RLock()
	entry, ok := c.entries[chainID]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.at) >= c.ttl {
		return nil, false
	}
	return entry.tokens, true
}

// Set installs a fresh entry for a chain.
func (c *Cache) Set(chainID uint64, tokens []model.Token) {
	c.mu.Lock()
	c.entries[chainID] = cacheEntry{tokens: tokens, at: c.now()}
	c.mu.Unlock()
}

// Invalidate drops a chain's entry so the next read re-merges.
func (c *Cache) Invalidate(chainID uint64) {
	c.mu.Lock()
	delete(c.entries, chainID)
	c.mu.Unlock()
}

// Append adds a token to an existing entry if its address is not already
// present, bumping the entry's timestamp. It reports whether an entry
// was held; without one this is a no-op.
func (c *Cache) Append(chainID uint64, token model.Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[chainID]
	if !ok {
		return false
	}

	for _, existing := range entry.tokens {
		if existing.SameAddress(token.Address) {
			c.entries[chainID] = cacheEntry{tokens: entry.tokens, at: c.now()}
			return true
		}
	}

	tokens := make([]model.Token, 0, len(entry.tokens)+1)
	tokens = append(tokens, entry.tokens...)
	tokens = append(tokens, token)
	c.entries[chainID] = cacheEntry{tokens: tokens, at: c.now()}
	return true
}

package catalog

import (
	"context"
	"regexp"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexray/internal/chain"
	"dexray/internal/dex"
	"dexray/internal/model"
	"dexray/internal/tokenstore"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// TokenFetcher resolves ERC20 metadata for an address on a chain.
type TokenFetcher func(ctx context.Context, chainID uint64, address common.Address) (model.Token, error)

// ChainFetcher adapts a chain reader into a TokenFetcher.
func ChainFetcher(reader chain.Reader) TokenFetcher {
	return func(ctx context.Context, _ uint64, address common.Address) (model.Token, error) {
		return dex.FetchTokenInfo(ctx, reader, address)
	}
}

// Service merges curated default token lists with user-added customs
// behind a TTL cache, and looks up unknown tokens on chain.
type Service struct {
	store  *tokenstore.Store
	cache  *Cache
	fetch  TokenFetcher
	logger *zap.Logger
}

// NewService builds a catalog service. A non-positive ttl uses
// DefaultTTL.
func NewService(store *tokenstore.Store, fetch TokenFetcher, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  NewCache(ttl),
		fetch:  fetch,
		logger: logger,
	}
}

// TokensForNetwork returns the merged token list for a chain: the
// curated defaults (chain 1's on an unknown chain) plus that chain's own
// custom tokens, deduplicated case-insensitively with defaults winning.
// A valid cache entry short-circuits the merge entirely.
func (s *Service) TokensForNetwork(chainID uint64) []model.Token {
	if tokens, ok := s.cache.Get(chainID); ok {
		return tokens
	}

	merged := DefaultTokens(chainID)
	known := make(map[string]struct{}, len(merged))
	for _, token := range merged {
		known[model.NormalizeAddress(token.Address)] = struct{}{}
	}

	for _, custom := range s.store.Get(chainID) {
		if _, ok := known[model.NormalizeAddress(custom.Address)]; ok {
			continue
		}
		merged = append(merged, custom)
	}

	s.cache.Set(chainID, merged)
	return merged
}

// SearchTokenByAddress looks up a token on chain, persists it as a
// custom token, and invalidates the chain's cache entry so the next
// catalog read picks it up. Every failure path reports absent; nothing
// raises to the caller.
func (s *Service) SearchTokenByAddress(ctx context.Context, chainID uint64, address string) (model.Token, bool) {
	if !addressPattern.MatchString(address) {
		return model.Token{}, false
	}

	token, err := s.fetch(ctx, chainID, common.HexToAddress(address))
	if err != nil {
		s.logger.Debug("token lookup failed",
			zap.Uint64("chain_id", chainID),
			zap.String("address", address),
			zap.Error(err))
		return model.Token{}, false
	}

	s.store.Save(token, chainID)
	s.cache.Invalidate(chainID)
	return token, true
}

// AddCustomToken applies the cache-only fast path: if a cache entry is
// currently held for the chain, the token is appended (when absent) and
// the entry's timestamp bumped. It does not persist; durable adds go
// through SaveCustomToken.
func (s *Service) AddCustomToken(token model.Token, chainID uint64) {
	s.cache.Append(chainID, token)
}

// SaveCustomToken durably persists a custom token and applies the cache
// fast path so an already-cached catalog reflects it immediately.
func (s *Service) SaveCustomToken(token model.Token, chainID uint64) {
	s.store.Save(token, chainID)
	s.cache.Append(chainID, token)
}

// RemoveCustomToken deletes a custom token and invalidates the chain's
// cache entry.
func (s *Service) RemoveCustomToken(address string, chainID uint64) {
	s.store.Remove(address, chainID)
	s.cache.Invalidate(chainID)
}

// IsCustom reports whether an address is user-added on a chain.
func (s *Service) IsCustom(address string, chainID uint64) bool {
	return s.store.IsCustom(address, chainID)
}

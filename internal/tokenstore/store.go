package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"dexray/internal/model"
)

// LoadStatus reports how a read degraded, so callers and tests can
// assert on the degradation path instead of scraping logs.
type LoadStatus int

const (
	// StatusOK covers a clean read, including a store that simply does
	// not exist yet.
	StatusOK LoadStatus = iota
	// StatusRecoveredEmpty means the stored document did not parse and
	// the read degraded to an empty result.
	StatusRecoveredEmpty
	// StatusFailed means the file exists but could not be read.
	StatusFailed
)

// Store persists user-added custom tokens as one JSON document mapping
// chain id to token list. All operations fail soft: reads degrade to
// empty, writes are logged and swallowed. Callers must not assume
// persistence succeeded.
type Store struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewStore builds a store over the given file path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Get returns the custom tokens for a chain, empty on any failure.
func (s *Store) Get(chainID uint64) []model.Token {
	tokens, _ := s.GetWithStatus(chainID)
	return tokens
}

// GetWithStatus returns the custom tokens for a chain along with how the
// read degraded, if it did.
func (s *Store) GetWithStatus(chainID uint64) ([]model.Token, LoadStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, status := s.load()
	return doc[chainKey(chainID)], status
}

// Save persists a token under a chain id. Saving a token whose address
// already exists for that chain (case-insensitively) is a silent no-op.
func (s *Store) Save(token model.Token, chainID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _ := s.load()
	key := chainKey(chainID)
	for _, existing := range doc[key] {
		if existing.SameAddress(token.Address) {
			return
		}
	}

	token.Address = model.NormalizeAddress(token.Address)
	doc[key] = append(doc[key], token)
	s.persist(doc)
}

// Remove deletes a token by address. Removing an absent token is a no-op.
func (s *Store) Remove(address string, chainID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _ := s.load()
	key := chainKey(chainID)
	tokens := doc[key]

	kept := tokens[:0]
	for _, token := range tokens {
		if !token.SameAddress(address) {
			kept = append(kept, token)
		}
	}
	if len(kept) == len(tokens) {
		return
	}

	if len(kept) == 0 {
		delete(doc, key)
	} else {
		doc[key] = kept
	}
	s.persist(doc)
}

// IsCustom reports whether an address is a user-added token on a chain.
func (s *Store) IsCustom(address string, chainID uint64) bool {
	for _, token := range s.Get(chainID) {
		if token.SameAddress(address) {
			return true
		}
	}
	return false
}

// ClearAll removes every custom token for every chain.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("token store clear failed", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *Store) load() (map[string][]model.Token, LoadStatus) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]model.Token{}, StatusOK
		}
		s.logger.Warn("token store read failed", zap.String("path", s.path), zap.Error(err))
		return map[string][]model.Token{}, StatusFailed
	}

	var doc map[string][]model.Token
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("token store parse failed", zap.String("path", s.path), zap.Error(err))
		return map[string][]model.Token{}, StatusRecoveredEmpty
	}
	if doc == nil {
		doc = map[string][]model.Token{}
	}
	return doc, StatusOK
}

func (s *Store) persist(doc map[string][]model.Token) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warn("token store marshal failed", zap.Error(err))
		return
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Warn("token store dir create failed", zap.String("dir", dir), zap.Error(err))
			return
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		s.logger.Warn("token store write failed", zap.String("path", tmpPath), zap.Error(err))
		return
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		s.logger.Warn("token store rename failed", zap.String("path", s.path), zap.Error(err))
	}
}

func chainKey(chainID uint64) string {
	return strconv.FormatUint(chainID, 10)
}

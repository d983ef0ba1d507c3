package model

import (
	"encoding/json"
	"strings"
)

// Token captures ERC20 metadata for the catalog.
// Identity is (chain id, lowercased address); a token never changes its
// address or decimals once fetched.
type Token struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Decimals    uint8  `json:"decimals"`
	LogoURI     string `json:"logo,omitempty"`
	PriceFeedID string `json:"price_feed_id,omitempty"`

	// extra holds fields written by other (possibly newer) readers of the
	// custom-token store. They survive a read-modify-write cycle untouched.
	extra map[string]json.RawMessage
}

var tokenKnownKeys = map[string]struct{}{
	"symbol":        {},
	"name":          {},
	"address":       {},
	"decimals":      {},
	"logo":          {},
	"price_feed_id": {},
}

type tokenAlias Token

func (t *Token) UnmarshalJSON(data []byte) error {
	var known tokenAlias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key := range fields {
		if _, ok := tokenKnownKeys[key]; ok {
			delete(fields, key)
		}
	}
	if len(fields) == 0 {
		fields = nil
	}

	*t = Token(known)
	t.extra = fields
	return nil
}

func (t Token) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.extra)+6)
	for key, value := range t.extra {
		out[key] = value
	}

	known, err := json.Marshal(tokenAlias(t))
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		out[key] = value
	}

	return json.Marshal(out)
}

// SameAddress reports whether the token's address equals other
// case-insensitively.
func (t Token) SameAddress(other string) bool {
	return NormalizeAddress(t.Address) == NormalizeAddress(other)
}

// NormalizeAddress lowercases an address for identity comparisons.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ChainTokenList maps a chain id to its ordered token list.
type ChainTokenList map[uint64][]Token

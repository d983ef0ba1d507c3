package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dexray/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "custom_tokens.json"), nil)
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	store.Save(model.Token{
		Symbol:   "PEPE",
		Name:     "Pepe",
		Address:  "0x6982508145454Ce325dDbE47a25d4ec3d2311933",
		Decimals: 18,
	}, 1)

	tokens, status := store.GetWithStatus(1)
	if status != StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Address != "0x6982508145454ce325ddbe47a25d4ec3d2311933" {
		t.Fatalf("address not normalized: %s", tokens[0].Address)
	}

	if got := store.Get(137); len(got) != 0 {
		t.Fatalf("other chain must be empty, got %d", len(got))
	}
}

func TestSaveDeduplicatesCaseInsensitively(t *testing.T) {
	store := newTestStore(t)

	store.Save(model.Token{Symbol: "AAA", Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Decimals: 18}, 1)
	store.Save(model.Token{Symbol: "AAA2", Address: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Decimals: 18}, 1)

	tokens := store.Get(1)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token after duplicate save, got %d", len(tokens))
	}
	if tokens[0].Symbol != "AAA" {
		t.Fatalf("first save must win: %s", tokens[0].Symbol)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	store := newTestStore(t)

	store.Save(model.Token{Symbol: "AAA", Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Decimals: 18}, 1)
	store.Remove("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1)
	if got := store.Get(1); len(got) != 0 {
		t.Fatalf("token not removed, got %d", len(got))
	}

	// Removing again is a no-op success.
	store.Remove("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1)
	if got := store.Get(1); len(got) != 0 {
		t.Fatalf("idempotent remove changed state, got %d", len(got))
	}
}

func TestIsCustom(t *testing.T) {
	store := newTestStore(t)

	store.Save(model.Token{Symbol: "AAA", Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Decimals: 18}, 1)
	if !store.IsCustom("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", 1) {
		t.Fatalf("expected custom")
	}
	if store.IsCustom("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", 137) {
		t.Fatalf("custom flag must be chain-scoped")
	}
	if store.IsCustom("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", 1) {
		t.Fatalf("unknown address flagged custom")
	}
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)

	store.Save(model.Token{Symbol: "AAA", Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Decimals: 18}, 1)
	store.Save(model.Token{Symbol: "BBB", Address: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Decimals: 18}, 137)
	store.ClearAll()

	if len(store.Get(1)) != 0 || len(store.Get(137)) != 0 {
		t.Fatalf("clear left tokens behind")
	}
}

func TestCorruptStoreRecoversEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_tokens.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewStore(path, nil)
	tokens, status := store.GetWithStatus(1)
	if status != StatusRecoveredEmpty {
		t.Fatalf("expected recovered-empty, got %d", status)
	}
	if len(tokens) != 0 {
		t.Fatalf("corrupt store must read empty, got %d", len(tokens))
	}
}

func TestUnknownFieldsSurviveRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_tokens.json")
	seed := `{"1":[{"symbol":"OLD","name":"Old","address":"0xcccccccccccccccccccccccccccccccccccccccc","decimals":18,"source":"import"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	store := NewStore(path, nil)
	store.Save(model.Token{Symbol: "NEW", Address: "0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD", Decimals: 6}, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	var doc map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse store: %v", err)
	}
	if len(doc["1"]) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(doc["1"]))
	}
	if string(doc["1"][0]["source"]) != `"import"` {
		t.Fatalf("unknown field dropped on rewrite: %v", doc["1"][0])
	}
}

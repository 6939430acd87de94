package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/storage"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newLinks(backend storage.Backend) *storage.Links {
	return storage.NewLinks(storage.LinksParams{
		Backend: backend,
		Now:     func() time.Time { return fixedNow },
	})
}

func TestLinks_LoadWithoutStateReturnsSeed(t *testing.T) {
	links := newLinks(storage.NewMemoryBackend())

	store, err := links.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("expected 2 seed links, got %d", store.Len())
	}
	seed := model.SeedLinks(fixedNow)
	for i := range seed {
		if store.Links[i].ID != seed[i].ID || store.Links[i].ShortCode != seed[i].ShortCode {
			t.Errorf("link %d: got %+v, want %+v", i, store.Links[i], seed[i])
		}
	}
}

func TestLinks_RoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend()
	links := newLinks(backend)

	original := model.NewStore([]model.Link{
		{
			ID:          "b",
			Title:       "Second",
			OriginalURL: "https://example.com/b",
			ShortCode:   "promo",
			CustomSlug:  "promo",
			CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			Clicks:      0,
			Tags:        []string{},
		},
		{
			ID:          "a",
			Title:       "First",
			OriginalURL: "https://example.com/a",
			ShortCode:   "Ab12Cd",
			CreatedAt:   time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			Clicks:      42,
			Tags:        []string{"x", "y"},
		},
	})

	if err := links.Save(original); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := links.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if loaded.Len() != original.Len() {
		t.Fatalf("expected %d links, got %d", original.Len(), loaded.Len())
	}
	for i, want := range original.Links {
		got := loaded.Links[i]
		if got.ID != want.ID || got.Title != want.Title || got.OriginalURL != want.OriginalURL ||
			got.ShortCode != want.ShortCode || got.CustomSlug != want.CustomSlug ||
			got.Clicks != want.Clicks || !got.CreatedAt.Equal(want.CreatedAt) ||
			len(got.Tags) != len(want.Tags) {
			t.Errorf("link %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestLinks_LoadMalformedReturnsSeed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"id": "x"}`},
		{"null", "null"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storage.NewMemoryBackend()
			_ = backend.Set(storage.LinksKey, []byte(tt.value))

			store, err := newLinks(backend).Load()
			if err != nil {
				t.Fatalf("malformed state should not error, got %v", err)
			}
			if store.Len() != 2 || store.Links[0].ShortCode != "verao24" {
				t.Errorf("expected seed list, got %+v", store.Links)
			}
		})
	}
}

func TestLinks_LoadEmptyArrayIsWellFormed(t *testing.T) {
	backend := storage.NewMemoryBackend()
	_ = backend.Set(storage.LinksKey, []byte("[]"))

	store, err := newLinks(backend).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty list, got %d links", store.Len())
	}
}

func TestLinks_ReloadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"truncated to zero bytes", ""},
		{"cut mid-write", `[{"id":"a","title":"Sum`},
		{"null", "null"},
		{"not json", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storage.NewMemoryBackend()
			_ = backend.Set(storage.LinksKey, []byte(tt.value))

			store, err := newLinks(backend).Reload()
			if !errors.Is(err, storage.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if store != nil {
				t.Errorf("expected no store, got %+v", store.Links)
			}
		})
	}
}

func TestLinks_ReloadMissingKey(t *testing.T) {
	if _, err := newLinks(storage.NewMemoryBackend()).Reload(); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLinks_ReloadAfterTruncatedFileKeepsUserLinks(t *testing.T) {
	backend := storage.NewFileBackend(t.TempDir())
	links := newLinks(backend)

	user := model.NewStore([]model.Link{
		{ID: "a", ShortCode: "promo", OriginalURL: "https://shop.example/promo", Tags: []string{}},
		{ID: "b", ShortCode: "bio", OriginalURL: "https://brand.example/bio", Tags: []string{}},
		{ID: "c", ShortCode: "docs", OriginalURL: "https://docs.example", Tags: []string{}},
	})
	if err := links.Save(user); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	// Another writer or an editor leaves the file empty for a moment.
	if err := os.Truncate(backend.Path(storage.LinksKey), 0); err != nil {
		t.Fatal(err)
	}

	if store, err := links.Reload(); !errors.Is(err, storage.ErrMalformed) {
		t.Fatalf("reload of truncated file should fail, got store %v err %v", store, err)
	}

	// Startup still falls back to the seed list.
	store, err := links.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 2 || store.Links[0].ShortCode != "verao24" {
		t.Errorf("expected seed list at startup, got %+v", store.Links)
	}
}

func TestLinks_ReloadWellFormed(t *testing.T) {
	backend := storage.NewMemoryBackend()
	_ = backend.Set(storage.LinksKey, []byte(`[{"id":"a","shortCode":"promo"}]`))

	store, err := newLinks(backend).Reload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 1 || store.Links[0].ID != "a" {
		t.Errorf("expected link a, got %+v", store.Links)
	}
}

func TestLinks_SaveSkipsEmptyList(t *testing.T) {
	backend := storage.NewMemoryBackend()
	links := newLinks(backend)

	if err := links.Save(model.NewStore(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.Writes() != 0 {
		t.Errorf("empty list should not be written, got %d writes", backend.Writes())
	}
	if _, err := backend.Get(storage.LinksKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type failingBackend struct{}

func (failingBackend) Get(string) ([]byte, error) { return nil, os.ErrPermission }
func (failingBackend) Set(string, []byte) error   { return os.ErrPermission }

func TestLinks_LoadPropagatesBackendErrors(t *testing.T) {
	_, err := newLinks(failingBackend{}).Load()
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
}

func TestFileBackend_SetAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	backend := storage.NewFileBackend(dir)

	if _, err := backend.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := backend.Set("k", []byte(`["v"]`)); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "k.json")); err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}

	got, err := backend.Get("k")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(got) != `["v"]` {
		t.Errorf("expected [\"v\"], got %s", got)
	}
}

func TestFileBackend_SetReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	backend := storage.NewFileBackend(dir)

	for _, v := range []string{`[{"id":"a"}]`, `[{"id":"b"},{"id":"a"}]`} {
		if err := backend.Set(storage.LinksKey, []byte(v)); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
	}

	got, err := backend.Get(storage.LinksKey)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(got) != `[{"id":"b"},{"id":"a"}]` {
		t.Errorf("unexpected content %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != storage.LinksKey+".json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only %s.json, found %v", storage.LinksKey, names)
	}

	info, err := os.Stat(backend.Path(storage.LinksKey))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("expected mode 0644, got %o", perm)
	}
}

func TestFileBackend_LinksPreserveOrder(t *testing.T) {
	links := newLinks(storage.NewFileBackend(t.TempDir()))

	store := model.NewStore([]model.Link{
		{ID: "3", ShortCode: "c", Tags: []string{}},
		{ID: "2", ShortCode: "b", Tags: []string{}},
		{ID: "1", ShortCode: "a", Tags: []string{}},
	})
	if err := links.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := links.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	for i, id := range []string{"3", "2", "1"} {
		if loaded.Links[i].ID != id {
			t.Errorf("order not preserved: expected %q at position %d, got %q", id, i, loaded.Links[i].ID)
		}
	}
}

func TestOpenBackend_DefaultsToFile(t *testing.T) {
	cfg := storage.DefaultConfig()
	backend, closeFn, err := storage.OpenBackend(&cfg, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if _, ok := backend.(*storage.FileBackend); !ok {
		t.Errorf("expected *FileBackend, got %T", backend)
	}
}

package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetAtlasRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	input := storage.AtlasRecord{
		ID:        "atlas-1",
		Name:      "Midgard",
		Document:  []byte{0x81, 0xa1, 0x76, 0x01},
		UpdatedAt: now,
	}
	if err := store.PutAtlas(context.Background(), input); err != nil {
		t.Fatalf("put atlas: %v", err)
	}

	got, err := store.GetAtlas(context.Background(), "atlas-1")
	if err != nil {
		t.Fatalf("get atlas: %v", err)
	}
	if got.Name != input.Name {
		t.Fatalf("name = %q, want %q", got.Name, input.Name)
	}
	if !bytes.Equal(got.Document, input.Document) {
		t.Fatalf("document = %v, want %v", got.Document, input.Document)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPutAtlasReplacesAndKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	first := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if err := store.PutAtlas(context.Background(), storage.AtlasRecord{ID: "a", Name: "Old", Document: []byte("1"), UpdatedAt: first}); err != nil {
		t.Fatalf("put atlas: %v", err)
	}
	if err := store.PutAtlas(context.Background(), storage.AtlasRecord{ID: "a", Name: "New", Document: []byte("2"), UpdatedAt: second}); err != nil {
		t.Fatalf("replace atlas: %v", err)
	}

	got, err := store.GetAtlas(context.Background(), "a")
	if err != nil {
		t.Fatalf("get atlas: %v", err)
	}
	if got.Name != "New" || string(got.Document) != "2" {
		t.Fatalf("record = %+v", got)
	}
	if !got.CreatedAt.Equal(first) || !got.UpdatedAt.Equal(second) {
		t.Fatalf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPutAtlasValidatesInput(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for _, record := range []storage.AtlasRecord{
		{Name: "n", Document: []byte("x")},
		{ID: "a", Document: []byte("x")},
		{ID: "a", Name: "n"},
	} {
		if err := store.PutAtlas(context.Background(), record); err == nil {
			t.Fatalf("expected error for %+v", record)
		}
	}
}

func TestGetAtlasReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetAtlas(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListAndDeleteAtlases(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for _, record := range []storage.AtlasRecord{
		{ID: "b", Name: "Zeta", Document: []byte("z")},
		{ID: "a", Name: "Alpha", Document: []byte("a")},
		{ID: "c", Name: "Alpha", Document: []byte("c")},
	} {
		if err := store.PutAtlas(context.Background(), record); err != nil {
			t.Fatalf("put atlas %s: %v", record.ID, err)
		}
	}

	list, err := store.ListAtlases(context.Background())
	if err != nil {
		t.Fatalf("list atlases: %v", err)
	}
	var ids []string
	for _, summary := range list {
		ids = append(ids, summary.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "b" {
		t.Fatalf("ids = %v", ids)
	}

	if err := store.DeleteAtlas(context.Background(), "a"); err != nil {
		t.Fatalf("delete atlas: %v", err)
	}
	if err := store.DeleteAtlas(context.Background(), "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
	list, err = store.ListAtlases(context.Background())
	if err != nil {
		t.Fatalf("list atlases: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries", len(list))
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "atlas.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.PutAtlas(context.Background(), storage.AtlasRecord{ID: "a", Name: "A", Document: []byte("x")}); err != nil {
		t.Fatalf("put atlas: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetAtlas(context.Background(), "a"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListAtlases(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("list error = %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"sebx/internal/domain"
)

// newTestRepo creates a throwaway index repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func sampleEntry(path string) *IndexEntry {
	return &IndexEntry{
		Info: domain.BlueprintInfo{
			Name:            filepath.Base(path),
			Path:            path,
			DisplayName:     filepath.Base(path),
			GridSize:        "Large",
			BlockCount:      42,
			LightArmorCount: 30,
			HeavyArmorCount: 5,
		},
		ModTime: 1700000000,
		Size:    2048,
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)
	entry, err := repo.Get(context.Background(), "/blueprints/nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestUpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := sampleEntry("/blueprints/Miner Mk1")
	if err := repo.Upsert(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, want.Info.Path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("entry missing after upsert")
	}
	if !reflect.DeepEqual(*want, *got) {
		t.Fatalf("expected %+v, got %+v", *want, *got)
	}

	// Re-upsert with changed fingerprint replaces the row.
	want.ModTime = 1700009999
	want.Info.BlockCount = 50
	if err := repo.Upsert(ctx, want); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = repo.Get(ctx, want.Info.Path)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.ModTime != 1700009999 || got.Info.BlockCount != 50 {
		t.Fatalf("entry not updated: %+v", got)
	}
}

func TestListOrdersByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, path := range []string{"/bp/Zephyr", "/bp/Anvil", "/bp/Miner"} {
		if err := repo.Upsert(ctx, sampleEntry(path)); err != nil {
			t.Fatalf("upsert %s: %v", path, err)
		}
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Info.Name)
	}
	want := []string{"Anvil", "Miner", "Zephyr"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestDeleteAndPrune(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, path := range []string{"/bp/A", "/bp/B", "/bp/C"} {
		if err := repo.Upsert(ctx, sampleEntry(path)); err != nil {
			t.Fatalf("upsert %s: %v", path, err)
		}
	}

	if err := repo.Delete(ctx, "/bp/B"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entry, err := repo.Get(ctx, "/bp/B")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry != nil {
		t.Fatal("entry survived delete")
	}

	removed, err := repo.Prune(ctx, map[string]bool{"/bp/A": true})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Info.Path != "/bp/A" {
		t.Fatalf("unexpected entries after prune: %+v", entries)
	}
}

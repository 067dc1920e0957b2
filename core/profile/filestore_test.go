package profile

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	store := NewFileStore(path)

	saved := Snapshot{"font_scale": "4", "simplify": "true"}
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded["font_scale"] != "4" || loaded["simplify"] != "true" {
		t.Fatalf("expected the saved snapshot back, got %v", loaded)
	}
}

func TestFileStoreMissingFileIsEmptyProfile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))

	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected a missing file to load cleanly, got %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected an empty snapshot, got %v", snapshot)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore()

	saved := Snapshot{"note": "original"}
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	saved["note"] = "mutated after save"

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded["note"] != "original" {
		t.Fatalf("expected the stored value isolated from caller mutation, got %q", loaded["note"])
	}
}

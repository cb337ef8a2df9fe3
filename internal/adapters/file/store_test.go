package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonwright/grewgg/internal/adapters/file"
	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Ensure Store implements ResultStore
var _ ports.ResultStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunResultStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	if err := store.Save(ctx, "scan-1", scan.Result{Frame: 7, Motor: "omega", Value: 3.5}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, "scan-1", "7.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected frame file at %s: %v", path, err)
	}
}

func TestFileStore_IgnoresGarbageFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	if err := store.Save(ctx, "scan-1", scan.Result{Frame: 0, Motor: "omega"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "scan-1", scan.Result{Frame: 2, Motor: "omega"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Files that are not <number>.json must not break listing.
	scanDir := filepath.Join(dir, "scan-1")
	if err := os.WriteFile(filepath.Join(scanDir, "notes.txt"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to create garbage file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scanDir, "abc.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to create garbage file: %v", err)
	}

	frames, err := store.Frames(ctx, "scan-1")
	if err != nil {
		t.Fatalf("Frames failed: %v", err)
	}
	if len(frames) != 2 || frames[0] != 0 || frames[1] != 2 {
		t.Errorf("expected [0 2], got %v", frames)
	}
}

func TestFileStore_EmptyScanID(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	if err := store.Save(ctx, "", scan.Result{Frame: 0}); err == nil {
		t.Error("expected Save with empty scanID to fail")
	}
	if _, err := store.Load(ctx, "", 0); err == nil {
		t.Error("expected Load with empty scanID to fail")
	}
	if err := store.Delete(ctx, ""); err == nil {
		t.Error("expected Delete with empty scanID to fail")
	}
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	store := file.New("")
	want := filepath.Join(".grewgg", "scans")
	if store.BasePath != want {
		t.Errorf("expected default base path %q, got %q", want, store.BasePath)
	}
}

// Package file provides a ResultStore on the local filesystem. Each scan is
// a directory of per-frame JSON files, so results survive restarts and can
// be inspected with ordinary tools.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Store implements ports.ResultStore using the local filesystem.
// Frames are stored as <BasePath>/<scanID>/<frame>.json.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".grewgg/scans".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".grewgg", "scans")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) scanDir(scanID string) string {
	return filepath.Join(s.BasePath, scanID)
}

func (s *Store) framePath(scanID string, frame int) string {
	return filepath.Join(s.scanDir(scanID), strconv.Itoa(frame)+".json")
}

// Save persists one frame to a JSON file atomically. It writes to a
// temporary file in the scan directory, syncs, and renames it into place.
func (s *Store) Save(ctx context.Context, scanID string, r scan.Result) error {
	if scanID == "" {
		return fmt.Errorf("scanID cannot be empty")
	}

	dir := s.scanDir(scanID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure scan directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	// The temp file must live in the same directory as the destination,
	// rename is only atomic within one filesystem.
	tmpFile, err := os.CreateTemp(dir, fmt.Sprintf("tmp-%d-*.json", r.Frame))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.framePath(scanID, r.Frame)
	// os.Rename cannot replace an existing file on Windows.
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing frame file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Load retrieves one frame from its JSON file.
func (s *Store) Load(ctx context.Context, scanID string, frame int) (*scan.Result, error) {
	if scanID == "" {
		return nil, fmt.Errorf("scanID cannot be empty")
	}

	data, err := os.ReadFile(s.framePath(scanID, frame))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read frame file: %w", err)
	}

	var r scan.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &r, nil
}

// Frames lists stored frame numbers in ascending order. Files whose names
// are not <number>.json are ignored.
func (s *Store) Frames(ctx context.Context, scanID string) ([]int, error) {
	entries, err := os.ReadDir(s.scanDir(scanID))
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}

	frames := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		f, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}

	sort.Ints(frames)
	return frames, nil
}

// Delete removes the whole scan directory.
func (s *Store) Delete(ctx context.Context, scanID string) error {
	if scanID == "" {
		return fmt.Errorf("scanID cannot be empty")
	}

	if err := os.RemoveAll(s.scanDir(scanID)); err != nil {
		return fmt.Errorf("failed to delete scan directory: %w", err)
	}

	return nil
}

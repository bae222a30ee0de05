// Package ingestion orchestrates the Connectoscope analysis pipeline:
// input discovery, matrix validation, metric computation, and result
// storage.
package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StorageClient abstracts blob storage for metric bundles and their
// source connectivity matrices.
type StorageClient interface {
	PutBundle(ctx context.Context, runID string, data []byte) error
	GetBundle(ctx context.Context, runID string) ([]byte, error)
	PutMatrix(ctx context.Context, runID string, data []byte) error
	GetMatrix(ctx context.Context, runID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(kind, id, ext string) string {
	return filepath.Join(s.BaseDir, kind, id+ext)
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutBundle stores a metric bundle blob.
func (s *LocalStorage) PutBundle(ctx context.Context, runID string, data []byte) error {
	return s.put(s.path("bundles", runID, ".json"), data)
}

// GetBundle retrieves a metric bundle blob.
func (s *LocalStorage) GetBundle(ctx context.Context, runID string) ([]byte, error) {
	return os.ReadFile(s.path("bundles", runID, ".json"))
}

// PutMatrix stores a source connectome blob.
func (s *LocalStorage) PutMatrix(ctx context.Context, runID string, data []byte) error {
	return s.put(s.path("matrices", runID, ".csv"), data)
}

// GetMatrix retrieves a source connectome blob.
func (s *LocalStorage) GetMatrix(ctx context.Context, runID string) ([]byte, error) {
	return os.ReadFile(s.path("matrices", runID, ".csv"))
}

// DiscoverInputs walks dir and returns the connectome CSV paths matching
// pattern, sorted for deterministic batch order. Patterns may carry a
// leading "**/" to match at any depth; the remainder matches the file
// name relative to its directory.
func DiscoverInputs(dir, pattern string) ([]string, error) {
	namePattern := strings.TrimPrefix(pattern, "**/")

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(namePattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering inputs in %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rshade/healthtrack/internal/dataset"
)

// Common cache errors.
var (
	ErrCacheNotFound  = errors.New("cache file not found")
	ErrSchemaMismatch = errors.New("cache file does not match the expected schema")
	ErrEmptyPath      = errors.New("cache path cannot be empty")
)

// FileStore reads and writes the dataset cache file.
// Thread-safe for concurrent access.
type FileStore struct {
	// path is the cache file location.
	path string

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// Info describes the cache file on disk.
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Age returns the duration since the cache was last written.
func (i Info) Age() time.Duration {
	return time.Since(i.ModTime)
}

// NewFileStore creates a store for the file at path. The parent directory is
// created on the first Write, not here.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the cache file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the cache file is present.
func (s *FileStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Stat returns size and modification time of the cache file.
// Returns ErrCacheNotFound if the file doesn't exist.
func (s *FileStore) Stat() (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fi, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, ErrCacheNotFound
		}
		return Info{}, fmt.Errorf("failed to stat cache file: %w", err)
	}
	return Info{Path: s.path, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Read loads the cached dataset.
// Returns ErrCacheNotFound if the file doesn't exist and ErrSchemaMismatch if
// it cannot be decoded.
func (s *FileStore) Read() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	ds, err := dataset.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	return ds, nil
}

// Write replaces the cache file with ds.
func (s *FileStore) Write(ds *dataset.Dataset) error {
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, ds); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to temporary file first, then rename for atomicity
	tempPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tempPath, buf.Bytes(), 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, s.path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return nil
}

// Clear removes the cache file.
// Returns nil if the file doesn't exist (idempotent).
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Package assets serves the viewer's static files and vector images.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/vecview/internal/core/observability/log"
)

// Asset is a file held in memory with its content hash.
type Asset struct {
	Name string
	Data []byte
	Hash uint64
}

// ETag is the strong entity tag for the asset content.
func (a Asset) ETag() string {
	return `"` + strconv.FormatUint(a.Hash, 16) + `"`
}

// Store reads assets from a filesystem and caches them by name.
type Store struct {
	fsys   fs.FS
	logger log.Log

	mu    sync.RWMutex
	cache map[string]Asset
}

func New(fsys fs.FS, logger log.Log) *Store {
	return &Store{
		fsys:   fsys,
		logger: logger.With(log.String("component", "assets")),
		cache:  make(map[string]Asset),
	}
}

// NewDir serves assets from a directory on disk.
func NewDir(dir string, logger log.Log) *Store {
	return New(os.DirFS(dir), logger)
}

// Fetch returns the asset called name. Names are slash separated and may
// not escape the store root.
func (s *Store) Fetch(name string) (Asset, error) {
	if !fs.ValidPath(name) || name == "." {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.RLock()
	a, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return a, nil
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Asset{}, fmt.Errorf("read asset %s: %w", name, err)
	}

	a = Asset{Name: name, Data: data, Hash: xxhash.Sum64(data)}

	s.mu.Lock()
	s.cache[name] = a
	s.mu.Unlock()

	s.logger.Debug("Asset loaded", log.String("name", name), log.Int("size", len(data)))
	return a, nil
}

// Invalidate drops every cached asset.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]Asset)
	s.mu.Unlock()
}

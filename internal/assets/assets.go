// Package assets loads blueprint and config data from layered file sources
// and caches what it has read.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// ErrNotFound is returned when no source holds a requested file.
var ErrNotFound = errors.New("asset not found")

// source is one named layer of files.
type source struct {
	name string
	fsys fs.FS
}

// Manager reads files from an ordered set of sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddFS adds a file system layer, such as an embedded directory.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{name: name, fsys: fsys})
	m.mu.Unlock()
	m.cache.Clear()
}

// AddDir adds a directory on disk as a layer.
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("adding source %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding source %s: not a directory", path)
	}
	m.AddFS(path, os.DirFS(path))
	return nil
}

// Sources returns the layer names in priority order, highest first.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sources))
	for i := len(m.sources) - 1; i >= 0; i-- {
		out = append(out, m.sources[i].name)
	}
	return out
}

// Load reads a file from the highest-priority source that has it.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.sources[i].fsys, path)
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", path, m.sources[i].name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Result is the outcome of one load in a batch.
type Result struct {
	Path string
	Data []byte
	Err  error
}

// LoadAll loads paths one after another. A failure is recorded in its
// result and does not stop the batch.
func (m *Manager) LoadAll(paths []string) (results []Result, failed int) {
	results = make([]Result, 0, len(paths))
	for _, p := range paths {
		data, err := m.Load(p)
		if err != nil {
			failed++
		}
		results = append(results, Result{Path: p, Data: data, Err: err})
	}
	return results, failed
}

// Close drops every source and the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear empties the cache and resets its stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

package offline

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Entry is a stored response.
type Entry struct {
	URL      string
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Cache stores entries grouped by cache name. Entries inside a cache are keyed
// by the exact request URL.
type Cache interface {
	// Put stores e, replacing any entry with the same URL.
	Put(ctx context.Context, name string, e Entry) error
	// Match returns the entry for url. The bool is false on a miss.
	Match(ctx context.Context, name, url string) (Entry, bool, error)
	// Names lists the caches that hold at least one entry.
	Names(ctx context.Context) ([]string, error)
	// Delete drops a whole cache.
	Delete(ctx context.Context, name string) error
}

// MemoryCache is an in-process Cache. The zero value is ready to use.
type MemoryCache struct {
	mu     sync.RWMutex
	caches map[string]map[string]Entry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{caches: make(map[string]map[string]Entry)}
}

// Put implements Cache.
func (m *MemoryCache) Put(_ context.Context, name string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.caches == nil {
		m.caches = make(map[string]map[string]Entry)
	}
	c, ok := m.caches[name]
	if !ok {
		c = make(map[string]Entry)
		m.caches[name] = c
	}
	c[e.URL] = e.clone()
	return nil
}

// Match implements Cache.
func (m *MemoryCache) Match(_ context.Context, name, url string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.caches[name][url]
	if !ok {
		return Entry{}, false, nil
	}
	return e.clone(), true, nil
}

// Names implements Cache.
func (m *MemoryCache) Names(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.caches))
	for name, c := range m.caches {
		if len(c) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete implements Cache.
func (m *MemoryCache) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.caches, name)
	return nil
}

func (e Entry) clone() Entry {
	e.Header = e.Header.Clone()
	e.Body = slices.Clone(e.Body)
	return e
}

package core

import "sync"

// ── Registry ──────────────────────────────────────────────────────────────────

// DefaultRegistry is a thread-safe implementation of Registry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry returns an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{fetchers: make(map[string]Fetcher)}
}

func (r *DefaultRegistry) RegisterFetcher(scheme string, f Fetcher) {
	r.mu.Lock()
	r.fetchers[scheme] = f
	r.mu.Unlock()
}

func (r *DefaultRegistry) FetcherFor(scheme string) (Fetcher, bool) {
	r.mu.RLock()
	f, ok := r.fetchers[scheme]
	r.mu.RUnlock()
	return f, ok
}

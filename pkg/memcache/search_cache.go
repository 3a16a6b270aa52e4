// pkg/memcache/search_cache.go
package mem

import (
	"sync"
	"time"
)

// SearchCache keeps recent provider responses in memory so repeated
// validations of the same discovered place do not burn search quota.
type SearchCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

type SearchResults struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
}

func NewSearchResults() *SearchResults {
	return &SearchResults{
		data: make(map[string]cacheEntry),
	}
}

func (s *SearchResults) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key) // cleanup expired
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *SearchResults) Set(key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

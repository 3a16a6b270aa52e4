package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchResults(t *testing.T) {
	cache := NewSearchResults()

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("query", []string{"a", "b"}, time.Minute)
	got, ok := cache.Get("query")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	cache.Set("stale", "value", -time.Second)
	_, ok = cache.Get("stale")
	assert.False(t, ok, "expired entries are evicted on read")
}

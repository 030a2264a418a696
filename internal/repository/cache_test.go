package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set("stats", `{"outstanding":3}`, time.Minute))
	value, ok := cache.Get("stats")
	assert.True(t, ok)
	assert.Equal(t, `{"outstanding":3}`, value)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()

	require.NoError(t, cache.Set("short", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, ok := cache.Get("short")
	assert.False(t, ok)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()

	require.NoError(t, cache.Set("pinned", "v", 0))
	time.Sleep(10 * time.Millisecond)
	value, ok := cache.Get("pinned")
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

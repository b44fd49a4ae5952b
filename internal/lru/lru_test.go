package lru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func bytesCache(capacity int64) *Cache[string, []byte] {
	return New[string, []byte](capacity, func(b []byte) int64 { return int64(len(b)) })
}

func TestCache_GetSet(t *testing.T) {
	c := bytesCache(100)

	_, ok := c.Get("a")
	require.False(t, ok)

	c.Set("a", []byte("hello"))
	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, []byte("hello"), got)

	require.Equal(t, 1, c.Len())
	require.Equal(t, int64(5), c.Size())

	hits, misses := c.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := bytesCache(10)

	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", []byte("cccc"))

	_, ok = c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestCache_OversizedValueNotCached(t *testing.T) {
	c := bytesCache(4)
	c.Set("big", []byte("too large"))

	_, ok := c.Get("big")
	require.False(t, ok)
	require.Zero(t, c.Len())
}

func TestCache_UpdateAdjustsSize(t *testing.T) {
	c := bytesCache(100)

	c.Set("k", []byte("1234"))
	require.Equal(t, int64(4), c.Size())

	c.Set("k", []byte("12345678"))
	require.Equal(t, int64(8), c.Size())
	require.Equal(t, 1, c.Len())
}

func TestCache_Remove(t *testing.T) {
	c := bytesCache(100)

	c.Set("k", []byte("data"))
	c.Remove("k")

	_, ok := c.Get("k")
	require.False(t, ok)
	require.Zero(t, c.Size())

	// Removing again is harmless.
	c.Remove("k")
}

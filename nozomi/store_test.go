package nozomi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mizue/galdex/cachestore"
	"github.com/mizue/galdex/internal/httpx"
	"github.com/stretchr/testify/require"
)

// roundTripFunc serves canned upstream responses without a network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeClient(handler func(*http.Request) (*http.Response, error)) *httpx.Client {
	return httpx.New(httpx.Config{
		Base: &http.Client{Transport: roundTripFunc(handler)},
	})
}

func respond(status int, body []byte) (*http.Response, error) {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(string(body))),
		Header:     make(http.Header),
	}, nil
}

func TestStore_FetchParsesAndCaches(t *testing.T) {
	wire := AppendIDs(nil, []int32{10, 20, 30})

	var requests atomic.Int64
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		requests.Add(1)
		require.Equal(t, "https://catalog.test/n/tag/full_color-all.nozomi", req.URL.String())
		return respond(http.StatusOK, wire)
	})

	cache := cachestore.NewMemoryStore()
	store := NewStore(client, cache, "catalog.test", nil)

	ids := store.Postings(context.Background(), "tag/full_color-all")
	require.Equal(t, []int32{10, 20, 30}, ids)

	// The raw body must be written back to the cache.
	cached, err := cache.Get(context.Background(), "nozomi/tag-full_color-all.nozomi")
	require.NoError(t, err)
	require.Equal(t, wire, cached)

	// Second call is served from cache without a remote request.
	ids = store.Postings(context.Background(), "tag/full_color-all")
	require.Equal(t, []int32{10, 20, 30}, ids)
	require.Equal(t, int64(1), requests.Load())
}

func TestStore_RootIndexRequestedAtDomainRoot(t *testing.T) {
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "https://catalog.test/index-all.nozomi", req.URL.String())
		return respond(http.StatusOK, AppendIDs(nil, []int32{1}))
	})

	store := NewStore(client, cachestore.NewMemoryStore(), "catalog.test", nil)
	require.Equal(t, []int32{1}, store.Postings(context.Background(), IndexAll))
}

func TestStore_LanguageIndexUsesRoutingPrefix(t *testing.T) {
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "https://catalog.test/n/index-korean.nozomi", req.URL.String())
		return respond(http.StatusOK, nil)
	})

	store := NewStore(client, cachestore.NewMemoryStore(), "catalog.test", nil)
	store.Postings(context.Background(), "index-korean")
}

func TestStore_NotFoundIsEmpty(t *testing.T) {
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, nil)
	})

	cache := cachestore.NewMemoryStore()
	store := NewStore(client, cache, "catalog.test", nil)

	require.Empty(t, store.Postings(context.Background(), "tag/nonexistent-all"))

	// A 404 result is not cached.
	require.Zero(t, cache.Len())
}

func TestStore_TransientFailureIsEmpty(t *testing.T) {
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusBadGateway, nil)
	})

	store := NewStore(client, cachestore.NewMemoryStore(), "catalog.test", nil)
	require.Empty(t, store.Postings(context.Background(), "tag/whatever-all"))
}

func TestStore_MalformedPayloadIsEmpty(t *testing.T) {
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, []byte{0x01, 0x02, 0x03})
	})

	cache := cachestore.NewMemoryStore()
	store := NewStore(client, cache, "tag.test", nil)

	require.Empty(t, store.Postings(context.Background(), "tag/broken-all"))
	require.Zero(t, cache.Len())
}

func TestStore_ZeroLengthCacheFileIsInvalidated(t *testing.T) {
	wire := AppendIDs(nil, []int32{7})
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, wire)
	})

	cache := cachestore.NewMemoryStore()
	name := CacheName("tag/stale-all")
	require.NoError(t, cache.Put(context.Background(), name, nil))

	store := NewStore(client, cache, "catalog.test", nil)
	require.Equal(t, []int32{7}, store.Postings(context.Background(), "tag/stale-all"))

	// The invalid entry was replaced by the fresh body.
	cached, err := cache.Get(context.Background(), name)
	require.NoError(t, err)
	require.Equal(t, wire, cached)
}

func TestStore_CorruptCacheEntryRefetches(t *testing.T) {
	wire := AppendIDs(nil, []int32{42})
	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, wire)
	})

	cache := cachestore.NewMemoryStore()
	name := CacheName("tag/corrupt-all")
	require.NoError(t, cache.Put(context.Background(), name, []byte{0xde, 0xad, 0xbe}))

	store := NewStore(client, cache, "catalog.test", nil)
	require.Equal(t, []int32{42}, store.Postings(context.Background(), "tag/corrupt-all"))
}

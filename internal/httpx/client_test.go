package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClient_AppliesIdentityHeaders(t *testing.T) {
	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{
		UserAgent: "test-agent/1.0",
		Referer:   "https://example.test/",
		Base:      srv.Client(),
	})

	body, err := c.GetBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), body)
	require.Equal(t, "test-agent/1.0", gotUA)
	require.Equal(t, "https://example.test/", gotReferer)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(Config{Base: srv.Client()})
	_, err := c.GetBytes(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{Base: srv.Client()})
	_, err := c.GetBytes(context.Background(), srv.URL)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusBadGateway, serr.Code)
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// Limit so low the second request cannot proceed before the deadline.
	c := New(Config{
		RateLimit: rate.Limit(0.001),
		Burst:     1,
		Base:      srv.Client(),
	})

	_, err := c.GetBytes(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GetBytes(ctx, srv.URL)
	require.Error(t, err)
}

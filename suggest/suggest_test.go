package suggest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mizue/galdex/internal/httpx"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestService(handler func(*http.Request) (*http.Response, error)) *Service {
	client := httpx.New(httpx.Config{
		Base: &http.Client{Transport: roundTripFunc(handler)},
	})
	return NewService(client, "tagindex.test", nil)
}

func respond(status int, body string) (*http.Response, error) {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}, nil
}

func TestComplete(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "https://tagindex.test/global/g/l/a.json", req.URL.String())
		return respond(http.StatusOK, `[
			["glasses", 120, "female"],
			["glasses", 40, "tag"],
			["glass works", 7, "series"]
		]`)
	})

	got := svc.Complete(context.Background(), "gla")
	require.Equal(t, []Suggestion{
		{Tag: "female:glasses", Count: 120, Namespace: "female"},
		{Tag: "glasses", Count: 40, Namespace: "tag"},
		{Tag: "series:glass works", Count: 7, Namespace: "series"},
	}, got)
}

func TestComplete_NamespacedQuerySearchesField(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "https://tagindex.test/artist/a/b.json", req.URL.String())
		return respond(http.StatusOK, `[["abc", 3, "artist"]]`)
	})

	got := svc.Complete(context.Background(), "artist:ab")
	require.Equal(t, []Suggestion{{Tag: "artist:abc", Count: 3, Namespace: "artist"}}, got)
}

func TestComplete_TermEncoding(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		// Underscores become spaces, then each character is escaped and
		// becomes its own path segment.
		require.Equal(t, "https://tagindex.test/global/a/_/b/dot/c.json", req.URL.String())
		return respond(http.StatusOK, `[]`)
	})

	svc.Complete(context.Background(), "a_b.c")
}

func TestComplete_TwoElementRowsDefaultToTag(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `[["plain", 9]]`)
	})

	got := svc.Complete(context.Background(), "pla")
	require.Equal(t, []Suggestion{{Tag: "plain", Count: 9, Namespace: "tag"}}, got)
}

func TestComplete_EmptyQuery(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	require.Nil(t, svc.Complete(context.Background(), ""))
	require.Nil(t, svc.Complete(context.Background(), "artist:"))
}

func TestComplete_UpstreamFailureIsEmpty(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusBadGateway, "")
	})
	require.Empty(t, svc.Complete(context.Background(), "gla"))
}

func TestComplete_MalformedPayloadIsEmpty(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"not": "rows"}`)
	})
	require.Empty(t, svc.Complete(context.Background(), "gla"))
}

package nozomi

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mizue/galdex/cachestore"
	"github.com/mizue/galdex/internal/httpx"
	"golang.org/x/sync/singleflight"
)

// Store fetches, parses, and disk-caches posting lists.
//
// Postings never fails: not-found, transient upstream errors, and malformed
// payloads all degrade to an empty result. Concurrent fetches of the same
// path share one remote request.
type Store struct {
	client *httpx.Client
	cache  cachestore.Store
	domain string
	log    *slog.Logger
	group  singleflight.Group

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewStore creates a posting-list store. domain is the catalog host the
// remote files are served from.
func NewStore(client *httpx.Client, cache cachestore.Store, domain string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		client: client,
		cache:  cache,
		domain: domain,
		log:    log,
	}
}

// Postings returns the sorted set of content IDs for a posting-list path
// produced by EncodePath. A missing or unavailable list is an empty list.
func (s *Store) Postings(ctx context.Context, path string) []int32 {
	name := CacheName(path)

	if data, err := s.cache.Get(ctx, name); err == nil {
		if len(data) == 0 {
			// A zero-length cache file is invalid; drop it and refetch.
			if derr := s.cache.Delete(ctx, name); derr != nil {
				s.log.Warn("posting cache delete failed", "path", path, "error", derr)
			}
		} else {
			ids, perr := ParseIDs(data)
			if perr == nil {
				s.cacheHits.Add(1)
				return ids
			}
			s.log.Warn("invalid cached posting list", "path", path, "error", perr)
			if derr := s.cache.Delete(ctx, name); derr != nil {
				s.log.Warn("posting cache delete failed", "path", path, "error", derr)
			}
		}
	} else if !errors.Is(err, cachestore.ErrNotFound) {
		s.log.Warn("posting cache read failed", "path", path, "error", err)
	}
	s.cacheMisses.Add(1)

	v, _, _ := s.group.Do(path, func() (any, error) {
		return s.fetchRemote(ctx, path), nil
	})
	return v.([]int32)
}

func (s *Store) fetchRemote(ctx context.Context, path string) []int32 {
	url := s.remoteURL(path)

	data, err := s.client.GetBytes(ctx, url)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			// A 404 is a valid empty posting list, not an error.
			return nil
		}
		s.log.Warn("posting list fetch failed", "path", path, "url", url, "error", err)
		return nil
	}

	ids, perr := ParseIDs(data)
	if perr != nil {
		s.log.Warn("malformed posting list", "path", path, "url", url, "error", perr)
		return nil
	}

	if len(data) > 0 {
		if werr := s.cache.Put(ctx, CacheName(path), data); werr != nil {
			s.log.Warn("posting cache write failed", "path", path, "error", werr)
		}
	}
	return ids
}

// remoteURL shapes the request URL: the root catalog index lives at the
// domain root, everything else under the "n/" routing prefix.
func (s *Store) remoteURL(path string) string {
	if path != IndexAll && (strings.Contains(path, "/") || strings.HasPrefix(path, "index-")) {
		return "https://" + s.domain + "/n/" + path + Extension
	}
	return "https://" + s.domain + "/" + path + Extension
}

// Stats returns cumulative disk-cache hit and miss counts.
func (s *Store) Stats() (hits, misses int64) {
	return s.cacheHits.Load(), s.cacheMisses.Load()
}

package gallery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mizue/galdex/cachestore"
	"github.com/mizue/galdex/codec"
	"github.com/mizue/galdex/internal/httpx"
	"github.com/mizue/galdex/internal/lru"
	"golang.org/x/sync/singleflight"
)

// Store resolves a content ID to a normalized Record through a two-tier
// cache (memory LRU, then disk) with remote fallback.
//
// Get never fails: every failure mode reports the record as absent.
// Concurrent lookups of the same ID share one remote request.
type Store struct {
	mem     *lru.Cache[string, *Record]
	disk    cachestore.Store
	client  *httpx.Client
	codec   codec.Codec
	domain  string
	timeout time.Duration
	log     *slog.Logger
	group   singleflight.Group
}

// Config holds Store construction parameters.
type Config struct {
	Disk   cachestore.Store
	Client *httpx.Client

	// Domain is the catalog host serving record documents.
	Domain string

	// Codec encodes records for the disk tier. Defaults to codec.Default.
	Codec codec.Codec

	// MemoryCapacity bounds the memory tier in bytes. Defaults to 64 MiB.
	MemoryCapacity int64

	// FetchTimeout bounds each remote fetch. Defaults to 5s.
	FetchTimeout time.Duration

	Logger *slog.Logger
}

// NewStore creates a record store.
func NewStore(cfg Config) *Store {
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}
	if cfg.MemoryCapacity <= 0 {
		cfg.MemoryCapacity = 64 << 20
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		mem:     lru.New[string, *Record](cfg.MemoryCapacity, recordCost),
		disk:    cfg.Disk,
		client:  cfg.Client,
		codec:   cfg.Codec,
		domain:  cfg.Domain,
		timeout: cfg.FetchTimeout,
		log:     cfg.Logger,
	}
}

// Get returns the record for id, or absent. Lookup order is memory, disk,
// remote; disk and remote hits are promoted into the memory tier.
func (s *Store) Get(ctx context.Context, id string) (*Record, bool) {
	if rec, ok := s.mem.Get(id); ok {
		return rec, true
	}

	if rec, ok := s.fromDisk(ctx, id); ok {
		s.mem.Set(id, rec)
		return rec, true
	}

	v, _, _ := s.group.Do(id, func() (any, error) {
		return s.fetchRemote(ctx, id), nil
	})
	rec, _ := v.(*Record)
	if rec == nil {
		return nil, false
	}
	return rec, true
}

func (s *Store) fromDisk(ctx context.Context, id string) (*Record, bool) {
	data, err := s.disk.Get(ctx, cacheName(id))
	if err != nil {
		if !errors.Is(err, cachestore.ErrNotFound) {
			s.log.Warn("record cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var rec Record
	if err := s.codec.Unmarshal(data, &rec); err != nil {
		s.log.Warn("invalid cached record", "id", id, "error", err)
		return nil, false
	}

	// Re-apply refinement so precedence changes reach records cached
	// before the change, without invalidating the disk tier.
	rec.Type = RefineType(rec.Type, rec.Tags)
	return &rec, true
}

func (s *Store) fetchRemote(ctx context.Context, id string) *Record {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := "https://" + s.domain + "/galleries/" + id + ".js"
	body, err := s.client.GetBytes(fetchCtx, url)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			s.log.Warn("record fetch failed", "id", id, "error", err)
		}
		return nil
	}

	rec, err := ParseDocument(body, s.codec.Unmarshal)
	if err != nil {
		s.log.Warn("malformed record document", "id", id, "error", err)
		return nil
	}

	if data, err := s.codec.Marshal(rec); err != nil {
		s.log.Warn("record encode failed", "id", id, "error", err)
	} else if err := s.disk.Put(ctx, cacheName(id), data); err != nil {
		s.log.Warn("record cache write failed", "id", id, "error", err)
	}

	s.mem.Set(id, rec)
	return rec
}

// Stats returns memory-tier hit and miss counts.
func (s *Store) Stats() (hits, misses int64) {
	return s.mem.Stats()
}

func cacheName(id string) string {
	return "galleries/" + id + ".json"
}

// recordCost approximates the in-memory footprint of a record for LRU
// accounting.
func recordCost(rec *Record) int64 {
	cost := int64(len(rec.ID) + len(rec.Title) + len(rec.Type) + len(rec.Language) + 96)
	for _, t := range rec.Tags {
		cost += int64(len(t)) + 16
	}
	for _, a := range rec.Artists {
		cost += int64(len(a)) + 16
	}
	for _, g := range rec.Groups {
		cost += int64(len(g)) + 16
	}
	for _, p := range rec.Series {
		cost += int64(len(p)) + 16
	}
	for _, c := range rec.Characters {
		cost += int64(len(c)) + 16
	}
	for _, f := range rec.Files {
		cost += int64(len(f.Name)+len(f.Hash)) + 48
	}
	return cost
}

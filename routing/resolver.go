package routing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mizue/galdex/internal/httpx"
)

// Resolver computes time-varying, hash-sharded delivery URLs for asset
// content hashes.
//
// It keeps one cached Program, refreshed at most once per TTL. Concurrent
// refreshes are tolerated; the last writer wins, since staleness is the
// only risk. A refresh failure degrades the current call to
// DefaultProgram without touching the cached program.
type Resolver struct {
	client      *httpx.Client
	scriptURL   string
	assetDomain string
	ext         string
	ttl         time.Duration
	log         *slog.Logger
	now         func() time.Time

	mu        sync.RWMutex
	prog      *Program
	fetchedAt time.Time
}

// Config holds Resolver construction parameters.
type Config struct {
	Client *httpx.Client

	// ScriptURL locates the routing script.
	ScriptURL string

	// AssetDomain is the delivery domain assets are sharded across.
	AssetDomain string

	// Extension is the asset file extension. Defaults to "avif".
	Extension string

	// TTL bounds the routing program's age. Defaults to 60s.
	TTL time.Duration

	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config) *Resolver {
	if cfg.Extension == "" {
		cfg.Extension = "avif"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Resolver{
		client:      cfg.Client,
		scriptURL:   cfg.ScriptURL,
		assetDomain: cfg.AssetDomain,
		ext:         cfg.Extension,
		ttl:         cfg.TTL,
		log:         cfg.Logger,
		now:         cfg.Now,
	}
}

// URL returns the absolute delivery URL for a content hash. For a fixed
// cached program the result is a pure function of the hash.
func (r *Resolver) URL(ctx context.Context, hash string) string {
	p := r.program(ctx)
	bucket := Bucket(hash)
	subdomain := "a" + strconv.Itoa(p.Multiplier(bucket)+1)
	return fmt.Sprintf("https://%s.%s/%s%d/%s.%s", subdomain, r.assetDomain, p.BasePath(), bucket, hash, r.ext)
}

func (r *Resolver) program(ctx context.Context) *Program {
	r.mu.RLock()
	prog, fetchedAt := r.prog, r.fetchedAt
	r.mu.RUnlock()

	if prog != nil && r.now().Sub(fetchedAt) < r.ttl {
		return prog
	}

	src, err := r.client.GetBytes(ctx, r.scriptURL)
	if err != nil {
		r.log.Warn("routing script fetch failed", "url", r.scriptURL, "error", err)
		return DefaultProgram()
	}

	fresh := ParseProgram(string(src))

	r.mu.Lock()
	r.prog = fresh
	r.fetchedAt = r.now()
	r.mu.Unlock()

	return fresh
}

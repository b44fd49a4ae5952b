package galdex

import (
	"net/http"
	"time"

	"github.com/mizue/galdex/cachestore"
	"github.com/mizue/galdex/codec"
	"golang.org/x/time/rate"
)

type options struct {
	cacheDir       string
	store          cachestore.Store
	httpClient     *http.Client
	logger         *Logger
	codec          codec.Codec
	metrics        MetricsCollector
	catalogDomain  string
	assetDomain    string
	tagIndexDomain string
	userAgent      string
	referer        string
	imageExtension string
	routingTTL     time.Duration
	fetchTimeout   time.Duration
	concurrency    int
	recordCacheCap int64
	rateLimit      rate.Limit
	rateBurst      int
}

func defaultOptions() options {
	return options{
		cacheDir:       ".cache",
		catalogDomain:  "ltn.gold-usergeneratedcontent.net",
		assetDomain:    "gold-usergeneratedcontent.net",
		tagIndexDomain: "tagindex.hitomi.la",
		userAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		referer:        "https://hitomi.la/",
		imageExtension: "avif",
		routingTTL:     time.Minute,
		fetchTimeout:   5 * time.Second,
		concurrency:    16,
		recordCacheCap: 64 << 20,
	}
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithCacheDir sets the root directory of the default on-disk cache.
// Ignored when WithCacheStore is given.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.cacheDir = dir
		}
	}
}

// WithCacheStore replaces the persistence backend for both caches, e.g.
// with cachestore.NewMemoryStore() or a minio-backed store.
func WithCacheStore(store cachestore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHTTPClient replaces the upstream HTTP client. The default uses a
// pooled keep-alive transport with transparent gzip.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCodec configures the codec used for the on-disk record cache.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetrics sets the metrics collector. The default is a no-op.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCatalogDomain sets the host serving posting lists, record documents,
// and the routing script.
func WithCatalogDomain(domain string) Option {
	return func(o *options) {
		if domain != "" {
			o.catalogDomain = domain
		}
	}
}

// WithAssetDomain sets the delivery domain assets are sharded across.
func WithAssetDomain(domain string) Option {
	return func(o *options) {
		if domain != "" {
			o.assetDomain = domain
		}
	}
}

// WithTagIndexDomain sets the host serving the suggestion tag index.
func WithTagIndexDomain(domain string) Option {
	return func(o *options) {
		if domain != "" {
			o.tagIndexDomain = domain
		}
	}
}

// WithRequestIdentity overrides the User-Agent and Referer headers sent
// upstream.
func WithRequestIdentity(userAgent, referer string) Option {
	return func(o *options) {
		o.userAgent = userAgent
		o.referer = referer
	}
}

// WithImageExtension sets the asset file extension used in delivery URLs.
func WithImageExtension(ext string) Option {
	return func(o *options) {
		if ext != "" {
			o.imageExtension = ext
		}
	}
}

// WithRoutingTTL bounds the routing program's age.
func WithRoutingTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.routingTTL = ttl
		}
	}
}

// WithFetchTimeout bounds each remote record fetch.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.fetchTimeout = timeout
		}
	}
}

// WithConcurrency bounds parallel upstream fetches during filter
// resolution and page assembly.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRecordCacheCapacity bounds the in-memory record cache in bytes.
func WithRecordCacheCapacity(capacity int64) Option {
	return func(o *options) {
		if capacity > 0 {
			o.recordCacheCap = capacity
		}
	}
}

// WithRateLimit throttles upstream requests to limit req/s with the given
// burst. The default is unlimited.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.rateLimit = limit
		o.rateBurst = burst
	}
}

package galdex

import (
	"context"
	"strconv"
	"time"

	"github.com/mizue/galdex/cachestore"
	"github.com/mizue/galdex/filter"
	"github.com/mizue/galdex/gallery"
	"github.com/mizue/galdex/internal/httpx"
	"github.com/mizue/galdex/nozomi"
	"github.com/mizue/galdex/routing"
	"github.com/mizue/galdex/suggest"
	"golang.org/x/sync/errgroup"
)

// Engine resolves filter queries into pages of content records and content
// hashes into delivery URLs. It owns the posting-list cache, the two-tier
// record cache, and the routing program; construct one per process and
// share it.
type Engine struct {
	opts     options
	client   *httpx.Client
	postings *nozomi.Store
	resolver *filter.Resolver
	records  *gallery.Store
	routing  *routing.Resolver
	suggest  *suggest.Service
	log      *Logger
	metrics  MetricsCollector
}

// PageRequest selects one page of filtered results. Page is 1-based.
type PageRequest struct {
	Page    int
	Limit   int
	Include filter.Criteria
	Exclude filter.Criteria
}

// PageResult is one page of records plus the total match count.
type PageResult struct {
	Records []*gallery.Record
	Total   int
	HasMore bool
}

// Stats reports cache effectiveness counters.
type Stats struct {
	RecordCacheHits    int64
	RecordCacheMisses  int64
	PostingCacheHits   int64
	PostingCacheMisses int64
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}

	store := o.store
	if store == nil {
		store = cachestore.NewLocalStore(o.cacheDir)
	}

	client := httpx.New(httpx.Config{
		UserAgent: o.userAgent,
		Referer:   o.referer,
		RateLimit: o.rateLimit,
		Burst:     o.rateBurst,
		Base:      o.httpClient,
	})

	postings := nozomi.NewStore(client, store, o.catalogDomain, o.logger.Logger)

	e := &Engine{
		opts:     o,
		client:   client,
		postings: postings,
		resolver: filter.NewResolver(postings, o.logger.Logger, o.concurrency),
		records: gallery.NewStore(gallery.Config{
			Disk:           store,
			Client:         client,
			Domain:         o.catalogDomain,
			Codec:          o.codec,
			MemoryCapacity: o.recordCacheCap,
			FetchTimeout:   o.fetchTimeout,
			Logger:         o.logger.Logger,
		}),
		routing: routing.NewResolver(routing.Config{
			Client:      client,
			ScriptURL:   "https://" + o.catalogDomain + "/gg.js",
			AssetDomain: o.assetDomain,
			Extension:   o.imageExtension,
			TTL:         o.routingTTL,
			Logger:      o.logger.Logger,
		}),
		suggest: suggest.NewService(client, o.tagIndexDomain, o.logger.Logger),
		log:     o.logger,
		metrics: o.metrics,
	}
	return e, nil
}

// ResolvePage resolves a filter query and returns one page of records.
//
// Only invalid arguments produce an error: upstream unavailability degrades
// to fewer (or zero) results, never to a failure.
func (e *Engine) ResolvePage(ctx context.Context, req PageRequest) (*PageResult, error) {
	if req.Page < 1 {
		return nil, ErrInvalidPage
	}
	if req.Limit < 1 {
		return nil, ErrInvalidLimit
	}

	ids, err := e.ResolveIDs(ctx, filter.Query{Include: req.Include, Exclude: req.Exclude})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pageLog := e.log.WithPage(req.Page, req.Limit)
	pageIDs := slicePage(ids, req.Page, req.Limit)
	records, dropped := e.materialize(ctx, pageIDs, pageLog)
	e.metrics.RecordPage(len(records), dropped, time.Since(start))
	pageLog.LogPage(ctx, len(records), len(ids))

	return &PageResult{
		Records: records,
		Total:   len(ids),
		HasMore: req.Page*req.Limit < len(ids),
	}, nil
}

// ResolveIDs resolves a filter query into the full ordered ID list,
// descending. An empty query resolves the unfiltered catalog. Category
// spellings are canonicalized at ingress, so plural forms are accepted.
func (e *Engine) ResolveIDs(ctx context.Context, q filter.Query) ([]int32, error) {
	if err := q.Validate(); err != nil {
		return nil, &ErrInvalidQuery{cause: err}
	}
	q = q.Canonicalize()

	start := time.Now()
	ids := e.resolver.Resolve(ctx, q)
	e.metrics.RecordResolve(len(ids), time.Since(start), nil)
	e.log.LogResolve(ctx, len(q.Include), len(q.Exclude), len(ids))
	return ids, nil
}

// Record returns the record for a content ID, or absent.
func (e *Engine) Record(ctx context.Context, id string) (*gallery.Record, bool) {
	return e.records.Get(ctx, id)
}

// AssetURL returns the time-varying delivery URL for an asset's content
// hash. Within one routing TTL window the result is deterministic.
func (e *Engine) AssetURL(ctx context.Context, contentHash string) string {
	start := time.Now()
	url := e.routing.URL(ctx, contentHash)
	e.metrics.RecordAssetURL(time.Since(start))
	return url
}

// Suggest returns autocomplete candidates for a partial search term.
func (e *Engine) Suggest(ctx context.Context, query string) []suggest.Suggestion {
	start := time.Now()
	out := e.suggest.Complete(ctx, query)
	e.metrics.RecordSuggest(len(out), time.Since(start))
	return out
}

// Stats returns cache effectiveness counters.
func (e *Engine) Stats() Stats {
	var s Stats
	s.RecordCacheHits, s.RecordCacheMisses = e.records.Stats()
	s.PostingCacheHits, s.PostingCacheMisses = e.postings.Stats()
	return s
}

// Close releases pooled upstream connections.
func (e *Engine) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// slicePage returns the 1-based page slice of ids. An out-of-range start
// yields an empty page.
func slicePage(ids []int32, page, limit int) []int32 {
	start := (page - 1) * limit
	if start >= len(ids) {
		return nil
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

// materialize resolves the sliced IDs in parallel, preserving slice order.
// Records that fail to resolve are dropped from the page.
func (e *Engine) materialize(ctx context.Context, ids []int32, log *Logger) ([]*gallery.Record, int) {
	slots := make([]*gallery.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if rec, ok := e.records.Get(gctx, strconv.FormatInt(int64(id), 10)); ok {
				slots[i] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]*gallery.Record, 0, len(ids))
	dropped := 0
	for i, rec := range slots {
		if rec == nil {
			dropped++
			log.LogRecordDrop(ctx, strconv.FormatInt(int64(ids[i]), 10))
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

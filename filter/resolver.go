package filter

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/mizue/galdex/nozomi"
	"golang.org/x/sync/errgroup"
)

// PostingSource supplies the sorted ID set for a posting-list path.
// Implementations must degrade failures to an empty result.
type PostingSource interface {
	Postings(ctx context.Context, path string) []int32
}

// Resolver computes the ordered ID list for a filter query via set algebra
// over posting lists: union within a category, intersection across
// categories, subtraction of the combined exclusion set.
type Resolver struct {
	src         PostingSource
	log         *slog.Logger
	concurrency int
}

// NewResolver creates a Resolver. concurrency bounds parallel posting-list
// fetches; values <= 0 default to 8.
func NewResolver(src PostingSource, log *slog.Logger, concurrency int) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Resolver{src: src, log: log, concurrency: concurrency}
}

// Resolve returns the matching content IDs in descending order. Catalog IDs
// are issued monotonically, so descending order is newest-first.
func (r *Resolver) Resolve(ctx context.Context, q Query) []int32 {
	result := r.resolveInclude(ctx, q.Include)
	if result == nil || result.IsEmpty() {
		return nil
	}

	if len(q.Exclude) > 0 {
		result.AndNot(r.unionAll(ctx, q.Exclude))
	}

	out := make([]int32, 0, result.GetCardinality())
	it := result.ReverseIterator()
	for it.HasNext() {
		out = append(out, int32(it.Next()))
	}
	return out
}

func (r *Resolver) resolveInclude(ctx context.Context, include Criteria) *roaring.Bitmap {
	if len(include) == 0 {
		return bitmapOf(r.src.Postings(ctx, nozomi.IndexAll))
	}

	sets := make([]*roaring.Bitmap, 0, len(include))
	for cat, values := range include {
		if len(values) == 0 {
			// A category with no values constrains nothing.
			continue
		}
		set := r.union(ctx, cat, values)
		if set.IsEmpty() {
			// One empty category union makes every intersection empty.
			return nil
		}
		sets = append(sets, set)
	}
	if len(sets) == 0 {
		return bitmapOf(r.src.Postings(ctx, nozomi.IndexAll))
	}

	// Intersect smallest-first so the running result shrinks fastest.
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].GetCardinality() < sets[j].GetCardinality()
	})

	result := sets[0]
	for _, set := range sets[1:] {
		result.And(set)
		if result.IsEmpty() {
			return nil
		}
	}
	return result
}

// union fetches every value's posting list in parallel and ORs them.
func (r *Resolver) union(ctx context.Context, cat Category, values []string) *roaring.Bitmap {
	out := roaring.New()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, value := range values {
		g.Go(func() error {
			set := bitmapOf(r.src.Postings(gctx, nozomi.EncodePath(string(cat), value)))
			if set.IsEmpty() {
				return nil
			}
			mu.Lock()
			out.Or(set)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// unionAll merges every (category, value) pair into one combined set.
func (r *Resolver) unionAll(ctx context.Context, criteria Criteria) *roaring.Bitmap {
	out := roaring.New()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for cat, values := range criteria {
		for _, value := range values {
			g.Go(func() error {
				set := bitmapOf(r.src.Postings(gctx, nozomi.EncodePath(string(cat), value)))
				if set.IsEmpty() {
					return nil
				}
				mu.Lock()
				out.Or(set)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	return out
}

func bitmapOf(ids []int32) *roaring.Bitmap {
	bm := roaring.New()
	for _, id := range ids {
		bm.Add(uint32(id))
	}
	return bm
}

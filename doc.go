// Package galdex is a filter-resolution and metadata-caching engine for a
// remote content catalog.
//
// The catalog publishes one sorted posting list of content IDs per
// (category, value) pair as compact binary files, and per-item metadata as
// script-wrapped JSON documents. Galdex resolves multi-category filter
// queries over those posting lists with set algebra (union within a
// category, intersection across categories, subtraction of exclusions),
// pages through the resolved IDs, and materializes records through a
// two-tier (memory + disk) cache with remote fallback. It also maps a
// stable content hash to its current hash-sharded delivery URL.
//
// # Quick Start
//
//	eng, _ := galdex.New(
//	    galdex.WithCacheDir("./.cache"),
//	    galdex.WithLogger(galdex.NewTextLogger(slog.LevelInfo)),
//	)
//	defer eng.Close()
//
//	page, err := eng.ResolvePage(ctx, galdex.PageRequest{
//	    Page:  1,
//	    Limit: 24,
//	    Include: filter.Criteria{
//	        filter.CategoryLanguage: {"korean"},
//	        filter.CategoryTag:      {"full color"},
//	    },
//	    Exclude: filter.Criteria{
//	        filter.CategoryType: {"anime"},
//	    },
//	})
//
// Delivery URLs for page images:
//
//	url := eng.AssetURL(ctx, record.Files[0].Hash)
//
// # Degradation Model
//
// Public operations are total: a missing posting list is an empty set, a
// record that cannot be fetched is absent, and a routing-script outage
// falls back to a degraded default program. Errors are returned only for
// invalid arguments.
package galdex

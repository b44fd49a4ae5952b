// Package nozomi handles posting lists: canonical path encoding, the
// big-endian binary wire format, and a disk-cached store with remote
// fallback.
package nozomi

import "strings"

// IndexAll is the path of the unfiltered catalog index.
const IndexAll = "index-all"

// Extension is the file extension of posting-list resources.
const Extension = ".nozomi"

// Areas with a dedicated "<area>/<value>-all" path shape. Anything else
// falls back to the tag area.
var singularArea = map[string]string{
	"type":       "type",
	"types":      "type",
	"language":   "language",
	"languages":  "language",
	"tag":        "tag",
	"tags":       "tag",
	"artist":     "artist",
	"artists":    "artist",
	"series":     "series",
	"character":  "character",
	"characters": "character",
	"group":      "group",
	"groups":     "group",
}

// EncodePath maps a (category, value) pair to the canonical posting-list
// path, without the file extension.
//
// Gendered values ("male:...", "female:...") are opaque tags: the whole
// value, prefix included, addresses an entry in the tag area. Any other
// namespaced value re-routes to the namespace as its category. The literal
// genre "webtoon" under type is indexed upstream as a tag, so it is
// redirected to the tag area as well.
func EncodePath(category, value string) string {
	var area string
	if ns, rest, ok := strings.Cut(value, ":"); ok {
		if ns == "male" || ns == "female" {
			// The gender marker is part of the tag itself.
			area = "tag"
		} else {
			category = ns
			value = rest
		}
	}

	if area == "" {
		area = singularArea[category]
		if area == "" {
			area = "tag"
		}
	}
	if area == "type" && value == "webtoon" {
		area = "tag"
	}

	encoded := encodeValue(value)

	switch area {
	case "language":
		return "index-" + encoded
	case "type":
		return "type/" + encoded + "-all"
	default:
		return area + "/" + encoded + "-all"
	}
}

// encodeValue applies the upstream character mapping: spaces become
// underscores, slash and dot become their spelled-out escape tokens.
func encodeValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case ' ':
			b.WriteByte('_')
		case '/':
			b.WriteString("slash")
		case '.':
			b.WriteString("dot")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CacheName derives the cache entry name for a posting-list path. Path and
// namespace separators are replaced so the name is filesystem-safe.
func CacheName(path string) string {
	safe := strings.NewReplacer("/", "-", ":", "-").Replace(path)
	return "nozomi/" + safe + Extension
}

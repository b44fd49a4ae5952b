// Package suggest resolves partial search terms against the upstream
// per-character tag index.
package suggest

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mizue/galdex/internal/httpx"
)

// Suggestion is one autocomplete candidate.
//
// Tag is the display/query form: namespaced ("female:glasses",
// "artist:someone") except for plain tags, which stay bare.
type Suggestion struct {
	Tag       string `json:"tag"`
	Count     int    `json:"count"`
	Namespace string `json:"ns"`
}

// Service fetches suggestions. Failures degrade to an empty list.
type Service struct {
	client *httpx.Client
	domain string
	log    *slog.Logger
}

// NewService creates a suggestion service. domain is the tag-index host.
func NewService(client *httpx.Client, domain string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{client: client, domain: domain, log: log}
}

// Complete returns suggestions for a partial query. A "ns:term" query
// searches within that namespace's field; otherwise the global field is
// searched. Underscores in the query stand for spaces.
func (s *Service) Complete(ctx context.Context, query string) []Suggestion {
	term := strings.ReplaceAll(query, "_", " ")
	field := "global"
	if ns, rest, ok := strings.Cut(term, ":"); ok {
		field = ns
		term = rest
	}
	if strings.TrimSpace(term) == "" {
		return nil
	}

	url := "https://" + s.domain + "/" + field + "/" + encodeTerm(term) + ".json"
	body, err := s.client.GetBytes(ctx, url)
	if err != nil {
		s.log.Debug("suggestion fetch failed", "query", query, "error", err)
		return nil
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		s.log.Warn("malformed suggestion payload", "query", query, "error", err)
		return nil
	}

	out := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		var name string
		var count int
		if err := json.Unmarshal(row[0], &name); err != nil {
			continue
		}
		if err := json.Unmarshal(row[1], &count); err != nil {
			continue
		}
		ns := "tag"
		if len(row) > 2 {
			var parsed string
			if err := json.Unmarshal(row[2], &parsed); err == nil && parsed != "" {
				ns = parsed
			}
		}
		out = append(out, Suggestion{
			Tag:       formatTag(name, ns),
			Count:     count,
			Namespace: ns,
		})
	}
	return out
}

// encodeTerm maps each character of the term to a path segment: space to
// underscore, slash and dot to their spelled-out tokens, joined with "/".
func encodeTerm(term string) string {
	segments := make([]string, 0, len(term))
	for _, r := range term {
		switch r {
		case ' ':
			segments = append(segments, "_")
		case '/':
			segments = append(segments, "slash")
		case '.':
			segments = append(segments, "dot")
		default:
			segments = append(segments, string(r))
		}
	}
	return strings.Join(segments, "/")
}

// formatTag renders the namespaced query form: gender namespaces and
// specific categories get a prefix, plain and global tags stay bare.
func formatTag(name, ns string) string {
	if ns == "tag" || ns == "global" {
		return name
	}
	return ns + ":" + name
}

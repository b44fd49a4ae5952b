// Package gallery materializes content records: upstream document parsing,
// field normalization, type refinement, and a two-tier cache.
package gallery

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AssignmentPrefix wraps the upstream record document: the HTTP body is a
// script-variable assignment whose right-hand side is the JSON payload.
const AssignmentPrefix = "var galleryinfo = "

// FileEntry describes one page image of a record.
type FileEntry struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Hash    string `json:"hash"`
	HasWebP bool   `json:"haswebp"`
}

// Record is a normalized content record.
//
// Tags carry an optional gender namespace ("male:" / "female:"). Type is
// the declared type refined by tag precedence, see RefineType.
type Record struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Type       string      `json:"type"`
	Language   string      `json:"language,omitempty"`
	Tags       []string    `json:"tags"`
	Artists    []string    `json:"artists"`
	Groups     []string    `json:"groups"`
	Series     []string    `json:"series"`
	Characters []string    `json:"characters"`
	Files      []FileEntry `json:"files"`
}

// flag accepts the upstream's loose boolean encodings: absent, null, "",
// "1", 0, 1, true.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte(`""`)),
		bytes.Equal(data, []byte("0")), bytes.Equal(data, []byte("false")):
		*f = false
	default:
		*f = true
	}
	return nil
}

type rawTag struct {
	Tag    string `json:"tag"`
	Male   flag   `json:"male"`
	Female flag   `json:"female"`
}

type rawFile struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Hash    string `json:"hash"`
	HasWebP flag   `json:"haswebp"`
}

// rawRecord mirrors the upstream document schema. "parodys" maps to the
// normalized series list.
type rawRecord struct {
	ID         json.Number `json:"id"`
	Title      string      `json:"title"`
	Type       string      `json:"type"`
	Language   string      `json:"language"`
	Tags       []rawTag    `json:"tags"`
	Artists    []struct {
		Artist string `json:"artist"`
	} `json:"artists"`
	Groups []struct {
		Group string `json:"group"`
	} `json:"groups"`
	Parodys []struct {
		Parody string `json:"parody"`
	} `json:"parodys"`
	Characters []struct {
		Character string `json:"character"`
	} `json:"characters"`
	Files []rawFile `json:"files"`
}

// normalize flattens a raw upstream record into the Record schema and
// applies type refinement.
func (r *rawRecord) normalize() *Record {
	rec := &Record{
		ID:       r.ID.String(),
		Title:    r.Title,
		Type:     r.Type,
		Language: r.Language,
	}

	rec.Tags = make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		switch {
		case bool(t.Female):
			rec.Tags = append(rec.Tags, "female:"+t.Tag)
		case bool(t.Male):
			rec.Tags = append(rec.Tags, "male:"+t.Tag)
		default:
			rec.Tags = append(rec.Tags, t.Tag)
		}
	}

	rec.Artists = make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		rec.Artists = append(rec.Artists, a.Artist)
	}
	rec.Groups = make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		rec.Groups = append(rec.Groups, g.Group)
	}
	rec.Series = make([]string, 0, len(r.Parodys))
	for _, p := range r.Parodys {
		rec.Series = append(rec.Series, p.Parody)
	}
	rec.Characters = make([]string, 0, len(r.Characters))
	for _, c := range r.Characters {
		rec.Characters = append(rec.Characters, c.Character)
	}

	rec.Files = make([]FileEntry, 0, len(r.Files))
	for _, f := range r.Files {
		rec.Files = append(rec.Files, FileEntry{
			Name:    f.Name,
			Width:   f.Width,
			Height:  f.Height,
			Hash:    f.Hash,
			HasWebP: bool(f.HasWebP),
		})
	}

	rec.Type = RefineType(rec.Type, rec.Tags)
	return rec
}

// RefineType reconciles an upstream type with co-occurring tags.
//
// Upstream declares some works under a generic type while the authoritative
// genre lives in the tag list. Precedence: gamecg, artistcg, imageset,
// anime; a webtoon tag overrides only the manga and doujinshi types.
func RefineType(declared string, tags []string) string {
	present := make(map[string]bool, 5)
	for _, tag := range tags {
		name := tag
		if _, rest, ok := strings.Cut(tag, ":"); ok {
			name = rest
		}
		switch name {
		case "gamecg", "artistcg", "imageset", "anime", "webtoon":
			present[name] = true
		}
	}

	switch {
	case present["gamecg"]:
		return "gamecg"
	case present["artistcg"]:
		return "artistcg"
	case present["imageset"]:
		return "imageset"
	case present["anime"]:
		return "anime"
	case present["webtoon"] && (declared == "manga" || declared == "doujinshi"):
		return "webtoon"
	}
	return declared
}

// ParseDocument strips the assignment prefix from an upstream record
// document and decodes the JSON payload into a normalized Record.
func ParseDocument(body []byte, unmarshal func([]byte, any) error) (*Record, error) {
	payload := bytes.TrimPrefix(body, []byte(AssignmentPrefix))
	var raw rawRecord
	if err := unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

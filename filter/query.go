// Package filter resolves multi-category filter queries into ordered ID
// lists via set algebra over posting lists.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies one filterable dimension of the catalog.
//
// The closed set below covers every dimension the catalog indexes
// specially. Other spellings are accepted at ingress and canonicalized;
// anything outside the closed set resolves as a generic tag-like category.
type Category string

const (
	CategoryType      Category = "type"
	CategoryLanguage  Category = "language"
	CategoryTag       Category = "tag"
	CategoryArtist    Category = "artist"
	CategorySeries    Category = "series"
	CategoryCharacter Category = "character"
	CategoryGroup     Category = "group"
)

var plural = map[string]Category{
	"types":      CategoryType,
	"languages":  CategoryLanguage,
	"tags":       CategoryTag,
	"artists":    CategoryArtist,
	"characters": CategoryCharacter,
	"groups":     CategoryGroup,
}

// Canonical normalizes a raw category spelling: plural forms collapse to
// their singular category, unknown spellings pass through lowercased as
// generic tag-like categories.
func Canonical(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := plural[s]; ok {
		return c
	}
	return Category(s)
}

// ErrEmptyCategory reports a criteria entry with a blank category.
var ErrEmptyCategory = errors.New("filter: empty category")

// ErrEmptyValue reports a criteria entry with a blank value.
var ErrEmptyValue = errors.New("filter: empty value")

// Criteria maps a category to the selected values within it.
type Criteria map[Category][]string

// Query is one filter request: items matching any include value per
// category, every include category, and no exclude value.
type Query struct {
	Include Criteria
	Exclude Criteria
}

// IsEmpty reports whether the query selects the unfiltered catalog.
func (q Query) IsEmpty() bool {
	return len(q.Include) == 0 && len(q.Exclude) == 0
}

// Canonicalize returns the query with every category spelling passed
// through Canonical. Value lists of spellings that collapse to the same
// category are merged.
func (q Query) Canonicalize() Query {
	return Query{
		Include: q.Include.canonicalize(),
		Exclude: q.Exclude.canonicalize(),
	}
}

func (c Criteria) canonicalize() Criteria {
	if len(c) == 0 {
		return nil
	}
	out := make(Criteria, len(c))
	for cat, values := range c {
		key := Canonical(string(cat))
		out[key] = append(out[key], values...)
	}
	return out
}

// Validate rejects blank categories and blank values. It does not reject
// unknown categories; those resolve through the generic tag area.
func (q Query) Validate() error {
	if err := q.Include.validate(); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := q.Exclude.validate(); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}

func (c Criteria) validate() error {
	for cat, values := range c {
		if strings.TrimSpace(string(cat)) == "" {
			return ErrEmptyCategory
		}
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w (category %q)", ErrEmptyValue, cat)
			}
		}
	}
	return nil
}

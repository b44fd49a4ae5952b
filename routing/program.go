// Package routing computes hash-sharded asset delivery URLs from a
// periodically refreshed routing program.
package routing

import (
	"regexp"
	"strconv"
)

// The routing program is published as a small script. Extraction is
// pattern-based and deliberately lenient: a pattern that fails to match
// contributes its zero value, and the resolver degrades to
// DefaultProgram on fetch failure.
var (
	reDefault  = regexp.MustCompile(`var o = (\d+)`)
	reOverride = regexp.MustCompile(`o = (\d+); break;`)
	reBasePath = regexp.MustCompile(`b:\s*'(.+?)'`)
	reCase     = regexp.MustCompile(`case (\d+):`)
)

// Program is the bucket-to-multiplier lookup used to pick a delivery
// subdomain, plus the base path segment of asset URLs.
type Program struct {
	cases map[int]int
	def   int
	base  string
}

// DefaultProgram is the degraded fallback: empty table, default
// multiplier 0, base path "1".
func DefaultProgram() *Program {
	return &Program{cases: map[int]int{}, base: "1"}
}

// ParseProgram extracts a Program from routing-script source text. Every
// case label maps to the single override value found in the script.
func ParseProgram(src string) *Program {
	p := &Program{cases: map[int]int{}}

	if m := reDefault.FindStringSubmatch(src); m != nil {
		p.def, _ = strconv.Atoi(m[1])
	}

	var override int
	if m := reOverride.FindStringSubmatch(src); m != nil {
		override, _ = strconv.Atoi(m[1])
	}

	if m := reBasePath.FindStringSubmatch(src); m != nil {
		p.base = m[1]
	}

	for _, m := range reCase.FindAllStringSubmatch(src, -1) {
		label, _ := strconv.Atoi(m[1])
		p.cases[label] = override
	}

	return p
}

// Multiplier returns the table entry for bucket, or the default.
func (p *Program) Multiplier(bucket int) int {
	if v, ok := p.cases[bucket]; ok {
		return v
	}
	return p.def
}

// BasePath returns the base path segment of asset URLs.
func (p *Program) BasePath() string {
	return p.base
}

// Len returns the number of case labels in the lookup table.
func (p *Program) Len() int {
	return len(p.cases)
}

// Bucket maps a content hash to its routing bucket: the final hash
// character concatenated with the two preceding characters, read as a
// base-16 integer. Hashes too short or non-hex map to bucket 0.
func Bucket(hash string) int {
	if len(hash) < 3 {
		return 0
	}
	xy := hash[len(hash)-3 : len(hash)-1]
	z := hash[len(hash)-1:]
	v, err := strconv.ParseInt(z+xy, 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

package filter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher matches template-relative POSIX paths against a glob. Matching is
// case-insensitive, `*` stays within one path segment and `**` spans any
// number of directories.
type Matcher struct {
	glob    string
	pattern string
}

func NewMatcher(glob string) (*Matcher, error) {
	pattern := strings.ToLower(normalize(glob))
	if pattern == "" {
		return nil, fmt.Errorf("empty glob")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob %q", glob)
	}

	return &Matcher{glob: glob, pattern: pattern}, nil
}

func (m *Matcher) Match(path string) bool {
	ok, err := doublestar.Match(m.pattern, strings.ToLower(path))
	return err == nil && ok
}

func (m *Matcher) String() string {
	return m.glob
}

// Patterns is an ordered list of matchers.
type Patterns []*Matcher

func compile(globs []string) (Patterns, error) {
	out := make(Patterns, 0, len(globs))
	for _, glob := range globs {
		m, err := NewMatcher(glob)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MatchAny returns the first matcher that matches path.
func (p Patterns) MatchAny(path string) (*Matcher, bool) {
	for _, m := range p {
		if m.Match(path) {
			return m, true
		}
	}
	return nil, false
}

func normalize(p string) string {
	p = strings.TrimSpace(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

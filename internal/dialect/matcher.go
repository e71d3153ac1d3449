package dialect

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher maps file paths to dialects through glob patterns. Patterns are
// doublestar globs matched case-insensitively. A pattern without "/" matches
// the base name; one with "/" matches the whole path, which callers pass
// through RelPath so that "data/**/vector.txt" is anchored at the config
// directory.
type Matcher struct {
	rules   []rule
	exclude []string
}

type rule struct {
	kind    Kind
	pattern string
}

// NewMatcher validates and compiles the pattern lists.
func NewMatcher(patterns map[Kind][]string, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	for _, k := range Kinds() {
		for _, p := range patterns[k] {
			p = normalizePattern(p)
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("invalid %s pattern %q", k, p)
			}
			m.rules = append(m.rules, rule{kind: k, pattern: p})
		}
	}
	for _, p := range exclude {
		p = normalizePattern(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		m.exclude = append(m.exclude, p)
	}
	return m, nil
}

// DefaultMatcher recognizes the conventional file names.
func DefaultMatcher() *Matcher {
	m, err := NewMatcher(DefaultPatterns(), nil)
	if err != nil {
		panic(err)
	}
	return m
}

// DefaultPatterns returns the patterns used when no config overrides them.
func DefaultPatterns() map[Kind][]string {
	return map[Kind][]string{
		Command: {"*cmd*.txt", "*command*.txt"},
		Vector:  {"*vector*.txt", "*vec*.txt"},
		SeList:  {"*selist*.txt", "*se_list*.txt"},
	}
}

func normalizePattern(p string) string {
	return strings.ToLower(filepath.ToSlash(strings.TrimSpace(p)))
}

// Match returns the first dialect whose pattern matches p, in Kinds order.
func (m *Matcher) Match(p string) Kind {
	if m == nil {
		return Unknown
	}
	full, base := m.candidates(p)
	for _, r := range m.rules {
		if globMatch(r.pattern, full, base) {
			return r.kind
		}
	}
	return Unknown
}

// Excluded reports whether p matches an exclude pattern.
func (m *Matcher) Excluded(p string) bool {
	if m == nil {
		return false
	}
	full, base := m.candidates(p)
	for _, pat := range m.exclude {
		if globMatch(pat, full, base) {
			return true
		}
	}
	return false
}

// RelPath rewrites p relative to root, the directory patterns are anchored
// at; root "" means the working directory. Files outside root keep their
// absolute path, which only base-name and "**/" patterns can match.
func RelPath(root, p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func (m *Matcher) candidates(p string) (full, base string) {
	full = strings.ToLower(filepath.ToSlash(p))
	full = strings.TrimPrefix(full, "./")
	return full, path.Base(full)
}

func globMatch(pattern, full, base string) bool {
	if ok, err := doublestar.Match(pattern, full); err == nil && ok {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	ok, err := doublestar.Match(pattern, base)
	return err == nil && ok
}

// Package pattern compiles glob-like filter strings and evaluates paths
// against them. Two kinds of patterns exist: simple patterns (no glob
// metacharacters, matched by exact or trailing-segment comparison) and
// wildcard patterns compiled to doublestar matchers with `**`, `?`,
// `[...]` and `{a,b}` semantics.
package pattern

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a single compiled filter string. Immutable once compiled.
type Pattern struct {
	source  string
	body    string // source without the trailing slash
	simple  bool   // no glob metacharacters
	dirOnly bool   // trailing-slash pattern: matches the directory and everything beneath
	valid   bool   // false for malformed patterns, which match nothing
}

// Compile builds a matcher from a filter string. Malformed patterns never
// fail: they compile to a matcher that matches nothing.
func Compile(src string) *Pattern {
	p := &Pattern{source: src}

	body := strings.TrimSpace(src)
	if body == "" {
		return p
	}

	p.dirOnly = strings.HasSuffix(body, "/") && len(body) > 1
	if p.dirOnly {
		body = strings.TrimSuffix(body, "/")
	}
	p.body = body
	p.simple = !strings.ContainsAny(body, "*?[{")

	if p.simple {
		p.valid = true
	} else {
		p.valid = doublestar.ValidatePattern(body)
	}
	return p
}

// CompileAll compiles every string in srcs. Malformed entries are kept in
// the result (as never-match patterns) so counts stay stable.
func CompileAll(srcs []string) []*Pattern {
	patterns := make([]*Pattern, 0, len(srcs))
	for _, src := range srcs {
		patterns = append(patterns, Compile(src))
	}
	return patterns
}

// Source returns the original pattern text.
func (p *Pattern) Source() string {
	return p.source
}

// IsSimple reports whether the pattern carries no glob metacharacters.
func (p *Pattern) IsSimple() bool {
	return p.simple
}

// IsValid reports whether the pattern compiled to a usable matcher.
func (p *Pattern) IsValid() bool {
	return p.valid
}

// Matches evaluates a slash-separated relative path against the pattern.
func (p *Pattern) Matches(path string) bool {
	if !p.valid || path == "" {
		return false
	}

	path = normalize(path)

	if p.simple {
		if path == p.body || strings.HasSuffix(path, "/"+p.body) {
			return true
		}
		if p.dirOnly {
			// The directory pattern also claims everything beneath it.
			return strings.HasPrefix(path, p.body+"/") ||
				strings.Contains(path, "/"+p.body+"/")
		}
		return false
	}

	if ok, _ := doublestar.Match(p.body, path); ok {
		return true
	}
	if p.dirOnly {
		if ok, _ := doublestar.Match(p.body+"/**", path); ok {
			return true
		}
	}
	// Basename matching: a pattern with no slash applies at any depth.
	if !strings.Contains(p.body, "/") {
		if ok, _ := doublestar.Match("**/"+p.body, path); ok {
			return true
		}
		if p.dirOnly {
			if ok, _ := doublestar.Match("**/"+p.body+"/**", path); ok {
				return true
			}
		}
	}
	return false
}

// MatchesAny reports whether any pattern in the list matches the path.
func MatchesAny(path string, patterns []*Pattern) bool {
	for _, p := range patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}

// normalize converts a path to forward slashes and strips leading "./".
func normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}

// Package gitignore reads a root's .gitignore file and turns its lines
// into exclude and include (negation) pattern sets, cached per root.
package gitignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/pattern"
)

// DefaultExcludes are appended to every parsed .gitignore regardless of
// its contents. They cover generated bundle artifacts that repositories
// routinely forget to ignore.
var DefaultExcludes = []string{
	"**/bundle.js",
	"**/bundle.js.map",
	"**/index.js.map",
	"**/output.css",
}

// PatternSet is the parsed result for one root: exclude rules plus the
// negation rules that re-admit paths excluded by them.
type PatternSet struct {
	Exclude []*pattern.Pattern
	Include []*pattern.Pattern
}

// Resolver parses .gitignore files with per-root caching. Repeat calls
// for the same root return the cached value without touching the
// filesystem until the entry is explicitly invalidated.
type Resolver struct {
	mu     sync.Mutex
	cache  map[string]*PatternSet
	logger *logging.Logger
}

// NewResolver creates a resolver with an empty cache.
func NewResolver(logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		cache:  make(map[string]*PatternSet),
		logger: logger,
	}
}

// Parse returns the pattern sets for the .gitignore at rootPath.
// A missing file yields empty sets, cached so the root is not re-probed.
// Read errors also yield empty sets; they are logged, never propagated.
func (r *Resolver) Parse(rootPath string) *PatternSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[rootPath]; ok {
		return cached
	}

	set := r.parseFile(rootPath)
	r.cache[rootPath] = set
	return set
}

// Invalidate drops the cached entry for one root.
func (r *Resolver) Invalidate(rootPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, rootPath)
}

// Clear drops every cached entry.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*PatternSet)
}

func (r *Resolver) parseFile(rootPath string) *PatternSet {
	set := &PatternSet{}

	gitignorePath := filepath.Join(rootPath, ".gitignore")
	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Failed to read .gitignore",
				logging.String("path", gitignorePath),
				logging.Error(err))
		}
		return set
	}

	var exclude, include []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negated := strings.HasPrefix(line, "!")
		if negated {
			line = strings.TrimPrefix(line, "!")
			if line == "" {
				continue
			}
		}

		variants := expandVariants(line)
		if negated {
			include = append(include, variants...)
		} else {
			exclude = append(exclude, variants...)
		}
	}

	exclude = append(exclude, DefaultExcludes...)

	set.Exclude = pattern.CompileAll(exclude)
	set.Include = pattern.CompileAll(include)

	r.logger.Debug("Parsed .gitignore",
		logging.String("root", rootPath),
		logging.Int("excludePatterns", len(set.Exclude)),
		logging.Int("includePatterns", len(set.Include)))
	return set
}

// expandVariants normalizes one .gitignore rule into the stored pattern
// forms. A leading slash anchors the rule to the root (stored without the
// slash). Everything else is stored both as written and with a `**/`
// prefix so it matches at the root and at any depth.
func expandVariants(line string) []string {
	if strings.HasPrefix(line, "/") {
		return []string{strings.TrimPrefix(line, "/")}
	}
	return []string{line, "**/" + line}
}

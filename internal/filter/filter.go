// Package filter merges user configuration and gitignore output into one
// resolved FilterConfig for an analysis pass.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/config"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/gitignore"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/pattern"
)

// FilterConfig is the resolved, merged set of active patterns and the
// allowed-extensions list. Built once per analysis; never mutated after
// construction.
//
// Custom excludes and gitignore excludes are kept separate because their
// precedence differs: a gitignore negation only rescues a path excluded
// by gitignore itself, never one excluded by the custom list.
type FilterConfig struct {
	customExclude    []*pattern.Pattern
	gitignoreExclude []*pattern.Pattern
	gitignoreInclude []*pattern.Pattern

	// AllowedExtensions is the extension allow-list (entries carry the
	// leading dot). Nil means no extension filtering.
	AllowedExtensions []string
}

// Build constructs a FilterConfig from the user config and, when enabled,
// the parsed gitignore sets for the root.
func Build(cfg *config.Config, gi *gitignore.PatternSet) *FilterConfig {
	fc := &FilterConfig{}

	if cfg.UseCustomExcludes {
		fc.customExclude = pattern.CompileAll(cfg.ExcludePatterns)
	}
	if cfg.UseGitignore && gi != nil {
		fc.gitignoreExclude = gi.Exclude
		fc.gitignoreInclude = gi.Include
	}
	if cfg.UseCustomIncludes && len(cfg.IncludeExtensions) > 0 {
		exts := make([]string, 0, len(cfg.IncludeExtensions))
		for _, ext := range cfg.IncludeExtensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}
		fc.AllowedExtensions = exts
	}

	return fc
}

// ShouldExclude reports whether a relative path is excluded by the active
// pattern sets. Custom excludes win unconditionally; gitignore negations
// only re-admit paths excluded by gitignore's own rules.
func (fc *FilterConfig) ShouldExclude(relPath string) bool {
	if pattern.MatchesAny(relPath, fc.customExclude) {
		return true
	}
	if pattern.MatchesAny(relPath, fc.gitignoreExclude) {
		return !pattern.MatchesAny(relPath, fc.gitignoreInclude)
	}
	return false
}

// ExtensionAllowed reports whether the file's extension passes the
// allow-list. Paths without an extension fail a non-empty allow-list.
func (fc *FilterConfig) ExtensionAllowed(relPath string) bool {
	if fc.AllowedExtensions == nil {
		return true
	}
	ext := strings.ToLower(filepath.Ext(relPath))
	for _, allowed := range fc.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ShouldProcess reports whether a file passes both the pattern sets and
// the extension allow-list.
func (fc *FilterConfig) ShouldProcess(relPath string) bool {
	if fc.ShouldExclude(relPath) {
		return false
	}
	return fc.ExtensionAllowed(relPath)
}

// Package config defines the filter and export configuration document
// understood by the selection pipeline, plus loaders for the places it
// can come from (raw YAML text, config files, environment).
package config

// Export formats supported by the export serializer.
const (
	FormatMarkdown = "markdown"
	FormatXML      = "xml"
)

// Config is the resolved key/value document controlling an analysis pass.
type Config struct {
	UseCustomExcludes      bool     `mapstructure:"use_custom_excludes" yaml:"use_custom_excludes"`
	UseCustomIncludes      bool     `mapstructure:"use_custom_includes" yaml:"use_custom_includes"`
	UseGitignore           bool     `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	IncludeExtensions      []string `mapstructure:"include_extensions" yaml:"include_extensions"`
	ExcludePatterns        []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	EnableSecretScanning   bool     `mapstructure:"enable_secret_scanning" yaml:"enable_secret_scanning"`
	ExcludeSuspiciousFiles bool     `mapstructure:"exclude_suspicious_files" yaml:"exclude_suspicious_files"`
	IncludeTreeView        bool     `mapstructure:"include_tree_view" yaml:"include_tree_view"`
	ShowTokenCount         bool     `mapstructure:"show_token_count" yaml:"show_token_count"`
	ExportFormat           string   `mapstructure:"export_format" yaml:"export_format"`
}

// DefaultExcludePatterns are applied when the user config carries none.
// They keep output useful for repositories without a strict .gitignore.
var DefaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/coverage/**",
	"**/*.min.js",
	"**/*.min.css",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/.DS_Store",
}

// Default returns the configuration used when no config text is supplied
// or when the supplied text cannot be parsed.
func Default() *Config {
	return &Config{
		UseCustomExcludes: true,
		UseGitignore:      true,
		ShowTokenCount:    true,
		IncludeTreeView:   true,
		ExportFormat:      FormatMarkdown,
		ExcludePatterns:   append([]string(nil), DefaultExcludePatterns...),
	}
}

// Normalize fills gaps left by a partially specified document.
func (c *Config) Normalize() {
	if c.ExportFormat != FormatMarkdown && c.ExportFormat != FormatXML {
		c.ExportFormat = FormatMarkdown
	}
	if c.UseCustomExcludes && len(c.ExcludePatterns) == 0 {
		c.ExcludePatterns = append([]string(nil), DefaultExcludePatterns...)
	}
	if !c.UseCustomIncludes {
		c.IncludeExtensions = nil
	}
}

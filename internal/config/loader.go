package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	v      *viper.Viper
	logger *logging.Logger
}

// NewLoader creates a new configuration loader.
// Precedence: CLI overrides > project config file > environment > defaults.
func NewLoader(logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("CODEFUSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Loader{v: v, logger: logger}
}

// Load resolves the active configuration for a repository root.
// A missing or malformed config file is never fatal: the loader logs the
// condition and continues with defaults, per the recovery taxonomy.
func (l *Loader) Load(rootPath string, cliOverrides map[string]interface{}) *Config {
	cfg := Default()

	l.setDefaults(cfg)

	if err := l.loadProjectConfig(rootPath); err != nil {
		l.logger.Warn("Ignoring unreadable project config",
			logging.String("root", rootPath),
			logging.Error(err))
	}

	for key, value := range cliOverrides {
		if value != nil {
			l.v.Set(key, value)
		}
	}

	out := Default()
	if err := l.v.Unmarshal(out); err != nil {
		l.logger.Warn("Config unmarshal failed, using defaults", logging.Error(err))
		out = Default()
	}
	out.Normalize()
	return out
}

// ParseText interprets a raw YAML key/value document handed across the
// request/response boundary. Malformed text falls back to defaults.
func ParseText(text string, logger *logging.Logger) *Config {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	cfg := Default()
	if strings.TrimSpace(text) == "" {
		cfg.Normalize()
		return cfg
	}

	if err := yaml.Unmarshal([]byte(text), cfg); err != nil {
		logger.Warn("Malformed config text, using defaults", logging.Error(err))
		cfg = Default()
	}
	cfg.Normalize()
	return cfg
}

func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("use_custom_excludes", cfg.UseCustomExcludes)
	l.v.SetDefault("use_custom_includes", cfg.UseCustomIncludes)
	l.v.SetDefault("use_gitignore", cfg.UseGitignore)
	l.v.SetDefault("include_extensions", cfg.IncludeExtensions)
	l.v.SetDefault("exclude_patterns", cfg.ExcludePatterns)
	l.v.SetDefault("enable_secret_scanning", cfg.EnableSecretScanning)
	l.v.SetDefault("exclude_suspicious_files", cfg.ExcludeSuspiciousFiles)
	l.v.SetDefault("include_tree_view", cfg.IncludeTreeView)
	l.v.SetDefault("show_token_count", cfg.ShowTokenCount)
	l.v.SetDefault("export_format", cfg.ExportFormat)
}

// loadProjectConfig merges .codefusion.yaml from the repository root, if present.
func (l *Loader) loadProjectConfig(rootPath string) error {
	if rootPath == "" {
		rootPath = "."
	}

	configPath := filepath.Join(rootPath, ".codefusion.yaml")
	if _, err := os.Stat(configPath); err != nil {
		return nil // File doesn't exist, skip
	}

	l.v.SetConfigFile(configPath)
	return l.v.MergeInConfig()
}

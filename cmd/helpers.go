package cmd

import (
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/config"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/core"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/logging"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/walker"
)

// newLogger builds the CLI logger. Verbose mode surfaces the per-entry
// walk and classification warnings on the console.
func newLogger() *logging.Logger {
	cfg := logging.DefaultConfig()
	if verboseFlag {
		cfg.ConsoleLevel = zapcore.DebugLevel
	}

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return logging.NewNopLogger()
	}
	return logger
}

// resolveConfigText returns the raw config document handed to the core.
// An explicit --config file wins; otherwise the loader's merged view of
// project file, environment and defaults is serialized back to YAML.
func resolveConfigText(rootPath string, logger *logging.Logger, overrides map[string]interface{}) string {
	if configFileFlag != "" {
		content, err := os.ReadFile(configFileFlag)
		if err != nil {
			logger.Warn("Cannot read config file, using defaults",
				logging.String("path", configFileFlag),
				logging.Error(err))
			return ""
		}
		return string(content)
	}

	cfg := config.NewLoader(logger).Load(rootPath, overrides)
	text, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	return string(text)
}

// newService wires the pipeline with the default heuristic token counter.
func newService(logger *logging.Logger) *core.Service {
	return core.NewService(logger, nil)
}

// collectFilePaths flattens a tree into the relative paths of its files.
func collectFilePaths(nodes []*walker.TreeNode) []string {
	var paths []string
	for _, node := range nodes {
		if node.Type == walker.NodeFile {
			paths = append(paths, node.Path)
			continue
		}
		paths = append(paths, collectFilePaths(node.Children)...)
	}
	return paths
}

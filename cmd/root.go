package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/codingworkflow/ai-code-fusion-sub000/internal/errors"
)

var (
	verboseFlag    bool
	configFileFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codefusion",
	Short: "Concatenate selected source files into an LLM-ready document",
	Long: `Codefusion selects files from a source directory using glob patterns,
.gitignore rules and extension filters, counts approximate tokens per
file, and exports the selection as a single Markdown or XML document
for feeding into an LLM context window.`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var appErr *apperrors.FusionError
		if errors.As(err, &appErr) {
			os.Exit(appErr.ExitCode.Int())
		}
		os.Exit(apperrors.ExitGeneralError.Int())
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show detailed log output")
	rootCmd.PersistentFlags().StringVarP(&configFileFlag, "config", "c", "", "Path to a YAML filter config file")
}

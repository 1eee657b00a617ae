package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <root> [paths...]",
	Short: "Classify and token-count a file selection",
	Long: `Analyze the given root-relative paths (or every file surviving the
filters when no paths are given) and report per-file token counts,
heaviest files first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := args[0]
		selected := args[1:]

		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		service := newService(logger)
		configText := resolveConfigText(rootPath, logger, nil)

		if len(selected) == 0 {
			nodes, err := service.GetDirectoryTree(rootPath, configText)
			if err != nil {
				return err
			}
			selected = collectFilePaths(nodes)
		}

		result, err := service.AnalyzeRepository(cmd.Context(), rootPath, configText, selected)
		if err != nil {
			return err
		}

		for _, record := range result.FilesInfo {
			if record.IsBinary {
				fmt.Printf("%8s  %s (binary)\n", "-", record.Path)
				continue
			}
			fmt.Printf("%8d  %s\n", record.Tokens, record.Path)
		}
		fmt.Printf("\nTotal tokens: %d  Files: %d  Skipped binary: %d\n",
			result.TotalTokens, len(result.FilesInfo), result.SkippedBinaryFiles)
		if result.SkippedSuspiciousFiles > 0 {
			fmt.Printf("Skipped suspicious: %d\n", result.SkippedSuspiciousFiles)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

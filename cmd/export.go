package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/config"
	apperrors "github.com/codingworkflow/ai-code-fusion-sub000/internal/errors"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/export"
	"github.com/codingworkflow/ai-code-fusion-sub000/internal/walker"
)

var (
	exportOutputFlag string
	exportFormatFlag string
)

var exportCmd = &cobra.Command{
	Use:   "export <root> [paths...]",
	Short: "Export a file selection as a single Markdown or XML document",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := args[0]
		selected := args[1:]

		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		service := newService(logger)

		overrides := map[string]interface{}{}
		if exportFormatFlag != "" {
			overrides["export_format"] = exportFormatFlag
		}
		configText := resolveConfigText(rootPath, logger, overrides)
		cfg := config.ParseText(configText, logger)

		nodes, err := service.GetDirectoryTree(rootPath, configText)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			selected = collectFilePaths(nodes)
		}

		result, err := service.AnalyzeRepository(cmd.Context(), rootPath, configText, selected)
		if err != nil {
			return err
		}

		treeView := ""
		if cfg.IncludeTreeView {
			absRoot, err := filepath.Abs(rootPath)
			if err != nil {
				absRoot = rootPath
			}
			treeView = walker.RenderTree(filepath.Base(absRoot), nodes)
		}

		doc, err := service.ProcessRepository(rootPath, result.FilesInfo, treeView, export.Options{
			Format:         cfg.ExportFormat,
			ShowTokenCount: cfg.ShowTokenCount,
		})
		if err != nil {
			return err
		}

		if exportOutputFlag == "" || exportOutputFlag == "-" {
			fmt.Print(doc.Content)
		} else {
			if err := os.WriteFile(exportOutputFlag, []byte(doc.Content), 0644); err != nil {
				return apperrors.NewExportWriteError(exportOutputFlag, err)
			}
		}

		fmt.Fprintf(os.Stderr, "Exported %d files, %d tokens, %d skipped\n",
			doc.ProcessedFiles, doc.TotalTokens, doc.SkippedFiles)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "", "Export format: markdown or xml")
	rootCmd.AddCommand(exportCmd)
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codingworkflow/ai-code-fusion-sub000/internal/walker"
)

var treeCmd = &cobra.Command{
	Use:   "tree <root>",
	Short: "Print the filtered directory tree for a source root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := args[0]

		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		service := newService(logger)
		configText := resolveConfigText(rootPath, logger, nil)

		nodes, err := service.GetDirectoryTree(rootPath, configText)
		if err != nil {
			return err
		}

		absRoot, err := filepath.Abs(rootPath)
		if err != nil {
			absRoot = rootPath
		}
		fmt.Print(walker.RenderTree(filepath.Base(absRoot), nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

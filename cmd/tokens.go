package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <root> <paths...>",
	Short: "Count approximate tokens for specific files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := args[0]
		paths := args[1:]

		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		service := newService(logger)

		report, err := service.CountFilesTokens(cmd.Context(), rootPath, paths)
		if err != nil {
			return err
		}

		total := 0
		for _, path := range paths {
			tokens := report.Results[path]
			total += tokens
			fmt.Printf("%8d  %s\n", tokens, path)
		}
		fmt.Printf("\nTotal tokens: %d\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

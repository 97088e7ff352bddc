package main

import (
	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/output"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate the template and aggregate caches",
		Long: `Refresh discards all cached template content and generation state,
forcing the next generation to reload from disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := executor.Execute(cmd.Context(), "refresh", nil)
			if err != nil {
				return err
			}
			if !result.Success {
				return commandError(result)
			}
			output.Println(result.Message)
			return nil
		},
	}
}

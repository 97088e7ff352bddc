package main

import (
	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/output"
)

// version is set at build time via -ldflags
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the promptsmith version",
		Run: func(cmd *cobra.Command, args []string) {
			output.Println("promptsmith " + version)
		},
	}
}

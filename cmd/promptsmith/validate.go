package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/commands"
	"github.com/promptsmith/promptsmith/internal/generation"
	"github.com/promptsmith/promptsmith/internal/output"
)

func newValidateCmd() *cobra.Command {
	var (
		adaptation string
		fromLayer  string
		template   string
	)

	cmd := &cobra.Command{
		Use:   "validate <directive> <layer>",
		Short: "Validate that the template for a directive and layer exists",
		Long: `Validate resolves the exact template path the given options denote,
without the adaptation fallback, and reports whether that file exists.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := generation.Request{
				Directive:          args[0],
				Layer:              args[1],
				FromLayer:          fromLayer,
				Adaptation:         adaptation,
				CustomTemplatePath: template,
				PromptBaseDir:      flagPromptDir,
			}

			result, err := executor.Execute(cmd.Context(), "validate", func(c commands.Command) error {
				c.(*commands.ValidateTemplateCommand).Request = req
				return nil
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return commandError(result)
			}

			report, ok := result.Data.(generation.ValidationReport)
			if !ok {
				return commandError(result)
			}
			if report.Valid {
				output.Println(output.StyleSuccess.Render("✓") + " Template valid")
				return nil
			}
			output.Println(output.StyleError.Render("✗") + " " + strings.Join(report.Errors, "; "))
			return errExitSilently
		},
	}

	cmd.Flags().StringVar(&adaptation, "adaptation", "", "Adaptation suffix for the template filename")
	cmd.Flags().StringVar(&fromLayer, "from-layer", "", "Source layer override for the template filename")
	cmd.Flags().StringVar(&template, "template", "", "Custom template path, used verbatim")

	return cmd
}

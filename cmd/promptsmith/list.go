package main

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/output"
)

func newListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all available templates",
		Long: `List enumerates the templates under the template base directory,
one directive/layer/filename path per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := executor.Execute(cmd.Context(), "list", nil)
			if err != nil {
				return err
			}
			if !result.Success {
				return commandError(result)
			}

			listing, ok := result.Data.(models.TemplateListing)
			if !ok {
				return fmt.Errorf("unexpected list result type %T", result.Data)
			}

			templates := listing.Templates
			if filter != "" {
				templates = filterTemplates(templates, filter)
			}

			for _, info := range templates {
				output.Println(output.StylePath.Render(info.Path))
			}
			output.Println(output.StyleDim.Render(fmt.Sprintf("%d templates", len(templates))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy-filter templates by path")

	return cmd
}

// filterTemplates keeps templates whose relative path fuzzy-matches the
// query, best matches first.
func filterTemplates(templates []models.TemplateInfo, query string) []models.TemplateInfo {
	paths := make([]string, len(templates))
	for i, info := range templates {
		paths[i] = info.Path
	}

	matches := fuzzy.Find(query, paths)
	filtered := make([]models.TemplateInfo, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, templates[match.Index])
	}
	return filtered
}

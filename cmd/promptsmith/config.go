package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/config"
	"github.com/promptsmith/promptsmith/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := config.GetConfigFile()
			if err == nil {
				if flagConfig != "" {
					configFile = flagConfig
				}
				exists, _ := config.ConfigFileExists(configFile)
				if exists {
					output.Println(output.StyleDim.Render(fmt.Sprintf("config file: %s (loaded)", configFile)))
				} else {
					output.Println(output.StyleWarning.Render(fmt.Sprintf("config file: %s (missing, using defaults)", configFile)))
				}
			}

			output.Println("promptBaseDir:     " + appConfig.PromptBaseDir)
			output.Println("schemaBaseDir:     " + appConfig.SchemaBaseDir)
			output.Println("workingDir:        " + appConfig.WorkingDir)
			output.Println("destinationPrefix: " + appConfig.DestinationPrefix)
			output.Println("cwd:               " + appConfig.Cwd)
			return nil
		},
	}
	return cmd
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/promptsmith/promptsmith/internal/commands"
	"github.com/promptsmith/promptsmith/internal/config"
	"github.com/promptsmith/promptsmith/internal/generation"
	"github.com/promptsmith/promptsmith/internal/output"
	"github.com/promptsmith/promptsmith/internal/policy"
	"github.com/promptsmith/promptsmith/internal/storage"
	"github.com/promptsmith/promptsmith/internal/validation"
)

var (
	// Global flags
	flagConfig     string
	flagVerbose    bool
	flagPromptDir  string
	flagSchemaDir  string
	flagWorkingDir string

	// Resolved during PersistentPreRunE
	appConfig *config.Config
	service   *generation.Service
	executor  *commands.CommandExecutor
)

// errExitSilently signals a nonzero exit whose message was already printed
var errExitSilently = fmt.Errorf("exit")

// rootCmd is the base command for the promptsmith CLI.
var rootCmd = &cobra.Command{
	Use:   "promptsmith",
	Short: "Prompt template selection and generation",
	Long: `promptsmith resolves prompt templates by directive and layer,
merges variables from flags, stdin and configuration, and renders the
resulting prompt.

It provides commands to:
  - Generate a prompt for a directive/layer pair
  - Validate that a template exists before generating
  - List and refresh the available templates`,
	PersistentPreRunE: initializeGlobals,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (env: PROMPTSMITH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagPromptDir, "prompt-dir", "", "Template base directory (env: PROMPTSMITH_PROMPT_BASE_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagSchemaDir, "schema-dir", "", "Schema base directory (env: PROMPTSMITH_SCHEMA_BASE_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagWorkingDir, "working-dir", "", "Working subdirectory for relative paths (env: PROMPTSMITH_WORKING_DIR)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initializeGlobals sets up logging, loads configuration and wires the
// generation service.
func initializeGlobals(cmd *cobra.Command, args []string) error {
	output.SetupLogging(flagVerbose)

	cfg, err := config.NewLoader().LoadWithDefaults(flagConfig)
	if err != nil {
		return err
	}
	if flagPromptDir != "" {
		cfg.PromptBaseDir = flagPromptDir
	}
	if flagSchemaDir != "" {
		cfg.SchemaBaseDir = flagSchemaDir
	}
	if flagWorkingDir != "" {
		cfg.WorkingDir = flagWorkingDir
	}
	if cfg.WorkingDir != "" {
		if _, err := validation.ValidateDirectory(filepath.Join(cfg.Cwd, cfg.WorkingDir), "Working directory"); err != nil {
			return err
		}
	}
	appConfig = cfg

	baseDir := cfg.PromptBaseDir
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(cfg.Cwd, baseDir)
	}
	store, err := storage.NewStorage(baseDir)
	if err != nil {
		return err
	}

	pol := policy.New(policy.DefaultConfig(),
		policy.WithResolutionStrategies(policy.WorkingDirResolution{}),
		policy.WithTransforms(policy.TrimTransform),
	)

	service, err = generation.NewService(store, pol, cfg.ResolverConfig())
	if err != nil {
		return err
	}
	executor = commands.NewCommandExecutor(service)

	output.Debug("initialized", "promptBaseDir", cfg.PromptBaseDir, "cwd", cfg.Cwd)
	return nil
}

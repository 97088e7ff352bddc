// Package config provides configuration loading and management.
package config

import (
	"os"

	"github.com/promptsmith/promptsmith/internal/resolver"
)

// Config represents the promptsmith configuration.
// Loaded from ~/.promptsmith/config.yaml; environment variables with
// the PROMPTSMITH_ prefix take precedence over file values.
type Config struct {
	// PromptBaseDir is the directory templates are resolved under.
	// Env: PROMPTSMITH_PROMPT_BASE_DIR, Default: ".promptsmith/prompts"
	PromptBaseDir string `mapstructure:"promptBaseDir"`

	// SchemaBaseDir is the directory schemas are resolved under.
	// Env: PROMPTSMITH_SCHEMA_BASE_DIR, Default: ".promptsmith/schema"
	SchemaBaseDir string `mapstructure:"schemaBaseDir"`

	// WorkingDir is joined onto the current directory when resolving
	// relative input and destination paths.
	// Env: PROMPTSMITH_WORKING_DIR
	WorkingDir string `mapstructure:"workingDir"`

	// DestinationPrefix is inserted ahead of relative destination paths.
	// Env: PROMPTSMITH_DESTINATION_PREFIX
	DestinationPrefix string `mapstructure:"destinationPrefix"`

	// Cwd anchors all relative resolution. Filled from the process
	// working directory when empty; settable for tests.
	Cwd string `mapstructure:"-"`
}

// WithDefaults returns a copy with every unset field filled in
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.PromptBaseDir == "" {
		out.PromptBaseDir = resolver.DefaultPromptBaseDir
	}
	if out.SchemaBaseDir == "" {
		out.SchemaBaseDir = resolver.DefaultSchemaBaseDir
	}
	if out.Cwd == "" {
		if cwd, err := os.Getwd(); err == nil {
			out.Cwd = cwd
		}
	}
	return &out
}

// ResolverConfig converts the loaded configuration into the resolver's
// view of it.
func (c *Config) ResolverConfig() resolver.Config {
	return resolver.Config{
		PromptBaseDir:     c.PromptBaseDir,
		SchemaBaseDir:     c.SchemaBaseDir,
		Cwd:               c.Cwd,
		WorkingDir:        c.WorkingDir,
		DestinationPrefix: c.DestinationPrefix,
	}
}

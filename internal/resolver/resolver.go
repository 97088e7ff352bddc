// Package resolver turns configuration, validated identifiers and CLI
// options into filesystem paths. Resolvers are pure: the only filesystem
// access is the injectable existence probe used by the template
// resolver's adaptation fallback.
package resolver

// Default base directories, used when neither an override nor a
// configuration value is present.
const (
	DefaultPromptBaseDir = ".promptsmith/prompts"
	DefaultSchemaBaseDir = ".promptsmith/schema"
)

// Config is the read-only configuration slice resolvers consume. It is
// supplied by the config collaborator; resolvers never load it themselves.
type Config struct {
	PromptBaseDir     string // app_prompt.base_dir
	SchemaBaseDir     string // app_schema.base_dir
	Cwd               string // process working directory
	WorkingDir        string // configured working subdirectory
	DestinationPrefix string // optional output-destination prefix
}

// promptBaseDir applies the base-directory precedence: override first,
// then configuration, then the hard-coded default.
func promptBaseDir(cfg Config, override string) string {
	if override != "" {
		return override
	}
	if cfg.PromptBaseDir != "" {
		return cfg.PromptBaseDir
	}
	return DefaultPromptBaseDir
}

func schemaBaseDir(cfg Config, override string) string {
	if override != "" {
		return override
	}
	if cfg.SchemaBaseDir != "" {
		return cfg.SchemaBaseDir
	}
	return DefaultSchemaBaseDir
}

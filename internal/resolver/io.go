package resolver

import (
	"fmt"
	"path/filepath"

	"github.com/promptsmith/promptsmith/internal/models"
)

// InputResolver resolves the path of the input text file
type InputResolver struct{}

// NewInputResolver creates an input path resolver
func NewInputResolver() *InputResolver {
	return &InputResolver{}
}

// Resolve turns a user-supplied input path into a concrete location.
// Absolute paths are used as-is; relative paths resolve against
// cwd + workingDir. An empty path stays empty: input is optional.
func (r *InputResolver) Resolve(cfg Config, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(cfg.Cwd, cfg.WorkingDir, path))
}

// OutputResolver resolves the destination path of the generated prompt
type OutputResolver struct{}

// NewOutputResolver creates an output path resolver
func NewOutputResolver() *OutputResolver {
	return &OutputResolver{}
}

// Resolve distinguishes three cases: an absolute destination is used
// verbatim, ignoring all other configuration; a relative destination with
// no configured prefix resolves against cwd + workingDir; with a prefix it
// resolves against cwd + workingDir + prefix. "." and ".." segments are
// normalized in the relative cases.
func (r *OutputResolver) Resolve(cfg Config, destination string) string {
	if destination == "" {
		return ""
	}
	if filepath.IsAbs(destination) {
		return destination
	}
	if cfg.DestinationPrefix != "" {
		return filepath.Clean(filepath.Join(cfg.Cwd, cfg.WorkingDir, cfg.DestinationPrefix, destination))
	}
	return filepath.Clean(filepath.Join(cfg.Cwd, cfg.WorkingDir, destination))
}

// SchemaResolver resolves the schema file location for a
// (directive, layer) pair.
type SchemaResolver struct{}

// NewSchemaResolver creates a schema path resolver
func NewSchemaResolver() *SchemaResolver {
	return &SchemaResolver{}
}

// SchemaOptions carries the CLI options affecting schema resolution
type SchemaOptions struct {
	BaseDirOverride string
}

// Resolve derives baseDir/directive/layer/f_<layer>.json with the same
// base-directory precedence as the other resolvers.
func (r *SchemaResolver) Resolve(cfg Config, directive models.Directive, layer models.Layer, opts SchemaOptions) string {
	baseDir := schemaBaseDir(cfg, opts.BaseDirOverride)
	filename := fmt.Sprintf("f_%s.json", layer.String())
	return filepath.Clean(filepath.Join(baseDir, directive.String(), layer.String(), filename))
}

// Package variables builds the substitution map for one generation
// attempt. The builder only merges; validation of the result is the
// generation policy's responsibility.
package variables

import (
	"path/filepath"
	"sort"

	"github.com/promptsmith/promptsmith/internal/models"
)

// Standard variable names populated by the builder
const (
	VarInputTextFile   = "input_text_file"
	VarDestinationPath = "destination_path"
	VarSchemaFile      = "schema_file"
	VarInputText       = "input_text"
)

// reserved names cannot be overridden by user-supplied custom variables
var reserved = map[string]bool{
	VarInputTextFile:   true,
	VarDestinationPath: true,
	VarSchemaFile:      true,
	VarInputText:       true,
}

// Builder assembles TemplateVariables with a fixed precedence that does
// not depend on the order its methods are called: standard variables,
// then file-path variables, then the stdin text, then custom variables.
// Custom variables with empty values are dropped, and custom variables
// never displace the reserved standard names.
type Builder struct {
	inputPath       string
	destinationPath string
	hasDestination  bool
	schemaPath      string
	stdinText       string
	custom          map[string]string
	customOrder     []string
}

// NewBuilder creates an empty variable builder
func NewBuilder() *Builder {
	return &Builder{custom: make(map[string]string)}
}

// WithInputFile records the resolved input path; input_text_file becomes
// its basename.
func (b *Builder) WithInputFile(resolvedPath string) *Builder {
	b.inputPath = resolvedPath
	return b
}

// WithDestination records the resolved output path. destination_path is
// only added when an output was actually specified; otherwise the
// placeholder is deliberately left unresolved.
func (b *Builder) WithDestination(resolvedPath string) *Builder {
	b.destinationPath = resolvedPath
	b.hasDestination = resolvedPath != ""
	return b
}

// WithSchemaFile records the resolved schema path
func (b *Builder) WithSchemaFile(resolvedPath string) *Builder {
	b.schemaPath = resolvedPath
	return b
}

// WithStdin records text read from stdin; input_text is only added when
// the text is non-empty.
func (b *Builder) WithStdin(text string) *Builder {
	b.stdinText = text
	return b
}

// WithCustom adds one user-supplied variable
func (b *Builder) WithCustom(name, value string) *Builder {
	if _, seen := b.custom[name]; !seen {
		b.customOrder = append(b.customOrder, name)
	}
	b.custom[name] = value
	return b
}

// WithCustomMap adds user-supplied variables in sorted-key order so the
// result is deterministic regardless of map iteration.
func (b *Builder) WithCustomMap(custom map[string]string) *Builder {
	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WithCustom(name, custom[name])
	}
	return b
}

// Build produces the immutable variable mapping for this generation
func (b *Builder) Build() models.TemplateVariables {
	vars := models.EmptyVariables()

	if b.inputPath != "" {
		vars = vars.With(VarInputTextFile, filepath.Base(b.inputPath))
	}
	if b.hasDestination {
		vars = vars.With(VarDestinationPath, b.destinationPath)
	}
	if b.schemaPath != "" {
		vars = vars.With(VarSchemaFile, b.schemaPath)
	}
	if b.stdinText != "" {
		vars = vars.With(VarInputText, b.stdinText)
	}

	for _, name := range b.customOrder {
		value := b.custom[name]
		if value == "" {
			continue
		}
		if reserved[name] && vars.Has(name) {
			continue
		}
		vars = vars.With(name, value)
	}

	return vars
}

// Len returns the number of variables the current build would produce
func (b *Builder) Len() int {
	return b.Build().Len()
}

// Has reports whether the current build would contain name
func (b *Builder) Has(name string) bool {
	return b.Build().Has(name)
}

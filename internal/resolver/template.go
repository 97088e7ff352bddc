package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptsmith/promptsmith/internal/models"
)

// TemplateOptions carries the CLI options affecting template resolution
type TemplateOptions struct {
	BaseDirOverride string
	FromLayer       models.Layer // source layer override; zero means use the target layer
	Adaptation      string       // optional adaptation suffix, without the leading underscore
}

// TemplateResolver derives the template file location for a
// (directive, layer) pair. The adaptation fallback probes the filesystem
// through statFn so tests and callers can substitute their own.
type TemplateResolver struct {
	statFn func(string) (os.FileInfo, error)
}

// TemplateResolverOption customizes a TemplateResolver
type TemplateResolverOption func(*TemplateResolver)

// WithStatFunc replaces the existence probe used by the adaptation fallback
func WithStatFunc(statFn func(string) (os.FileInfo, error)) TemplateResolverOption {
	return func(r *TemplateResolver) {
		r.statFn = statFn
	}
}

// NewTemplateResolver creates a template resolver probing via os.Stat
func NewTemplateResolver(opts ...TemplateResolverOption) *TemplateResolver {
	r := &TemplateResolver{statFn: os.Stat}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseDir resolves the template base directory for cfg and opts
func (r *TemplateResolver) BaseDir(cfg Config, opts TemplateOptions) string {
	return promptBaseDir(cfg, opts.BaseDirOverride)
}

// Filename derives the template file name f_<sourceLayer><_adaptation>.md.
// The source layer defaults to layer unless an explicit from-layer override
// is given.
func (r *TemplateResolver) Filename(layer models.Layer, opts TemplateOptions) string {
	sourceLayer := layer
	if !opts.FromLayer.IsZero() {
		sourceLayer = opts.FromLayer
	}
	suffix := ""
	if opts.Adaptation != "" {
		suffix = "_" + opts.Adaptation
	}
	return fmt.Sprintf("f_%s%s.md", sourceLayer.String(), suffix)
}

// Resolve derives the TemplatePath for (directive, layer) under cfg and
// opts. When an adaptation suffix was applied and the resulting file does
// not exist, it silently falls back to the suffix-free path if that one
// exists; otherwise the adaptation path is returned unchanged and
// existence is the downstream validator's concern.
func (r *TemplateResolver) Resolve(cfg Config, directive models.Directive, layer models.Layer, opts TemplateOptions) models.TemplatePath {
	path := models.NewTemplatePath(directive, layer, r.Filename(layer, opts))
	if opts.Adaptation == "" {
		return path
	}

	baseDir := r.BaseDir(cfg, opts)
	if r.exists(path.Resolve(baseDir)) {
		return path
	}

	plainOpts := opts
	plainOpts.Adaptation = ""
	plain := models.NewTemplatePath(directive, layer, r.Filename(layer, plainOpts))
	if r.exists(plain.Resolve(baseDir)) {
		return plain
	}

	return path
}

// FullPath returns the absolute-or-relative filesystem location of path
// under the resolved base directory, with separators normalized.
func (r *TemplateResolver) FullPath(cfg Config, path models.TemplatePath, opts TemplateOptions) string {
	return filepath.Clean(path.Resolve(r.BaseDir(cfg, opts)))
}

func (r *TemplateResolver) exists(path string) bool {
	info, err := r.statFn(path)
	return err == nil && !info.IsDir()
}

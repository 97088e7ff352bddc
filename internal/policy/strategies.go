package policy

import (
	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/resolver"
)

// SelectionStrategy picks the template path for a (directive, layer) pair
type SelectionStrategy interface {
	SelectTemplate(directive models.Directive, layer models.Layer, sctx SelectionContext) (models.TemplatePath, error)
}

// PathSelectionStrategy is the default strategy: the path is derived from
// directive and layer through the template resolver, including the
// adaptation fallback when sctx enables it.
type PathSelectionStrategy struct {
	resolver *resolver.TemplateResolver
}

// NewPathSelectionStrategy creates the default selection strategy
func NewPathSelectionStrategy(r *resolver.TemplateResolver) *PathSelectionStrategy {
	return &PathSelectionStrategy{resolver: r}
}

// SelectTemplate derives the template path. With fallback disabled the
// path is computed without any filesystem probe.
func (s *PathSelectionStrategy) SelectTemplate(directive models.Directive, layer models.Layer, sctx SelectionContext) (models.TemplatePath, error) {
	if !sctx.FallbackEnabled {
		filename := s.resolver.Filename(layer, sctx.TemplateOptions)
		return models.NewTemplatePath(directive, layer, filename), nil
	}
	return s.resolver.Resolve(sctx.Config, directive, layer, sctx.TemplateOptions), nil
}

// ResolutionStrategy supplies a value for a required variable that the
// caller did not provide. An empty return means unresolved.
type ResolutionStrategy interface {
	ResolveVariable(name string, rctx ResolutionContext) string
}

// StaticDefaults resolves variables from a fixed name-to-value map
type StaticDefaults map[string]string

// ResolveVariable returns the configured default for name, if any
func (d StaticDefaults) ResolveVariable(name string, _ ResolutionContext) string {
	return d[name]
}

// WorkingDirResolution derives path-flavored variables from the request's
// working directory.
type WorkingDirResolution struct{}

// ResolveVariable supplies the working directory for the conventional
// working_dir variable name.
func (WorkingDirResolution) ResolveVariable(name string, rctx ResolutionContext) string {
	if name == "working_dir" {
		return rctx.WorkingDirectory
	}
	return ""
}

// Package policy holds the generation policy: which variables a
// generation requires, how missing ones are resolved, how a template is
// selected, and what happens when generation fails.
//
// Strategies (selection, variable resolution, fallback) are injected at
// construction time; the defaults cover the standard path-derived
// selection and leave resolution and fallback empty.
package policy

import (
	"strings"
	"time"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/resolver"
	"github.com/promptsmith/promptsmith/internal/validation"
)

// Config is the immutable policy configuration
type Config struct {
	RequiredVariables  []string
	OptionalVariables  []string
	VariableRules      map[string]validation.FieldRule
	MaxRetries         int
	Timeout            time.Duration
	FallbackStrategies []FallbackStrategy
}

// DefaultConfig returns the policy configuration used when the caller
// supplies none.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Timeout:    30 * time.Second,
	}
}

// SelectionContext carries the per-request inputs of template selection
type SelectionContext struct {
	Config           resolver.Config
	TemplateOptions  resolver.TemplateOptions
	CustomPath       string // repository-relative override, used verbatim
	FallbackEnabled  bool
	WorkingDirectory string
}

// ResolutionContext carries the inputs available to variable resolution
// strategies.
type ResolutionContext struct {
	WorkingDirectory string
}

// Transform is a final normalization applied to resolved variables
type Transform func(name, value string) string

// TrimTransform trims surrounding whitespace from every value
func TrimTransform(_ string, value string) string {
	return strings.TrimSpace(value)
}

// Policy drives template selection, variable validation/resolution and
// failure handling for the generation service.
type Policy struct {
	config      Config
	selection   SelectionStrategy
	resolutions []ResolutionStrategy
	transforms  []Transform
}

// Option customizes a Policy at construction time
type Option func(*Policy)

// WithSelectionStrategy replaces the default path-derived selection
func WithSelectionStrategy(strategy SelectionStrategy) Option {
	return func(p *Policy) {
		p.selection = strategy
	}
}

// WithResolutionStrategies sets the ordered variable resolution chain
func WithResolutionStrategies(strategies ...ResolutionStrategy) Option {
	return func(p *Policy) {
		p.resolutions = strategies
	}
}

// WithTransforms sets the final variable transformations
func WithTransforms(transforms ...Transform) Option {
	return func(p *Policy) {
		p.transforms = transforms
	}
}

// New creates a policy from cfg and options
func New(cfg Config, opts ...Option) *Policy {
	p := &Policy{
		config:    cfg,
		selection: NewPathSelectionStrategy(resolver.NewTemplateResolver()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxRetries returns the configured retry bound
func (p *Policy) MaxRetries() int {
	return p.config.MaxRetries
}

// Timeout returns the configured per-generation timeout
func (p *Policy) Timeout() time.Duration {
	return p.config.Timeout
}

// RequiredVariables returns the configured required variable names
func (p *Policy) RequiredVariables() []string {
	names := make([]string, len(p.config.RequiredVariables))
	copy(names, p.config.RequiredVariables)
	return names
}

// SelectTemplate picks the template path for (directive, layer). A custom
// path override in sctx wins verbatim; existence stays the downstream
// validator's concern either way.
func (p *Policy) SelectTemplate(directive models.Directive, layer models.Layer, sctx SelectionContext) (models.TemplatePath, error) {
	if sctx.CustomPath != "" {
		return parseCustomPath(sctx.CustomPath)
	}
	return p.selection.SelectTemplate(directive, layer, sctx)
}

// ValidateVariables checks that every required variable is present and
// non-empty and that each per-variable rule holds.
func (p *Policy) ValidateVariables(provided models.TemplateVariables) validation.Result {
	return validation.CheckVariables(provided, p.config.RequiredVariables, p.config.VariableRules)
}

// ResolveMissing consults the resolution strategies, in order, for every
// required variable absent from provided. The first strategy returning a
// non-empty value wins; unresolved names stay absent.
func (p *Policy) ResolveMissing(provided models.TemplateVariables, required []string, rctx ResolutionContext) models.TemplateVariables {
	resolved := provided
	for _, name := range required {
		if value, ok := resolved.Get(name); ok && value != "" {
			continue
		}
		for _, strategy := range p.resolutions {
			if value := strategy.ResolveVariable(name, rctx); value != "" {
				resolved = resolved.With(name, value)
				break
			}
		}
	}
	return resolved
}

// TransformVariables applies the configured transformations; with none
// configured it is the identity.
func (p *Policy) TransformVariables(resolved models.TemplateVariables) models.TemplateVariables {
	out := resolved
	for _, transform := range p.transforms {
		out = out.Transform(transform)
	}
	return out
}

// HandleFailure scans the fallback strategies in order and returns the
// action of the first one whose predicate matches err, or nil when no
// strategy matches and the failure is unrecoverable.
func (p *Policy) HandleFailure(err error) *FallbackAction {
	for _, strategy := range p.config.FallbackStrategies {
		if strategy.Matches(err) {
			action := strategy.Action
			return &action
		}
	}
	return nil
}

// parseCustomPath interprets a repository-relative override as the
// directive/layer/filename triple.
func parseCustomPath(custom string) (models.TemplatePath, error) {
	parts := strings.Split(strings.Trim(validation.SanitizePath(custom), "/"), "/")
	if len(parts) != 3 {
		return models.TemplatePath{}, errors.SelectionError(
			"custom template path must have the form directive/layer/filename: " + custom)
	}

	directive, err := models.NewDirective(parts[0])
	if err != nil {
		return models.TemplatePath{}, errors.SelectionError("custom template path has an invalid directive segment")
	}
	layer, err := models.NewLayer(parts[1])
	if err != nil {
		return models.TemplatePath{}, errors.SelectionError("custom template path has an invalid layer segment")
	}

	return models.NewTemplatePath(directive, layer, parts[2]), nil
}

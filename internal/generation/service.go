// Package generation orchestrates prompt generation: it selects a
// template through the policy, loads it from the repository, prepares
// the variable map, and drives the per-template aggregate through the
// policy's retry and fallback handling.
//
// SYSTEM ARCHITECTURE ROLE: This package is the single entry point for
// everything that produces a prompt. CLI commands and the interactive
// UI call the Service and consume its Response; they never touch the
// repository, the policy, or an aggregate directly. The Service owns
// the aggregate cache and serializes generations per template path, so
// concurrent requests for the same template cannot lose attempt counts.
// Failures never escape as errors: every outcome, success or not, is a
// Response.
package generation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/output"
	"github.com/promptsmith/promptsmith/internal/policy"
	"github.com/promptsmith/promptsmith/internal/renderer"
	"github.com/promptsmith/promptsmith/internal/resolver"
	"github.com/promptsmith/promptsmith/internal/validation"
	"github.com/promptsmith/promptsmith/internal/variables"
)

// TemplateRepository is the storage surface the service depends on
type TemplateRepository interface {
	LoadTemplate(ctx context.Context, path models.TemplatePath) (*models.PromptTemplate, error)
	Exists(ctx context.Context, path models.TemplatePath) (bool, error)
	ListAvailable(ctx context.Context) (models.TemplateListing, error)
	Refresh(ctx context.Context) error
}

// Service coordinates template selection, variable preparation and
// prompt generation.
type Service struct {
	repository TemplateRepository
	policy     *policy.Policy
	config     resolver.Config

	renderer       *renderer.Renderer
	inputResolver  *resolver.InputResolver
	outputResolver *resolver.OutputResolver
	schemaResolver *resolver.SchemaResolver
	retryConfig    errors.RetryConfig

	mu         sync.Mutex
	aggregates map[string]*aggregateEntry
}

// aggregateEntry serializes all generations against one template path
type aggregateEntry struct {
	mu        sync.Mutex
	aggregate *Aggregate
}

// ServiceOption customizes a Service at construction time
type ServiceOption func(*Service)

// WithRetryConfig replaces the backoff used between retried attempts
func WithRetryConfig(cfg errors.RetryConfig) ServiceOption {
	return func(s *Service) {
		s.retryConfig = cfg
	}
}

// NewService creates the generation service. Both collaborators are
// mandatory; a nil repository or policy is a configuration error.
func NewService(repository TemplateRepository, pol *policy.Policy, cfg resolver.Config, opts ...ServiceOption) (*Service, error) {
	if repository == nil {
		return nil, errors.ConfigurationError("generation service requires a template repository")
	}
	if pol == nil {
		return nil, errors.ConfigurationError("generation service requires a policy")
	}

	s := &Service{
		repository:     repository,
		policy:         pol,
		config:         cfg,
		renderer:       renderer.NewRenderer(),
		inputResolver:  resolver.NewInputResolver(),
		outputResolver: resolver.NewOutputResolver(),
		schemaResolver: resolver.NewSchemaResolver(),
		retryConfig:    errors.DefaultRetryConfig(),
		aggregates:     make(map[string]*aggregateEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GeneratePrompt runs one generation end to end. It never returns an
// error; every failure is folded into the Response.
func (s *Service) GeneratePrompt(ctx context.Context, req Request) Response {
	if timeout := s.policy.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	directive, err := models.NewDirective(req.Directive)
	if err != nil {
		return failureResponse(TypeTemplateSelectionFailed, err)
	}
	layer, err := models.NewLayer(req.Layer)
	if err != nil {
		return failureResponse(TypeTemplateSelectionFailed, err)
	}

	templateOpts := resolver.TemplateOptions{
		BaseDirOverride: req.PromptBaseDir,
		Adaptation:      req.Adaptation,
	}
	if req.FromLayer != "" {
		fromLayer, err := models.NewLayer(req.FromLayer)
		if err != nil {
			return failureResponse(TypeTemplateSelectionFailed, err)
		}
		templateOpts.FromLayer = fromLayer
	}

	sctx := policy.SelectionContext{
		Config:           s.config,
		TemplateOptions:  templateOpts,
		CustomPath:       req.CustomTemplatePath,
		FallbackEnabled:  !req.NoFallback,
		WorkingDirectory: filepath.Join(s.config.Cwd, s.config.WorkingDir),
	}

	path, err := s.policy.SelectTemplate(directive, layer, sctx)
	if err != nil {
		return failureResponse(TypeTemplateSelectionFailed, err)
	}
	output.Debug("template selected", "path", path.Relative())

	template, err := s.repository.LoadTemplate(ctx, path)
	if err != nil {
		return failureResponse(TypeTemplateLoadingFailed, err)
	}

	vars, err := s.prepareVariables(req, directive, layer, sctx.WorkingDirectory)
	if err != nil {
		return failureResponse(TypeVariableValidationFailed, err)
	}

	entry := s.entryFor(path)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.aggregate == nil {
		entry.aggregate = NewAggregate(path, template, s.renderer)
	}
	return s.generateWithPolicy(ctx, entry.aggregate, vars)
}

// ValidateTemplate reports whether the template for (directive, layer)
// exists. The adaptation fallback is disabled so the report names the
// exact path the options denote.
func (s *Service) ValidateTemplate(ctx context.Context, req Request) ValidationReport {
	directive, err := models.NewDirective(req.Directive)
	if err != nil {
		return ValidationReport{Errors: []string{errors.GetAppError(err).Message}}
	}
	layer, err := models.NewLayer(req.Layer)
	if err != nil {
		return ValidationReport{Errors: []string{errors.GetAppError(err).Message}}
	}

	templateOpts := resolver.TemplateOptions{
		BaseDirOverride: req.PromptBaseDir,
		Adaptation:      req.Adaptation,
	}
	if req.FromLayer != "" {
		fromLayer, err := models.NewLayer(req.FromLayer)
		if err != nil {
			return ValidationReport{Errors: []string{errors.GetAppError(err).Message}}
		}
		templateOpts.FromLayer = fromLayer
	}

	sctx := policy.SelectionContext{
		Config:          s.config,
		TemplateOptions: templateOpts,
		CustomPath:      req.CustomTemplatePath,
		FallbackEnabled: false,
	}
	path, err := s.policy.SelectTemplate(directive, layer, sctx)
	if err != nil {
		return ValidationReport{Errors: []string{errors.GetAppError(err).Message}}
	}

	exists, err := s.repository.Exists(ctx, path)
	if err != nil {
		return ValidationReport{Errors: []string{errors.GetAppError(err).Message}}
	}
	if !exists {
		return ValidationReport{Errors: []string{"Template not found: " + path.Relative()}}
	}
	return ValidationReport{Valid: true}
}

// TemplateVariables returns the variable names the template for a
// request references, in first-appearance order. Used by interactive
// surfaces to know what to ask for before generating.
func (s *Service) TemplateVariables(ctx context.Context, req Request) ([]string, error) {
	directive, err := models.NewDirective(req.Directive)
	if err != nil {
		return nil, err
	}
	layer, err := models.NewLayer(req.Layer)
	if err != nil {
		return nil, err
	}

	templateOpts := resolver.TemplateOptions{
		BaseDirOverride: req.PromptBaseDir,
		Adaptation:      req.Adaptation,
	}
	if req.FromLayer != "" {
		fromLayer, err := models.NewLayer(req.FromLayer)
		if err != nil {
			return nil, err
		}
		templateOpts.FromLayer = fromLayer
	}

	path, err := s.policy.SelectTemplate(directive, layer, policy.SelectionContext{
		Config:          s.config,
		TemplateOptions: templateOpts,
		CustomPath:      req.CustomTemplatePath,
		FallbackEnabled: !req.NoFallback,
	})
	if err != nil {
		return nil, err
	}

	template, err := s.repository.LoadTemplate(ctx, path)
	if err != nil {
		return nil, err
	}
	return template.Content.Variables, nil
}

// ListAvailableTemplates enumerates the templates in the repository
func (s *Service) ListAvailableTemplates(ctx context.Context) (models.TemplateListing, error) {
	return s.repository.ListAvailable(ctx)
}

// RefreshTemplates invalidates the repository's cache and then discards
// every aggregate, in that order, so no aggregate built on stale
// content survives the refresh.
func (s *Service) RefreshTemplates(ctx context.Context) error {
	if err := s.repository.Refresh(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.aggregates = make(map[string]*aggregateEntry)
	s.mu.Unlock()
	output.Debug("template caches refreshed")
	return nil
}

// AggregateAttempts reports the attempt counter for a template path, or
// zero when no aggregate exists for it.
func (s *Service) AggregateAttempts(path models.TemplatePath) int {
	s.mu.Lock()
	entry, ok := s.aggregates[path.String()]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.aggregate == nil {
		return 0
	}
	return entry.aggregate.Attempts()
}

// prepareVariables assembles the substitution map for one request and
// runs it through the policy's resolution, transformation and
// validation stages. Resolved input and schema paths must name existing
// files; a missing one fails the request before any render.
func (s *Service) prepareVariables(req Request, directive models.Directive, layer models.Layer, workingDir string) (models.TemplateVariables, error) {
	builder := variables.NewBuilder()
	if req.InputPath != "" {
		inputPath, err := validation.ValidateFile(s.inputResolver.Resolve(s.config, req.InputPath), "Input file")
		if err != nil {
			return models.EmptyVariables(), err
		}
		builder.WithInputFile(inputPath)
	}
	if req.DestinationPath != "" {
		builder.WithDestination(s.outputResolver.Resolve(s.config, req.DestinationPath))
	}
	if req.UseSchema {
		schemaPath, err := validation.ValidateFile(s.schemaResolver.Resolve(s.config, directive, layer, resolver.SchemaOptions{}), "Schema file")
		if err != nil {
			return models.EmptyVariables(), err
		}
		builder.WithSchemaFile(schemaPath)
	}
	builder.WithStdin(req.StdinText)
	builder.WithCustomMap(req.CustomVariables)

	rctx := policy.ResolutionContext{WorkingDirectory: workingDir}
	vars := s.policy.ResolveMissing(builder.Build(), s.policy.RequiredVariables(), rctx)
	vars = s.policy.TransformVariables(vars)

	if result := s.policy.ValidateVariables(vars); !result.Valid {
		return models.EmptyVariables(), errors.ValidationFailedError(result.Messages())
	}
	return vars, nil
}

// generateWithPolicy drives the aggregate through the retry loop. Which
// failures retry, which fall back to a default, and which abort is
// entirely the policy's call; the loop itself only bounds attempts and
// honors the context.
func (s *Service) generateWithPolicy(ctx context.Context, agg *Aggregate, vars models.TemplateVariables) Response {
	retryCfg := s.retryConfig
	retryCfg.MaxAttempts = s.policy.MaxRetries() + 1
	if retryCfg.MaxAttempts < 1 {
		retryCfg.MaxAttempts = 1
	}

	var prompt models.GeneratedPrompt
	var fallback *policy.FallbackAction

	err := errors.Retry(ctx, retryCfg, func() error {
		generated, genErr := agg.GeneratePrompt(vars)
		if genErr == nil {
			prompt = generated
			return nil
		}

		action := s.policy.HandleFailure(genErr)
		if action == nil {
			return asNonRetryable(genErr)
		}
		switch action.Type {
		case policy.ActionRetry:
			output.Debug("generation failed, retrying", "template", agg.ID(), "attempts", agg.Attempts())
			return genErr
		case policy.ActionUseDefault:
			fallback = action
			return nil
		default:
			return asNonRetryable(genErr)
		}
	})
	if err != nil {
		return failureResponse(TypePromptGenerationFailed, err)
	}

	if fallback != nil {
		return Response{
			Success:          true,
			Content:          fallback.DefaultValue,
			TemplatePath:     agg.ID(),
			AppliedVariables: vars.Map(),
		}
	}
	return successResponse(prompt)
}

// entryFor returns the lock entry for a template path, creating it on
// first use.
func (s *Service) entryFor(path models.TemplatePath) *aggregateEntry {
	key := path.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.aggregates[key]
	if !ok {
		entry = &aggregateEntry{}
		s.aggregates[key] = entry
	}
	return entry
}

// asNonRetryable strips the retryable flag so the retry loop stops on
// errors the policy declined to retry.
func asNonRetryable(err error) error {
	appErr := errors.GetAppError(err)
	appErr.Retryable = false
	return appErr
}

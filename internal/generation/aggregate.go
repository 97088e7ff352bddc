package generation

import (
	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/renderer"
)

// Aggregate is the generation state for one template path. Its identity
// is the repository-relative path string, and it carries the loaded
// template plus a monotonic attempt counter that survives across calls
// for the lifetime of the aggregate.
//
// Aggregates are not safe for concurrent use; the Service serializes
// access per path.
type Aggregate struct {
	path     models.TemplatePath
	template *models.PromptTemplate
	renderer *renderer.Renderer
	attempts int
}

func NewAggregate(path models.TemplatePath, template *models.PromptTemplate, r *renderer.Renderer) *Aggregate {
	if r == nil {
		r = renderer.NewRenderer()
	}
	return &Aggregate{path: path, template: template, renderer: r}
}

// ID returns the aggregate's identity, the repository-relative path
func (a *Aggregate) ID() string {
	return a.path.String()
}

func (a *Aggregate) Template() *models.PromptTemplate {
	return a.template
}

// Attempts reports how many generations this aggregate has performed.
// The counter only ever increases; failed renders count too.
func (a *Aggregate) Attempts() int {
	return a.attempts
}

// GeneratePrompt renders the template against the given variables.
// Every call increments the attempt counter, whether or not the render
// succeeds.
func (a *Aggregate) GeneratePrompt(vars models.TemplateVariables) (models.GeneratedPrompt, error) {
	a.attempts++

	content, err := a.renderer.Render(a.template.Content.Raw, vars)
	if err != nil {
		return models.GeneratedPrompt{}, errors.GenerationError(err)
	}
	return models.NewGeneratedPrompt(content, a.template, vars), nil
}

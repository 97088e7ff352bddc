package models

import "time"

// GeneratedPrompt is the result of one successful generation: the rendered
// content, the source template, and the variables actually applied.
// Created once per successful generation; immutable.
type GeneratedPrompt struct {
	Content          string
	Template         *PromptTemplate
	AppliedVariables TemplateVariables
	GeneratedAt      time.Time
}

// NewGeneratedPrompt wraps a rendering result
func NewGeneratedPrompt(content string, template *PromptTemplate, applied TemplateVariables) GeneratedPrompt {
	return GeneratedPrompt{
		Content:          content,
		Template:         template,
		AppliedVariables: applied,
		GeneratedAt:      time.Now(),
	}
}

// TemplatePathString returns the relative path of the source template,
// or "" when the prompt was produced by a fallback default.
func (p GeneratedPrompt) TemplatePathString() string {
	if p.Template == nil {
		return ""
	}
	return p.Template.ID()
}

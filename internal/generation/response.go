package generation

import (
	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
)

// Request carries everything one generation needs: the raw identifiers
// and the CLI-level options feeding path resolution and the variable
// builder.
type Request struct {
	Directive string
	Layer     string

	// Path options
	FromLayer          string // source-layer override for the template filename
	Adaptation         string // adaptation suffix, without the leading underscore
	CustomTemplatePath string // repository-relative override, used verbatim
	PromptBaseDir      string // template base-dir override
	InputPath          string
	DestinationPath    string
	UseSchema          bool
	NoFallback         bool // disable the adaptation fallback probe

	// Variable sources
	StdinText       string
	CustomVariables map[string]string
}

// failure tags surfaced to callers; kind carries the finer-grained
// AppError code.
const (
	TypeConfigurationInvalid     = "ConfigurationInvalid"
	TypeTemplateSelectionFailed  = "TemplateSelectionFailed"
	TypeTemplateLoadingFailed    = "TemplateLoadingFailed"
	TypeVariableValidationFailed = "VariableValidationFailed"
	TypePromptGenerationFailed   = "PromptGenerationFailed"
)

// ErrorDetail describes a failed generation
type ErrorDetail struct {
	Kind    string      `json:"kind,omitempty"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Response is the outcome of one generation request
type Response struct {
	Success          bool              `json:"success"`
	Content          string            `json:"content,omitempty"`
	TemplatePath     string            `json:"templatePath,omitempty"`
	AppliedVariables map[string]string `json:"appliedVariables,omitempty"`
	Error            *ErrorDetail      `json:"error,omitempty"`
}

// ValidationReport is the outcome of validating a template's existence
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func successResponse(prompt models.GeneratedPrompt) Response {
	return Response{
		Success:          true,
		Content:          prompt.Content,
		TemplatePath:     prompt.TemplatePathString(),
		AppliedVariables: prompt.AppliedVariables.Map(),
	}
}

func failureResponse(failureType string, err error) Response {
	appErr := errors.GetAppError(err)
	detail := &ErrorDetail{
		Kind:    string(appErr.Code),
		Type:    failureType,
		Message: appErr.Message,
	}
	if appErr.Details != "" {
		detail.Details = appErr.Details
	}
	if fieldErrors, ok := appErr.Context["field_errors"]; ok {
		detail.Details = fieldErrors
	}
	return Response{Success: false, Error: detail}
}

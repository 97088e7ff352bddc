package validation

import (
	"fmt"
	"regexp"

	"github.com/promptsmith/promptsmith/internal/models"
)

// FieldRule provides validation rules for an individual variable
type FieldRule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// FieldError represents a single variable validation error
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result represents the outcome of validating a variable mapping
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Messages returns the error messages as plain strings
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// CheckVariables validates provided against the required-variable list and
// the per-variable rules. Every required name must be present and
// non-empty; rules apply to any listed variable that is present.
func CheckVariables(provided models.TemplateVariables, required []string, rules map[string]FieldRule) Result {
	result := Result{Valid: true}

	for _, name := range required {
		if value, ok := provided.Get(name); !ok || value == "" {
			result.Valid = false
			result.Errors = append(result.Errors, FieldError{
				Field:   name,
				Code:    "REQUIRED_VARIABLE_MISSING",
				Message: fmt.Sprintf("Required variable '%s' is missing or empty", name),
			})
		}
	}

	for name, rule := range rules {
		value, ok := provided.Get(name)
		if !ok {
			if rule.Required {
				result.Valid = false
				result.Errors = append(result.Errors, FieldError{
					Field:   name,
					Code:    "REQUIRED_VARIABLE_MISSING",
					Message: fmt.Sprintf("Required variable '%s' is missing or empty", name),
				})
			}
			continue
		}

		if rule.MinLength > 0 && len(value) < rule.MinLength {
			result.Valid = false
			result.Errors = append(result.Errors, FieldError{
				Field:   name,
				Code:    "MIN_LENGTH_VIOLATION",
				Message: fmt.Sprintf("Variable '%s' must be at least %d characters long", name, rule.MinLength),
			})
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			result.Valid = false
			result.Errors = append(result.Errors, FieldError{
				Field:   name,
				Code:    "MAX_LENGTH_VIOLATION",
				Message: fmt.Sprintf("Variable '%s' must be at most %d characters long", name, rule.MaxLength),
			})
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			result.Valid = false
			result.Errors = append(result.Errors, FieldError{
				Field:   name,
				Code:    "PATTERN_MISMATCH",
				Message: fmt.Sprintf("Variable '%s' does not match required pattern", name),
			})
		}
	}

	return result
}

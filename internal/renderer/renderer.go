// Package renderer implements the flat {{name}} substitution primitive.
//
// It is the one place a generation can fail mid-pipeline: a malformed
// template (an unterminated {{ token) yields an error. Placeholders whose
// name is not present in the variable mapping are left verbatim, so a
// template referencing {{destination_path}} without a destination renders
// the token untouched.
package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/promptsmith/promptsmith/internal/models"
)

// variablePattern matches a well-formed {{name}} token
var variablePattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Renderer substitutes template variables into raw template text
type Renderer struct{}

// NewRenderer creates a new renderer instance
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render replaces every {{name}} token present in vars with its value.
// Unknown tokens stay verbatim. Returns an error for malformed templates.
func (r *Renderer) Render(content string, vars models.TemplateVariables) (string, error) {
	if err := checkBalanced(content); err != nil {
		return "", err
	}

	result := variablePattern.ReplaceAllStringFunc(content, func(token string) string {
		name := variablePattern.FindStringSubmatch(token)[1]
		if value, ok := vars.Get(name); ok {
			return value
		}
		return token
	})

	return result, nil
}

// ScanVariables returns the distinct variable names referenced by content,
// in order of first appearance.
func ScanVariables(content string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range variablePattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// checkBalanced rejects templates with an opening {{ that never closes
func checkBalanced(content string) error {
	rest := content
	offset := 0
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			return nil
		}
		close := strings.Index(rest[open:], "}}")
		if close < 0 {
			return fmt.Errorf("malformed template: unterminated placeholder at offset %d", offset+open)
		}
		rest = rest[open+close+2:]
		offset += open + close + 2
	}
}

package models

import "time"

// TemplateContent holds raw template text plus the variable names it
// references, discovered by a {{name}} scan at load time. Immutable once
// loaded.
type TemplateContent struct {
	Raw       string
	Variables []string
}

// HasVariable reports whether the template references name
func (c TemplateContent) HasVariable(name string) bool {
	for _, v := range c.Variables {
		if v == name {
			return true
		}
	}
	return false
}

// PromptTemplate represents a template loaded from disk, with optional
// YAML frontmatter metadata.
type PromptTemplate struct {
	// Frontmatter fields
	Version   string    `yaml:"version,omitempty"`
	Author    string    `yaml:"author,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`

	// Content fields
	Path    TemplatePath    `yaml:"-"` // Resolved identity of the template
	Content TemplateContent `yaml:"-"` // Raw text plus referenced variables
}

// ID returns the template's identity, which is its relative path
func (t *PromptTemplate) ID() string {
	return t.Path.Relative()
}

// TemplateInfo is the listing shape returned by the repository
type TemplateInfo struct {
	Path      string    `json:"path"`
	Directive string    `json:"directive"`
	Layer     string    `json:"layer"`
	Filename  string    `json:"filename"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// TemplateListing is the result of listing available templates
type TemplateListing struct {
	Templates   []TemplateInfo `json:"templates"`
	GeneratedAt time.Time      `json:"generated_at"`
	TotalCount  int            `json:"total_count"`
}

package models

import "path/filepath"

// TemplatePath identifies a template file as directive/layer/filename.
// Instances are built by a selection strategy, never hand-assembled by
// callers of the generation service.
type TemplatePath struct {
	directive Directive
	layer     Layer
	filename  string
}

// NewTemplatePath builds an immutable TemplatePath
func NewTemplatePath(directive Directive, layer Layer, filename string) TemplatePath {
	return TemplatePath{
		directive: directive,
		layer:     layer,
		filename:  filename,
	}
}

// Directive returns the directive component
func (p TemplatePath) Directive() Directive { return p.directive }

// Layer returns the layer component
func (p TemplatePath) Layer() Layer { return p.layer }

// Filename returns the file name component
func (p TemplatePath) Filename() string { return p.filename }

// Relative returns the derived relative path directive/layer/filename
// with forward-slash separators.
func (p TemplatePath) Relative() string {
	return p.directive.String() + "/" + p.layer.String() + "/" + p.filename
}

// Resolve joins the relative path onto baseDir using the platform separator
func (p TemplatePath) Resolve(baseDir string) string {
	return filepath.Join(baseDir, p.directive.String(), p.layer.String(), p.filename)
}

// String returns the relative path; this is the aggregate cache key
func (p TemplatePath) String() string { return p.Relative() }

// IsZero reports whether the path was never constructed
func (p TemplatePath) IsZero() bool { return p.filename == "" }

package models

import (
	"regexp"
	"strings"

	"github.com/promptsmith/promptsmith/internal/errors"
)

// maxIdentifierLength bounds directive and layer names
const maxIdentifierLength = 100

// Directive selects a transformation kind (e.g. "to", "summary").
// The zero value is invalid; construction goes through NewDirective.
type Directive struct {
	value string
}

// Layer selects a document granularity (e.g. "project", "issue", "task").
// The zero value is invalid; construction goes through NewLayer.
type Layer struct {
	value string
}

// IdentifierOption customizes identifier validation
type IdentifierOption func(*identifierRules)

type identifierRules struct {
	pattern *regexp.Regexp
}

// WithPattern restricts the identifier to values matching pattern
func WithPattern(pattern *regexp.Regexp) IdentifierOption {
	return func(r *identifierRules) {
		r.pattern = pattern
	}
}

// NewDirective validates raw and returns a Directive value.
// Validation: trim whitespace, reject empty, reject length > 100, apply the
// optional caller-supplied pattern, and normalize to lower case.
func NewDirective(raw string, opts ...IdentifierOption) (Directive, error) {
	value, err := validateIdentifier("directive", raw, opts)
	if err != nil {
		return Directive{}, err
	}
	return Directive{value: value}, nil
}

// NewLayer validates raw and returns a Layer value, applying the same
// rules as NewDirective.
func NewLayer(raw string, opts ...IdentifierOption) (Layer, error) {
	value, err := validateIdentifier("layer", raw, opts)
	if err != nil {
		return Layer{}, err
	}
	return Layer{value: value}, nil
}

func validateIdentifier(field, raw string, opts []IdentifierOption) (string, error) {
	rules := &identifierRules{}
	for _, opt := range opts {
		opt(rules)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.EmptyInputError(field)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", errors.TooLongError(field, maxIdentifierLength)
	}
	if rules.pattern != nil && !rules.pattern.MatchString(trimmed) {
		return "", errors.InvalidFormatError(field, trimmed)
	}

	return strings.ToLower(trimmed), nil
}

// String returns the normalized identifier value
func (d Directive) String() string { return d.value }

// IsZero reports whether the directive was never constructed
func (d Directive) IsZero() bool { return d.value == "" }

// String returns the normalized identifier value
func (l Layer) String() string { return l.value }

// IsZero reports whether the layer was never constructed
func (l Layer) IsZero() bool { return l.value == "" }

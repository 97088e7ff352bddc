// Package validation provides path sanitization/validation and the
// per-variable rule machinery used by the generation policy.
//
// SYSTEM ARCHITECTURE ROLE:
// The validation layer sits between raw user input (paths, variable maps)
// and the generation core. Path validation is a fixed three-stage pipeline
// (sanitize, syntactic check, stat) returning tagged errors; variable rules
// are declarative FieldRule values evaluated by the policy.
//
// INTEGRATION POINTS:
// - internal/policy: ValidateVariables evaluates FieldRule sets
// - internal/generation: service validates resolved input/schema paths
// - internal/errors: failures carry INVALID_PATH/NOT_FOUND/NOT_FILE/NOT_DIRECTORY codes
package validation

import (
	"os"
	"strings"

	"github.com/promptsmith/promptsmith/internal/errors"
)

// allowedPathChar reports whether r survives sanitization unchanged.
// Allow-list: alphanumeric, "-_./*:" and space. Separators are handled
// before this check runs.
func allowedPathChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.', r == '/', r == '*', r == ':', r == ' ':
		return true
	default:
		return false
	}
}

// SanitizePath normalizes slashes, collapses repeated separators, resolves
// "." and ".." segments with a stack pass, and replaces characters outside
// the allow-list with "_". Unresolvable ".." segments (those that would
// climb above the path root) are kept so the syntactic check can reject
// them.
func SanitizePath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	absolute := strings.HasPrefix(normalized, "/")

	var stack []string
	for _, segment := range strings.Split(normalized, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else if !absolute {
				stack = append(stack, "..")
			}
			// ".." at the root of an absolute path resolves to the root
		default:
			stack = append(stack, sanitizeSegment(segment))
		}
	}

	result := strings.Join(stack, "/")
	if absolute {
		return "/" + result
	}
	if result == "" {
		return "."
	}
	return result
}

func sanitizeSegment(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		if allowedPathChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// checkSyntax rejects sanitized paths that still contain ".." segments
func checkSyntax(sanitized, label string) error {
	for _, segment := range strings.Split(sanitized, "/") {
		if segment == ".." {
			return errors.InvalidPathError(sanitized, label+" must not traverse above its root")
		}
	}
	return nil
}

// ValidateFile sanitizes path and verifies it names an existing regular
// file. Returns the sanitized path, or a tagged error (INVALID_PATH,
// NOT_FOUND, NOT_FILE). It never panics.
func ValidateFile(path, label string) (string, error) {
	sanitized := SanitizePath(path)
	if err := checkSyntax(sanitized, label); err != nil {
		return "", err
	}

	info, err := os.Stat(sanitized)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFoundError(label, sanitized)
		}
		return "", errors.Wrap(err, errors.ErrCodeInvalidPath, label+" could not be checked")
	}
	if info.IsDir() {
		return "", errors.NewAppError(errors.ErrCodeNotFile, label+" is not a file: "+sanitized)
	}

	return sanitized, nil
}

// ValidateDirectory sanitizes path and verifies it names an existing
// directory. Returns the sanitized path, or a tagged error (INVALID_PATH,
// NOT_FOUND, NOT_DIRECTORY).
func ValidateDirectory(path, label string) (string, error) {
	sanitized := SanitizePath(path)
	if err := checkSyntax(sanitized, label); err != nil {
		return "", err
	}

	info, err := os.Stat(sanitized)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFoundError(label, sanitized)
		}
		return "", errors.Wrap(err, errors.ErrCodeInvalidPath, label+" could not be checked")
	}
	if !info.IsDir() {
		return "", errors.NewAppError(errors.ErrCodeNotDirectory, label+" is not a directory: "+sanitized)
	}

	return sanitized, nil
}

// ValidateBaseDir checks a configured base directory value. A base
// directory is configuration, not necessarily a filesystem artifact at
// validation time, so only a non-empty string is required.
func ValidateBaseDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.InvalidPathError(path, "base directory must not be empty")
	}
	return nil
}

// Package storage implements the on-disk template repository.
//
// Templates live under <baseDir>/<directive>/<layer>/<filename> as
// markdown files with optional YAML frontmatter (version, author,
// timestamps). Loaded templates are kept in a TTL-bounded cache;
// Refresh purges it.
package storage

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
	"github.com/promptsmith/promptsmith/internal/renderer"
	"github.com/promptsmith/promptsmith/internal/validation"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// Storage handles all file system operations for prompt templates
type Storage struct {
	baseDir string
	cache   *expirable.LRU[string, *models.PromptTemplate]
}

// Option customizes a Storage instance
type Option func(*options)

type options struct {
	cacheSize int
	cacheTTL  time.Duration
}

// WithCacheTTL overrides the template cache time-to-live
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.cacheTTL = ttl
	}
}

// WithCacheSize overrides the template cache capacity
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// NewStorage creates a repository rooted at baseDir
func NewStorage(baseDir string, opts ...Option) (*Storage, error) {
	if err := validation.ValidateBaseDir(baseDir); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigurationInvalid, "invalid template base directory")
	}

	o := &options{cacheSize: defaultCacheSize, cacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(o)
	}

	return &Storage{
		baseDir: baseDir,
		cache:   expirable.NewLRU[string, *models.PromptTemplate](o.cacheSize, nil, o.cacheTTL),
	}, nil
}

// BaseDir returns the repository root
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// LoadTemplate loads the template at path, serving from cache when the
// entry is still fresh. A missing or unreadable file yields a
// TEMPLATE_LOADING_FAILED error.
func (s *Storage) LoadTemplate(ctx context.Context, path models.TemplatePath) (*models.PromptTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(path.Relative()); ok {
		return cached, nil
	}

	fullPath := path.Resolve(s.baseDir)
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, errors.LoadError(path.Relative(), err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.LoadError(path.Relative(), err)
	}

	template, err := parseTemplateFile(content)
	if err != nil {
		return nil, errors.LoadError(path.Relative(), err)
	}

	template.Path = path
	s.cache.Add(path.Relative(), template)

	return template, nil
}

// Exists reports whether the template file is present on disk
func (s *Storage) Exists(ctx context.Context, path models.TemplatePath) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(path.Resolve(s.baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "template existence check failed")
	}
	return !info.IsDir(), nil
}

// ListAvailable walks the repository and returns every template file,
// keyed by its directive/layer/filename location.
func (s *Storage) ListAvailable(ctx context.Context) (models.TemplateListing, error) {
	listing := models.TemplateListing{GeneratedAt: time.Now()}

	if _, err := os.Stat(s.baseDir); os.IsNotExist(err) {
		return listing, nil
	}

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		relPath, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(relPath), "/")
		if len(parts) != 3 {
			// Files outside the directive/layer/filename convention are
			// not templates.
			return nil
		}

		listing.Templates = append(listing.Templates, models.TemplateInfo{
			Path:      filepath.ToSlash(relPath),
			Directive: parts[0],
			Layer:     parts[1],
			Filename:  parts[2],
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return models.TemplateListing{}, errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "failed to list templates")
	}

	listing.TotalCount = len(listing.Templates)
	return listing, nil
}

// SaveTemplate writes a template file with YAML frontmatter
func (s *Storage) SaveTemplate(ctx context.Context, template *models.PromptTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := template.Path.Resolve(s.baseDir)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "failed to create template directory")
	}

	content, err := serializeTemplate(template)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "failed to serialize template")
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "failed to write template file")
	}

	s.cache.Remove(template.Path.Relative())
	return nil
}

// DeleteTemplate removes a template file and its cache entry
func (s *Storage) DeleteTemplate(ctx context.Context, path models.TemplatePath) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path.Resolve(s.baseDir)); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFoundError("template", path.Relative())
		}
		return errors.Wrap(err, errors.ErrCodeTemplateLoadingFailed, "failed to delete template file")
	}

	s.cache.Remove(path.Relative())
	return nil
}

// Refresh invalidates every cached template
func (s *Storage) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}

// CachedCount returns the number of cached templates, for diagnostics
func (s *Storage) CachedCount() int {
	return s.cache.Len()
}

// Helper functions

// parseTemplateFile splits optional YAML frontmatter from the template
// body and scans the body for {{name}} references.
func parseTemplateFile(content []byte) (*models.PromptTemplate, error) {
	var template models.PromptTemplate

	body := content
	scanner := bufio.NewScanner(bytes.NewReader(content))
	if scanner.Scan() && scanner.Text() == "---" {
		var frontmatterLines []string
		closed := false
		for scanner.Scan() {
			line := scanner.Text()
			if line == "---" {
				closed = true
				break
			}
			frontmatterLines = append(frontmatterLines, line)
		}
		if closed {
			frontmatter := strings.Join(frontmatterLines, "\n")
			if err := yaml.Unmarshal([]byte(frontmatter), &template); err != nil {
				return nil, err
			}
			var contentLines []string
			for scanner.Scan() {
				contentLines = append(contentLines, scanner.Text())
			}
			body = []byte(strings.TrimLeft(strings.Join(contentLines, "\n"), " \t\n"))
		}
	}

	raw := string(body)
	template.Content = models.TemplateContent{
		Raw:       raw,
		Variables: renderer.ScanVariables(raw),
	}
	return &template, nil
}

func serializeTemplate(template *models.PromptTemplate) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(template); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")

	if template.Content.Raw != "" {
		buf.WriteString("\n")
		buf.WriteString(template.Content.Raw)
		if !strings.HasSuffix(template.Content.Raw, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
)

func testPath(t *testing.T, directive, layer, filename string) models.TemplatePath {
	t.Helper()
	d, err := models.NewDirective(directive)
	require.NoError(t, err)
	l, err := models.NewLayer(layer)
	require.NoError(t, err)
	return models.NewTemplatePath(d, l, filename)
}

func writeTemplate(t *testing.T, baseDir string, path models.TemplatePath, content string) {
	t.Helper()
	full := path.Resolve(baseDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestNewStorage(t *testing.T) {
	_, err := NewStorage("  ")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigurationInvalid))

	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestLoadTemplate(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")
	writeTemplate(t, baseDir, path, "Summarize {{input_text}} into {{destination_path}}.\n")

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	template, err := s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path.Relative(), template.ID())
	assert.Contains(t, template.Content.Raw, "{{input_text}}")
	assert.Equal(t, []string{"input_text", "destination_path"}, template.Content.Variables)
}

func TestLoadTemplateFrontmatter(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")
	writeTemplate(t, baseDir, path, `---
version: 1.2.0
author: alice
---

Body with {{name}}.
`)

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	template, err := s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", template.Version)
	assert.Equal(t, "alice", template.Author)
	assert.Equal(t, "Body with {{name}}.", template.Content.Raw)
	assert.Equal(t, []string{"name"}, template.Content.Variables)
}

func TestLoadTemplateMissing(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadTemplate(context.Background(), testPath(t, "summary", "project", "f_project.md"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTemplateLoadingFailed))
	assert.Contains(t, errors.GetAppError(err).Message, "Template not found")
}

func TestLoadTemplateCaching(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")
	writeTemplate(t, baseDir, path, "original {{x}}")

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	_, err = s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CachedCount())

	// The cached copy survives a change on disk until Refresh.
	writeTemplate(t, baseDir, path, "changed {{x}}")
	template, err := s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "original {{x}}", template.Content.Raw)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 0, s.CachedCount())

	template, err = s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "changed {{x}}", template.Content.Raw)
}

func TestCacheTTLExpiry(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")
	writeTemplate(t, baseDir, path, "original")

	s, err := NewStorage(baseDir, WithCacheTTL(20*time.Millisecond))
	require.NoError(t, err)

	_, err = s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)

	writeTemplate(t, baseDir, path, "changed")
	time.Sleep(50 * time.Millisecond)

	template, err := s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "changed", template.Content.Raw)
}

func TestExists(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	exists, err := s.Exists(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, exists)

	writeTemplate(t, baseDir, path, "content")
	exists, err = s.Exists(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListAvailable(t *testing.T) {
	baseDir := t.TempDir()
	writeTemplate(t, baseDir, testPath(t, "summary", "project", "f_project.md"), "a")
	writeTemplate(t, baseDir, testPath(t, "summary", "issue", "f_issue.md"), "b")
	writeTemplate(t, baseDir, testPath(t, "expand", "task", "f_task_strict.md"), "c")

	// Files outside the directive/layer/filename convention are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "README.md"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "summary", "project", "extra"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "summary", "project", "extra", "deep.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "summary", "project", "notes.txt"), []byte("x"), 0644))

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	listing, err := s.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, listing.TotalCount)

	paths := make([]string, 0, len(listing.Templates))
	for _, info := range listing.Templates {
		paths = append(paths, info.Path)
	}
	assert.ElementsMatch(t, []string{
		"summary/project/f_project.md",
		"summary/issue/f_issue.md",
		"expand/task/f_task_strict.md",
	}, paths)
}

func TestListAvailableMissingBaseDir(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	listing, err := s.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Zero(t, listing.TotalCount)
}

func TestSaveAndDeleteTemplate(t *testing.T) {
	baseDir := t.TempDir()
	path := testPath(t, "summary", "project", "f_project.md")

	s, err := NewStorage(baseDir)
	require.NoError(t, err)

	template := &models.PromptTemplate{
		Version: "1.0.0",
		Path:    path,
		Content: models.TemplateContent{Raw: "Render {{x}} here.\n"},
	}
	require.NoError(t, s.SaveTemplate(context.Background(), template))

	loaded, err := s.LoadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", loaded.Version)
	assert.Equal(t, "Render {{x}} here.", loaded.Content.Raw)
	assert.Equal(t, []string{"x"}, loaded.Content.Variables)

	require.NoError(t, s.DeleteTemplate(context.Background(), path))
	exists, err := s.Exists(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.DeleteTemplate(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestContextCancellation(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.LoadTemplate(ctx, testPath(t, "summary", "project", "f_project.md"))
	assert.Error(t, err)
}

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptsmith/promptsmith/internal/models"
)

func mustDirective(t *testing.T, raw string) models.Directive {
	t.Helper()
	directive, err := models.NewDirective(raw)
	require.NoError(t, err)
	return directive
}

func mustLayer(t *testing.T, raw string) models.Layer {
	t.Helper()
	layer, err := models.NewLayer(raw)
	require.NoError(t, err)
	return layer
}

// statFor builds a stat function that reports exactly the given paths as
// existing regular files.
func statFor(existing ...string) func(string) (os.FileInfo, error) {
	set := make(map[string]bool, len(existing))
	for _, p := range existing {
		set[p] = true
	}
	return func(path string) (os.FileInfo, error) {
		if set[path] {
			return fakeFileInfo{}, nil
		}
		return nil, os.ErrNotExist
	}
}

type fakeFileInfo struct{ os.FileInfo }

func (fakeFileInfo) IsDir() bool { return false }

func TestFilename(t *testing.T) {
	r := NewTemplateResolver()
	layer := mustLayer(t, "task")

	assert.Equal(t, "f_task.md", r.Filename(layer, TemplateOptions{}))
	assert.Equal(t, "f_issue.md", r.Filename(layer, TemplateOptions{FromLayer: mustLayer(t, "issue")}))
	assert.Equal(t, "f_task_strict.md", r.Filename(layer, TemplateOptions{Adaptation: "strict"}))
	assert.Equal(t, "f_issue_strict.md", r.Filename(layer, TemplateOptions{
		FromLayer:  mustLayer(t, "issue"),
		Adaptation: "strict",
	}))
}

func TestResolveWithoutAdaptation(t *testing.T) {
	r := NewTemplateResolver(WithStatFunc(func(string) (os.FileInfo, error) {
		panic("resolution without an adaptation must not touch the filesystem")
	}))

	path := r.Resolve(Config{}, mustDirective(t, "summary"), mustLayer(t, "project"), TemplateOptions{})
	assert.Equal(t, "summary/project/f_project.md", path.Relative())
}

func TestResolveDeterministic(t *testing.T) {
	r := NewTemplateResolver(WithStatFunc(statFor()))
	cfg := Config{PromptBaseDir: "base"}
	directive := mustDirective(t, "summary")
	layer := mustLayer(t, "project")
	opts := TemplateOptions{Adaptation: "strict"}

	first := r.Resolve(cfg, directive, layer, opts)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Resolve(cfg, directive, layer, opts))
	}
}

func TestResolveAdaptationFallback(t *testing.T) {
	cfg := Config{PromptBaseDir: "base"}
	directive := mustDirective(t, "summary")
	layer := mustLayer(t, "project")
	opts := TemplateOptions{Adaptation: "strict"}

	adaptationFile := models.NewTemplatePath(directive, layer, "f_project_strict.md").Resolve("base")
	plainFile := models.NewTemplatePath(directive, layer, "f_project.md").Resolve("base")

	t.Run("adaptation file wins when present", func(t *testing.T) {
		r := NewTemplateResolver(WithStatFunc(statFor(adaptationFile, plainFile)))
		path := r.Resolve(cfg, directive, layer, opts)
		assert.Equal(t, "f_project_strict.md", path.Filename())
	})

	t.Run("falls back to the plain file", func(t *testing.T) {
		r := NewTemplateResolver(WithStatFunc(statFor(plainFile)))
		path := r.Resolve(cfg, directive, layer, opts)
		assert.Equal(t, "f_project.md", path.Filename())
	})

	t.Run("keeps the adaptation path when neither exists", func(t *testing.T) {
		r := NewTemplateResolver(WithStatFunc(statFor()))
		path := r.Resolve(cfg, directive, layer, opts)
		assert.Equal(t, "f_project_strict.md", path.Filename())
	})
}

func TestBaseDirPrecedence(t *testing.T) {
	r := NewTemplateResolver()

	assert.Equal(t, DefaultPromptBaseDir, r.BaseDir(Config{}, TemplateOptions{}))
	assert.Equal(t, "configured", r.BaseDir(Config{PromptBaseDir: "configured"}, TemplateOptions{}))
	assert.Equal(t, "override", r.BaseDir(Config{PromptBaseDir: "configured"}, TemplateOptions{BaseDirOverride: "override"}))
}

func TestFullPath(t *testing.T) {
	r := NewTemplateResolver()
	path := models.NewTemplatePath(mustDirective(t, "summary"), mustLayer(t, "project"), "f_project.md")

	full := r.FullPath(Config{PromptBaseDir: "base"}, path, TemplateOptions{})
	assert.Equal(t, filepath.Join("base", "summary", "project", "f_project.md"), full)
}

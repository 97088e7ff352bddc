package generation

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
	"github.com/promptsmith/promptsmith/internal/policy"
	"github.com/promptsmith/promptsmith/internal/resolver"
	"github.com/promptsmith/promptsmith/internal/storage"
)

func writeTemplateFile(t *testing.T, baseDir, relPath, content string) {
	t.Helper()
	full := filepath.Join(baseDir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

type serviceFixture struct {
	baseDir string
	store   *storage.Storage
	service *Service
}

func newFixture(t *testing.T, cfg policy.Config, opts ...policy.Option) *serviceFixture {
	t.Helper()
	baseDir := t.TempDir()

	store, err := storage.NewStorage(baseDir)
	require.NoError(t, err)

	svc, err := NewService(store, policy.New(cfg, opts...), resolver.Config{
		PromptBaseDir: baseDir,
		Cwd:           "/cwd",
	}, WithRetryConfig(errors.RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     2 * time.Millisecond,
		Multiplier:  2.0,
	}))
	require.NoError(t, err)

	return &serviceFixture{baseDir: baseDir, store: store, service: svc}
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	store, err := storage.NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = NewService(nil, policy.New(policy.DefaultConfig()), resolver.Config{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigurationInvalid))

	_, err = NewService(store, nil, resolver.Config{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigurationInvalid))
}

func TestGeneratePromptSuccess(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md",
		"Summarize {{input_text}} to {{destination_path}}.")

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive:       "summary",
		Layer:           "project",
		StdinText:       "the report",
		DestinationPath: "out.md",
	})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "Summarize the report to "+filepath.Join("/cwd", "out.md")+".", resp.Content)
	assert.Equal(t, "summary/project/f_project.md", resp.TemplatePath)
	assert.Equal(t, "the report", resp.AppliedVariables["input_text"])
}

func TestGeneratePromptRoundTrip(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md",
		"Hello {{project_name}} by {{user_name}}")

	vars := map[string]string{"project_name": "test-project", "user_name": "test-user"}
	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive:       "summary",
		Layer:           "project",
		CustomVariables: vars,
	})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "Hello test-project by test-user", resp.Content)
	assert.Equal(t, vars, resp.AppliedVariables)
}

func TestGeneratePromptUnknownTokensStayVerbatim(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md",
		"Keep {{unset_variable}} as-is.")

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive: "summary",
		Layer:     "project",
	})

	require.True(t, resp.Success)
	assert.Equal(t, "Keep {{unset_variable}} as-is.", resp.Content)
}

func TestGeneratePromptInvalidIdentifier(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "  ", Layer: "project"})

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, TypeTemplateSelectionFailed, resp.Error.Type)
}

func TestGeneratePromptMissingTemplate(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, TypeTemplateLoadingFailed, resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "Template not found")
}

func TestGeneratePromptValidationFailure(t *testing.T) {
	cfg := policy.DefaultConfig()
	cfg.RequiredVariables = []string{"input_text"}
	f := newFixture(t, cfg)
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "Needs {{input_text}}.")

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, TypeVariableValidationFailed, resp.Error.Type)
	details, ok := resp.Error.Details.([]string)
	require.True(t, ok)
	assert.Contains(t, details[0], "input_text")
}

func TestGeneratePromptMissingInputFile(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "From {{input_text_file}}")

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive: "summary",
		Layer:     "project",
		InputPath: "definitely/absent/input.txt",
	})

	require.False(t, resp.Success, "a nonexistent input file must not generate")
	require.NotNil(t, resp.Error)
	assert.Equal(t, TypeVariableValidationFailed, resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "not found")
}

func TestGeneratePromptExistingInputFile(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "From {{input_text_file}}")

	inputFile := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(inputFile, []byte("content"), 0644))

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive: "summary",
		Layer:     "project",
		InputPath: inputFile,
	})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "From notes.txt", resp.Content)
}

func TestGeneratePromptSchemaFileValidated(t *testing.T) {
	baseDir := t.TempDir()
	schemaDir := t.TempDir()

	store, err := storage.NewStorage(baseDir)
	require.NoError(t, err)
	svc, err := NewService(store, policy.New(policy.DefaultConfig()), resolver.Config{
		PromptBaseDir: baseDir,
		SchemaBaseDir: schemaDir,
		Cwd:           "/cwd",
	})
	require.NoError(t, err)

	writeTemplateFile(t, baseDir, "summary/project/f_project.md", "Schema: {{schema_file}}")
	req := Request{Directive: "summary", Layer: "project", UseSchema: true}

	resp := svc.GeneratePrompt(context.Background(), req)
	require.False(t, resp.Success, "a missing schema file must not generate")
	assert.Equal(t, TypeVariableValidationFailed, resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "not found")

	schemaFile := filepath.Join(schemaDir, "summary", "project", "f_project.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(schemaFile), 0755))
	require.NoError(t, os.WriteFile(schemaFile, []byte("{}"), 0644))

	resp = svc.GeneratePrompt(context.Background(), req)
	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "Schema: "+schemaFile, resp.Content)
}

func TestGeneratePromptResolvedVariablePassesValidation(t *testing.T) {
	cfg := policy.DefaultConfig()
	cfg.RequiredVariables = []string{"style"}
	f := newFixture(t, cfg, policy.WithResolutionStrategies(policy.StaticDefaults{"style": "terse"}))
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "Style: {{style}}.")

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "Style: terse.", resp.Content)
}

func TestGeneratePromptMalformedTemplate(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "broken {{input_text")

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, TypePromptGenerationFailed, resp.Error.Type)
}

func TestGeneratePromptFallbackDefault(t *testing.T) {
	cfg := policy.DefaultConfig()
	cfg.FallbackStrategies = []policy.FallbackStrategy{
		policy.UseDefault(policy.MessageContains("unterminated"), "fallback content"),
	}
	f := newFixture(t, cfg)
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "broken {{input_text")

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.True(t, resp.Success, "a matched useDefault strategy recovers the generation")
	assert.Equal(t, "fallback content", resp.Content)
	assert.Equal(t, "summary/project/f_project.md", resp.TemplatePath)
}

func TestGeneratePromptRetryExhaustion(t *testing.T) {
	cfg := policy.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.FallbackStrategies = []policy.FallbackStrategy{
		policy.RetryOn(policy.MessageContains("unterminated")),
	}
	f := newFixture(t, cfg)
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "broken {{input_text")

	resp := f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"})

	require.False(t, resp.Success)
	assert.Equal(t, TypePromptGenerationFailed, resp.Error.Type)

	path := templatePath(t, "summary", "project", "f_project.md")
	assert.Equal(t, 3, f.service.AggregateAttempts(path), "initial attempt plus two retries")
}

func TestAggregateReuseAcrossCalls(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "ok")

	req := Request{Directive: "summary", Layer: "project"}
	require.True(t, f.service.GeneratePrompt(context.Background(), req).Success)
	require.True(t, f.service.GeneratePrompt(context.Background(), req).Success)

	path := templatePath(t, "summary", "project", "f_project.md")
	assert.Equal(t, 2, f.service.AggregateAttempts(path))
}

func TestAggregatesIndependentPerPath(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "a")
	writeTemplateFile(t, f.baseDir, "summary/issue/f_issue.md", "b")

	require.True(t, f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "project"}).Success)
	require.True(t, f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "issue"}).Success)
	require.True(t, f.service.GeneratePrompt(context.Background(), Request{Directive: "summary", Layer: "issue"}).Success)

	assert.Equal(t, 1, f.service.AggregateAttempts(templatePath(t, "summary", "project", "f_project.md")))
	assert.Equal(t, 2, f.service.AggregateAttempts(templatePath(t, "summary", "issue", "f_issue.md")))
}

func TestRefreshClearsAggregates(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "v1")

	req := Request{Directive: "summary", Layer: "project"}
	require.True(t, f.service.GeneratePrompt(context.Background(), req).Success)

	require.NoError(t, f.service.RefreshTemplates(context.Background()))
	path := templatePath(t, "summary", "project", "f_project.md")
	assert.Equal(t, 0, f.service.AggregateAttempts(path))

	// Refreshing twice in a row is safe.
	require.NoError(t, f.service.RefreshTemplates(context.Background()))

	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "v2")
	resp := f.service.GeneratePrompt(context.Background(), req)
	require.True(t, resp.Success)
	assert.Equal(t, "v2", resp.Content, "refresh must drop stale template content")
}

func TestCustomTemplatePath(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "custom/place/special.md", "custom {{x}}")

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive:          "summary",
		Layer:              "project",
		CustomTemplatePath: "custom/place/special.md",
		CustomVariables:    map[string]string{"x": "value"},
	})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "custom value", resp.Content)
	assert.Equal(t, "custom/place/special.md", resp.TemplatePath)
}

func TestAdaptationFallbackEndToEnd(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "plain version")

	resp := f.service.GeneratePrompt(context.Background(), Request{
		Directive:  "summary",
		Layer:      "project",
		Adaptation: "strict",
	})

	require.True(t, resp.Success, "unexpected error: %+v", resp.Error)
	assert.Equal(t, "plain version", resp.Content)
	assert.Equal(t, "summary/project/f_project.md", resp.TemplatePath)

	// Once the adaptation file exists it wins.
	writeTemplateFile(t, f.baseDir, "summary/project/f_project_strict.md", "strict version")
	resp = f.service.GeneratePrompt(context.Background(), Request{
		Directive:  "summary",
		Layer:      "project",
		Adaptation: "strict",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "strict version", resp.Content)
}

func TestValidateTemplate(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())

	report := f.service.ValidateTemplate(context.Background(), Request{Directive: "summary", Layer: "project"})
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Template not found")

	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "content")
	report = f.service.ValidateTemplate(context.Background(), Request{Directive: "summary", Layer: "project"})
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestValidateTemplateSkipsAdaptationFallback(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "plain")

	report := f.service.ValidateTemplate(context.Background(), Request{
		Directive:  "summary",
		Layer:      "project",
		Adaptation: "strict",
	})

	assert.False(t, report.Valid, "validation reports on the exact adaptation path")
}

func TestTemplateVariables(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "{{b}} {{a}} {{b}}")

	names, err := f.service.TemplateVariables(context.Background(), Request{Directive: "summary", Layer: "project"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)
}

func TestListAvailableTemplates(t *testing.T) {
	f := newFixture(t, policy.DefaultConfig())
	writeTemplateFile(t, f.baseDir, "summary/project/f_project.md", "a")
	writeTemplateFile(t, f.baseDir, "expand/task/f_task.md", "b")

	listing, err := f.service.ListAvailableTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, listing.TotalCount)
}

func templatePath(t *testing.T, directive, layer, filename string) models.TemplatePath {
	t.Helper()
	d, err := models.NewDirective(directive)
	require.NoError(t, err)
	l, err := models.NewLayer(layer)
	require.NoError(t, err)
	return models.NewTemplatePath(d, l, filename)
}

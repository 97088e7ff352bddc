package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/models"
)

func testTemplate(t *testing.T, raw string) (*models.PromptTemplate, models.TemplatePath) {
	t.Helper()
	path := templatePath(t, "summary", "project", "f_project.md")
	return &models.PromptTemplate{
		Path:    path,
		Content: models.TemplateContent{Raw: raw},
	}, path
}

func TestAggregateID(t *testing.T) {
	template, path := testTemplate(t, "hello")
	agg := NewAggregate(path, template, nil)

	assert.Equal(t, "summary/project/f_project.md", agg.ID())
	assert.Same(t, template, agg.Template())
}

func TestAggregateGeneratePrompt(t *testing.T) {
	template, path := testTemplate(t, "Hello {{name}}!")
	agg := NewAggregate(path, template, nil)

	vars := models.EmptyVariables().With("name", "world")
	prompt, err := agg.GeneratePrompt(vars)
	require.NoError(t, err)

	assert.Equal(t, "Hello world!", prompt.Content)
	assert.Equal(t, "summary/project/f_project.md", prompt.TemplatePathString())
	assert.Equal(t, "world", prompt.AppliedVariables.Map()["name"])
	assert.Equal(t, 1, agg.Attempts())
}

func TestAggregateAttemptsCountFailures(t *testing.T) {
	template, path := testTemplate(t, "broken {{name")
	agg := NewAggregate(path, template, nil)

	for i := 0; i < 3; i++ {
		_, err := agg.GeneratePrompt(models.EmptyVariables())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodePromptGenerationFailed))
	}
	assert.Equal(t, 3, agg.Attempts())
}

func TestAggregateCounterAccumulates(t *testing.T) {
	template, path := testTemplate(t, "static")
	agg := NewAggregate(path, template, nil)

	for i := 1; i <= 5; i++ {
		_, err := agg.GeneratePrompt(models.EmptyVariables())
		require.NoError(t, err)
		assert.Equal(t, i, agg.Attempts())
	}
}

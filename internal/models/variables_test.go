package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateVariablesImmutability(t *testing.T) {
	base := NewTemplateVariables([2]string{"a", "1"}, [2]string{"b", "2"})

	changed := base.With("a", "changed").With("c", "3")

	value, ok := base.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", value, "With must not mutate the receiver")
	assert.False(t, base.Has("c"))

	value, _ = changed.Get("a")
	assert.Equal(t, "changed", value)
	assert.Equal(t, []string{"a", "b", "c"}, changed.Names())
}

func TestTemplateVariablesOrder(t *testing.T) {
	vars := NewTemplateVariables(
		[2]string{"first", "1"},
		[2]string{"second", "2"},
		[2]string{"first", "overwritten"},
	)

	assert.Equal(t, []string{"first", "second"}, vars.Names(), "overwrite keeps first-seen order")
	value, _ := vars.Get("first")
	assert.Equal(t, "overwritten", value)
	assert.Equal(t, 2, vars.Len())
}

func TestTemplateVariablesWithout(t *testing.T) {
	vars := NewTemplateVariables([2]string{"a", "1"}, [2]string{"b", "2"})

	removed := vars.Without("a")
	assert.False(t, removed.Has("a"))
	assert.True(t, vars.Has("a"))

	same := vars.Without("absent")
	assert.Equal(t, vars.Names(), same.Names())
}

func TestTemplateVariablesTransform(t *testing.T) {
	vars := NewTemplateVariables([2]string{"name", "  padded  "})

	trimmed := vars.Transform(func(_ string, value string) string {
		return strings.TrimSpace(value)
	})

	value, _ := trimmed.Get("name")
	assert.Equal(t, "padded", value)
	value, _ = vars.Get("name")
	assert.Equal(t, "  padded  ", value)
}

func TestTemplateVariablesMapIsACopy(t *testing.T) {
	vars := NewTemplateVariables([2]string{"a", "1"})
	m := vars.Map()
	m["a"] = "mutated"

	value, _ := vars.Get("a")
	assert.Equal(t, "1", value)
}

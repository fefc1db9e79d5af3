package card

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptTemplateFormat(t *testing.T) {
	tmpl := PromptTemplate("Hello {name}, you are working on {task}.")
	out := tmpl.Format(map[string]string{"name": "Eric", "task": "routing"})
	assert.Equal(t, "Hello Eric, you are working on routing.", out)
}

func TestPromptTemplateFormatLeavesMissingPlaceholder(t *testing.T) {
	tmpl := PromptTemplate("Hello {name}, {unset} remains.")
	out := tmpl.Format(map[string]string{"name": "Eric"})
	assert.Equal(t, "Hello Eric, {unset} remains.", out)
}

func TestLoadPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eric_prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
system_prompt: "You are {name}, the coordinator."
user_prompt: "{input}"
`), 0o644))

	p, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "You are {name}, the coordinator.", string(p.System))
	assert.Equal(t, "{input}", string(p.User))
}

func TestLoadPromptsMissingField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken_prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`system_prompt: "only this"`), 0o644))

	_, err := LoadPrompts(path)
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"Eric":            "eric",
		"BrowserOperator": "browser_operator",
		"HTTP":            "h_t_t_p",
	}
	for input, want := range cases {
		assert.Equal(t, want, CamelToSnake(input))
	}
}

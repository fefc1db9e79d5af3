package card

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCard(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "eric.yaml", `
name: Eric
role: coordinator
description: Routes tasks to the right specialist.
capabilities:
  skills:
    - routing
    - delegation
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Eric", c.Name)
	assert.Equal(t, "coordinator", c.Role)
	assert.Equal(t, "Routes tasks to the right specialist.", c.Description)

	skills := c.Attr("capabilities", "skills")
	assert.Equal(t, []any{"routing", "delegation"}, skills)
}

func TestLoadCardMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoadCardMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yaml", "not: [valid: yaml")

	_, err := Load(path)
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestCardAttrMissingPath(t *testing.T) {
	c := &Card{Extra: map[string]any{}}
	assert.Nil(t, c.Attr("nope"))
	assert.Nil(t, c.Attr())
}

func TestCardPrompt(t *testing.T) {
	c := &Card{Name: "Eric", Role: "coordinator", Description: "Routes work."}
	assert.Equal(t, "You are Eric. Your role is coordinator. Routes work.", c.Prompt())
}

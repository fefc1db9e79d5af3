package card

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptTemplate is a named string template supporting {placeholder}
// substitution, the format used by agent card/prompt YAML documents.
type PromptTemplate string

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Format substitutes named placeholders with the given values. A
// placeholder with no corresponding value is left unsubstituted.
func (t PromptTemplate) Format(values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(string(t), func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// Prompts holds an agent's system and user prompt templates, loaded from
// a sibling "<snake_case>_prompt.yaml" document.
type Prompts struct {
	System PromptTemplate
	User   PromptTemplate
}

// LoadPrompts reads and parses a prompt document at path. It distinguishes
// file-missing from malformed/missing-field errors.
func LoadPrompts(path string) (*Prompts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var data struct {
		SystemPrompt string `yaml:"system_prompt"`
		UserPrompt   string `yaml:"user_prompt"`
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if data.SystemPrompt == "" || data.UserPrompt == "" {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing system_prompt or user_prompt field")}
	}

	return &Prompts{
		System: PromptTemplate(data.SystemPrompt),
		User:   PromptTemplate(data.UserPrompt),
	}, nil
}

// CamelToSnake converts a Go type name such as "BrowserOperator" into
// "browser_operator", the convention used to auto-resolve an agent's card
// and prompt files from its struct name.
func CamelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

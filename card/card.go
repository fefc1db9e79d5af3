// Package card loads and represents declarative agent identity documents
// (name, role, description, plus free-form nested attributes) used to
// render the roster directory prompt.
package card

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Card is an agent's declarative identity, loaded from a YAML document.
// Required fields are Name, Role, and Description; any other top-level
// keys are preserved verbatim in Extra for dotted-path access.
type Card struct {
	Name        string
	Role        string
	Description string
	Extra       map[string]any

	path string
}

// NotFoundError is returned when the card file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card: file not found: %s", e.Path)
}

// ParseError is returned when the card file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("card: failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads and parses a card document at path. It distinguishes a
// missing file from a malformed one, per spec: the loader must detect
// file-missing and configuration-parse errors as distinct failure kinds.
func Load(path string) (*Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	c := &Card{path: path, Extra: map[string]any{}}
	for key, value := range data {
		switch key {
		case "name":
			c.Name, _ = value.(string)
		case "role":
			c.Role, _ = value.(string)
		case "description":
			c.Description, _ = value.(string)
		default:
			c.Extra[key] = value
		}
	}
	return c, nil
}

// Attr performs dotted-path lookup into the card's nested attributes
// (capabilities.skills, etc.), returning nil if any segment is absent.
func (c *Card) Attr(path ...string) any {
	if len(path) == 0 {
		return nil
	}
	cur, ok := c.Extra[path[0]]
	if !ok {
		return nil
	}
	for _, segment := range path[1:] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return cur
}

// Prompt yields the canonical persona text combining name, role, and
// description.
func (c *Card) Prompt() string {
	return fmt.Sprintf("You are %s. Your role is %s. %s", c.Name, c.Role, c.Description)
}

// String renders a short debug representation, grounded on the original
// AgentCard.__repr__.
func (c *Card) String() string {
	return fmt.Sprintf("Card(name=%q, role=%q)", c.Name, c.Role)
}

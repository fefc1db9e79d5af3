// Package tool defines the contract every callable agent tool implements
// and the JSON-Schema projection used to advertise tools to an LLM
// provider.
package tool

import (
	"context"
	"fmt"
	"sort"
)

// SemanticType is one of the parameter types a tool may declare. The set is
// deliberately narrow: it is the intersection of types every supported
// provider's function-calling schema understands.
type SemanticType string

const (
	TypeInteger SemanticType = "integer"
	TypeNumber  SemanticType = "number"
	TypeBoolean SemanticType = "boolean"
	TypeString  SemanticType = "string"
	TypeArray   SemanticType = "array"
	TypeObject  SemanticType = "object"
)

// Param describes one parameter of a tool: its semantic type, a
// human-readable description, and whether the caller must supply it.
type Param struct {
	Type        SemanticType
	Description string
	Required    bool
}

// Spec is a tool's self-description. Params is an ordered slice (not a
// map) so the spec itself keeps declaration order. Schema emits the
// parameters as a JSON-Schema properties map, and String lists them
// sorted by name, so neither output keeps declaration order.
type Spec struct {
	Name        string
	Description string
	Params      []NamedParam
}

// NamedParam pairs a parameter name with its declaration, preserving the
// order tools declare their parameters in.
type NamedParam struct {
	Name string
	Param
}

// Schema projects the spec to a JSON-Schema object: {type: object,
// properties: {...}, required: [...]}. Required is computed from each
// parameter's Required flag; optional parameters are still emitted in
// properties, just omitted from required, per spec.
func (s Spec) Schema() map[string]any {
	properties := make(map[string]any, len(s.Params))
	var required []string
	for _, p := range s.Params {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// FunctionSchema wraps Schema in the {type: "function", function: {...}}
// envelope shared by every provider's tool-declaration wire format.
func (s Spec) FunctionSchema() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        s.Name,
			"description": s.Description,
			"parameters":  s.Schema(),
		},
	}
}

// String renders a human-readable summary, grounded on the original
// tool's __str__.
func (s Spec) String() string {
	out := fmt.Sprintf("Tool(name=%s, description=%s)", s.Name, s.Description)
	if len(s.Params) == 0 {
		return out
	}
	names := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		names = append(names, fmt.Sprintf("%s (%s): %s", p.Name, p.Type, p.Description))
	}
	sort.Strings(names)
	return out + "\nParameters:\n  " + fmt.Sprintf("%v", names)
}

// Tool is the contract every callable agent tool implements: a
// self-describing Spec plus a single asynchronous Run operation whose
// signature must match the declared parameters.
type Tool interface {
	Spec() Spec
	Run(ctx context.Context, args map[string]any) (any, error)
}

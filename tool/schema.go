package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate checks that the spec's projected JSON-Schema is itself
// well-formed, catching malformed tool declarations before they reach a
// provider adapter.
func (s Spec) Validate() error {
	raw, err := json.Marshal(s.Schema())
	if err != nil {
		return fmt.Errorf("tool: marshal schema for %q: %w", s.Name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(s.Name+".json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("tool: schema for %q is invalid: %w", s.Name, err)
	}
	if _, err := compiler.Compile(s.Name + ".json"); err != nil {
		return fmt.Errorf("tool: schema for %q failed to compile: %w", s.Name, err)
	}
	return nil
}

// ValidateArgs validates parsed tool-call arguments against the spec's
// schema before Tool.Run is invoked.
func (s Spec) ValidateArgs(args map[string]any) error {
	raw, err := json.Marshal(s.Schema())
	if err != nil {
		return fmt.Errorf("tool: marshal schema for %q: %w", s.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(s.Name+".json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("tool: schema for %q is invalid: %w", s.Name, err)
	}
	schema, err := compiler.Compile(s.Name + ".json")
	if err != nil {
		return fmt.Errorf("tool: schema for %q failed to compile: %w", s.Name, err)
	}
	return schema.ValidateInterface(args)
}

// SchemaFromStruct derives a Spec's parameters from a Go struct's JSON/
// jsonschema tags, for tools that prefer a typed argument struct over
// hand-building the semantic-type parameter list.
func SchemaFromStruct(name, description string, v any) Spec {
	reflector := &invopop.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(v)

	required := map[string]bool{}
	for _, r := range schema.Required {
		required[r] = true
	}

	spec := Spec{Name: name, Description: description}
	if schema.Properties == nil {
		return spec
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		spec.Params = append(spec.Params, NamedParam{
			Name: pair.Key,
			Param: Param{
				Type:        SemanticType(pair.Value.Type),
				Description: pair.Value.Description,
				Required:    required[pair.Key],
			},
		})
	}
	return spec
}

package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecSchema(t *testing.T) {
	s := Spec{
		Name:        "get_weather",
		Description: "Fetches current weather for a city.",
		Params: []NamedParam{
			{Name: "city", Param: Param{Type: TypeString, Description: "City name", Required: true}},
			{Name: "units", Param: Param{Type: TypeString, Description: "Celsius or Fahrenheit", Required: false}},
		},
	}

	schema := s.Schema()
	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "city")
	assert.Contains(t, properties, "units")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"city"}, required)
}

func TestSpecSchemaNoParamsRequiredIsEmptySlice(t *testing.T) {
	s := Spec{Name: "ping", Description: "no-op"}
	schema := s.Schema()
	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Empty(t, required)
}

func TestFunctionSchemaEnvelope(t *testing.T) {
	s := Spec{Name: "ping", Description: "no-op"}
	fs := s.FunctionSchema()
	assert.Equal(t, "function", fs["type"])

	fn, ok := fs["function"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ping", fn["name"])
	assert.Equal(t, "no-op", fn["description"])
}

func TestSpecValidate(t *testing.T) {
	s := Spec{
		Name: "add",
		Params: []NamedParam{
			{Name: "a", Param: Param{Type: TypeNumber, Required: true}},
			{Name: "b", Param: Param{Type: TypeNumber, Required: true}},
		},
	}
	require.NoError(t, s.Validate())
}

func TestSpecValidateArgs(t *testing.T) {
	s := Spec{
		Name: "add",
		Params: []NamedParam{
			{Name: "a", Param: Param{Type: TypeNumber, Required: true}},
			{Name: "b", Param: Param{Type: TypeNumber, Required: true}},
		},
	}

	assert.NoError(t, s.ValidateArgs(map[string]any{"a": 1.0, "b": 2.0}))
	assert.Error(t, s.ValidateArgs(map[string]any{"a": 1.0}))
}

type addStruct struct {
	A float64 `json:"a" jsonschema:"description=first operand,required"`
	B float64 `json:"b" jsonschema:"description=second operand,required"`
}

func TestSchemaFromStruct(t *testing.T) {
	spec := SchemaFromStruct("add", "adds two numbers", addStruct{})
	assert.Equal(t, "add", spec.Name)
	assert.NoError(t, spec.Validate())

	names := map[string]bool{}
	for _, p := range spec.Params {
		names[p.Name] = true
	}
	assert.True(t, names["a"])
	assert.True(t, names["b"])
}

type pingTool struct{}

func (pingTool) Spec() Spec {
	return Spec{Name: "ping", Description: "replies pong"}
}

func (pingTool) Run(ctx context.Context, args map[string]any) (any, error) {
	return "pong", nil
}

func TestToolInterfaceSatisfied(t *testing.T) {
	var _ Tool = pingTool{}
	result, err := pingTool{}.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

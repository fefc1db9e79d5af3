package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name string
}

func (s stubTool) Spec() Spec {
	return Spec{Name: s.name, Description: "stub"}
}

func (s stubTool) Run(ctx context.Context, args map[string]any) (any, error) {
	return s.name, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubTool{name: "alpha"}))

	got, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Spec().Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubTool{name: "alpha"}))

	err := r.Register(stubTool{name: "alpha"})
	require.Error(t, err)
	var dup *DuplicateNameError
	assert.ErrorAs(t, err, &dup)
}

func TestRegistrySchemasOrderedByName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubTool{name: "zeta"}))
	require.NoError(t, r.Register(stubTool{name: "alpha"}))

	schemas := r.Schemas()
	require.Len(t, schemas, 2)

	first := schemas[0]["function"].(map[string]any)
	assert.Equal(t, "alpha", first["name"])
}

func TestRegistryLen(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())
	require.NoError(t, r.Register(stubTool{name: "alpha"}))
	assert.Equal(t, 1, r.Len())
}

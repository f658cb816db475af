package registry_test

import (
	"testing"

	"github.com/aretw0/formbind/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := registry.NewRegistry()

	sw, ok := r.Lookup(registry.Switch)
	require.True(t, ok)
	assert.Equal(t, "checked", sw.ValuePropName)
	assert.Equal(t, "state", sw.StatusPropName)
	assert.Equal(t, false, sw.DefaultValue)
	assert.False(t, sw.IsEmpty(false), "false is a value for a switch")
	assert.True(t, sw.IsEmpty(nil))

	cb, _ := r.Lookup(registry.Checkbox)
	assert.True(t, cb.IsEmpty([]any{}))
	assert.False(t, cb.IsEmpty([]any{"a"}))

	in, _ := r.Lookup(registry.Input)
	assert.Equal(t, "", in.DefaultValue)
	assert.True(t, in.IsEmpty(""))
	assert.True(t, in.IsEmpty(0))
	assert.False(t, in.IsEmpty("x"))

	ranged, ok := r.Lookup("rangePicker")
	require.True(t, ok)
	assert.Equal(t, registry.DateRangePicker, ranged.Name)
	assert.True(t, ranged.IsEmpty([]any{nil, nil}))
	assert.False(t, ranged.IsEmpty([]any{nil, "2024-01-01"}))

	sel, _ := r.Lookup(registry.Select)
	assert.False(t, sel.IsEmpty(0))
	single, _ := r.Lookup(registry.SingleSelect)
	assert.True(t, single.IsEmpty(0))
	assert.False(t, single.IsEmpty([]any{}))
}

func TestRegistry_ResolveFallsBackToNotFound(t *testing.T) {
	r := registry.NewRegistry()

	k := r.Resolve("slider")
	assert.Equal(t, registry.NotFound, k.Name)
	assert.False(t, k.IsEmpty(nil))

	assert.Equal(t, registry.Input, r.Resolve("").Name)

	_, err := r.MustLookup("slider")
	assert.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	r := registry.NewEmpty()
	r.Register(registry.Kind{Name: "rating", Aliases: []string{"stars"}, DefaultValue: 0})

	k, ok := r.Lookup("stars")
	require.True(t, ok)
	assert.Equal(t, "rating", k.Name)
	assert.Equal(t, "value", k.ValuePropName)
	assert.True(t, k.IsEmpty(0))
	assert.Equal(t, []string{"rating", "stars"}, r.Names())
}

func TestPreview(t *testing.T) {
	r := registry.NewRegistry()
	ds := []registry.Option{{Value: "r", Label: "Red"}, {Value: "g", Label: "Green"}}

	sw, _ := r.Lookup(registry.Switch)
	assert.Equal(t, "Yes", sw.Preview(true, nil))
	assert.Equal(t, "No", sw.Preview(nil, nil))

	cb, _ := r.Lookup(registry.Checkbox)
	assert.Equal(t, "Red, b", cb.Preview([]any{"r", "b"}, ds))

	sel, _ := r.Lookup(registry.Select)
	assert.Equal(t, "Green", sel.Preview("g", ds))

	in, _ := r.Lookup(registry.Input)
	assert.Equal(t, "42", in.Preview(42, nil))
	assert.Equal(t, "", in.Preview(nil, nil))
}

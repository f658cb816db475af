package schema_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/formbind/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTypes(t *testing.T) {
	tests := []struct {
		typ     schema.Type
		value   any
		wantErr bool
	}{
		{schema.String(), "hello", false},
		{schema.String(), "", false},
		{schema.String(), 42, true},
		{schema.String(), nil, true},

		{schema.Int(), 42, false},
		{schema.Int(), int64(42), false},
		{schema.Int(), uint8(1), false},
		{schema.Int(), float64(42), false},
		{schema.Int(), 42.5, true},
		{schema.Int(), "42", true},

		{schema.Float(), 3.14, false},
		{schema.Float(), 3, false},
		{schema.Float(), "3.14", true},

		{schema.Bool(), true, false},
		{schema.Bool(), 1, true},

		{schema.Date(), "2024-02-29", false},
		{schema.Date(), time.Now(), false},
		{schema.Date(), "29/02/2024", true},
		{schema.Date(), 20240229, true},

		{schema.Any(), nil, false},
		{schema.Any(), struct{}{}, false},

		{schema.Slice(schema.String()), []any{"a", "b"}, false},
		{schema.Slice(schema.String()), []string{}, false},
		{schema.Slice(schema.String()), []any{"a", 1}, true},
		{schema.Slice(schema.String()), "a", true},
		{schema.Slice(schema.String()), nil, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.typ.Name(), tt.value), func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomType(t *testing.T) {
	positive := schema.Custom("positive", func(v any) error {
		i, ok := v.(int)
		if !ok || i <= 0 {
			return fmt.Errorf("must be a positive int")
		}
		return nil
	})

	assert.Equal(t, "positive", positive.Name())
	assert.NoError(t, positive.Validate(3))
	assert.EqualError(t, positive.Validate(-1), "must be a positive int")
}

func TestParseType(t *testing.T) {
	for _, expr := range []string{"string", "int", "float", "bool", "date", "any", "[string]", "[[int]]"} {
		typ, err := schema.ParseType(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, expr, typ.Name())
	}

	typ, err := schema.ParseType(" [ int ] ")
	require.NoError(t, err)
	assert.Equal(t, "[int]", typ.Name())

	for _, expr := range []string{"", "[]", "map", "[uuid]"} {
		_, err := schema.ParseType(expr)
		assert.Error(t, err, expr)
	}
}

func TestParseTypeMap(t *testing.T) {
	s, err := schema.ParseTypeMap(map[string]string{"user.name": "string", "tags": "[string]"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tags", "user.name"}, s.Paths())

	_, err = schema.ParseTypeMap(map[string]string{"age": "number"})
	assert.ErrorContains(t, err, "path age")
}

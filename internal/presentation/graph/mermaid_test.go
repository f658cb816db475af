package graph_test

import (
	"testing"

	"github.com/aretw0/formbind/internal/presentation/graph"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	root := model.NewRoot(map[string]any{"user": map[string]any{"name": "lily"}})

	name, err := root.Field("user.name")
	require.NoError(t, err)
	preview := name.Fork("preview")
	_, err = root.Field("tags.0")
	require.NoError(t, err)
	root.ComputedField("greeting", func() any { return "hi" }, nil)

	defer name.Track(model.Config{})()
	preview.SetError(assert.AnError)

	out := graph.GenerateMermaid(root)

	tests := []struct {
		name     string
		contains string
	}{
		{"root is a circle", root.ID() + `(("&"))`},
		{"object model", `["user"]`},
		{"array model", `["tags"]]`},
		{"model edge", root.ID() + " --> "},
		{"field shape", `[/"name"/]`},
		{"fork label", `[/"name#preview"/]`},
		{"computed shape", `{{"greeting"}}`},
		{"fork edge", "-.->"},
		{"mounted class", "class " + name.ID() + " mounted;"},
		{"invalid class", "class " + preview.ID() + " invalid;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestGenerateMermaid_Empty(t *testing.T) {
	root := model.NewRoot(nil)
	out := graph.GenerateMermaid(root)
	assert.Equal(t, "graph TD\n    "+root.ID()+"((\"&\"))\n", out)
}

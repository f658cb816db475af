package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/valuepath"
)

// GenerateMermaid produces a Mermaid flowchart of the model tree under root.
// It applies semantic styling:
// - Root: ((Circle))
// - Array model: [[Subroutine]]
// - Object or unresolved model: [Rectangle]
// - Field: [/Parallelogram/], computed field: {{Hexagon}}
// Forks hang off their original with a dotted edge. Mounted fields get the
// "mounted" class, fields holding an error the "invalid" class.
func GenerateMermaid(root *model.Model) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root.IterateModels(func(m *model.Model) {
		id := sanitizeMermaidID(m.ID())
		label := m.Name()
		if m.IsRoot() {
			label = "&"
		}

		opener, closer := "[", "]"
		switch {
		case m.IsRoot():
			opener, closer = "((", "))"
		case m.Shape() == valuepath.ShapeArray:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)
		if parent := m.Parent(); parent != nil {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(parent.ID()), id)
		}
	})

	var mounted, invalid []string
	originals := make(map[string]string)
	root.IterateFields(func(f *model.Field) {
		id := sanitizeMermaidID(f.ID())
		label := f.Name()
		if f.ForkName() != model.Original {
			label += "#" + f.ForkName()
		}

		opener, closer := "[/", "/]"
		if f.Kind() == model.KindComputed {
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)

		key := f.Model().ID() + "/" + f.Name()
		if f.ForkName() == model.Original {
			originals[key] = id
			fmt.Fprintf(&sb, "    %s --- %s\n", sanitizeMermaidID(f.Model().ID()), id)
		} else if orig, ok := originals[key]; ok {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", orig, id)
		}

		if f.IsMounted() {
			mounted = append(mounted, id)
		}
		if f.State().Error != nil {
			invalid = append(invalid, id)
		}
	})

	if len(mounted)+len(invalid) > 0 {
		sb.WriteString("\n    %% Field state\n")
		sb.WriteString("    classDef mounted fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")
		for _, id := range mounted {
			fmt.Fprintf(&sb, "    class %s mounted;\n", id)
		}
		for _, id := range invalid {
			fmt.Fprintf(&sb, "    class %s invalid;\n", id)
		}
	}

	return sb.String()
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

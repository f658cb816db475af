package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/formbind/internal/presentation/graph"
)

// RunGraph prints the model tree of a definition as a Mermaid flowchart.
func RunGraph(ctx context.Context, w io.Writer, path string, logger *slog.Logger) error {
	f, err := buildForm(ctx, path, logger)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprint(w, graph.GenerateMermaid(f.Model()))
	return err
}

package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/formbind/internal/presentation/tui"
	"github.com/aretw0/formbind/pkg/model"
)

// RunValidate checks a definition file and validates its initial values. The error
// tree is printed when validation fails.
func RunValidate(ctx context.Context, w io.Writer, path string, logger *slog.Logger) error {
	f, err := buildForm(ctx, path, logger)
	if err != nil {
		return err
	}
	defer f.Close()

	p := tui.NewPrinter(w)
	res, err := f.ValidateAll(ctx, model.TriggerAll)
	if err != nil {
		return err
	}
	if res.HasError {
		p.Failure("%s: %d field(s) invalid", path, countLeaves(res.Errors))
		if err := p.Tree(res.Errors); err != nil {
			return err
		}
		return ErrInvalid
	}
	p.Success("%s is valid (%d fields)", path, len(f.Bindings()))
	return nil
}

func countLeaves(tree any) int {
	switch t := tree.(type) {
	case map[string]any:
		n := 0
		for _, v := range t {
			n += countLeaves(v)
		}
		return n
	case []any:
		n := 0
		for _, v := range t {
			n += countLeaves(v)
		}
		return n
	case nil:
		return 0
	default:
		return 1
	}
}

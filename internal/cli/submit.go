package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/formbind/internal/presentation/tui"
	"github.com/aretw0/formbind/pkg/form"
)

// SubmitOptions are the flags of the submit command.
type SubmitOptions struct {
	Sets   []string
	Filter string
}

// RunSubmit builds the form, applies every --set as a control change and submits.
// Accepted values are printed as JSON; a rejected submit prints the error tree and
// returns ErrInvalid.
func RunSubmit(ctx context.Context, w io.Writer, path string, opts SubmitOptions, logger *slog.Logger) error {
	filter, err := form.ParseValueFilter(opts.Filter)
	if err != nil {
		return err
	}
	f, err := buildForm(ctx, path, logger)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range opts.Sets {
		p, v, err := ParseSet(s)
		if err != nil {
			return err
		}
		if _, err := f.Change(ctx, p, v); err != nil {
			return fmt.Errorf("set %s: %w", p, err)
		}
	}

	res, err := f.Submit(ctx, filter)
	if err != nil {
		return err
	}
	printer := tui.NewPrinter(w)
	if res.HasError {
		printer.Failure("submit rejected")
		if err := printer.Tree(res.Errors); err != nil {
			return err
		}
		return ErrInvalid
	}
	return printer.Tree(res.Values)
}

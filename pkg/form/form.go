package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/valuepath"
	"golang.org/x/sync/errgroup"
)

// ValueFilter selects which values Submit hands to OnSubmit.
type ValueFilter string

const (
	// FilterMounted submits only the values of mounted fields.
	FilterMounted ValueFilter = "mounted"
	// FilterAll submits the whole value tree of the model.
	FilterAll ValueFilter = "all"
)

// ParseValueFilter maps a flag value to a ValueFilter; "" means FilterMounted.
func ParseValueFilter(s string) (ValueFilter, error) {
	switch ValueFilter(s) {
	case "", FilterMounted:
		return FilterMounted, nil
	case FilterAll:
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown value filter %q (want mounted or all)", s)
	}
}

// SubmitOptions configures one Submit call.
type SubmitOptions struct {
	OnSubmit    SubmitFunc
	OnError     ErrorFunc
	ValueFilter ValueFilter
}

// Result is the outcome of a validation pass.
type Result struct {
	HasError bool
	// Errors mirrors the model shape with the message of every failing field at the
	// field path, relative to the validated model.
	Errors any
	// Values is what Submit handed to OnSubmit; nil when validation failed.
	Values any
}

// ClearError resets the stored error of every field fork under m.
func ClearError(m *model.Model) {
	m.Batch(func() {
		m.IterateFields(func(f *model.Field) {
			f.SetError(nil)
		})
	})
}

// ValidateAll validates every mounted field under m concurrently and waits for all
// of them. The returned error is the first validator panic, if any; the error tree
// is complete either way.
func ValidateAll(ctx context.Context, m *model.Model, trigger model.Trigger) (Result, error) {
	type failure struct {
		path valuepath.Path
		err  error
	}
	var (
		mu     sync.Mutex
		failed []failure
		g      errgroup.Group
	)
	m.IterateFields(func(f *model.Field) {
		if !f.IsMounted() {
			return
		}
		g.Go(func() error {
			out, err := f.Validate(ctx, trigger)
			if out.Ran && !out.Superseded && out.Err != nil {
				mu.Lock()
				failed = append(failed, failure{path: f.Path(), err: out.Err})
				mu.Unlock()
			}
			return err
		})
	})
	fault := g.Wait()

	errs := emptyLike(m)
	for _, fl := range failed {
		var err error
		errs, err = valuepath.SetIn(errs, relative(m, fl.path), fl.err.Error())
		if err != nil {
			return Result{}, fmt.Errorf("build error tree: %w", err)
		}
	}
	return Result{HasError: len(failed) > 0, Errors: errs}, fault
}

// Submit validates m and hands either the error tree to OnError or the values to
// OnSubmit. Callbacks run synchronously on the calling goroutine.
func Submit(ctx context.Context, m *model.Model, opts SubmitOptions) (Result, error) {
	start := time.Now()
	logger := m.Logger()

	res, err := ValidateAll(ctx, m, model.TriggerAll)
	defer func() {
		if hook := m.Hooks().OnSubmit; hook != nil {
			hook(ctx, &model.SubmitEvent{
				ModelID:  m.ID(),
				HasError: res.HasError,
				Fault:    err,
				Duration: time.Since(start),
			})
		}
	}()
	if err != nil {
		logger.Error("submit aborted", "model", m.ID(), "err", err)
		return res, err
	}

	if res.HasError {
		logger.Info("submit rejected", "model", m.ID())
		if opts.OnError != nil {
			opts.OnError(ctx, res.Errors, m)
		}
		return res, nil
	}

	if opts.ValueFilter == FilterAll {
		res.Values = m.Values()
		if res.Values == nil {
			res.Values = emptyLike(m)
		}
	} else {
		res.Values, err = mountedValues(m)
		if err != nil {
			return res, err
		}
	}
	logger.Info("submit accepted", "model", m.ID(), "filter", string(opts.ValueFilter))
	if opts.OnSubmit != nil {
		opts.OnSubmit(ctx, res.Values, m)
	}
	return res, nil
}

// Reset empties the values of m, keeping its container shape, and clears every
// field error.
func Reset(m *model.Model, onReset ResetFunc) error {
	var err error
	m.Batch(func() {
		err = m.SetValues(emptyLike(m))
		if err != nil {
			return
		}
		ClearError(m)
	})
	if err != nil {
		return err
	}

	m.Logger().Info("form reset", "model", m.ID())
	if hook := m.Hooks().OnReset; hook != nil {
		hook(m.ID())
	}
	if onReset != nil {
		onReset(m)
	}
	return nil
}

// mountedValues rebuilds a tree from the fields that are mounted and hold a value.
// Tuple fields contribute each part at the part path.
func mountedValues(m *model.Model) (any, error) {
	out := emptyLike(m)
	var err error
	write := func(p valuepath.Path, v any) {
		if err != nil {
			return
		}
		out, err = valuepath.SetIn(out, relative(m, p), v)
	}

	m.IterateFields(func(f *model.Field) {
		if !f.IsMounted() {
			return
		}
		owner := f.Model()
		switch f.Kind() {
		case model.KindTuple:
			for _, part := range f.TupleParts() {
				p := valuepath.Split(part)
				if v, ok := owner.LookupValuePath(p); ok {
					write(owner.Path().Append(p...), v)
				}
			}
		case model.KindComputed:
			if v := f.Value(); v != nil {
				write(f.Path(), v)
			}
		default:
			if v, ok := owner.LookupValuePath(valuepath.Path{f.Name()}); ok {
				write(f.Path(), v)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("build submitted values: %w", err)
	}
	return out, nil
}

// emptyLike returns an empty container matching the shape of m, or of its current
// values while the shape is unresolved.
func emptyLike(m *model.Model) any {
	shape := m.Shape()
	if shape == valuepath.ShapeUnresolved {
		shape = valuepath.ShapeOfValue(m.Values())
	}
	return valuepath.Empty(shape)
}

func relative(m *model.Model, p valuepath.Path) valuepath.Path {
	return p[len(m.Path()):]
}

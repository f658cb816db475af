package binding

import (
	"errors"
	"fmt"

	"github.com/aretw0/formbind/pkg/model"
)

// ErrInvalidWatchTarget is returned by Watch for targets it cannot read.
var ErrInvalidWatchTarget = errors.New("invalid watch target")

// Effect receives the watched value after a change and the value before it.
type Effect func(next, prev any)

// Watch re-runs effect once per batched change of target. A target is a path
// relative to m, a *model.Field, a func() any, or a []string / []any list of paths
// and fields whose values are watched together as one list.
func Watch(m *model.Model, target any, effect Effect, fireImmediately bool) (dispose func(), err error) {
	expr, err := watchExpr(m, target)
	if err != nil {
		return nil, err
	}
	return m.React(expr, effect, fireImmediately), nil
}

func watchExpr(m *model.Model, target any) (func() any, error) {
	switch t := target.(type) {
	case string:
		return func() any { return m.GetValue(t, nil) }, nil
	case *model.Field:
		if t == nil {
			break
		}
		return t.Value, nil
	case func() any:
		if t == nil {
			break
		}
		return t, nil
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return watchExpr(m, items)
	case []any:
		reads := make([]func() any, len(t))
		for i, item := range t {
			switch item.(type) {
			case string, *model.Field:
			default:
				return nil, fmt.Errorf("watch list item %d (%T): %w", i, item, ErrInvalidWatchTarget)
			}
			read, err := watchExpr(m, item)
			if err != nil {
				return nil, err
			}
			reads[i] = read
		}
		return func() any {
			out := make([]any, len(reads))
			for i, read := range reads {
				out[i] = read()
			}
			return out
		}, nil
	}
	return nil, fmt.Errorf("watch %T: %w", target, ErrInvalidWatchTarget)
}

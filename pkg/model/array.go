package model

import (
	"fmt"
	"strconv"

	"github.com/aretw0/formbind/pkg/valuepath"
)

// Len returns the number of items of an array shaped model, 0 when absent.
func (m *Model) Len() int {
	list, _ := m.Values().([]any)
	return len(list)
}

// Append adds v as the last item. m becomes array shaped.
func (m *Model) Append(v any) error {
	if err := m.updateShape(valuepath.ShapeArray); err != nil {
		return err
	}
	var err error
	m.Batch(func() {
		err = m.root.tree.Update(m.Path(), func(cur any) (any, error) {
			list, err := asList(cur)
			if err != nil {
				return nil, err
			}
			return append(list, detach(v)), nil
		})
	})
	return err
}

// RemoveAt deletes item i. Sub-models of later items are renamed so they keep
// addressing the same values.
func (m *Model) RemoveAt(i int) error {
	if err := m.updateShape(valuepath.ShapeArray); err != nil {
		return err
	}
	var err error
	m.Batch(func() {
		var n int
		err = m.root.tree.Update(m.Path(), func(cur any) (any, error) {
			list, err := asList(cur)
			if err != nil {
				return nil, err
			}
			n = len(list)
			if i < 0 || i >= n {
				return nil, fmt.Errorf("remove index %d out of range [0,%d)", i, n)
			}
			next := make([]any, 0, n-1)
			next = append(next, list[:i]...)
			return append(next, list[i+1:]...), nil
		})
		if err != nil {
			return
		}
		m.reindex(func(old int) (int, bool) {
			switch {
			case old == i:
				return 0, false
			case old > i:
				return old - 1, true
			default:
				return old, true
			}
		})
	})
	return err
}

// Move relocates item from to position to, shifting the items between.
func (m *Model) Move(from, to int) error {
	if err := m.updateShape(valuepath.ShapeArray); err != nil {
		return err
	}
	var err error
	m.Batch(func() {
		err = m.root.tree.Update(m.Path(), func(cur any) (any, error) {
			list, err := asList(cur)
			if err != nil {
				return nil, err
			}
			n := len(list)
			if from < 0 || from >= n || to < 0 || to >= n {
				return nil, fmt.Errorf("move %d->%d out of range [0,%d)", from, to, n)
			}
			next := make([]any, 0, n)
			next = append(next, list[:from]...)
			next = append(next, list[from+1:]...)
			next = append(next[:to], append([]any{list[from]}, next[to:]...)...)
			return next, nil
		})
		if err != nil || from == to {
			return
		}
		m.reindex(func(old int) (int, bool) {
			switch {
			case old == from:
				return to, true
			case from < to && old > from && old <= to:
				return old - 1, true
			case to < from && old >= to && old < from:
				return old + 1, true
			default:
				return old, true
			}
		})
	})
	return err
}

// reindex rekeys the item sub-models of m. remap returns the new index of an old
// one, or false when the item is gone.
func (m *Model) reindex(remap func(old int) (int, bool)) {
	type rename struct {
		sub  *Model
		name string
	}
	var renames []rename

	m.mu.Lock()
	if m.children != nil {
		subs := make(map[int]*Model, m.children.Len())
		for pair := m.children.Oldest(); pair != nil; pair = pair.Next() {
			if idx, err := strconv.Atoi(pair.Key); err == nil {
				subs[idx] = pair.Value
			}
		}
		for old, sub := range subs {
			m.children.Delete(strconv.Itoa(old))
			idx, keep := remap(old)
			if !keep {
				continue
			}
			renames = append(renames, rename{sub: sub, name: strconv.Itoa(idx)})
		}
		for _, r := range renames {
			m.children.Set(r.name, r.sub)
		}
	}
	m.mu.Unlock()

	for _, r := range renames {
		if r.sub.name.Get() != r.name {
			r.sub.name.Set(r.name)
		}
	}
}

func asList(cur any) ([]any, error) {
	switch v := cur.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case map[string]any:
		if len(v) == 0 {
			return []any{}, nil
		}
	}
	return nil, ErrNotArray
}

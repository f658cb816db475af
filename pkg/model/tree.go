package model

import (
	"sync"

	"github.com/aretw0/formbind/pkg/reactive"
	"github.com/aretw0/formbind/pkg/valuepath"
)

// Tree is the observable accessor around the raw value tree of one root model.
// Reads are reported to the reactive scope and return detached copies of
// containers; writes notify readers of overlapping paths.
type Tree struct {
	scope    *reactive.Scope
	onChange func(valuepath.Path)

	mu   sync.RWMutex
	root any
}

func newTree(scope *reactive.Scope, initial any, onChange func(valuepath.Path)) *Tree {
	if initial == nil {
		initial = map[string]any{}
	}
	return &Tree{
		scope:    scope,
		onChange: onChange,
		root:     detach(initial),
	}
}

// detach makes v safe to store: typed containers become map[string]any / []any and
// the caller's containers are not aliased.
func detach(v any) any {
	return valuepath.Normalize(valuepath.Clone(v))
}

// Get reads the value at p.
func (t *Tree) Get(p valuepath.Path) (any, bool) {
	t.scope.Observe(p)
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := valuepath.Get(t.root, p)
	return valuepath.Clone(v), ok
}

// GetIn reads the value at p or def.
func (t *Tree) GetIn(p valuepath.Path, def any) any {
	v, ok := t.Get(p)
	if !ok || v == nil {
		return def
	}
	return v
}

// exists reports a non-nil value at p without recording a read.
func (t *Tree) exists(p valuepath.Path) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := valuepath.Get(t.root, p)
	return ok && v != nil
}

// Set writes v at p.
func (t *Tree) Set(p valuepath.Path, v any) error {
	if err := t.write(p, func(any) (any, error) { return detach(v), nil }); err != nil {
		return err
	}
	t.changed(p)
	return nil
}

// Update replaces the value at p with fn(current). fn receives the stored value
// and may modify it in place.
func (t *Tree) Update(p valuepath.Path, fn func(cur any) (any, error)) error {
	if err := t.write(p, fn); err != nil {
		return err
	}
	t.changed(p)
	return nil
}

func (t *Tree) write(p valuepath.Path, fn func(cur any) (any, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, _ := valuepath.Get(t.root, p)
	next, err := fn(cur)
	if err != nil {
		return err
	}
	root, err := valuepath.SetIn(t.root, p, next)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Replace swaps the whole tree. A nil tree becomes an empty object.
func (t *Tree) Replace(v any) {
	if v == nil {
		v = map[string]any{}
	}
	t.mu.Lock()
	t.root = detach(v)
	t.mu.Unlock()
	t.changed(nil)
}

// Snapshot returns a detached copy of the whole tree.
func (t *Tree) Snapshot() any {
	v, _ := t.Get(nil)
	return v
}

func (t *Tree) changed(p valuepath.Path) {
	if t.onChange != nil {
		t.onChange(p)
	}
	t.scope.Changed(p)
}

package model

import (
	"maps"

	"github.com/aretw0/formbind/pkg/reactive"
)

// Bag is an observable key/value store for UI-facing state that is not part of the
// value tree (preview toggles, custom field flags).
type Bag struct {
	cell *reactive.Cell[map[string]any]
}

func newBag(scope *reactive.Scope) *Bag {
	return &Bag{cell: reactive.NewCell(scope, map[string]any{})}
}

// Get returns the value stored under key.
func (b *Bag) Get(key string) (any, bool) {
	v, ok := b.cell.Get()[key]
	return v, ok
}

// Set stores v under key.
func (b *Bag) Set(key string, v any) {
	b.cell.Update(func(m map[string]any) map[string]any {
		next := maps.Clone(m)
		next[key] = v
		return next
	})
}

// Delete removes key.
func (b *Bag) Delete(key string) {
	b.cell.Update(func(m map[string]any) map[string]any {
		next := maps.Clone(m)
		delete(next, key)
		return next
	})
}

// All returns a copy of every entry.
func (b *Bag) All() map[string]any {
	return maps.Clone(b.cell.Get())
}

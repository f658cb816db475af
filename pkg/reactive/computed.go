package reactive

import (
	"sync"

	"github.com/aretw0/formbind/pkg/valuepath"
)

// Computed memoizes a derived value until one of the paths it read changes.
type Computed[T any] struct {
	scope *Scope
	fn    func() T

	mu    sync.Mutex
	value T
	deps  []valuepath.Path
	valid bool
	gen   uint64
}

// NewComputed registers a derived value on the scope. Nothing is evaluated until Get.
func NewComputed[T any](s *Scope, fn func() T) *Computed[T] {
	c := &Computed[T]{scope: s, fn: fn}
	s.register(c)
	return c
}

// Get returns the cached value or re-derives it. Either way the dependencies are
// reported to enclosing tracking frames, so reactions reading a computed value
// re-run when its inputs change.
func (c *Computed[T]) Get() T {
	c.mu.Lock()
	if c.valid {
		v, deps := c.value, c.deps
		c.mu.Unlock()
		for _, d := range deps {
			c.scope.Observe(d)
		}
		return v
	}
	gen := c.gen
	c.mu.Unlock()

	var v T
	deps := c.scope.Track(func() { v = c.fn() })

	c.mu.Lock()
	if c.gen == gen {
		c.value, c.deps, c.valid = v, deps, true
	}
	c.mu.Unlock()

	for _, d := range deps {
		c.scope.Observe(d)
	}
	return v
}

func (c *Computed[T]) overlaps(changed []valuepath.Path) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.valid || anyOverlap(c.deps, changed)
}

func (c *Computed[T]) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

// Cell is a single observable value outside the value tree.
type Cell[T any] struct {
	scope *Scope
	key   valuepath.Path

	mu    sync.RWMutex
	value T
}

// NewCell creates an observable holding v.
func NewCell[T any](s *Scope, v T) *Cell[T] {
	return &Cell[T]{scope: s, key: s.CellKey(), value: v}
}

// Get returns the value and records the read.
func (c *Cell[T]) Get() T {
	c.scope.Observe(c.key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies dependents.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	c.scope.Changed(c.key)
}

// Update applies fn to the value under the cell lock, then notifies dependents.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	c.mu.Unlock()
	c.scope.Changed(c.key)
}

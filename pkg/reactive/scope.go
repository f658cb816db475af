package reactive

import (
	"reflect"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/aretw0/formbind/pkg/valuepath"
)

// cellNamespace prefixes keys of observables that do not live in the value tree.
const cellNamespace = "\x00cell"

type frame struct {
	seen  map[string]struct{}
	paths []valuepath.Path
}

func (f *frame) add(p valuepath.Path) {
	k := key(p)
	if _, ok := f.seen[k]; ok {
		return
	}
	f.seen[k] = struct{}{}
	f.paths = append(f.paths, p)
}

type invalidator interface {
	overlaps(changed []valuepath.Path) bool
	invalidate()
}

// Scope coordinates tracked reads, batched writes and reactions for one value tree.
//
// Reads are recorded into every active tracking frame, including frames opened by
// other goroutines. Dependencies may therefore be over-approximated but are never
// missed; reactions compare values before firing so extra re-evaluations are silent.
type Scope struct {
	frameMu sync.Mutex
	frames  []*frame

	mu        sync.Mutex
	depth     int
	pending   []valuepath.Path
	reactions map[uint64]*reaction
	computeds []invalidator

	nextID atomic.Uint64
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{reactions: make(map[uint64]*reaction)}
}

// Observe records a read of p in the active tracking frames, if any.
func (s *Scope) Observe(p valuepath.Path) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	for _, f := range s.frames {
		f.add(p)
	}
}

// Track runs fn and returns the distinct paths read while it ran.
func (s *Scope) Track(fn func()) []valuepath.Path {
	f := &frame{seen: make(map[string]struct{})}

	s.frameMu.Lock()
	s.frames = append(s.frames, f)
	s.frameMu.Unlock()

	defer func() {
		s.frameMu.Lock()
		for i, other := range s.frames {
			if other == f {
				s.frames = append(s.frames[:i], s.frames[i+1:]...)
				break
			}
		}
		s.frameMu.Unlock()
	}()

	fn()
	return f.paths
}

// Changed records a write of p. Outside a batch dependents are notified at once.
func (s *Scope) Changed(p valuepath.Path) {
	s.mu.Lock()
	if s.depth > 0 {
		s.pending = append(s.pending, p)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.flush([]valuepath.Path{p})
}

// Batch runs fn with writes coalesced. Dependents are notified once, after the
// outermost batch returns.
func (s *Scope) Batch(fn func()) {
	s.mu.Lock()
	s.depth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.depth--
		var changed []valuepath.Path
		if s.depth == 0 {
			changed, s.pending = s.pending, nil
		}
		s.mu.Unlock()
		if len(changed) > 0 {
			s.flush(changed)
		}
	}()

	fn()
}

func (s *Scope) flush(changed []valuepath.Path) {
	s.mu.Lock()
	for _, c := range s.computeds {
		if c.overlaps(changed) {
			c.invalidate()
		}
	}
	ids := make([]uint64, 0, len(s.reactions))
	for id, r := range s.reactions {
		if r.overlaps(changed) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	due := make([]*reaction, 0, len(ids))
	for _, id := range ids {
		due = append(due, s.reactions[id])
	}
	s.mu.Unlock()

	for _, r := range due {
		r.run()
	}
}

// React runs expr under tracking and calls effect(next, prev) every time a change to
// one of the paths expr read produces a different value. With fireImmediately the
// effect also runs once for the initial value, with a nil prev.
func (s *Scope) React(expr func() any, effect func(next, prev any), fireImmediately bool) (dispose func()) {
	r := &reaction{scope: s, expr: expr, effect: effect}

	s.mu.Lock()
	id := s.nextID.Add(1)
	s.reactions[id] = r
	s.mu.Unlock()

	r.init(fireImmediately)

	return func() {
		s.mu.Lock()
		delete(s.reactions, id)
		s.mu.Unlock()
		r.mu.Lock()
		r.disposed = true
		r.mu.Unlock()
	}
}

// CellKey returns the key used for an observable that is not part of the value tree.
func (s *Scope) CellKey() valuepath.Path {
	return valuepath.Path{cellNamespace, strconv.FormatUint(s.nextID.Add(1), 10)}
}

func (s *Scope) register(c invalidator) {
	s.mu.Lock()
	s.computeds = append(s.computeds, c)
	s.mu.Unlock()
}

// maxReruns bounds how often one flush may re-run a reaction whose effect keeps
// changing its own dependencies.
const maxReruns = 100

type reaction struct {
	scope  *Scope
	expr   func() any
	effect func(next, prev any)

	mu       sync.Mutex
	deps     []valuepath.Path
	prev     any
	running  bool
	dirty    bool
	disposed bool
}

func (r *reaction) init(fireImmediately bool) {
	var v any
	deps := r.scope.Track(func() { v = r.expr() })

	r.mu.Lock()
	r.deps = deps
	r.prev = v
	r.mu.Unlock()

	if fireImmediately {
		r.effect(v, nil)
	}
}

func (r *reaction) overlaps(changed []valuepath.Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return anyOverlap(r.deps, changed)
}

// run re-evaluates the reaction. A run requested while one is in progress (an effect
// writing to its own dependencies, or another goroutine) is folded into the active
// run as one more iteration.
func (r *reaction) run() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	if r.running {
		r.dirty = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	for i := 0; ; i++ {
		var v any
		deps := r.scope.Track(func() { v = r.expr() })

		r.mu.Lock()
		r.deps = deps
		prev := r.prev
		changed := !reflect.DeepEqual(v, prev)
		if changed {
			r.prev = v
		}
		r.mu.Unlock()

		if changed {
			r.effect(v, prev)
		}

		r.mu.Lock()
		if !r.dirty || r.disposed || i >= maxReruns {
			r.running = false
			r.dirty = false
			r.mu.Unlock()
			return
		}
		r.dirty = false
		r.mu.Unlock()
	}
}

func anyOverlap(deps, changed []valuepath.Path) bool {
	for _, d := range deps {
		for _, c := range changed {
			if d.Overlaps(c) {
				return true
			}
		}
	}
	return false
}

func key(p valuepath.Path) string {
	n := 0
	for _, s := range p {
		n += len(s) + 1
	}
	b := make([]byte, 0, n)
	for _, s := range p {
		b = append(b, s...)
		b = append(b, 0)
	}
	return string(b)
}

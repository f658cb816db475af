package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/formbind/pkg/reactive"
	"github.com/aretw0/formbind/pkg/valuepath"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Original is the fork name of the field returned by a plain lookup.
const Original = "original"

// Kind is the accessor variant of a field.
type Kind string

const (
	KindNormal   Kind = "normal"
	KindTuple    Kind = "tuple"
	KindComputed Kind = "computed"
)

// FieldState is the observable validation state of one field instance.
type FieldState struct {
	Error      error
	Validating bool
}

// Outcome reports what a Validate call did.
type Outcome struct {
	Err        error // validation failure recorded for the field
	Ran        bool  // false when unmounted or the trigger is disabled
	Superseded bool  // nothing was recorded: a later run replaced this one or ctx ended
}

// Field is a bound accessor over one or more paths of its owning model. Forks of
// one field share the value accessor but not mount or validation state.
type Field struct {
	id         string
	name       string
	fork       string
	kind       Kind
	parent     *Model
	tupleParts []string
	computed   *reactive.Computed[any]
	setter     func(any) error

	state *reactive.Cell[FieldState]
	extra *Bag

	mu       sync.Mutex
	config   *Config
	mounted  bool
	mountGen uint64
	runGen   uint64
	cancel   func()
}

// forkSet is the registry of every fork of one logical field, owned by the model.
type forkSet struct {
	forks *orderedmap.OrderedMap[string, *Field]
}

// original returns the registered original field for name, creating it with build.
func (m *Model) original(name string, build func() *Field) *Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	if set, ok := m.fields.Get(name); ok {
		f, _ := set.forks.Get(Original)
		return f
	}
	f := build()
	m.initField(f, name, Original)
	set := &forkSet{forks: orderedmap.New[string, *Field]()}
	set.forks.Set(Original, f)
	m.fields.Set(name, set)
	return f
}

// fork returns the fork of name, creating it from template when missing.
func (m *Model) fork(template *Field, forkName string) *Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, _ := m.fields.Get(template.name)
	if f, ok := set.forks.Get(forkName); ok {
		return f
	}
	f := &Field{
		kind:       template.kind,
		tupleParts: template.tupleParts,
		computed:   template.computed,
		setter:     template.setter,
	}
	m.initField(f, template.name, forkName)
	set.forks.Set(forkName, f)
	return f
}

func (m *Model) initField(f *Field, name, forkName string) {
	f.id = m.root.fieldIDs.nextID()
	f.name = name
	f.fork = forkName
	f.parent = m
	f.state = reactive.NewCell(m.root.scope, FieldState{})
	f.extra = newBag(m.root.scope)
}

func (m *Model) fieldList() []*Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Field
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		for fp := pair.Value.forks.Oldest(); fp != nil; fp = fp.Next() {
			out = append(out, fp.Value)
		}
	}
	return out
}

// ID is unique within the tree.
func (f *Field) ID() string { return f.id }

// Name is the path segment, or the synthetic tuple / computed name.
func (f *Field) Name() string { return f.name }

// ForkName is Original unless f was created by Fork.
func (f *Field) ForkName() string { return f.fork }

// Kind returns the accessor variant.
func (f *Field) Kind() Kind { return f.kind }

// Model returns the owning model.
func (f *Field) Model() *Model { return f.parent }

// TupleParts returns the names a tuple field spans.
func (f *Field) TupleParts() []string { return append([]string(nil), f.tupleParts...) }

// Path is the owning model path plus the field name.
func (f *Field) Path() valuepath.Path {
	return f.parent.Path().Append(f.name)
}

// String names the field for logs: "Field_3(name#fork)".
func (f *Field) String() string {
	if f.fork == Original {
		return fmt.Sprintf("%s(%s)", f.id, f.name)
	}
	return fmt.Sprintf("%s(%s#%s)", f.id, f.name, f.fork)
}

// Value reads the field. Tuples return one element per part.
func (f *Field) Value() any {
	switch f.kind {
	case KindTuple:
		out := make([]any, len(f.tupleParts))
		for i, part := range f.tupleParts {
			out[i] = f.parent.GetValue(part, nil)
		}
		return out
	case KindComputed:
		return f.computed.Get()
	default:
		return f.parent.GetValuePath(valuepath.Path{f.name}, nil)
	}
}

// SetValue writes the field. Tuple values must have exactly one element per part
// and are written as one batched change.
func (f *Field) SetValue(v any) error {
	switch f.kind {
	case KindTuple:
		list, ok := valuepath.Normalize(v).([]any)
		if !ok || len(list) != len(f.tupleParts) {
			return fmt.Errorf("field %s: got %d values for %d parts: %w", f, len(list), len(f.tupleParts), ErrTupleArity)
		}
		var err error
		f.parent.Batch(func() {
			for i, part := range f.tupleParts {
				if err = f.parent.SetValue(part, list[i]); err != nil {
					return
				}
			}
		})
		return err
	case KindComputed:
		if f.setter == nil {
			return fmt.Errorf("field %s: %w", f, ErrReadOnlyField)
		}
		return f.setter(v)
	default:
		return f.parent.SetValuePath(valuepath.Path{f.name}, v)
	}
}

// Fork returns the fork named forkName, creating it if needed. Forks are resolved
// through the owning model, so every fork of a field sees the same registry.
func (f *Field) Fork(forkName string) *Field {
	return f.parent.fork(f, forkName)
}

// Original returns the original fork of f.
func (f *Field) Original() *Field {
	return f.parent.fork(f, Original)
}

// Track marks f mounted with cfg and returns the matching unmount func. While f is
// mounted further calls are no-ops and the first config stays in effect.
func (f *Field) Track(cfg Config) (untrack func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mounted {
		return func() {}
	}
	f.config = &cfg
	f.mounted = true
	f.mountGen++
	gen := f.mountGen

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.mountGen != gen || !f.mounted {
			return
		}
		f.config = nil
		f.mounted = false
	}
}

// IsMounted reports whether a UI binding is attached.
func (f *Field) IsMounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

// Config returns a copy of the mounted config, false when unmounted.
func (f *Field) Config() (Config, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.config == nil {
		return Config{}, false
	}
	return *f.config, true
}

// State returns the current validation state.
func (f *Field) State() FieldState { return f.state.Get() }

// Extra is the bag for UI extensions of the field state.
func (f *Field) Extra() *Bag { return f.extra }

// SetError overwrites the stored validation error.
func (f *Field) SetError(err error) {
	f.state.Update(func(s FieldState) FieldState {
		s.Error = err
		return s
	})
}

// CancelValidation supersedes the live validation run, if any.
func (f *Field) CancelValidation() {
	f.mu.Lock()
	cancel := f.cancel
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// HandleChange writes v (nil falls back to the configured default) and runs
// change-triggered validation.
func (f *Field) HandleChange(ctx context.Context, v any) (Outcome, error) {
	var def any
	if cfg, ok := f.Config(); ok {
		def = cfg.DefaultValue
	}
	if err := f.SetValue(ComposeValue(v, def)); err != nil {
		return Outcome{}, err
	}
	return f.Validate(ctx, TriggerChange)
}

// HandleBlur runs blur-triggered validation.
func (f *Field) HandleBlur(ctx context.Context) (Outcome, error) {
	return f.Validate(ctx, TriggerBlur)
}

// Validate runs the required check and then the configured validator, if trigger
// is enabled for the mounted config. Starting a run supersedes any live run of f:
// the older result is discarded whenever it lands. The returned error is only set
// when the validator panicked.
func (f *Field) Validate(ctx context.Context, trigger Trigger) (Outcome, error) {
	cfg, mounted := f.Config()
	if !mounted || !cfg.Enabled(trigger) {
		return Outcome{}, nil
	}
	value := ComposeValue(f.Value(), cfg.DefaultValue)

	f.CancelValidation()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	f.mu.Lock()
	f.runGen++
	gen := f.runGen
	f.cancel = func() {
		f.mu.Lock()
		live := f.runGen == gen
		if live {
			f.runGen++
			f.cancel = nil
		}
		f.mu.Unlock()
		stop()
		if live {
			f.setValidating(false)
		}
	}
	f.mu.Unlock()
	f.setValidating(true)

	start := time.Now()
	failure, fault := f.run(runCtx, &cfg, value, trigger)
	event := &ValidationEvent{
		FieldID:  f.id,
		Path:     f.Path(),
		Trigger:  trigger,
		Duration: time.Since(start),
		Err:      failure,
		Fault:    fault,
	}

	abandoned := ctx.Err()
	f.mu.Lock()
	live := f.runGen == gen
	if live {
		f.cancel = nil
		if abandoned != nil {
			f.runGen++
		}
	}
	f.mu.Unlock()

	logger := f.parent.Logger()
	hooks := f.parent.Hooks()
	if live && abandoned != nil {
		// the caller gave up: keep the previous result
		f.setValidating(false)
		event.Superseded = true
		logger.Debug("validation abandoned", "field", f.String(), "trigger", string(trigger), "err", abandoned)
		if hooks.OnValidate != nil {
			hooks.OnValidate(ctx, event)
		}
		return Outcome{Ran: true, Superseded: true}, abandoned
	}
	if !live {
		event.Superseded = true
		logger.Debug("validation superseded", "field", f.String(), "trigger", string(trigger))
		if hooks.OnValidate != nil {
			hooks.OnValidate(ctx, event)
		}
		return Outcome{Ran: true, Superseded: true}, fault
	}

	if fault != nil {
		logger.Error("validator panicked", "field", f.String(), "err", fault)
		f.setValidating(false)
	} else {
		f.state.Set(FieldState{Error: failure})
	}
	if hooks.OnValidate != nil {
		hooks.OnValidate(ctx, event)
	}
	return Outcome{Err: failure, Ran: true}, fault
}

func (f *Field) run(ctx context.Context, cfg *Config, value any, trigger Trigger) (failure, fault error) {
	if cfg.Required && cfg.isEmpty(value) {
		return &RequiredError{Message: cfg.requiredMessage()}, nil
	}
	if cfg.Validate == nil {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			failure = nil
			fault = &ValidatorPanicError{FieldID: f.id, Value: r}
		}
	}()
	return cfg.Validate(ctx, value, f, trigger), nil
}

func (f *Field) setValidating(v bool) {
	f.state.Update(func(s FieldState) FieldState {
		s.Validating = v
		return s
	})
}

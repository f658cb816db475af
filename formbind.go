package formbind

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/pkg/binding"
	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/registry"
	"github.com/aretw0/formbind/pkg/valuepath"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Form is the high-level entry point of the library.
// It owns a root model, the env its bindings inherit and the bindings themselves.
type Form struct {
	model  *model.Model
	env    form.Env
	kinds  *registry.Registry
	logger *slog.Logger
	hooks  model.Hooks
	Name   string

	mu       sync.Mutex
	bindings *orderedmap.OrderedMap[string, *mounted]
}

type mounted struct {
	binding *binding.Binding
	unmount func()
}

// Option defines a functional option for configuring the Form.
type Option func(*Form)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated options are merged.
func WithHooks(hooks model.Hooks) Option {
	return func(f *Form) {
		f.hooks = f.hooks.Merge(hooks)
	}
}

// WithEnv sets every flag of the form env from env. Nil callbacks keep the
// ones set before.
func WithEnv(env form.Env) Option {
	return WithEnvOverride(env.Override())
}

// WithEnvOverride refines the form env like a nested provider: only the set
// fields of o apply.
func WithEnvOverride(o form.Override) Option {
	return func(f *Form) {
		f.env = f.env.Merge(o)
	}
}

// WithRegistry replaces the binding kind registry.
func WithRegistry(kinds *registry.Registry) Option {
	return func(f *Form) {
		f.kinds = kinds
	}
}

// WithName labels the form in logs.
func WithName(name string) Option {
	return func(f *Form) {
		f.Name = name
	}
}

// New creates a form over initial values. A nil initial tree starts empty.
func New(initial any, opts ...Option) *Form {
	f := &Form{
		bindings: orderedmap.New[string, *mounted](),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	if f.Name != "" {
		f.logger = f.logger.With("name", f.Name)
	}
	if f.kinds == nil {
		f.kinds = registry.NewRegistry()
	}
	f.model = model.NewRoot(initial, model.WithLogger(f.logger), model.WithHooks(f.hooks))
	return f
}

// Model returns the root model.
func (f *Form) Model() *model.Model { return f.model }

// Env returns the form env.
func (f *Form) Env() form.Env { return f.env }

// Registry returns the binding kind registry.
func (f *Form) Registry() *registry.Registry { return f.kinds }

// Logger returns the form logger.
func (f *Form) Logger() *slog.Logger { return f.logger }

// Values returns a detached copy of the value tree.
func (f *Form) Values() any { return f.model.Values() }

// SetValue writes a dotted path without touching validation.
func (f *Form) SetValue(path string, v any) error {
	return f.model.SetValue(path, v)
}

// Bind creates a binding under the root model and mounts it. Binding the same
// field fork twice returns the existing binding.
func (f *Form) Bind(ctx context.Context, opts binding.Options) (*binding.Binding, error) {
	return f.BindIn(ctx, f.model, opts)
}

// BindIn is Bind relative to a sub-model.
func (f *Form) BindIn(ctx context.Context, m *model.Model, opts binding.Options) (*binding.Binding, error) {
	b, err := binding.New(m, f.env, f.kinds, opts)
	if err != nil {
		return nil, err
	}
	key := bindingKey(b.Field())

	if existing, ok := f.Binding(key); ok {
		return existing, nil
	}
	unmount, err := b.Mount(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	existing, raced := f.bindings.Get(key)
	if !raced {
		f.bindings.Set(key, &mounted{binding: b, unmount: unmount})
	}
	f.mu.Unlock()
	if raced {
		unmount()
		return existing.binding, nil
	}
	f.logger.Debug("field bound", "field", b.Field().String(), "kind", b.Kind().Name)
	return b, nil
}

// Unbind unmounts the binding of the original fork at path.
func (f *Form) Unbind(path string) bool {
	f.mu.Lock()
	entry, ok := f.bindings.Delete(path)
	if !ok {
		entry, ok = f.bindings.Delete(normalizeKey(path))
	}
	f.mu.Unlock()
	if ok {
		entry.unmount()
	}
	return ok
}

// Binding returns the binding of the field at path; forks are addressed "path#fork".
// Bracket indexes are accepted: "items[0].name" finds "items.0.name".
func (f *Form) Binding(path string) (*binding.Binding, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.bindings.Get(path)
	if !ok {
		entry, ok = f.bindings.Get(normalizeKey(path))
	}
	if !ok {
		return nil, false
	}
	return entry.binding, true
}

// Bindings lists the bindings in bind order.
func (f *Form) Bindings() []*binding.Binding {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*binding.Binding, 0, f.bindings.Len())
	for pair := f.bindings.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.binding)
	}
	return out
}

// Change writes v at path the way a control would: through the binding when the
// path is bound, so change validation runs, otherwise as a plain write.
func (f *Form) Change(ctx context.Context, path string, v any) (model.Outcome, error) {
	if b, ok := f.Binding(path); ok {
		return b.OnChange(ctx, v)
	}
	return model.Outcome{}, f.model.SetValue(path, v)
}

// Blur runs blur validation of the binding at path.
func (f *Form) Blur(ctx context.Context, path string) (model.Outcome, error) {
	b, ok := f.Binding(path)
	if !ok {
		return model.Outcome{}, fmt.Errorf("blur %q: %w", path, model.ErrNoBinding)
	}
	return b.OnBlur(ctx)
}

// ValidateAll validates every mounted field.
func (f *Form) ValidateAll(ctx context.Context, trigger model.Trigger) (form.Result, error) {
	return form.ValidateAll(ctx, f.model, trigger)
}

// Submit validates the form and calls the env OnSubmit or OnError.
func (f *Form) Submit(ctx context.Context, filter form.ValueFilter) (form.Result, error) {
	opts := f.env.SubmitOptions()
	opts.ValueFilter = filter
	return form.Submit(ctx, f.model, opts)
}

// Reset empties the values, clears errors and calls the env OnReset.
func (f *Form) Reset() error {
	return form.Reset(f.model, f.env.OnReset)
}

// Watch runs effect when target changes; see binding.Watch.
func (f *Form) Watch(target any, effect binding.Effect, fireImmediately bool) (func(), error) {
	return binding.Watch(f.model, target, effect, fireImmediately)
}

// Close unmounts every binding.
func (f *Form) Close() {
	f.mu.Lock()
	entries := make([]*mounted, 0, f.bindings.Len())
	for pair := f.bindings.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, pair.Value)
	}
	f.bindings = orderedmap.New[string, *mounted]()
	f.mu.Unlock()

	for _, e := range entries {
		e.unmount()
	}
}

// normalizeKey rewrites the path part of a binding key the way paths are split.
func normalizeKey(key string) string {
	path, fork, forked := strings.Cut(key, "#")
	path = valuepath.Split(path).String()
	if forked {
		return path + "#" + fork
	}
	return path
}

func bindingKey(field *model.Field) string {
	return binding.HTMLID("", field)
}

package binding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/registry"
)

// Options declares one binding. Name or Field selects the field; the pointer flags
// override the env when set.
type Options struct {
	Name  string
	Field *model.Field
	Kind  string

	// Config carries the per-binding field config. Zero fields inherit from the kind.
	Config model.Config
	// DefaultValue is an explicit default; only explicit defaults are ever written
	// back to the model.
	DefaultValue any
	DataSource   []registry.Option

	IsPreview                *bool
	ValidateOnMount          *bool
	ValidateOnChange         *bool
	ValidateOnBlur           *bool
	WriteDefaultValueToModel *bool
}

// Bool returns a pointer to v, for the override flags of Options.
func Bool(v bool) *bool { return &v }

// Binding attaches one field to a rendered control.
type Binding struct {
	field      *model.Field
	kind       *registry.Kind
	config     model.Config
	explicit   bool
	dataSource []registry.Option
	preview    bool
	htmlID     string

	mu      sync.Mutex
	pending chan struct{}
}

// Resolve picks the field a binding addresses: an explicit field wins, "&" binds m
// as a field of its parent, otherwise the named field of m.
func Resolve(m *model.Model, name string, field *model.Field) (*model.Field, error) {
	switch {
	case field != nil:
		return field, nil
	case name == model.SelfName:
		return m.AsField()
	case name != "":
		return m.Field(name)
	default:
		return nil, model.ErrNoBinding
	}
}

// New resolves the field and merges its config: kind defaults, then the env, then
// the per-binding options.
func New(m *model.Model, env form.Env, kinds *registry.Registry, opts Options) (*Binding, error) {
	field, err := Resolve(m, opts.Name, opts.Field)
	if err != nil {
		return nil, fmt.Errorf("bind %q: %w", opts.Name, err)
	}
	kind := kinds.Resolve(opts.Kind)
	if kind.Name == registry.NotFound {
		m.Logger().Warn("unknown binding kind", "kind", opts.Kind, "field", field.String())
	}

	cfg := opts.Config
	cfg.DefaultValue = model.ComposeValue(opts.DefaultValue, kind.DefaultValue)
	if cfg.IsEmpty == nil {
		cfg.IsEmpty = kind.IsEmpty
	}
	cfg.ValidateOnMount = pick(opts.ValidateOnMount, env.ValidateOnMount)
	cfg.ValidateOnChange = pick(opts.ValidateOnChange, env.ValidateOnChange)
	cfg.ValidateOnBlur = pick(opts.ValidateOnBlur, env.ValidateOnBlur)
	cfg.WriteDefaultValueToModel = pick(opts.WriteDefaultValueToModel, env.WriteDefaultValueToModel)

	return &Binding{
		field:      field,
		kind:       kind,
		config:     cfg,
		explicit:   opts.DefaultValue != nil,
		dataSource: opts.DataSource,
		preview:    pick(opts.IsPreview, env.IsPreview),
		htmlID:     HTMLID(env.HTMLIDPrefix, field),
	}, nil
}

func pick(override *bool, inherited bool) bool {
	if override != nil {
		return *override
	}
	return inherited
}

// HTMLID is prefix + dotted field path, plus "#fork" for non-original forks.
func HTMLID(prefix string, f *model.Field) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(f.Path().String())
	if f.ForkName() != model.Original {
		b.WriteString("#")
		b.WriteString(f.ForkName())
	}
	return b.String()
}

// Field returns the bound field.
func (b *Binding) Field() *model.Field { return b.field }

// Kind returns the resolved binding kind.
func (b *Binding) Kind() *registry.Kind { return b.kind }

// Config returns the merged field config.
func (b *Binding) Config() model.Config { return b.config }

// Mount tracks the field, writes an explicit default into an unset value when the
// config asks for it and starts mount validation in the background. The returned
// func cancels that validation and untracks the field.
func (b *Binding) Mount(ctx context.Context) (unmount func(), err error) {
	untrack := b.field.Track(b.config)

	if b.config.WriteDefaultValueToModel && b.explicit && b.field.Value() == nil {
		if err := b.field.SetValue(b.config.DefaultValue); err != nil {
			untrack()
			return nil, fmt.Errorf("write default of %s: %w", b.field, err)
		}
	}

	done := make(chan struct{})
	b.mu.Lock()
	b.pending = done
	b.mu.Unlock()

	if b.config.ValidateOnMount {
		go func() {
			defer close(done)
			if _, err := b.field.Validate(ctx, model.TriggerMount); err != nil {
				b.field.Model().Logger().Error("mount validation failed", "field", b.field.String(), "err", err)
			}
		}()
	} else {
		close(done)
	}

	return func() {
		b.field.CancelValidation()
		untrack()
	}, nil
}

// Wait blocks until the mount validation started by the last Mount finished.
func (b *Binding) Wait() {
	b.mu.Lock()
	done := b.pending
	b.mu.Unlock()
	if done != nil {
		<-done
	}
}

// OnChange routes a control change to the field.
func (b *Binding) OnChange(ctx context.Context, v any) (model.Outcome, error) {
	return b.field.HandleChange(ctx, v)
}

// OnBlur routes a control blur to the field.
func (b *Binding) OnBlur(ctx context.Context) (model.Outcome, error) {
	return b.field.HandleBlur(ctx)
}

// Value is the field value with the configured default applied.
func (b *Binding) Value() any {
	return model.ComposeValue(b.field.Value(), b.config.DefaultValue)
}

// PreviewText renders the value the way the kind previews it.
func (b *Binding) PreviewText() string {
	return b.kind.Preview(b.Value(), b.dataSource)
}

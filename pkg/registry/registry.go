package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/formbind/pkg/model"
)

// Option is one entry of a choice control's data source.
type Option struct {
	Value any    `json:"value" yaml:"value" mapstructure:"value"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// PreviewFunc renders a value as read-only text.
type PreviewFunc func(value any, dataSource []Option) string

// Kind describes one binding kind: the control a field is rendered with and the
// value conventions that come with it.
type Kind struct {
	Name    string
	Aliases []string

	// ValuePropName is the control prop carrying the value ("value", "checked").
	ValuePropName string
	// StatusPropName is the control prop carrying the validation status.
	StatusPropName string

	DefaultValue      any
	IsEmpty           func(value any) bool
	Preview           PreviewFunc
	HasIntrinsicWidth bool
}

func (k Kind) normalize() Kind {
	if k.ValuePropName == "" {
		k.ValuePropName = "value"
	}
	if k.StatusPropName == "" {
		k.StatusPropName = "state"
	}
	if k.IsEmpty == nil {
		k.IsEmpty = model.IsFalsyOrEmpty
	}
	if k.Preview == nil {
		k.Preview = PreviewText
	}
	return k
}

// Registry manages the available binding kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry creates a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := NewEmpty()
	for _, k := range Builtins() {
		r.Register(k)
	}
	return r
}

// NewEmpty creates a registry without any kinds.
func NewEmpty() *Registry {
	return &Registry{
		kinds: make(map[string]*Kind),
	}
}

// Register adds a kind under its name and aliases.
// If a kind with the same name exists, it is overwritten.
func (r *Registry) Register(k Kind) {
	k = k.normalize()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = &k
	for _, alias := range k.Aliases {
		r.kinds[alias] = &k
	}
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Resolve returns the kind registered under name, or NotFound. An empty name
// resolves to the input kind.
func (r *Registry) Resolve(name string) *Kind {
	if name == "" {
		name = Input
	}
	if k, ok := r.Lookup(name); ok {
		return k
	}
	return &notFound
}

// MustLookup is Lookup that fails for unregistered names.
func (r *Registry) MustLookup(name string) (*Kind, error) {
	k, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("binding kind not found: %s", name)
	}
	return k, nil
}

// Names lists every registered name and alias, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

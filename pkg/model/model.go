package model

import (
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/pkg/reactive"
	"github.com/aretw0/formbind/pkg/valuepath"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ModelType tells a root model from a sub-model.
type ModelType string

const (
	RootModel ModelType = "rootModel"
	SubModel  ModelType = "subModel"
)

// Model is one addressable region of the value tree. The root owns the raw values;
// a sub-model's values are always read and written through its parent chain.
type Model struct {
	id        string
	modelType ModelType
	parent    *Model
	root      *Model
	name      *reactive.Cell[string]
	state     *Bag

	mu       sync.Mutex
	shape    valuepath.Shape
	children *orderedmap.OrderedMap[string, *Model]
	fields   *orderedmap.OrderedMap[string, *forkSet]

	// root only
	scope    *reactive.Scope
	tree     *Tree
	modelIDs *idGenerator
	fieldIDs *idGenerator
	logger   *slog.Logger
	hooks    Hooks
}

// NewRoot creates the root of a form tree with optional initial values. A nil
// initial tree starts as an empty object.
func NewRoot(initial any, opts ...Option) *Model {
	cfg := rootConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	scope := reactive.NewScope()
	m := &Model{
		modelType: RootModel,
		scope:     scope,
		modelIDs:  &idGenerator{prefix: "Model"},
		fieldIDs:  &idGenerator{prefix: "Field"},
		hooks:     cfg.hooks,
	}
	m.root = m
	m.id = m.modelIDs.nextID()
	m.name = reactive.NewCell(scope, "")
	m.state = newBag(scope)
	m.fields = orderedmap.New[string, *forkSet]()
	m.logger = cfg.logger.With("form", m.id)
	m.tree = newTree(scope, initial, cfg.hooks.OnValueChange)
	return m
}

func newSubModel(parent *Model, name string) *Model {
	root := parent.root
	return &Model{
		id:        root.modelIDs.nextID(),
		modelType: SubModel,
		parent:    parent,
		root:      root,
		name:      reactive.NewCell(root.scope, name),
		state:     newBag(root.scope),
		fields:    orderedmap.New[string, *forkSet](),
	}
}

// ID is unique within the tree.
func (m *Model) ID() string { return m.id }

// Type reports whether m is the root or a sub-model.
func (m *Model) Type() ModelType { return m.modelType }

// IsRoot reports whether m owns the raw values.
func (m *Model) IsRoot() bool { return m.modelType == RootModel }

// Root returns the tree root.
func (m *Model) Root() *Model { return m.root }

// Parent returns the parent model, nil for the root.
func (m *Model) Parent() *Model { return m.parent }

// Name is the segment of m relative to its parent. It changes when m is an array
// item whose position moved.
func (m *Model) Name() string { return m.name.Get() }

// State is the UI-facing bag of m.
func (m *Model) State() *Bag { return m.state }

// Logger returns the tree logger.
func (m *Model) Logger() *slog.Logger { return m.root.logger }

// Hooks returns the tree hooks.
func (m *Model) Hooks() Hooks { return m.root.hooks }

// Scope returns the reactive scope shared by the tree.
func (m *Model) Scope() *reactive.Scope { return m.root.scope }

// Tree returns the value tree accessor of the root.
func (m *Model) Tree() *Tree { return m.root.tree }

// Shape returns the inferred container shape of m.
func (m *Model) Shape() valuepath.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shape
}

// Path is the full path of m from the root.
func (m *Model) Path() valuepath.Path {
	if m.IsRoot() {
		return nil
	}
	return m.parent.Path().Append(m.Name())
}

// Batch applies fn's writes as one notification.
func (m *Model) Batch(fn func()) {
	m.root.scope.Batch(fn)
}

// React re-runs effect whenever the value produced by expr changes.
func (m *Model) React(expr func() any, effect func(next, prev any), fireImmediately bool) (dispose func()) {
	return m.root.scope.React(expr, effect, fireImmediately)
}

// Values returns a detached copy of the values of m, nil when absent.
func (m *Model) Values() any {
	return m.root.tree.GetIn(m.Path(), nil)
}

// SetValues replaces the values of m wholesale.
func (m *Model) SetValues(v any) error {
	if m.IsRoot() {
		m.tree.Replace(v)
		return nil
	}
	return m.parent.SetValuePath(valuepath.Path{m.Name()}, v)
}

// GetValue reads a dotted path relative to m, returning def when absent.
func (m *Model) GetValue(name string, def any) any {
	return m.GetValuePath(valuepath.Split(name), def)
}

// GetValuePath reads p relative to m, returning def when absent.
func (m *Model) GetValuePath(p valuepath.Path, def any) any {
	return m.root.tree.GetIn(m.Path().Append(p...), def)
}

// LookupValuePath reads p relative to m and reports whether it is present.
func (m *Model) LookupValuePath(p valuepath.Path) (any, bool) {
	return m.root.tree.Get(m.Path().Append(p...))
}

// SetValue writes a dotted path relative to m.
func (m *Model) SetValue(name string, v any) error {
	return m.SetValuePath(valuepath.Split(name), v)
}

// SetValuePath writes p relative to m as one batched change. A sub-model whose
// container does not exist yet first infers its shape from p's leading segment and
// creates the container in its parent.
func (m *Model) SetValuePath(p valuepath.Path, v any) error {
	if len(p) == 0 {
		return m.SetValues(v)
	}
	var err error
	m.Batch(func() {
		err = m.setValue(p, v)
	})
	return err
}

func (m *Model) setValue(p valuepath.Path, v any) error {
	if !m.IsRoot() && !m.root.tree.exists(m.Path()) {
		if err := m.updateShape(valuepath.ShapeOf(p[0])); err != nil {
			return err
		}
		if err := m.parent.setValue(valuepath.Path{m.Name()}, valuepath.Empty(m.Shape())); err != nil {
			return err
		}
	}
	return m.root.tree.Set(m.Path().Append(p...), v)
}

// SubModel resolves (creating as needed) the sub-model at a dotted path. The
// reserved name "&" returns m itself.
func (m *Model) SubModel(name string) (*Model, error) {
	if name == SelfName {
		return m, nil
	}
	return m.SubModelPath(valuepath.Split(name))
}

// SubModelPath resolves the chain of sub-models for p, inferring and checking the
// shape of every model along the way.
func (m *Model) SubModelPath(p valuepath.Path) (*Model, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPath
	}
	cur := m
	for _, seg := range p {
		next, err := cur.child(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (m *Model) child(name string) (*Model, error) {
	if err := m.updateShape(valuepath.ShapeOf(name)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.children.Get(name)
	if !ok {
		sub = newSubModel(m, name)
		m.children.Set(name, sub)
	}
	return sub, nil
}

// Field returns the field at a dotted path. Multi-segment paths resolve the owning
// sub-model first; "&" binds m itself as a field of its parent.
func (m *Model) Field(name string) (*Field, error) {
	if name == SelfName {
		return m.AsField()
	}
	return m.FieldPath(valuepath.Split(name))
}

// FieldPath returns the field at p.
func (m *Model) FieldPath(p valuepath.Path) (*Field, error) {
	switch len(p) {
	case 0:
		return nil, ErrNoBinding
	case 1:
	default:
		owner, err := m.SubModelPath(p[:len(p)-1])
		if err != nil {
			return nil, err
		}
		return owner.FieldPath(p[len(p)-1:])
	}

	name := p[0]
	if err := m.updateShape(valuepath.ShapeOf(name)); err != nil {
		return nil, err
	}
	return m.original(name, func() *Field {
		return &Field{kind: KindNormal}
	}), nil
}

// TupleField returns the field reading and writing parts as one fixed-length list.
// Tuples always address object shaped models.
func (m *Model) TupleField(parts ...string) (*Field, error) {
	if err := m.updateShape(valuepath.ShapeObject); err != nil {
		return nil, err
	}
	name := TupleName(parts)
	return m.original(name, func() *Field {
		return &Field{kind: KindTuple, tupleParts: append([]string(nil), parts...)}
	}), nil
}

// ComputedField returns a field backed by get and the optional set. The getter is
// memoized until a value it read changes.
func (m *Model) ComputedField(name string, get func() any, set func(any) error) *Field {
	return m.original(name, func() *Field {
		return &Field{
			kind:     KindComputed,
			computed: reactive.NewComputed(m.root.scope, get),
			setter:   set,
		}
	})
}

// AsField binds m as the field named after it in its parent.
func (m *Model) AsField() (*Field, error) {
	if m.IsRoot() {
		return nil, ErrRootAsField
	}
	return m.parent.FieldPath(valuepath.Path{m.Name()})
}

// TupleName is the synthetic registry name of a tuple field.
func TupleName(parts []string) string {
	n := "tuple("
	for i, p := range parts {
		if i > 0 {
			n += ","
		}
		n += p
	}
	return n + ")"
}

func (m *Model) updateShape(shape valuepath.Shape) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shape == valuepath.ShapeUnresolved {
		m.shape = shape
		m.children = orderedmap.New[string, *Model]()
		m.root.logger.Debug("model shape resolved", "model", m.id, "shape", shape.String())
		return nil
	}
	if m.shape != shape {
		return &ShapeConflictError{Path: m.Path(), Have: m.shape, Want: shape}
	}
	return nil
}

// childList returns the sub-models in traversal order: numeric order for arrays,
// creation order for objects.
func (m *Model) childList() []*Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.children == nil {
		return nil
	}

	type entry struct {
		idx int
		sub *Model
	}
	entries := make([]entry, 0, m.children.Len())
	for pair := m.children.Oldest(); pair != nil; pair = pair.Next() {
		idx, _ := strconv.Atoi(pair.Key)
		entries = append(entries, entry{idx: idx, sub: pair.Value})
	}
	if m.shape == valuepath.ShapeArray {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	}
	out := make([]*Model, len(entries))
	for i, e := range entries {
		out[i] = e.sub
	}
	return out
}

// IterateModels visits m and then every descendant, pre-order.
func (m *Model) IterateModels(visit func(*Model)) {
	visit(m)
	for _, sub := range m.childList() {
		sub.IterateModels(visit)
	}
}

// IterateFields visits every fork of every field registered on m or a descendant.
func (m *Model) IterateFields(visit func(*Field)) {
	m.IterateModels(func(mod *Model) {
		for _, f := range mod.fieldList() {
			visit(f)
		}
	})
}

package valuepath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotContainer is returned when a write must descend through a value that is
	// neither an object nor an array.
	ErrNotContainer = errors.New("value is not a container")

	// ErrIndexExpected is returned when a non-numeric segment addresses an array.
	ErrIndexExpected = errors.New("array requires a numeric index")

	// ErrIndexOutOfRange is returned when a write would grow an array by more than
	// MaxIndexGap slots.
	ErrIndexOutOfRange = errors.New("array index out of range")
)

// Shape tells whether a container is array-like or object-like.
type Shape int

const (
	ShapeUnresolved Shape = iota
	ShapeArray
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	default:
		return "unresolved"
	}
}

// Path is an ordered list of segments.
type Path []string

// Split parses a dotted path. Bracket indexes are rewritten as segments, so
// "items[2].name" and "items.2.name" are the same path. Empty segments are dropped.
func Split(s string) Path {
	if s == "" {
		return nil
	}
	s = strings.NewReplacer("[", ".", "]", "").Replace(s)
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		p = append(p, part)
	}
	return p
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path; p is never aliased.
func (p Path) Append(segs ...string) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// HasPrefix reports whether q is a segment-wise prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether one path is a prefix of the other. A write to either
// path can change the value read at the other.
func (p Path) Overlaps(q Path) bool {
	return p.HasPrefix(q) || q.HasPrefix(p)
}

// IsIndex reports whether seg is purely numeric.
func IsIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

// ShapeOf returns the container shape implied by a segment.
func ShapeOf(seg string) Shape {
	if IsIndex(seg) {
		return ShapeArray
	}
	return ShapeObject
}

// Empty returns a fresh container of the given shape. Unresolved yields an object.
func Empty(shape Shape) any {
	if shape == ShapeArray {
		return []any{}
	}
	return map[string]any{}
}

// ShapeOfValue reports the shape of an existing value, ShapeUnresolved for leaves.
func ShapeOfValue(v any) Shape {
	switch v.(type) {
	case []any:
		return ShapeArray
	case map[string]any:
		return ShapeObject
	default:
		return ShapeUnresolved
	}
}

// Get reads the value at p. The boolean is false when any segment is absent.
func Get(tree any, p Path) (any, bool) {
	cur := tree
	for _, seg := range p {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, ok := index(seg)
			if !ok || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetIn reads the value at p, returning def when the path is absent or holds nil.
func GetIn(tree any, p Path, def any) any {
	v, ok := Get(tree, p)
	if !ok || v == nil {
		return def
	}
	return v
}

// SetIn writes v at p and returns the (possibly reallocated) root. Missing
// containers are created with the shape implied by the segment that addresses into
// them. Existing containers are never replaced by a container of the other kind.
func SetIn(tree any, p Path, v any) (any, error) {
	if len(p) == 0 {
		return v, nil
	}
	return setIn(tree, p, 0, v)
}

// MaxIndexGap bounds how far past the end of an array a write may land. The
// skipped slots are filled with nil.
const MaxIndexGap = 1024

func setIn(node any, p Path, i int, v any) (any, error) {
	seg := p[i]
	last := i == len(p)-1
	if node == nil {
		node = Empty(ShapeOf(seg))
	}

	switch c := node.(type) {
	case map[string]any:
		if last {
			c[seg] = v
			return c, nil
		}
		child, err := setIn(c[seg], p, i+1, v)
		if err != nil {
			return nil, err
		}
		c[seg] = child
		return c, nil
	case []any:
		idx, ok := index(seg)
		if !ok {
			return nil, fmt.Errorf("set %q at segment %q: %w", p.String(), seg, ErrIndexExpected)
		}
		if idx-len(c) > MaxIndexGap {
			return nil, fmt.Errorf("set %q at index %d (len %d): %w", p.String(), idx, len(c), ErrIndexOutOfRange)
		}
		if idx >= len(c) {
			c = append(c, make([]any, idx-len(c)+1)...)
		}
		if last {
			c[idx] = v
			return c, nil
		}
		child, err := setIn(c[idx], p, i+1, v)
		if err != nil {
			return nil, err
		}
		c[idx] = child
		return c, nil
	default:
		return nil, fmt.Errorf("set %q at segment %q (%T): %w", p.String(), seg, node, ErrNotContainer)
	}
}

func index(seg string) (int, bool) {
	if !IsIndex(seg) {
		return 0, false
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Package redact masks values of sensitive keys in value trees.
package redact

import "regexp"

// Mask replaces redacted values.
const Mask = "***"

// Redactor masks the values of object keys matching any of its patterns.
type Redactor struct {
	patterns []*regexp.Regexp
}

// New compiles the key patterns.
func New(patterns ...string) (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Enabled reports whether any pattern is set. A nil Redactor is disabled.
func (r *Redactor) Enabled() bool {
	return r != nil && len(r.patterns) > 0
}

// Tree returns a copy of v with matching keys masked at any depth. v is not modified.
func (r *Redactor) Tree(v any) any {
	if !r.Enabled() {
		return v
	}
	return r.walk(v)
}

func (r *Redactor) walk(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if r.match(k) {
				out[k] = Mask
				continue
			}
			out[k] = r.walk(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = r.walk(item)
		}
		return out
	default:
		return v
	}
}

func (r *Redactor) match(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

package valuepath

import "reflect"

// Clone deep-copies the containers of a tree. Leaves are shared.
func Clone(v any) any {
	switch c := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, val := range c {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(c))
		for i, val := range c {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// Normalize converts typed maps and slices (map[string]string, []int, ...) into the
// map[string]any / []any containers the rest of the package understands. Byte slices,
// structs and other values are returned unchanged.
func Normalize(v any) any {
	switch c := v.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, val := range c {
			c[k] = Normalize(val)
		}
		return c
	case []any:
		for i, val := range c {
			c[i] = Normalize(val)
		}
		return c
	case []byte:
		return c
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

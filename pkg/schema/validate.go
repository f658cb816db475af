package schema

import (
	"context"
	"sort"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/valuepath"
)

// Schema maps dotted value-tree paths to their expected types.
// Example: {"user.name": String(), "user.tags": Slice(String())}
type Schema map[string]Type

// Paths returns the schema paths in sorted order.
func (s Schema) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks every schema path of tree. Missing or nil values are reported as
// required. Failures are returned together as an *AggregateError, in path order.
func Validate(schema Schema, tree any) error {
	return ValidatePaths(schema, tree, schema.Paths()...)
}

// ValidatePaths validates only the given paths. Paths the schema does not define
// are reported as errors.
func ValidatePaths(schema Schema, tree any, paths ...string) error {
	var errs []error
	for _, path := range paths {
		typ, ok := schema[path]
		if !ok {
			errs = append(errs, &ValidationError{Key: path, Reason: "not defined in schema"})
			continue
		}

		value, ok := valuepath.Get(tree, valuepath.Split(path))
		if !ok || value == nil {
			errs = append(errs, &ValidationError{Key: path, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: path, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// FieldValidator adapts t to a field validator. Nil values pass so that emptiness
// stays the concern of the required check.
func FieldValidator(t Type) model.ValidateFunc {
	return func(_ context.Context, value any, _ *model.Field, _ model.Trigger) error {
		if value == nil {
			return nil
		}
		return t.Validate(value)
	}
}

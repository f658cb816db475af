package model

import (
	"errors"
	"fmt"

	"github.com/aretw0/formbind/pkg/valuepath"
)

// Structural violations: the caller asked for something inconsistent with the
// structure already established for the tree.
var (
	// ErrShapeConflict is returned when a path implies an array where an object was
	// already established, or the reverse.
	ErrShapeConflict = errors.New("model shape conflict")

	// ErrTupleArity is returned when a tuple field is written with a value whose length
	// does not match its parts.
	ErrTupleArity = errors.New("tuple value length does not match tuple parts")

	// ErrReadOnlyField is returned when writing a computed field without a setter.
	ErrReadOnlyField = errors.New("cannot assign value to a readonly computed field")

	// ErrNotArray is returned by array operations on an object shaped model.
	ErrNotArray = errors.New("model is not array shaped")
)

// Usage errors: the request itself is malformed.
var (
	// ErrNoBinding is returned when neither a name nor a field handle was given.
	ErrNoBinding = errors.New("a field must be requested by name or handle")

	// ErrEmptyPath is returned for an empty sub-model or field path.
	ErrEmptyPath = errors.New("empty path")

	// ErrRootAsField is returned when the root model is asked to act as its own field.
	ErrRootAsField = errors.New("root model can not be used as a field (name=&)")
)

// SelfName is the reserved path that refers to the current model itself.
const SelfName = "&"

// ShapeConflictError carries the model path and both shapes of a conflict.
type ShapeConflictError struct {
	Path valuepath.Path
	Have valuepath.Shape
	Want valuepath.Shape
}

func (e *ShapeConflictError) Error() string {
	return fmt.Sprintf("model %q is %s shaped, access implies %s", e.Path.String(), e.Have, e.Want)
}

func (e *ShapeConflictError) Unwrap() error { return ErrShapeConflict }

// RequiredError is the validation failure recorded for an empty required field.
type RequiredError struct {
	Message string
}

func (e *RequiredError) Error() string { return e.Message }

// ValidatorPanicError is returned by Field.Validate when the validator panicked.
type ValidatorPanicError struct {
	FieldID string
	Value   any
}

func (e *ValidatorPanicError) Error() string {
	return fmt.Sprintf("validator of field %s panicked: %v", e.FieldID, e.Value)
}

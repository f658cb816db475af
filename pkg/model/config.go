package model

import (
	"context"
	"reflect"
)

// Trigger is the event class that may start a validation run.
type Trigger string

const (
	TriggerAll    Trigger = "*"
	TriggerMount  Trigger = "mount"
	TriggerBlur   Trigger = "blur"
	TriggerChange Trigger = "change"
)

// DefaultRequiredMessage is recorded when a required field has no RequiredMessage.
const DefaultRequiredMessage = "required"

// ValidateFunc checks a field value. A non-nil error is the validation failure.
// It may block; ctx is cancelled once the run is superseded.
type ValidateFunc func(ctx context.Context, value any, f *Field, trigger Trigger) error

// Config is the latest configuration of a mounted field.
type Config struct {
	Label  string
	Help   string
	Tip    string
	Status string

	Disabled bool
	ReadOnly bool

	DefaultValue             any
	WriteDefaultValueToModel bool

	Required        bool
	RequiredMessage string
	IsEmpty         func(value any) bool
	Validate        ValidateFunc

	ValidateOnMount  bool
	ValidateOnChange bool
	ValidateOnBlur   bool
}

// Enabled reports whether trigger should run validation under this config.
func (c *Config) Enabled(trigger Trigger) bool {
	switch trigger {
	case TriggerAll:
		return true
	case TriggerMount:
		return c.ValidateOnMount
	case TriggerBlur:
		return c.ValidateOnBlur
	case TriggerChange:
		return c.ValidateOnChange
	default:
		return false
	}
}

func (c *Config) isEmpty(v any) bool {
	if c.IsEmpty != nil {
		return c.IsEmpty(v)
	}
	return IsFalsyOrEmpty(v)
}

func (c *Config) requiredMessage() string {
	if c.RequiredMessage != "" {
		return c.RequiredMessage
	}
	return DefaultRequiredMessage
}

// ComposeValue returns v unless it is nil, then def.
func ComposeValue(v, def any) any {
	if v == nil {
		return def
	}
	return v
}

// IsFalsyOrEmpty is the default emptiness predicate: nil, false, zero numbers, the
// empty string and empty slices are empty. A map is only empty when nil.
func IsFalsyOrEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || f != f
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

// IsNil is an emptiness predicate that only treats nil as empty.
func IsNil(v any) bool {
	return v == nil
}

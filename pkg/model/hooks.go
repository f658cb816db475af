package model

import (
	"context"
	"time"

	"github.com/aretw0/formbind/pkg/valuepath"
)

// ValidationEvent describes one finished validation run of a field.
type ValidationEvent struct {
	FieldID    string
	Path       valuepath.Path
	Trigger    Trigger
	Duration   time.Duration
	Err        error // validation failure, nil when the value passed
	Superseded bool  // Err was not recorded: a later run replaced this one or ctx ended
	Fault      error // validator panic
}

// SubmitEvent describes the outcome of a submit pass.
type SubmitEvent struct {
	ModelID  string
	HasError bool
	Fault    error
	Duration time.Duration
}

// Hooks are optional observability callbacks shared by the whole tree.
type Hooks struct {
	OnValueChange func(path valuepath.Path)
	OnValidate    func(context.Context, *ValidationEvent)
	OnSubmit      func(context.Context, *SubmitEvent)
	OnReset       func(modelID string)
}

// Merge returns hooks calling both h and other for every event.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnValueChange: chain1(h.OnValueChange, other.OnValueChange),
		OnValidate:    chain2(h.OnValidate, other.OnValidate),
		OnSubmit:      chain2(h.OnSubmit, other.OnSubmit),
		OnReset:       chain1(h.OnReset, other.OnReset),
	}
}

func chain1[A any](a, b func(A)) func(A) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A) {
		a(x)
		b(x)
	}
}

func chain2[A, B any](a, b func(A, B)) func(A, B) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B) {
		a(x, y)
		b(x, y)
	}
}

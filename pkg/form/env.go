package form

import (
	"context"

	"github.com/aretw0/formbind/pkg/model"
)

// SubmitFunc receives the submitted values.
type SubmitFunc func(ctx context.Context, values any, m *model.Model)

// ErrorFunc receives the error tree of a failed submit.
type ErrorFunc func(ctx context.Context, errs any, m *model.Model)

// ResetFunc is called after a model was reset.
type ResetFunc func(m *model.Model)

// Env is the environment shared by every binding of one form: submission callbacks
// and the validation and rendering defaults bindings inherit.
type Env struct {
	OnSubmit SubmitFunc
	OnError  ErrorFunc
	OnReset  ResetFunc

	IsPreview bool

	ValidateOnMount          bool
	ValidateOnChange         bool
	ValidateOnBlur           bool
	WriteDefaultValueToModel bool

	// HTMLIDPrefix is prepended to the html id of every bound control.
	HTMLIDPrefix string
}

// Override is a partial Env, as given by a nested provider: nil fields inherit,
// set fields replace, an explicit false included.
type Override struct {
	OnSubmit SubmitFunc
	OnError  ErrorFunc
	OnReset  ResetFunc

	IsPreview                *bool
	ValidateOnMount          *bool
	ValidateOnChange         *bool
	ValidateOnBlur           *bool
	WriteDefaultValueToModel *bool
	HTMLIDPrefix             *string
}

// Override returns e as an override that sets every flag and the prefix. Nil
// callbacks stay unset.
func (e Env) Override() Override {
	return Override{
		OnSubmit:                 e.OnSubmit,
		OnError:                  e.OnError,
		OnReset:                  e.OnReset,
		IsPreview:                &e.IsPreview,
		ValidateOnMount:          &e.ValidateOnMount,
		ValidateOnChange:         &e.ValidateOnChange,
		ValidateOnBlur:           &e.ValidateOnBlur,
		WriteDefaultValueToModel: &e.WriteDefaultValueToModel,
		HTMLIDPrefix:             &e.HTMLIDPrefix,
	}
}

// Merge returns e refined by the set fields of o.
func (e Env) Merge(o Override) Env {
	out := e
	if o.OnSubmit != nil {
		out.OnSubmit = o.OnSubmit
	}
	if o.OnError != nil {
		out.OnError = o.OnError
	}
	if o.OnReset != nil {
		out.OnReset = o.OnReset
	}
	setBool(&out.IsPreview, o.IsPreview)
	setBool(&out.ValidateOnMount, o.ValidateOnMount)
	setBool(&out.ValidateOnChange, o.ValidateOnChange)
	setBool(&out.ValidateOnBlur, o.ValidateOnBlur)
	setBool(&out.WriteDefaultValueToModel, o.WriteDefaultValueToModel)
	if o.HTMLIDPrefix != nil {
		out.HTMLIDPrefix = *o.HTMLIDPrefix
	}
	return out
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// SubmitOptions picks the env callbacks for one Submit call.
func (e Env) SubmitOptions() SubmitOptions {
	return SubmitOptions{OnSubmit: e.OnSubmit, OnError: e.OnError}
}

package model_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_TupleRoundTrip(t *testing.T) {
	root := model.NewRoot(nil)
	span, err := root.TupleField("start", "end")
	require.NoError(t, err)
	assert.Equal(t, model.KindTuple, span.Kind())
	assert.Equal(t, "tuple(start,end)", span.Name())

	require.NoError(t, span.SetValue([]string{"2024-01-01", "2024-01-31"}))
	assert.Equal(t, []any{"2024-01-01", "2024-01-31"}, span.Value())
	assert.Equal(t, "2024-01-01", root.GetValue("start", nil))
	assert.Equal(t, "2024-01-31", root.GetValue("end", nil))

	err = span.SetValue([]any{"only one"})
	assert.ErrorIs(t, err, model.ErrTupleArity)
	assert.Equal(t, "2024-01-01", root.GetValue("start", nil))
}

func TestField_ComputedIsMemoizedAndReadOnly(t *testing.T) {
	root := model.NewRoot(map[string]any{"first": "Ada", "last": "Lovelace"})
	evals := 0
	full := root.ComputedField("full", func() any {
		evals++
		return root.GetValue("first", "").(string) + " " + root.GetValue("last", "").(string)
	}, nil)

	assert.Equal(t, "Ada Lovelace", full.Value())
	assert.Equal(t, "Ada Lovelace", full.Value())
	assert.Equal(t, 1, evals)

	require.NoError(t, root.SetValue("unrelated", true))
	full.Value()
	assert.Equal(t, 1, evals)

	require.NoError(t, root.SetValue("first", "Grace"))
	assert.Equal(t, "Grace Lovelace", full.Value())
	assert.Equal(t, 2, evals)

	assert.ErrorIs(t, full.SetValue("x"), model.ErrReadOnlyField)
}

func TestField_ComputedSetter(t *testing.T) {
	root := model.NewRoot(nil)
	upper := root.ComputedField("upper", func() any {
		return root.GetValue("raw", "")
	}, func(v any) error {
		return root.SetValue("raw", v)
	})

	require.NoError(t, upper.SetValue("hi"))
	assert.Equal(t, "hi", upper.Value())
}

func TestField_ForksShareValueNotState(t *testing.T) {
	root := model.NewRoot(nil)
	name := mustField(t, root, "name")
	preview := name.Fork("preview")

	assert.Equal(t, model.Original, name.ForkName())
	assert.Equal(t, "preview", preview.ForkName())
	assert.NotEqual(t, name.ID(), preview.ID())
	assert.Same(t, preview, name.Fork("preview"))
	assert.Same(t, name, preview.Original())

	require.NoError(t, preview.SetValue("lily"))
	assert.Equal(t, "lily", name.Value())

	untrack := name.Track(model.Config{Label: "Name"})
	assert.True(t, name.IsMounted())
	assert.False(t, preview.IsMounted())
	untrack()
	assert.False(t, name.IsMounted())

	preview.SetError(errors.New("bad"))
	assert.NoError(t, name.State().Error)
	assert.EqualError(t, preview.State().Error, "bad")

	var count int
	root.IterateFields(func(*model.Field) { count++ })
	assert.Equal(t, 2, count)
}

func TestField_TrackKeepsFirstConfig(t *testing.T) {
	root := model.NewRoot(nil)
	f := mustField(t, root, "name")

	first := f.Track(model.Config{Label: "first"})
	second := f.Track(model.Config{Label: "second"})

	cfg, ok := f.Config()
	require.True(t, ok)
	assert.Equal(t, "first", cfg.Label)

	second()
	assert.True(t, f.IsMounted())
	first()
	assert.False(t, f.IsMounted())
	first()
	_, ok = f.Config()
	assert.False(t, ok)
}

func TestField_ValidateRequired(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	phone := mustField(t, root, "phone")

	out, err := phone.Validate(ctx, model.TriggerAll)
	require.NoError(t, err)
	assert.False(t, out.Ran, "unmounted fields do not validate")

	defer phone.Track(model.Config{Required: true, RequiredMessage: "phone is required"})()

	out, err = phone.Validate(ctx, model.TriggerAll)
	require.NoError(t, err)
	require.True(t, out.Ran)
	assert.EqualError(t, out.Err, "phone is required")
	assert.EqualError(t, phone.State().Error, "phone is required")

	out, err = phone.Validate(ctx, model.TriggerBlur)
	require.NoError(t, err)
	assert.False(t, out.Ran, "blur validation is disabled")

	out, err = phone.HandleChange(ctx, "123")
	require.NoError(t, err)
	assert.False(t, out.Ran)
	out, err = phone.Validate(ctx, model.TriggerAll)
	require.NoError(t, err)
	assert.NoError(t, out.Err)
	assert.NoError(t, phone.State().Error)
}

func TestField_DefaultMessageAndCustomEmptiness(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(map[string]any{"tags": []any{nil}})
	tags := mustField(t, root, "tags")
	defer tags.Track(model.Config{
		Required: true,
		IsEmpty: func(v any) bool {
			for _, item := range v.([]any) {
				if item != nil {
					return false
				}
			}
			return true
		},
	})()

	out, err := tags.Validate(ctx, model.TriggerAll)
	require.NoError(t, err)
	assert.EqualError(t, out.Err, model.DefaultRequiredMessage)

	var required *model.RequiredError
	assert.ErrorAs(t, out.Err, &required)
}

func TestField_LaterRunSupersedesEarlier(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	f := mustField(t, root, "code")

	started := make(chan struct{})
	defer f.Track(model.Config{
		ValidateOnBlur:   true,
		ValidateOnChange: true,
		Validate: func(ctx context.Context, v any, _ *model.Field, trigger model.Trigger) error {
			if trigger == model.TriggerBlur {
				close(started)
				<-ctx.Done()
				return errors.New("stale")
			}
			return errors.New("fresh")
		},
	})()

	type result struct {
		out model.Outcome
		err error
	}
	blurDone := make(chan result, 1)
	go func() {
		out, err := f.HandleBlur(ctx)
		blurDone <- result{out, err}
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("blur validation did not start")
	}
	assert.True(t, f.State().Validating)

	out, err := f.HandleChange(ctx, "x")
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "fresh")

	blur := <-blurDone
	require.NoError(t, blur.err)
	assert.True(t, blur.out.Superseded)
	assert.NoError(t, blur.out.Err)

	state := f.State()
	assert.EqualError(t, state.Error, "fresh")
	assert.False(t, state.Validating)
}

func TestField_CancelValidation(t *testing.T) {
	ctx := context.Background()
	var events []*model.ValidationEvent
	root := model.NewRoot(nil, model.WithHooks(model.Hooks{
		OnValidate: func(_ context.Context, e *model.ValidationEvent) { events = append(events, e) },
	}))
	f := mustField(t, root, "code")

	started := make(chan struct{})
	defer f.Track(model.Config{
		Validate: func(ctx context.Context, _ any, _ *model.Field, _ model.Trigger) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	})()

	done := make(chan model.Outcome, 1)
	go func() {
		out, _ := f.Validate(ctx, model.TriggerAll)
		done <- out
	}()
	<-started
	f.CancelValidation()

	out := <-done
	assert.True(t, out.Superseded)
	assert.False(t, f.State().Validating)
	assert.NoError(t, f.State().Error)
	require.Len(t, events, 1)
	assert.True(t, events[0].Superseded)
}

func TestField_CallerCancelKeepsPreviousError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	root := model.NewRoot(nil)
	f := mustField(t, root, "code")

	started := make(chan struct{})
	defer f.Track(model.Config{
		Validate: func(ctx context.Context, _ any, _ *model.Field, _ model.Trigger) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	})()

	f.SetError(errors.New("previous"))
	type result struct {
		out model.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := f.Validate(ctx, model.TriggerAll)
		done <- result{out, err}
	}()
	<-started
	cancel()

	res := <-done
	assert.ErrorIs(t, res.err, context.Canceled)
	assert.True(t, res.out.Superseded)
	assert.EqualError(t, f.State().Error, "previous")
	assert.False(t, f.State().Validating)
}

func TestField_ValidatorPanicKeepsPreviousError(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	f := mustField(t, root, "code")
	defer f.Track(model.Config{
		Validate: func(context.Context, any, *model.Field, model.Trigger) error {
			panic("boom")
		},
	})()

	f.SetError(errors.New("previous"))
	out, err := f.Validate(ctx, model.TriggerAll)

	var fault *model.ValidatorPanicError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, f.ID(), fault.FieldID)
	assert.NoError(t, out.Err)
	assert.EqualError(t, f.State().Error, "previous")
	assert.False(t, f.State().Validating)
}

func TestField_HandleChangeFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	f := mustField(t, root, "tags")
	defer f.Track(model.Config{DefaultValue: []any{}})()

	_, err := f.HandleChange(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, root.GetValue("tags", nil))
}

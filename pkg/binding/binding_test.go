package binding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formbind/pkg/binding"
	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	root := model.NewRoot(nil)
	user, err := root.SubModel("user")
	require.NoError(t, err)

	named, err := binding.Resolve(user, "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "user.name", named.Path().String())

	self, err := binding.Resolve(user, "&", nil)
	require.NoError(t, err)
	assert.Equal(t, "user", self.Path().String())

	explicit, err := binding.Resolve(root, "ignored", named)
	require.NoError(t, err)
	assert.Same(t, named, explicit)

	_, err = binding.Resolve(root, "", nil)
	assert.ErrorIs(t, err, model.ErrNoBinding)
	_, err = binding.Resolve(root, "&", nil)
	assert.ErrorIs(t, err, model.ErrRootAsField)
}

func TestNew_MergesKindEnvAndOptions(t *testing.T) {
	root := model.NewRoot(nil)
	kinds := registry.NewRegistry()
	env := form.Env{ValidateOnBlur: true, ValidateOnChange: true}

	b, err := binding.New(root, env, kinds, binding.Options{
		Name:             "agree",
		Kind:             registry.Switch,
		ValidateOnChange: binding.Bool(false),
		Config:           model.Config{Label: "Agree", Required: true},
	})
	require.NoError(t, err)

	cfg := b.Config()
	assert.Equal(t, false, cfg.DefaultValue)
	assert.True(t, cfg.ValidateOnBlur)
	assert.False(t, cfg.ValidateOnChange)
	assert.False(t, cfg.IsEmpty(false))
	assert.Equal(t, "Agree", cfg.Label)
}

func TestMount_WritesExplicitDefault(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	kinds := registry.NewRegistry()
	env := form.Env{WriteDefaultValueToModel: true}

	implicit, err := binding.New(root, env, kinds, binding.Options{Name: "nickname", Kind: registry.Input})
	require.NoError(t, err)
	unmountImplicit, err := implicit.Mount(ctx)
	require.NoError(t, err)
	defer unmountImplicit()
	_, present := root.LookupValuePath([]string{"nickname"})
	assert.False(t, present, "kind defaults are never written")
	assert.Equal(t, "", implicit.Value())

	explicit, err := binding.New(root, env, kinds, binding.Options{Name: "city", Kind: registry.Input, DefaultValue: "Recife"})
	require.NoError(t, err)
	unmount, err := explicit.Mount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Recife", root.GetValue("city", nil))
	assert.True(t, explicit.Field().IsMounted())

	unmount()
	assert.False(t, explicit.Field().IsMounted())
}

func TestMount_ValidatesOnMount(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	b, err := binding.New(root, form.Env{ValidateOnMount: true}, registry.NewRegistry(), binding.Options{
		Name:   "email",
		Config: model.Config{Required: true, RequiredMessage: "email please"},
	})
	require.NoError(t, err)

	unmount, err := b.Mount(ctx)
	require.NoError(t, err)
	defer unmount()
	b.Wait()

	props := b.Props()
	assert.Equal(t, "email please", props.Error)
	assert.Equal(t, binding.StatusError, props.Status)
}

func TestMount_UnmountCancelsPendingValidation(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	started := make(chan struct{})
	b, err := binding.New(root, form.Env{ValidateOnMount: true}, registry.NewRegistry(), binding.Options{
		Name: "slow",
		Config: model.Config{Validate: func(ctx context.Context, _ any, _ *model.Field, _ model.Trigger) error {
			close(started)
			<-ctx.Done()
			return errors.New("too late")
		}},
	})
	require.NoError(t, err)

	unmount, err := b.Mount(ctx)
	require.NoError(t, err)
	<-started
	unmount()
	b.Wait()

	assert.NoError(t, b.Field().State().Error)
	assert.False(t, b.Field().State().Validating)
}

func TestProps(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(map[string]any{"opts": map[string]any{"dark": true}})
	opts, err := root.SubModel("opts")
	require.NoError(t, err)
	dark, err := opts.Field("dark")
	require.NoError(t, err)

	b, err := binding.New(root, form.Env{HTMLIDPrefix: "settings-", IsPreview: true}, registry.NewRegistry(), binding.Options{
		Field: dark.Fork("side"),
		Kind:  registry.Switch,
	})
	require.NoError(t, err)
	unmount, err := b.Mount(ctx)
	require.NoError(t, err)
	defer unmount()

	props := b.Props()
	assert.Equal(t, "settings-opts.dark#side", props.ID)
	assert.Equal(t, true, props.Value)
	assert.True(t, props.Preview)
	assert.Empty(t, props.Status)
	assert.Equal(t, map[string]any{"id": "settings-opts.dark#side", "checked": true}, props.ComponentProps())
	assert.Equal(t, "Yes", b.PreviewText())

	b.Field().SetError(errors.New("nope"))
	assert.Equal(t, map[string]any{
		"id":      "settings-opts.dark#side",
		"checked": true,
		"state":   "error",
	}, b.Props().ComponentProps())
}

func TestOnChangeAndOnBlur(t *testing.T) {
	ctx := context.Background()
	root := model.NewRoot(nil)
	b, err := binding.New(root, form.Env{ValidateOnChange: true}, registry.NewRegistry(), binding.Options{
		Name:   "name",
		Kind:   registry.Input,
		Config: model.Config{Required: true},
	})
	require.NoError(t, err)
	unmount, err := b.Mount(ctx)
	require.NoError(t, err)
	defer unmount()

	out, err := b.OnChange(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "", root.GetValue("name", "missing"))
	assert.EqualError(t, out.Err, model.DefaultRequiredMessage)

	out, err = b.OnChange(ctx, "lily")
	require.NoError(t, err)
	assert.NoError(t, out.Err)

	out, err = b.OnBlur(ctx)
	require.NoError(t, err)
	assert.False(t, out.Ran)
}

func TestNew_UnknownKind(t *testing.T) {
	root := model.NewRoot(nil)
	b, err := binding.New(root, form.Env{}, registry.NewRegistry(), binding.Options{Name: "x", Kind: "slider"})
	require.NoError(t, err)
	assert.Equal(t, registry.NotFound, b.Kind().Name)
	assert.Equal(t, "invalid component", b.PreviewText())
}

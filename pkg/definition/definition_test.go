package definition_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/testutils"
	"github.com/aretw0/formbind/pkg/definition"
	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/registry"
	"github.com/aretw0/formbind/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signup = `
name: signup
values:
  name: lily
  password: secret-pass
env:
  validateOnChange: true
  htmlIdPrefix: "signup-"
fields:
  - name: name
    label: Name
    required: true
    rules:
      - expr: len(value) >= 3
        message: too short
  - name: age
    type: int
  - name: password
    required: true
  - name: confirm
    rules:
      - expr: value == values.password
        message: passwords differ
  - tuple: [start, end]
    kind: rangePicker
  - name: plan
    kind: select
    dataSource:
      - {value: free, label: Free}
      - {value: pro, label: Pro}
  - name: greeting
    compute: '"hi " + values.name'
`

func TestParse(t *testing.T) {
	doc, err := definition.Parse([]byte(signup))
	require.NoError(t, err)

	assert.Equal(t, "signup", doc.Name)
	require.NotNil(t, doc.Env.ValidateOnChange)
	assert.True(t, *doc.Env.ValidateOnChange)
	assert.Nil(t, doc.Env.ValidateOnBlur)
	require.NotNil(t, doc.Env.HTMLIDPrefix)
	assert.Equal(t, "signup-", *doc.Env.HTMLIDPrefix)
	require.Len(t, doc.Fields, 7)
	assert.Equal(t, []string{"start", "end"}, doc.Fields[4].Tuple)
	assert.Equal(t, "(start,end)", doc.Fields[4].Key())
	assert.Equal(t, []registry.Option{{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"}}, doc.Fields[5].DataSource)
	assert.NoError(t, doc.Check())
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := definition.Parse([]byte("fieldz: []\n"))
	assert.Error(t, err)

	_, err = definition.Parse([]byte("fields:\n  - name: a\n    requird: true\n"))
	assert.Error(t, err)
}

func TestCheck_AggregatesProblems(t *testing.T) {
	doc := &definition.Document{Fields: []definition.FieldSpec{
		{Label: "nameless"},
		{Name: "a", Type: "[int"},
		{Name: "b", Rules: []definition.Rule{{Expr: "len("}}},
		{Name: "c", Tuple: []string{"x", "y"}},
		{Tuple: []string{"x"}, Compute: "1"},
	}}

	err := doc.Check()
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 5)
	assert.Contains(t, err.Error(), "fields[0]")
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	doc, err := definition.Parse([]byte(signup))
	require.NoError(t, err)

	f, err := definition.Build(ctx, doc)
	require.NoError(t, err)
	defer f.Close()

	assert.Len(t, f.Bindings(), 7)

	out, err := f.Change(ctx, "name", "ab")
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "too short")

	out, err = f.Change(ctx, "age", "three")
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "expected int, got string")

	out, err = f.Change(ctx, "confirm", "nope")
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "passwords differ")

	out, err = f.Change(ctx, "confirm", "secret-pass")
	require.NoError(t, err)
	assert.NoError(t, out.Err)

	greeting, ok := f.Binding("greeting")
	require.True(t, ok)
	assert.Equal(t, "hi ab", greeting.Field().Value())
	assert.True(t, greeting.Props().ReadOnly)

	plan, ok := f.Binding("plan")
	require.True(t, ok)
	require.NoError(t, f.SetValue("plan", "pro"))
	assert.Equal(t, "Pro", plan.PreviewText())
	assert.Equal(t, "signup-plan", plan.Props().ID)
}

func TestBuild_SubmitUsesCallerCallbacks(t *testing.T) {
	ctx := context.Background()
	doc, err := definition.Parse([]byte(signup))
	require.NoError(t, err)

	var submitted any
	f, err := definition.Build(ctx, doc, formbind.WithEnvOverride(form.Override{
		OnSubmit: func(_ context.Context, v any, _ *model.Model) { submitted = v },
	}))
	require.NoError(t, err)
	defer f.Close()

	name, ok := f.Binding("name")
	require.True(t, ok)
	assert.True(t, name.Config().ValidateOnChange, "document env survives the caller override")

	require.NoError(t, f.SetValue("age", 30))
	require.NoError(t, f.SetValue("confirm", "secret-pass"))
	res, err := f.Submit(ctx, form.FilterMounted)
	require.NoError(t, err)
	require.False(t, res.HasError, "%v", res.Errors)

	values, ok := submitted.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lily", values["name"])
	assert.Equal(t, "hi lily", values["greeting"])
}

func TestBuild_CancelledValidationRecordsNothing(t *testing.T) {
	doc, err := definition.Parse([]byte(signup))
	require.NoError(t, err)
	f, err := definition.Build(context.Background(), doc)
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.ValidateAll(ctx, model.TriggerAll)
	assert.ErrorIs(t, err, context.Canceled)

	name, ok := f.Binding("name")
	require.True(t, ok)
	assert.NoError(t, name.Field().State().Error)
	assert.False(t, name.Field().State().Validating)
}

func TestBuild_RequiredMessage(t *testing.T) {
	ctx := context.Background()
	doc := &definition.Document{Fields: []definition.FieldSpec{
		{Name: "phone", Required: true, RequiredMessage: "phone is required"},
	}}
	f, err := definition.Build(ctx, doc)
	require.NoError(t, err)
	defer f.Close()

	res, err := f.ValidateAll(ctx, model.TriggerAll)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"phone": "phone is required"}, res.Errors)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := testutils.WriteFile(t, dir, "form.json", `{"values":{"n":1},"fields":[{"name":"n","type":"int"}]}`)
	doc, err := definition.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, doc.Values)
	assert.Equal(t, "int", doc.Fields[0].Type)

	yamlPath := testutils.WriteFile(t, dir, "form.yaml", "fields:\n  - name: n\n")
	doc, err = definition.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "n", doc.Fields[0].Name)

	_, err = definition.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

/*
Package formbind is a reactive form-state library: a value tree addressed by paths,
fields bound to it, per-field asynchronous validation and whole-form submission.

It keeps form values in a plain tree of map[string]any and []any. Sub-models and
fields are created lazily the first time a path is used, and the shape of every
container (array or object) is fixed the first time it is inferred.

# Concept

A Form owns a root model and an Env. Controls attach to fields through bindings:
a binding resolves its field, inherits validation triggers from the env and the
binding kind ("input", "switch", "checkbox", ...), and mounts the field. Only
mounted fields take part in validation and, by default, in submission.

# Usage

	f := formbind.New(map[string]any{"name": "lily", "phone": "123"},
		formbind.WithEnv(form.Env{
			ValidateOnChange: true,
			OnSubmit: func(ctx context.Context, values any, _ *model.Model) {
				fmt.Println(values)
			},
		}),
	)
	defer f.Close()

	ctx := context.Background()
	_, _ = f.Bind(ctx, binding.Options{Name: "name", Config: model.Config{Required: true}})
	_, _ = f.Bind(ctx, binding.Options{Name: "phone", Config: model.Config{Required: true}})

	res, err := f.Submit(ctx, form.FilterMounted)

Forms can also be declared in YAML or JSON with package definition, served over
HTTP with pkg/adapters/http and driven from the formbind command.
*/
package formbind

package formbind_test

import (
	"context"
	"fmt"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/pkg/binding"
	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
)

// ExampleForm_Submit binds two required fields and submits them.
func ExampleForm_Submit() {
	ctx := context.Background()
	f := formbind.New(map[string]any{"name": "lily", "phone": ""}, formbind.WithEnv(form.Env{
		OnSubmit: func(_ context.Context, values any, _ *model.Model) {
			fmt.Println("submitted:", values)
		},
		OnError: func(_ context.Context, errs any, _ *model.Model) {
			fmt.Println("errors:", errs)
		},
	}))
	defer f.Close()

	_, _ = f.Bind(ctx, binding.Options{Name: "name", Config: model.Config{Required: true}})
	_, _ = f.Bind(ctx, binding.Options{Name: "phone", Config: model.Config{Required: true, RequiredMessage: "phone is required"}})

	_, _ = f.Submit(ctx, form.FilterMounted)
	_, _ = f.Change(ctx, "phone", "123")
	_, _ = f.Submit(ctx, form.FilterMounted)

	// Output:
	// errors: map[phone:phone is required]
	// submitted: map[name:lily phone:123]
}

// ExampleForm_Watch reacts to a derived value once per change.
func ExampleForm_Watch() {
	f := formbind.New(map[string]any{"price": 10, "qty": 1})

	dispose, _ := f.Watch(func() any {
		m := f.Model()
		return m.GetValue("price", 0).(int) * m.GetValue("qty", 0).(int)
	}, func(next, prev any) {
		fmt.Printf("total %v -> %v\n", prev, next)
	}, false)
	defer dispose()

	_ = f.SetValue("qty", 3)
	_ = f.SetValue("price", 10)

	// Output:
	// total 10 -> 30
}

package definition

import (
	"context"
	"fmt"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/pkg/binding"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/schema"
	"github.com/aretw0/formbind/pkg/valuepath"
	"github.com/expr-lang/expr/vm"
)

type plan struct {
	spec    FieldSpec
	typ     schema.Type
	rules   []compiledRule
	compute *vm.Program
}

// Check reports every problem of the document as one schema.AggregateError.
func (d *Document) Check() error {
	_, err := d.compile()
	return err
}

func (d *Document) compile() ([]plan, error) {
	var errs []error
	fail := func(i int, s FieldSpec, reason string) {
		errs = append(errs, &schema.ValidationError{
			Key:    fmt.Sprintf("fields[%d] %s", i, s.Key()),
			Reason: reason,
		})
	}

	plans := make([]plan, 0, len(d.Fields))
	for i, s := range d.Fields {
		p := plan{spec: s}
		switch {
		case s.Name == "" && len(s.Tuple) == 0:
			fail(i, s, "name or tuple is required")
			continue
		case s.Name != "" && len(s.Tuple) > 0:
			fail(i, s, "name and tuple are exclusive")
			continue
		case s.Compute != "" && s.Name == "":
			fail(i, s, "compute needs a name")
			continue
		}
		if s.Type != "" {
			typ, err := schema.ParseType(s.Type)
			if err != nil {
				fail(i, s, err.Error())
			}
			p.typ = typ
		}
		rules, err := compileRules(s.Rules)
		if err != nil {
			fail(i, s, err.Error())
		}
		p.rules = rules
		if s.Compute != "" {
			prg, err := compileCompute(s.Compute)
			if err != nil {
				fail(i, s, "compute: "+err.Error())
			}
			p.compute = prg
		}
		plans = append(plans, p)
	}
	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	return plans, nil
}

// Build creates a form from the document and binds every field. Options are
// applied after the document env: pass callbacks with formbind.WithEnvOverride to
// keep the document flags.
func Build(ctx context.Context, d *Document, opts ...formbind.Option) (*formbind.Form, error) {
	plans, err := d.compile()
	if err != nil {
		return nil, err
	}

	all := make([]formbind.Option, 0, len(opts)+2)
	all = append(all, formbind.WithEnvOverride(d.Env.Override()))
	if d.Name != "" {
		all = append(all, formbind.WithName(d.Name))
	}
	all = append(all, opts...)
	f := formbind.New(d.Values, all...)

	for _, p := range plans {
		field, err := resolve(f.Model(), p)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("field %s: %w", p.spec.Key(), err)
		}
		if _, err := f.Bind(ctx, bindOptions(field, p)); err != nil {
			f.Close()
			return nil, fmt.Errorf("field %s: %w", p.spec.Key(), err)
		}
	}
	return f, nil
}

func resolve(root *model.Model, p plan) (*model.Field, error) {
	var (
		field *model.Field
		err   error
	)
	switch {
	case p.compute != nil:
		path := valuepath.Split(p.spec.Name)
		owner := root
		if len(path) > 1 {
			owner, err = root.SubModelPath(path[:len(path)-1])
			if err != nil {
				return nil, err
			}
		}
		field = owner.ComputedField(path[len(path)-1], computeGetter(root, p.compute), nil)
	case len(p.spec.Tuple) > 0:
		field, err = root.TupleField(p.spec.Tuple...)
	default:
		field, err = root.Field(p.spec.Name)
	}
	if err != nil {
		return nil, err
	}
	if p.spec.Fork != "" {
		field = field.Fork(p.spec.Fork)
	}
	return field, nil
}

func bindOptions(field *model.Field, p plan) binding.Options {
	s := p.spec
	return binding.Options{
		Field: field,
		Kind:  s.Kind,
		Config: model.Config{
			Label:           s.Label,
			Help:            s.Help,
			Tip:             s.Tip,
			ReadOnly:        s.ReadOnly || p.compute != nil,
			Disabled:        s.Disabled,
			Required:        s.Required,
			RequiredMessage: s.RequiredMessage,
			Validate:        validator(p.typ, p.rules),
		},
		DefaultValue:     s.DefaultValue,
		DataSource:       s.DataSource,
		ValidateOnMount:  s.ValidateOnMount,
		ValidateOnChange: s.ValidateOnChange,
		ValidateOnBlur:   s.ValidateOnBlur,
	}
}

package definition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/schema"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type compiledRule struct {
	program *vm.Program
	message string
}

func ruleEnv() map[string]any {
	return map[string]any{"value": nil, "trigger": "", "values": nil}
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Expr == "" {
			return nil, fmt.Errorf("rules[%d]: empty expression", i)
		}
		prg, err := expr.Compile(r.Expr, expr.Env(ruleEnv()), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		msg := r.Message
		if msg == "" {
			msg = fmt.Sprintf("rule %q failed", r.Expr)
		}
		out = append(out, compiledRule{program: prg, message: msg})
	}
	return out, nil
}

// validator chains the type check and the rules. Nil values pass; emptiness is the
// required check's business.
func validator(typ schema.Type, rules []compiledRule) model.ValidateFunc {
	if typ == nil && len(rules) == 0 {
		return nil
	}
	return func(ctx context.Context, value any, f *model.Field, trigger model.Trigger) error {
		if value == nil {
			return nil
		}
		if typ != nil {
			if err := typ.Validate(value); err != nil {
				return err
			}
		}
		if len(rules) == 0 {
			return nil
		}
		env := map[string]any{
			"value":   value,
			"trigger": string(trigger),
			"values":  f.Model().Root().Values(),
		}
		for _, r := range rules {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := expr.Run(r.program, env)
			if err != nil {
				return fmt.Errorf("%s: %w", r.message, err)
			}
			if ok, _ := res.(bool); !ok {
				return errors.New(r.message)
			}
		}
		return nil
	}
}

func compileCompute(source string) (*vm.Program, error) {
	return expr.Compile(source, expr.Env(map[string]any{"values": nil}))
}

func computeGetter(root *model.Model, prg *vm.Program) func() any {
	return func() any {
		out, err := expr.Run(prg, map[string]any{"values": root.Values()})
		if err != nil {
			root.Logger().Debug("computed expression failed", "err", err)
			return nil
		}
		return out
	}
}

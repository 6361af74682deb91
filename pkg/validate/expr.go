package validate

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formstate/pkg/binding"
)

// ProgramCache stores compiled expression programs keyed by the expression
// string. memo.Cache satisfies it.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// ExprOption configures FromExpression.
type ExprOption func(*exprValidator)

// ExprWithProgramCache reuses compiled programs across validators built from
// the same expression.
func ExprWithProgramCache(cache ProgramCache) ExprOption {
	return func(v *exprValidator) {
		v.cache = cache
	}
}

// ExprWithMessage replaces the default failure message used when the
// expression evaluates to false.
func ExprWithMessage(message string) ExprOption {
	return func(v *exprValidator) {
		v.message = message
	}
}

type exprValidator struct {
	expression string
	program    *exprvm.Program
	cache      ProgramCache
	message    string
}

// FromExpression compiles an expr-lang expression into a binding.Validator.
// The expression sees `value` (the value under test) and `values` (the full
// prospective values map).
//
// Verdict mapping follows the validator contract: a true result is valid, a
// false result fails with the configured message, a string result fails with
// that string as the error payload, and an evaluation error fails with the
// error text.
func FromExpression(expression string, options ...ExprOption) (binding.Validator, error) {
	if expression == "" {
		return nil, fmt.Errorf("validate: expression must not be empty")
	}

	v := &exprValidator{
		expression: expression,
		message:    "invalid value",
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}

	program, err := v.loadOrCompile()
	if err != nil {
		return nil, err
	}
	v.program = program

	return func(value string, values map[string]any, _ binding.Input) any {
		env := map[string]any{
			"value":  value,
			"values": values,
		}
		result, err := exprlang.Run(v.program, env)
		if err != nil {
			return fmt.Sprintf("validation expression failed: %v", err)
		}
		switch typed := result.(type) {
		case bool:
			if typed {
				return true
			}
			return v.message
		case nil:
			return true
		case string:
			if typed == "" {
				return true
			}
			return typed
		default:
			return typed
		}
	}, nil
}

func (v *exprValidator) loadOrCompile() (*exprvm.Program, error) {
	if v.cache != nil {
		if cached, ok := v.cache.Get(v.expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(v.expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("validate: compile expression %q: %w", v.expression, err)
	}
	if v.cache != nil {
		v.cache.Set(v.expression, program)
	}
	return program, nil
}

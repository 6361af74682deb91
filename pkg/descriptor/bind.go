package descriptor

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// BindOption configures descriptor-to-binding bridging.
type BindOption func(*bindConfig)

type bindConfig struct {
	programs validate.ProgramCache
}

// WithProgramCache reuses compiled expression programs across fields that
// share a validation expression.
func WithProgramCache(cache validate.ProgramCache) BindOption {
	return func(cfg *bindConfig) {
		cfg.programs = cache
	}
}

// Bind compiles a field's declarative validation into binding options. Rule
// validators run first; when they pass, the expression validator (if any)
// decides. Construction fails on malformed rules or expressions so bad
// definitions surface before any event flows.
func Bind(fld Field, options ...BindOption) (binding.Options, error) {
	var cfg bindConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	rules := fld.Rules
	if fld.Required {
		rules = append([]validate.Rule{{Kind: validate.RuleRequired}}, rules...)
	}

	var validators []binding.Validator
	if len(rules) > 0 {
		ruleValidator, err := validate.FromRules(rules)
		if err != nil {
			return binding.Options{}, fmt.Errorf("descriptor: field %q: %w", fld.Name, err)
		}
		validators = append(validators, ruleValidator)
	}
	if fld.Expr != "" {
		exprOptions := []validate.ExprOption{}
		if cfg.programs != nil {
			exprOptions = append(exprOptions, validate.ExprWithProgramCache(cfg.programs))
		}
		if fld.ExprMessage != "" {
			exprOptions = append(exprOptions, validate.ExprWithMessage(fld.ExprMessage))
		}
		exprValidator, err := validate.FromExpression(fld.Expr, exprOptions...)
		if err != nil {
			return binding.Options{}, fmt.Errorf("descriptor: field %q: %w", fld.Name, err)
		}
		validators = append(validators, exprValidator)
	}

	opts := binding.Options{
		ValidateOnBlur: fld.ValidateOnBlur,
		TouchOnChange:  fld.TouchOnChange,
	}
	if len(validators) > 0 {
		opts.Validate = chain(validators)
	}
	return opts, nil
}

// chain runs validators in order and stops at the first non-valid verdict.
func chain(validators []binding.Validator) binding.Validator {
	if len(validators) == 1 {
		return validators[0]
	}
	return func(value string, values map[string]any, in binding.Input) any {
		for _, validator := range validators {
			verdict := validator(value, values, in)
			if verdict == nil || verdict == true {
				continue
			}
			return verdict
		}
		return true
	}
}

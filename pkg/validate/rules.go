// Package validate builds custom validators for the binding engine from
// declarative rule sets and from expression strings.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/binding"
)

// Canonical rule kinds. Numeric bounds and length limits encode their
// threshold in Params["value"]; pattern rules carry the expression in
// Params["pattern"].
const (
	RuleRequired  = "required"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
)

// Rule is a single declarative validation constraint.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`

	// Message overrides the built-in failure message for this rule.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type compiledRule struct {
	check   func(value string) bool
	message string
}

// FromRules compiles a rule set into a binding.Validator. Rules are checked
// in order; the first failing rule's message becomes the error payload.
// Unknown kinds and malformed parameters are construction errors, not
// runtime surprises.
func FromRules(rules []Rule) (binding.Validator, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		c, err := compileRule(rule)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}

	return func(value string, _ map[string]any, _ binding.Input) any {
		for _, rule := range compiled {
			if !rule.check(value) {
				return rule.message
			}
		}
		return true
	}, nil
}

func compileRule(rule Rule) (compiledRule, error) {
	switch rule.Kind {
	case RuleRequired:
		return compiledRule{
			check:   func(value string) bool { return strings.TrimSpace(value) != "" },
			message: messageOr(rule, "this field is required"),
		}, nil

	case RuleMinLength:
		limit, err := intParam(rule, "value")
		if err != nil {
			return compiledRule{}, err
		}
		return compiledRule{
			check:   func(value string) bool { return utf8.RuneCountInString(value) >= limit },
			message: messageOr(rule, fmt.Sprintf("must be at least %d characters", limit)),
		}, nil

	case RuleMaxLength:
		limit, err := intParam(rule, "value")
		if err != nil {
			return compiledRule{}, err
		}
		return compiledRule{
			check:   func(value string) bool { return utf8.RuneCountInString(value) <= limit },
			message: messageOr(rule, fmt.Sprintf("must be at most %d characters", limit)),
		}, nil

	case RuleMin:
		bound, exclusive, err := floatParam(rule)
		if err != nil {
			return compiledRule{}, err
		}
		return compiledRule{
			check: func(value string) bool {
				number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
				if err != nil {
					// Non-numeric input is the pattern/length rules' problem.
					return true
				}
				if exclusive {
					return number > bound
				}
				return number >= bound
			},
			message: messageOr(rule, fmt.Sprintf("must be at least %s", formatFloat(bound))),
		}, nil

	case RuleMax:
		bound, exclusive, err := floatParam(rule)
		if err != nil {
			return compiledRule{}, err
		}
		return compiledRule{
			check: func(value string) bool {
				number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
				if err != nil {
					return true
				}
				if exclusive {
					return number < bound
				}
				return number <= bound
			},
			message: messageOr(rule, fmt.Sprintf("must be at most %s", formatFloat(bound))),
		}, nil

	case RulePattern:
		raw := strings.TrimSpace(rule.Params["pattern"])
		if raw == "" {
			return compiledRule{}, fmt.Errorf("validate: pattern rule is missing its expression")
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return compiledRule{}, fmt.Errorf("validate: compile pattern %q: %w", raw, err)
		}
		return compiledRule{
			check: func(value string) bool {
				// Empty values are the required rule's concern.
				return value == "" || re.MatchString(value)
			},
			message: messageOr(rule, fmt.Sprintf("must match %s", raw)),
		}, nil

	default:
		return compiledRule{}, fmt.Errorf("validate: unknown rule kind %q", rule.Kind)
	}
}

func messageOr(rule Rule, fallback string) string {
	if trimmed := strings.TrimSpace(rule.Message); trimmed != "" {
		return trimmed
	}
	return fallback
}

func intParam(rule Rule, key string) (int, error) {
	raw := strings.TrimSpace(rule.Params[key])
	if raw == "" {
		return 0, fmt.Errorf("validate: %s rule is missing params[%q]", rule.Kind, key)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("validate: %s rule: parse %q: %w", rule.Kind, raw, err)
	}
	return value, nil
}

func floatParam(rule Rule) (float64, bool, error) {
	raw := strings.TrimSpace(rule.Params["value"])
	if raw == "" {
		return 0, false, fmt.Errorf("validate: %s rule is missing params[%q]", rule.Kind, "value")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("validate: %s rule: parse %q: %w", rule.Kind, raw, err)
	}
	exclusive := strings.EqualFold(strings.TrimSpace(rule.Params["exclusive"]), "true")
	return value, exclusive, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

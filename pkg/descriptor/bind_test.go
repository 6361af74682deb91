package descriptor

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/validate"
)

func TestBind_NoValidationLeavesValidateNil(t *testing.T) {
	opts, err := Bind(Field{Name: "bio", Type: "textarea", ValidateOnBlur: true, TouchOnChange: true})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if opts.Validate != nil {
		t.Fatal("no declarative validation must leave Validate nil")
	}
	if !opts.ValidateOnBlur || !opts.TouchOnChange {
		t.Fatal("behavioural flags must carry over")
	}
}

func TestBind_RequiredPrependsRule(t *testing.T) {
	opts, err := Bind(Field{
		Name:     "email",
		Required: true,
		Rules: []validate.Rule{
			{Kind: validate.RuleMinLength, Params: map[string]string{"value": "5"}, Message: "too short"},
		},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if got := opts.Validate("", nil, nil); got != "this field is required" {
		t.Fatalf("blank value verdict: %v", got)
	}
	if got := opts.Validate("abc", nil, nil); got != "too short" {
		t.Fatalf("short value verdict: %v", got)
	}
	if got := opts.Validate("abcdef", nil, nil); got != true {
		t.Fatalf("passing verdict: %v", got)
	}
}

func TestBind_RulesThenExpression(t *testing.T) {
	opts, err := Bind(Field{
		Name:        "confirm",
		Required:    true,
		Expr:        `value == values.password`,
		ExprMessage: "passwords do not match",
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	values := map[string]any{"password": "s3cret"}
	if got := opts.Validate("", values, nil); got != "this field is required" {
		t.Fatalf("rule must fail before the expression runs: %v", got)
	}
	if got := opts.Validate("wrong", values, nil); got != "passwords do not match" {
		t.Fatalf("expression verdict: %v", got)
	}
	if got := opts.Validate("s3cret", values, nil); got != true {
		t.Fatalf("passing verdict: %v", got)
	}
}

func TestBind_ConstructionErrors(t *testing.T) {
	cases := []struct {
		name string
		fld  Field
	}{
		{
			name: "bad rule",
			fld:  Field{Name: "a", Rules: []validate.Rule{{Kind: "bogus"}}},
		},
		{
			name: "bad expression",
			fld:  Field{Name: "a", Expr: "value ==="},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Bind(tc.fld)
			if err == nil || !strings.Contains(err.Error(), `field "a"`) {
				t.Fatalf("want field-qualified error, got %v", err)
			}
		})
	}
}

func TestBind_SharedProgramCache(t *testing.T) {
	cache := memo.New()

	if _, err := Bind(Field{Name: "a", Expr: `value != ""`}, WithProgramCache(cache)); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if !cache.Has(`value != ""`) {
		t.Fatal("expression program not cached")
	}
	if _, err := Bind(Field{Name: "b", Expr: `value != ""`}, WithProgramCache(cache)); err != nil {
		t.Fatalf("second bind: %v", err)
	}
}

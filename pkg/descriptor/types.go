// Package descriptor loads declarative form definitions from JSON/YAML files
// and bridges them into per-field binding options. Definitions are data that
// may come from untrusted authors, so label and help markup is sanitized on
// load.
package descriptor

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// Form is one declarative form definition.
type Form struct {
	Name        string  `json:"name" yaml:"name"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field describes a single input of a declarative form.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Help  string `json:"help,omitempty" yaml:"help,omitempty"`

	// OwnValues enumerates the intrinsic values of a checkbox or radio
	// group; one binding request is made per entry.
	OwnValues []string `json:"ownValues,omitempty" yaml:"ownValues,omitempty"`

	// Options lists the choices of a select or select-multiple field.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	Required bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Rules    []validate.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Expr is an optional expr-lang validation expression evaluated with
	// env {value, values}. ExprMessage replaces the default failure message.
	Expr        string `json:"expr,omitempty" yaml:"expr,omitempty"`
	ExprMessage string `json:"exprMessage,omitempty" yaml:"exprMessage,omitempty"`

	ValidateOnBlur bool `json:"validateOnBlur,omitempty" yaml:"validateOnBlur,omitempty"`
	TouchOnChange  bool `json:"touchOnChange,omitempty" yaml:"touchOnChange,omitempty"`

	Default any `json:"default,omitempty" yaml:"default,omitempty"`
}

// FieldType resolves the declared type, defaulting blank declarations to
// text.
func (f Field) FieldType() field.Type {
	trimmed := strings.TrimSpace(f.Type)
	if trimmed == "" {
		return field.TypeText
	}
	return field.Type(trimmed)
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if trimmed := strings.TrimSpace(f.Label); trimmed != "" {
		return trimmed
	}
	return f.Name
}

// InitialValues collects the declared defaults keyed by field name,
// suitable for mounting a form.
func (f Form) InitialValues() map[string]any {
	values := make(map[string]any)
	for _, fld := range f.Fields {
		if fld.Default != nil {
			values[fld.Name] = fld.Default
		}
	}
	return values
}

// FieldByName looks a field up by name.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

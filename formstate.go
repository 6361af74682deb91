// Package formstate is a form-state controller: given a declarative
// description of form fields it maintains a single authoritative state
// object (values, touched, validity, errors) and produces fully wired
// event-binding property bags for each field type. It computes data and
// callbacks only; rendering belongs to the host.
package formstate

import (
	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Form is the per-instance controller. See pkg/form for the full API.
type Form = form.Form

// Option configures a Form at construction.
type Option = form.Option

// Bindings is the property bag produced for one field.
type Bindings = binding.Bindings

// Options configures a single field at binding-request time.
type Options = binding.Options

// Request is the normalized binding call, usable in place of the variadic
// shorthand shapes.
type Request = binding.Request

// Validator is the per-field custom validation function contract.
type Validator = binding.Validator

// Event is a UI change/blur event; ProgrammaticValue is a bare value
// validated outside any event. Input is their common discriminated contract.
type (
	Input             = binding.Input
	Event             = binding.Event
	ProgrammaticValue = binding.ProgrammaticValue
	Target            = binding.Target
	SelectOption      = binding.SelectOption
	Constraint        = binding.Constraint
)

// Snapshot is the read view over form state.
type Snapshot = state.Snapshot

// Type identifies a field kind.
type Type = field.Type

// New mounts a form with the supplied initial values.
func New(initial map[string]any, options ...Option) *Form {
	return form.New(initial, options...)
}

// Construction options re-exported from pkg/form.
var (
	WithIDs          = form.WithIDs
	WithDebug        = form.WithDebug
	WithHandlerCache = form.WithHandlerCache
	OnChange         = form.OnChange
	OnBlur           = form.OnBlur
	OnTouched        = form.OnTouched
)

// Event constructors re-exported from pkg/binding.
var (
	ChangeValue   = binding.ChangeValue
	ChangeChecked = binding.ChangeChecked
	ChangeOptions = binding.ChangeOptions
	Blur          = binding.Blur
	Valid         = binding.Valid
	Invalid       = binding.Invalid
)

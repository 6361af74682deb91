package binding

import "log"

// Validator is a per-field custom validation function. It receives the value
// under test, the full (prospective) values map, and the triggering input.
//
// The return value drives the verdict:
//   - exactly true, or nil: the field is valid and any prior error clears
//   - exactly false: the field is invalid with an empty-string error payload
//   - anything else: the field is invalid and the return value is recorded
//     verbatim as the error payload
type Validator func(value string, values map[string]any, in Input) any

// Options configures a single field at binding-request time. All fields are
// independently optional.
type Options struct {
	// Validate takes precedence over native constraint validation whenever
	// it is set.
	Validate Validator

	// ValidateOnBlur defers validation from change events to blur events.
	ValidateOnBlur bool

	// TouchOnChange marks the field touched on its first change event
	// instead of waiting for blur.
	TouchOnChange bool

	// OnChange is invoked with the raw event before the new value is
	// derived. A non-nil return value overrides the derived value.
	OnChange func(Event) any

	// OnBlur is invoked with the raw blur event after the touch routine.
	OnBlur func(Event)
}

// Config carries the form-level hooks and toggles shared by every field of
// one engine instance.
type Config struct {
	// OnChange observes every change event together with the pre-commit
	// values and the prospective next values. Both maps are copies; mutating
	// them does not affect authoritative state.
	OnChange func(ev Event, previous, next map[string]any)

	// OnBlur observes every blur event.
	OnBlur func(Event)

	// OnTouched fires the first time each field transitions to touched.
	OnTouched func(Event)

	// WithIDs enables accessibility id generation.
	WithIDs bool

	// Debug enables the one-time advisory warnings for programmatic values
	// validated without a custom validator. Warnings are suppressed entirely
	// when Debug is false.
	Debug bool

	// Logger receives debug warnings. Defaults to the standard library
	// logger when Debug is set and no Logger is supplied.
	Logger Logger
}

// Logger is the engine's warning channel.
type Logger interface {
	Warnf(format string, args ...any)
}

// LoggerFunc adapts a printf-style function to Logger.
type LoggerFunc func(format string, args ...any)

// Warnf implements Logger.
func (f LoggerFunc) Warnf(format string, args ...any) {
	if f != nil {
		f(format, args...)
	}
}

func stdLogger() Logger {
	return LoggerFunc(log.Printf)
}

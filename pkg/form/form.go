// Package form assembles the public face of the controller: one binding
// generator per supported field type, a label helper, the live state
// snapshot, and the programmatic form-level operations.
package form

import (
	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/idgen"
	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Generator requests bindings for one field using the argument shapes of
// binding.ParseArgs.
type Generator func(args ...any) (*binding.Bindings, error)

// Form is one mounted form instance. It lives for the form's entire
// lifetime and is driven synchronously from the host's event cycle.
type Form struct {
	store   *state.Store
	engine  *binding.Engine
	ids     *idgen.Provider
	initial map[string]any
}

type config struct {
	binding   binding.Config
	idOptions []idgen.Option
	handlers  *memo.Cache
}

// Option configures a Form at construction.
type Option func(*config)

// WithIDs enables accessibility id generation.
func WithIDs(options ...idgen.Option) Option {
	return func(cfg *config) {
		cfg.binding.WithIDs = true
		cfg.idOptions = append(cfg.idOptions, options...)
	}
}

// WithDebug enables the engine's one-time advisory warnings. A nil logger
// falls back to the standard library logger.
func WithDebug(logger binding.Logger) Option {
	return func(cfg *config) {
		cfg.binding.Debug = true
		cfg.binding.Logger = logger
	}
}

// OnChange registers the form-level change hook. It observes every change
// event with pre-commit and prospective values.
func OnChange(hook func(ev binding.Event, previous, next map[string]any)) Option {
	return func(cfg *config) {
		cfg.binding.OnChange = hook
	}
}

// OnBlur registers the form-level blur hook.
func OnBlur(hook func(binding.Event)) Option {
	return func(cfg *config) {
		cfg.binding.OnBlur = hook
	}
}

// OnTouched registers the hook fired once per field when it first becomes
// touched.
func OnTouched(hook func(binding.Event)) Option {
	return func(cfg *config) {
		cfg.binding.OnTouched = hook
	}
}

// WithHandlerCache supplies an external handler cache, letting hosts share
// or inspect handler identity. Defaults to a private cache.
func WithHandlerCache(cache *memo.Cache) Option {
	return func(cfg *config) {
		cfg.handlers = cache
	}
}

// New mounts a form with the supplied initial values.
func New(initial map[string]any, options ...Option) *Form {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	store := state.New(initial)
	ids := idgen.New(cfg.binding.WithIDs, cfg.idOptions...)
	handlers := cfg.handlers
	if handlers == nil {
		handlers = memo.New()
	}

	return &Form{
		store:   store,
		engine:  binding.New(store, ids, handlers, cfg.binding),
		ids:     ids,
		initial: state.CloneValues(initial),
	}
}

// State returns the live snapshot of values, touched, validity, and errors.
func (f *Form) State() state.Snapshot {
	return f.store.Current()
}

// Input returns the binding generator for an arbitrary field type.
func (f *Form) Input(t field.Type) Generator {
	return func(args ...any) (*binding.Bindings, error) {
		return f.engine.Bindings(t, args...)
	}
}

// Generators returns the full map of binding generators keyed by field type.
func (f *Form) Generators() map[field.Type]Generator {
	out := make(map[field.Type]Generator, len(field.All()))
	for _, t := range field.All() {
		out[t] = f.Input(t)
	}
	return out
}

func (f *Form) Text(args ...any) (*binding.Bindings, error)     { return f.engine.Bindings(field.TypeText, args...) }
func (f *Form) Email(args ...any) (*binding.Bindings, error)    { return f.engine.Bindings(field.TypeEmail, args...) }
func (f *Form) Password(args ...any) (*binding.Bindings, error) { return f.engine.Bindings(field.TypePassword, args...) }
func (f *Form) Number(args ...any) (*binding.Bindings, error)   { return f.engine.Bindings(field.TypeNumber, args...) }
func (f *Form) URL(args ...any) (*binding.Bindings, error)      { return f.engine.Bindings(field.TypeURL, args...) }
func (f *Form) Tel(args ...any) (*binding.Bindings, error)      { return f.engine.Bindings(field.TypeTel, args...) }
func (f *Form) Search(args ...any) (*binding.Bindings, error)   { return f.engine.Bindings(field.TypeSearch, args...) }
func (f *Form) Color(args ...any) (*binding.Bindings, error)    { return f.engine.Bindings(field.TypeColor, args...) }
func (f *Form) Date(args ...any) (*binding.Bindings, error)     { return f.engine.Bindings(field.TypeDate, args...) }
func (f *Form) Month(args ...any) (*binding.Bindings, error)    { return f.engine.Bindings(field.TypeMonth, args...) }
func (f *Form) Time(args ...any) (*binding.Bindings, error)     { return f.engine.Bindings(field.TypeTime, args...) }
func (f *Form) Week(args ...any) (*binding.Bindings, error)     { return f.engine.Bindings(field.TypeWeek, args...) }
func (f *Form) Range(args ...any) (*binding.Bindings, error)    { return f.engine.Bindings(field.TypeRange, args...) }
func (f *Form) Textarea(args ...any) (*binding.Bindings, error) { return f.engine.Bindings(field.TypeTextarea, args...) }
func (f *Form) Select(args ...any) (*binding.Bindings, error)   { return f.engine.Bindings(field.TypeSelect, args...) }
func (f *Form) Checkbox(args ...any) (*binding.Bindings, error) { return f.engine.Bindings(field.TypeCheckbox, args...) }
func (f *Form) Radio(args ...any) (*binding.Bindings, error)    { return f.engine.Bindings(field.TypeRadio, args...) }
func (f *Form) Raw(args ...any) (*binding.Bindings, error)      { return f.engine.Bindings(field.TypeRaw, args...) }

// SelectMultiple requests bindings for a multi-select field.
func (f *Form) SelectMultiple(args ...any) (*binding.Bindings, error) {
	return f.engine.Bindings(field.TypeSelectMultiple, args...)
}

// Label returns the label props for a field: {"htmlFor": id}, or an empty
// map when id generation is disabled. An optional own value targets one
// entry of a checkbox or radio group.
func (f *Form) Label(name string, ownValue ...string) map[string]string {
	own := ""
	if len(ownValue) > 0 {
		own = ownValue[0]
	}
	return f.ids.IDProp("htmlFor", name, own)
}

// ID returns the generated id for a field, or "" when ids are disabled.
func (f *Form) ID(name string, ownValue ...string) string {
	own := ""
	if len(ownValue) > 0 {
		own = ownValue[0]
	}
	return f.ids.ID(name, own)
}

// SetField commits a value programmatically, marks the field touched, and
// validates it through the bare-value path.
func (f *Form) SetField(name string, value any) {
	f.engine.SetField(name, value)
}

// SetFieldError forces a field invalid with the given error payload.
func (f *Form) SetFieldError(name string, payload any) {
	f.engine.SetFieldError(name, payload)
}

// ClearField resets one field to its type default and forgets its touched,
// validity, and error state.
func (f *Form) ClearField(name string) {
	f.engine.ClearField(name)
}

// Clear resets every known field to its type default.
func (f *Form) Clear() {
	f.engine.Clear()
}

// Reset restores the initial mount values and drops all touched, validity,
// error, and dirty state.
func (f *Form) Reset() {
	f.engine.Reset(f.initial)
}

// IsPristine reports whether no field has been touched or changed since
// mount or the last Reset.
func (f *Form) IsPristine() bool {
	return f.engine.Pristine()
}

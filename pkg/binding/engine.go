// Package binding implements the input-binding engine: per-field-type
// property bags whose accessors derive value/checked state from the store and
// whose handlers synthesize next-state values, drive validation, and track
// touched/dirty transitions.
package binding

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/idgen"
	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/state"
)

// descriptor is the resolved identity of one binding request.
type descriptor struct {
	typ    field.Type
	name   string
	own    string
	hasOwn bool
	opts   Options
}

func (d descriptor) key() string {
	return string(d.typ) + "\x00" + d.name + "\x00" + d.own
}

// Engine wires field bindings against a single form's state store. Only the
// engine writes to the store; handlers execute to completion synchronously
// inside the host's event cycle.
type Engine struct {
	store    *state.Store
	ids      *idgen.Provider
	handlers *memo.Cache
	cfg      Config

	// dirty tracks value changes since the last blur-triggered validation,
	// independent of touched.
	dirty map[string]bool

	// warned deduplicates the programmatic-validation advisory per
	// (type, name, ownValue) key, scoped to this engine instance.
	warned map[string]struct{}

	// seen records the latest descriptor bound per field name so form-level
	// operations (SetField, Clear) know each field's type and validator.
	seen map[string]descriptor
}

// New constructs an engine over the given store. A nil ids provider disables
// id generation; a nil cache gets a private one.
func New(store *state.Store, ids *idgen.Provider, handlers *memo.Cache, cfg Config) *Engine {
	if store == nil {
		store = state.New(nil)
	}
	if ids == nil {
		ids = idgen.New(false)
	}
	if handlers == nil {
		handlers = memo.New()
	}
	if cfg.Debug && cfg.Logger == nil {
		cfg.Logger = stdLogger()
	}
	return &Engine{
		store:    store,
		ids:      ids,
		handlers: handlers,
		cfg:      cfg,
		dirty:    make(map[string]bool),
		warned:   make(map[string]struct{}),
		seen:     make(map[string]descriptor),
	}
}

// Store exposes the underlying state store.
func (e *Engine) Store() *state.Store {
	return e.store
}

// IDs exposes the identifier provider for label helpers.
func (e *Engine) IDs() *idgen.Provider {
	return e.ids
}

// Bindings resolves the argument shapes of ParseArgs and returns a fresh
// property bag for the field. Handler closures are reused per
// (type, name, ownValue), so two bags for the same triple share the exact
// same OnChange and OnBlur functions.
func (e *Engine) Bindings(t field.Type, args ...any) (*Bindings, error) {
	if !t.Known() {
		return nil, fmt.Errorf("binding: unknown field type %q", t)
	}
	req, err := ParseArgs(args...)
	if err != nil {
		return nil, err
	}

	desc := descriptor{
		typ:    t,
		name:   req.Name,
		own:    req.OwnValue,
		hasOwn: req.HasOwnValue,
		opts:   req.Options,
	}
	e.seen[desc.name] = desc

	key := desc.key()
	onChange := e.handlers.GetOrSet("change\x00"+key, func() any {
		return e.changeHandler(desc)
	}).(func(Event))
	onBlur := e.handlers.GetOrSet("blur\x00"+key, func() any {
		return e.blurHandler(desc)
	}).(func(Event))

	bag := &Bindings{
		Name:     desc.name,
		Multiple: t.Multiple(),
		ID:       e.ids.ID(desc.name, desc.own),
		OnChange: onChange,
		OnBlur:   onBlur,
		engine:   e,
		desc:     desc,
	}
	if !t.OmitsDOMType() {
		bag.Type = string(t)
	}
	return bag, nil
}

// changeHandler builds the cached change closure for one field. Ordering is
// load-bearing: the form-level hook observes pre-commit values, validation
// runs against the prospective merge, and the commit happens last.
func (e *Engine) changeHandler(desc descriptor) func(Event) {
	return func(ev Event) {
		e.dirty[desc.name] = true

		var override any
		if desc.opts.OnChange != nil {
			override = desc.opts.OnChange(ev)
		}
		next := e.nextValue(desc, ev, override)

		previous := e.store.ValuesCopy()
		merged := state.CloneValues(previous)
		merged[desc.name] = next
		if e.cfg.OnChange != nil {
			e.cfg.OnChange(ev, previous, merged)
		}

		if !desc.opts.ValidateOnBlur {
			e.runValidation(desc, ev, merged)
		}
		if desc.opts.TouchOnChange {
			e.touch(desc.name, ev)
		}

		e.store.SetValues(map[string]any{desc.name: next})
	}
}

// blurHandler builds the cached blur closure. The first blur always
// validates; later blurs validate only while the field is dirty, and
// validating resets dirty.
func (e *Engine) blurHandler(desc descriptor) func(Event) {
	return func(ev Event) {
		wasTouched := e.store.Current().Touched[desc.name]
		e.touch(desc.name, ev)

		if desc.opts.OnBlur != nil {
			desc.opts.OnBlur(ev)
		}
		if e.cfg.OnBlur != nil {
			e.cfg.OnBlur(ev)
		}

		if !wasTouched || e.dirty[desc.name] {
			e.runValidation(desc, ev, nil)
			e.dirty[desc.name] = false
		}
	}
}

// nextValue synthesizes the candidate new value from a change event. A
// non-nil override from the per-field hook wins outright.
func (e *Engine) nextValue(desc descriptor, ev Event, override any) any {
	if override != nil {
		return override
	}
	switch {
	case desc.typ == field.TypeCheckbox && desc.hasOwn:
		return toggleOwnValue(e.currentList(desc.name), desc.own)
	case desc.typ == field.TypeCheckbox:
		return ev.Target.Checked
	case desc.typ.Multiple():
		return selectedValues(ev.Target.Options)
	default:
		return ev.Target.Value
	}
}

// currentList reads the field's checked-values list, tolerating both
// []string and []any shapes as well as a missing value.
func (e *Engine) currentList(name string) []string {
	value, ok := e.store.Value(name)
	if !ok {
		return nil
	}
	list, _ := toStringSlice(value)
	return list
}

// runValidation resolves the validation verdict for one field and commits it.
// Precedence: custom validator, then the event's native constraint snapshot,
// then unconditional validity for bare programmatic values (with a one-time
// debug advisory, since no native validation is possible without an event).
func (e *Engine) runValidation(desc descriptor, in Input, values map[string]any) {
	if values == nil {
		values = e.store.ValuesCopy()
	}

	if desc.opts.Validate != nil {
		verdict := desc.opts.Validate(inputValue(in), values, in)
		e.commitVerdict(desc.name, verdict)
		return
	}

	if ev, ok := in.(Event); ok {
		constraint := ev.Target.Validity
		if constraint == nil || constraint.Valid {
			e.commitValid(desc.name)
			return
		}
		e.commitInvalid(desc.name, constraint.Message)
		return
	}

	e.warnOnce(desc)
	e.commitValid(desc.name)
}

// commitVerdict interprets a custom validator's return value.
func (e *Engine) commitVerdict(name string, verdict any) {
	switch verdict {
	case nil, true:
		e.commitValid(name)
	case false:
		e.commitInvalid(name, "")
	default:
		e.commitInvalid(name, verdict)
	}
}

func (e *Engine) commitValid(name string) {
	e.store.SetValidity(map[string]bool{name: true})
	e.store.SetErrors(map[string]any{name: nil})
}

func (e *Engine) commitInvalid(name string, payload any) {
	e.store.SetValidity(map[string]bool{name: false})
	if payload == nil {
		payload = ""
	}
	e.store.SetErrors(map[string]any{name: payload})
}

// touch marks the field touched and fires the form-level OnTouched hook
// exactly once per field.
func (e *Engine) touch(name string, ev Event) {
	if e.store.Current().Touched[name] {
		return
	}
	e.store.SetTouched(map[string]bool{name: true})
	if e.cfg.OnTouched != nil {
		e.cfg.OnTouched(ev)
	}
}

func (e *Engine) warnOnce(desc descriptor) {
	if !e.cfg.Debug || e.cfg.Logger == nil {
		return
	}
	key := desc.key()
	if _, ok := e.warned[key]; ok {
		return
	}
	e.warned[key] = struct{}{}
	e.cfg.Logger.Warnf(
		"formstate: field %q (%s) received a programmatic value but has no custom validator; it was treated as valid. Set Options.Validate to validate programmatic values.",
		desc.name, desc.typ,
	)
}

// ensureInitialized writes the type-appropriate default the first time a
// field's value is read with nothing in the store. Reading Checked never
// calls this; reading Value always does.
func (e *Engine) ensureInitialized(desc descriptor) {
	if e.store.HasValue(desc.name) {
		return
	}
	e.store.SetValues(map[string]any{desc.name: desc.typ.Default(desc.hasOwn)})
}

// SetField commits a value programmatically, marks the field touched, and
// validates through the bare-value path using the field's bound validator
// when one exists.
func (e *Engine) SetField(name string, value any) {
	e.store.SetValues(map[string]any{name: value})
	e.store.SetTouched(map[string]bool{name: true})

	desc, ok := e.seen[name]
	if !ok {
		desc = descriptor{typ: field.TypeRaw, name: name}
	}
	e.runValidation(desc, ProgrammaticValue(stringify(value)), nil)
}

// SetFieldError forces a field invalid with the given payload, bypassing
// validators entirely.
func (e *Engine) SetFieldError(name string, payload any) {
	e.commitInvalid(name, payload)
}

// ClearField resets a field to its type default and drops its touched,
// validity, error, and dirty entries. Fields never bound through the engine
// reset to the empty string.
func (e *Engine) ClearField(name string) {
	def := any("")
	if desc, ok := e.seen[name]; ok {
		def = desc.typ.Default(desc.hasOwn)
	}
	e.store.DeleteField(name)
	e.store.SetValues(map[string]any{name: def})
	delete(e.dirty, name)
}

// Clear resets every field the engine has seen plus any field present in the
// values map (for example initial values never bound).
func (e *Engine) Clear() {
	names := make(map[string]struct{}, len(e.seen))
	for name := range e.seen {
		names[name] = struct{}{}
	}
	for name := range e.store.Current().Values {
		names[name] = struct{}{}
	}
	for name := range names {
		e.ClearField(name)
	}
}

// Reset replaces the values wholesale and drops all touched, validity,
// error, and dirty state. The warned-key set intentionally survives.
func (e *Engine) Reset(values map[string]any) {
	e.store.Replace(values)
	e.dirty = make(map[string]bool)
}

// Pristine reports whether no field has been touched and no change is
// pending validation. Lazy default initialization does not affect it.
func (e *Engine) Pristine() bool {
	for _, touched := range e.store.Current().Touched {
		if touched {
			return false
		}
	}
	for _, dirty := range e.dirty {
		if dirty {
			return false
		}
	}
	return true
}

// toggleOwnValue flips ownValue in or out of the checked set. Set semantics
// with insertion order preserved for display consistency.
func toggleOwnValue(current []string, ownValue string) []string {
	out := make([]string, 0, len(current)+1)
	seen := make(map[string]struct{}, len(current)+1)
	found := false
	for _, value := range current {
		if value == ownValue {
			found = true
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if !found {
		out = append(out, ownValue)
	}
	return out
}

func toStringSlice(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return typed, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, v := range typed {
			out = append(out, stringify(v))
		}
		return out, true
	default:
		return nil, false
	}
}

// inputValue extracts the text value a custom validator receives.
func inputValue(in Input) string {
	switch typed := in.(type) {
	case ProgrammaticValue:
		return string(typed)
	case Event:
		return typed.Target.Value
	default:
		return ""
	}
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

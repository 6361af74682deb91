package binding

import "github.com/goliatone/go-formstate/pkg/field"

// Bindings is the property bag produced for one field. The plain fields are
// ready to spread onto a UI element; Value and Checked are accessor methods
// because reading the current value is the one place where lazy default
// initialization happens.
//
// A fresh bag is returned per request, but OnChange and OnBlur are the same
// function values across every bag built for the same
// (type, name, ownValue) triple, so hosts relying on referential equality do
// not reconcile needlessly.
type Bindings struct {
	Name string

	// Type is the DOM-facing type attribute. Empty for select,
	// select-multiple, textarea, and raw fields.
	Type string

	// Multiple is set only for select-multiple.
	Multiple bool

	// ID is the accessibility id, empty when id generation is disabled.
	ID string

	OnChange func(Event)
	OnBlur   func(Event)

	engine *Engine
	desc   descriptor
}

// Value resolves the DOM-facing value attribute. For checkbox and radio
// fields it is the stringified own value, distinct from the state-tracked
// check status. For everything else it is the stored value, lazily
// initializing the store to the type default on first read.
//
// Select-multiple fields have no scalar value; use Values.
func (b *Bindings) Value() string {
	b.engine.ensureInitialized(b.desc)
	if b.desc.typ.Checkable() {
		return b.desc.own
	}
	if b.desc.typ.Multiple() {
		return ""
	}
	value, ok := b.engine.store.Value(b.desc.name)
	if !ok {
		return ""
	}
	return stringify(value)
}

// Values resolves the selected-values list for select-multiple fields and
// the checked own-values list for checkbox groups. Like Value, it lazily
// initializes the store on first read. Returns nil for scalar fields.
func (b *Bindings) Values() []string {
	if !b.desc.typ.Multiple() && !(b.desc.typ == field.TypeCheckbox && b.desc.hasOwn) {
		return nil
	}
	b.engine.ensureInitialized(b.desc)
	value, ok := b.engine.store.Value(b.desc.name)
	if !ok {
		return nil
	}
	list, _ := toStringSlice(value)
	return list
}

// Checked resolves the checked flag for checkbox and radio fields. It is a
// pure read: no state is initialized or mutated, and a missing value reports
// unchecked.
//
// Sharing one field name between a bare checkbox and checkboxes with own
// values is unsupported; when the stored value shape does not match the
// bag's mode the result is defined as false rather than specified behaviour.
func (b *Bindings) Checked() bool {
	snapshot := b.engine.store.Current()
	switch {
	case b.desc.typ == field.TypeRadio:
		value, ok := snapshot.Values[b.desc.name]
		if !ok {
			return false
		}
		return stringify(value) == b.desc.own
	case b.desc.typ == field.TypeCheckbox && b.desc.hasOwn:
		value, ok := snapshot.Values[b.desc.name]
		if !ok {
			return false
		}
		list, ok := toStringSlice(value)
		if !ok {
			return false
		}
		for _, checked := range list {
			if checked == b.desc.own {
				return true
			}
		}
		return false
	case b.desc.typ == field.TypeCheckbox:
		checked, _ := snapshot.Values[b.desc.name].(bool)
		return checked
	default:
		return false
	}
}

// Props assembles the bag as a spreadable property map using DOM attribute
// keys. Omitted attributes (type, multiple, id) are left out of the map
// rather than set to zero values.
func (b *Bindings) Props() map[string]any {
	props := map[string]any{
		"name":     b.Name,
		"onChange": b.OnChange,
		"onBlur":   b.OnBlur,
	}
	if b.Type != "" {
		props["type"] = b.Type
	}
	if b.Multiple {
		props["multiple"] = true
	}
	if b.ID != "" {
		props["id"] = b.ID
	}
	if b.desc.typ.Checkable() {
		props["checked"] = b.Checked()
		props["value"] = b.Value()
	} else if b.desc.typ.Multiple() {
		props["value"] = b.Values()
	} else {
		props["value"] = b.Value()
	}
	return props
}

package field

// Type identifies the kind of input a binding request targets. The values
// mirror the DOM input types the controller knows how to wire.
type Type string

const (
	TypeText           Type = "text"
	TypeEmail          Type = "email"
	TypePassword       Type = "password"
	TypeNumber         Type = "number"
	TypeURL            Type = "url"
	TypeTel            Type = "tel"
	TypeSearch         Type = "search"
	TypeColor          Type = "color"
	TypeDate           Type = "date"
	TypeMonth          Type = "month"
	TypeTime           Type = "time"
	TypeWeek           Type = "week"
	TypeRange          Type = "range"
	TypeTextarea       Type = "textarea"
	TypeSelect         Type = "select"
	TypeSelectMultiple Type = "select-multiple"
	TypeCheckbox       Type = "checkbox"
	TypeRadio          Type = "radio"

	// TypeRaw opts a field out of DOM wiring entirely; values flow through
	// unchanged and no type attribute is emitted.
	TypeRaw Type = "raw"
)

// Checkable reports whether the type tracks a checked flag rather than a
// text value.
func (t Type) Checkable() bool {
	return t == TypeCheckbox || t == TypeRadio
}

// Multiple reports whether the type holds a list of selected option values.
func (t Type) Multiple() bool {
	return t == TypeSelectMultiple
}

// OmitsDOMType reports whether the property bag leaves the DOM type
// attribute unset. Select and textarea elements carry no type attribute, and
// raw fields are not DOM-backed at all.
func (t Type) OmitsDOMType() bool {
	switch t {
	case TypeSelect, TypeSelectMultiple, TypeTextarea, TypeRaw:
		return true
	default:
		return false
	}
}

// Default returns the type-appropriate initial value written into the store
// the first time a field's value is read. hasOwnValue distinguishes the two
// checkbox modes: a checkbox with an intrinsic own value accumulates a list
// of checked own values, while a bare checkbox tracks a single boolean.
func (t Type) Default(hasOwnValue bool) any {
	switch {
	case t == TypeCheckbox && hasOwnValue:
		return []string{}
	case t == TypeCheckbox:
		return false
	case t == TypeSelectMultiple:
		return []string{}
	default:
		return ""
	}
}

// Known reports whether t is one of the supported field types.
func (t Type) Known() bool {
	switch t {
	case TypeText, TypeEmail, TypePassword, TypeNumber, TypeURL, TypeTel,
		TypeSearch, TypeColor, TypeDate, TypeMonth, TypeTime, TypeWeek,
		TypeRange, TypeTextarea, TypeSelect, TypeSelectMultiple,
		TypeCheckbox, TypeRadio, TypeRaw:
		return true
	default:
		return false
	}
}

// All lists the supported field types in a stable order, primarily for
// facade assembly and documentation.
func All() []Type {
	return []Type{
		TypeText, TypeEmail, TypePassword, TypeNumber, TypeURL, TypeTel,
		TypeSearch, TypeColor, TypeDate, TypeMonth, TypeTime, TypeWeek,
		TypeRange, TypeTextarea, TypeSelect, TypeSelectMultiple,
		TypeCheckbox, TypeRadio, TypeRaw,
	}
}

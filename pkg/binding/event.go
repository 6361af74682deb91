package binding

// Input is the discriminated value delivered to the validation routine:
// either a real UI event or a bare value supplied programmatically. Keeping
// the two shapes explicit avoids runtime sniffing at the validation boundary.
type Input interface {
	isInput()
}

// ProgrammaticValue is a bare value validated outside any UI event, for
// example through Form.SetField. No native constraint data is available for
// it, so only a custom validator can reject it.
type ProgrammaticValue string

func (ProgrammaticValue) isInput() {}

// Event is a change or blur event delivered by the host UI layer.
type Event struct {
	Target Target
}

func (Event) isInput() {}

// Target mirrors the slice of DOM element state the engine consumes: the
// current text value, the checked flag, the option list for multi-selects,
// and an optional native constraint-validation snapshot.
type Target struct {
	Value   string
	Checked bool

	// Options is the full option list of a select-multiple element at event
	// time. The selected set is recomputed wholesale from it on every change.
	Options []SelectOption

	// Validity carries the element's native constraint-validation result.
	// A nil Validity means the host supplied no constraint data; such events
	// are treated as natively valid.
	Validity *Constraint
}

// SelectOption is one entry of a select element's option list.
type SelectOption struct {
	Value    string
	Selected bool
}

// Constraint is a native constraint-validation snapshot: the element's
// validity verdict and its localized validation message.
type Constraint struct {
	Valid   bool
	Message string
}

// Valid is a convenience constructor for a passing constraint snapshot.
func Valid() *Constraint {
	return &Constraint{Valid: true}
}

// Invalid is a convenience constructor for a failing constraint snapshot
// with the given native message.
func Invalid(message string) *Constraint {
	return &Constraint{Valid: false, Message: message}
}

// ChangeValue builds a plain text change event with a passing constraint
// snapshot. Hosts with richer element state should construct Event directly.
func ChangeValue(value string) Event {
	return Event{Target: Target{Value: value, Validity: Valid()}}
}

// ChangeChecked builds a checkbox/radio change event.
func ChangeChecked(checked bool, ownValue string) Event {
	return Event{Target: Target{Value: ownValue, Checked: checked, Validity: Valid()}}
}

// ChangeOptions builds a select-multiple change event from an option list.
func ChangeOptions(options []SelectOption) Event {
	return Event{Target: Target{Options: options, Validity: Valid()}}
}

// Blur builds a bare blur event carrying the element's current value.
func Blur(value string) Event {
	return Event{Target: Target{Value: value, Validity: Valid()}}
}

// selectedValues materializes the currently selected option values in
// option-list order.
func selectedValues(options []SelectOption) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		if option.Selected {
			out = append(out, option.Value)
		}
	}
	return out
}

// Package state holds the authoritative form state: field values, touched
// flags, validity flags, and error payloads. The store is the only component
// the binding engine writes through; everything else reads snapshots.
package state

// Snapshot is a read view over the four state maps. The maps are the store's
// live backing maps; callers must treat them as read-only and route every
// mutation through the setters.
type Snapshot struct {
	Values   map[string]any
	Touched  map[string]bool
	Validity map[string]bool
	Errors   map[string]any
}

// Store owns the form state for one form instance. A field present in Errors
// implies Validity[name] == false; a field absent from Errors is either valid
// or has never been validated.
type Store struct {
	values   map[string]any
	touched  map[string]bool
	validity map[string]bool
	errors   map[string]any
}

// New seeds a store with the caller-supplied initial values. The initial map
// is copied so later resets can restore it unchanged.
func New(initial map[string]any) *Store {
	return &Store{
		values:   CloneValues(initial),
		touched:  make(map[string]bool),
		validity: make(map[string]bool),
		errors:   make(map[string]any),
	}
}

// Current returns the live snapshot.
func (s *Store) Current() Snapshot {
	return Snapshot{
		Values:   s.values,
		Touched:  s.touched,
		Validity: s.validity,
		Errors:   s.errors,
	}
}

// ValuesCopy returns a deep copy of the values map, safe to hand to
// caller-supplied hooks that must not mutate authoritative state.
func (s *Store) ValuesCopy() map[string]any {
	return CloneValues(s.values)
}

// Value reads a single field value.
func (s *Store) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// HasValue reports whether a value exists for the field without reading it.
func (s *Store) HasValue(name string) bool {
	_, ok := s.values[name]
	return ok
}

// SetValues merges a partial update into the values map.
func (s *Store) SetValues(partial map[string]any) {
	for name, value := range partial {
		s.values[name] = value
	}
}

// SetTouched merges a partial update into the touched map.
func (s *Store) SetTouched(partial map[string]bool) {
	for name, touched := range partial {
		s.touched[name] = touched
	}
}

// SetValidity merges a partial update into the validity map.
func (s *Store) SetValidity(partial map[string]bool) {
	for name, valid := range partial {
		s.validity[name] = valid
	}
}

// SetErrors merges a partial update into the errors map. A nil payload
// removes the key entirely: absence of a key is the no-error state.
func (s *Store) SetErrors(partial map[string]any) {
	for name, payload := range partial {
		if payload == nil {
			delete(s.errors, name)
			continue
		}
		s.errors[name] = payload
	}
}

// DeleteField drops every trace of a field from all four maps.
func (s *Store) DeleteField(name string) {
	delete(s.values, name)
	delete(s.touched, name)
	delete(s.validity, name)
	delete(s.errors, name)
}

// Replace swaps the values map wholesale and clears touched, validity, and
// errors. Used by form-level reset.
func (s *Store) Replace(values map[string]any) {
	s.values = CloneValues(values)
	s.touched = make(map[string]bool)
	s.validity = make(map[string]bool)
	s.errors = make(map[string]any)
}

// CloneValues deep-copies a values map, including nested string slices.
func CloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for name, value := range src {
		out[name] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneValue(v)
		}
		return clone
	case map[string]any:
		return CloneValues(typed)
	default:
		return typed
	}
}

package binding

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/state"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	return New(state.New(nil), nil, nil, cfg)
}

func TestValue_InitializesDefaultExactlyOnce(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeText, "email")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	if got := bag.Value(); got != "" {
		t.Fatalf("first value read: want empty string, got %q", got)
	}
	value, ok := engine.Store().Value("email")
	if !ok || value != "" {
		t.Fatalf("store not initialized to empty string: %v (ok=%v)", value, ok)
	}

	engine.Store().SetValues(map[string]any{"email": "kept"})
	if got := bag.Value(); got != "kept" {
		t.Fatalf("second read must not re-initialize: got %q", got)
	}
}

func TestValue_DefaultsPerType(t *testing.T) {
	cases := []struct {
		name   string
		typ    field.Type
		args   []any
		expect any
	}{
		{name: "text", typ: field.TypeText, args: []any{"a"}, expect: ""},
		{name: "textarea", typ: field.TypeTextarea, args: []any{"b"}, expect: ""},
		{name: "bare checkbox", typ: field.TypeCheckbox, args: []any{"c"}, expect: false},
		{name: "checkbox with own value", typ: field.TypeCheckbox, args: []any{"d", "red"}, expect: []string{}},
		{name: "select multiple", typ: field.TypeSelectMultiple, args: []any{"e"}, expect: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(t, Config{})
			bag, err := engine.Bindings(tc.typ, tc.args...)
			if err != nil {
				t.Fatalf("bindings: %v", err)
			}
			bag.Value()
			name := tc.args[0].(string)
			value, ok := engine.Store().Value(name)
			if !ok {
				t.Fatalf("value read did not initialize %q", name)
			}
			if diff := cmp.Diff(tc.expect, value); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChecked_DoesNotInitialize(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeCheckbox, "opt", "red")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	if bag.Checked() {
		t.Fatal("checked must be false with no prior state")
	}
	if engine.Store().HasValue("opt") {
		t.Fatal("checked read must not initialize the store")
	}
}

func TestCheckboxOwnValue_ToggleScenario(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeCheckbox, "opt", "red")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnChange(ChangeChecked(true, "red"))
	value, _ := engine.Store().Value("opt")
	if diff := cmp.Diff([]string{"red"}, value); diff != "" {
		t.Fatalf("after check (-want +got):\n%s", diff)
	}
	if !bag.Checked() {
		t.Fatal("expected checked after toggle on")
	}

	bag.OnChange(ChangeChecked(false, "red"))
	value, _ = engine.Store().Value("opt")
	if diff := cmp.Diff([]string{}, value); diff != "" {
		t.Fatalf("after uncheck (-want +got):\n%s", diff)
	}
	if bag.Checked() {
		t.Fatal("expected unchecked after toggle off")
	}
}

func TestCheckboxGroup_PreservesInsertionOrder(t *testing.T) {
	engine := newTestEngine(t, Config{})

	for _, own := range []string{"red", "green", "blue"} {
		bag, err := engine.Bindings(field.TypeCheckbox, "colors", own)
		if err != nil {
			t.Fatalf("bindings %q: %v", own, err)
		}
		bag.OnChange(ChangeChecked(true, own))
	}

	value, _ := engine.Store().Value("colors")
	if diff := cmp.Diff([]string{"red", "green", "blue"}, value); diff != "" {
		t.Fatalf("insertion order (-want +got):\n%s", diff)
	}

	green, _ := engine.Bindings(field.TypeCheckbox, "colors", "green")
	green.OnChange(ChangeChecked(false, "green"))
	value, _ = engine.Store().Value("colors")
	if diff := cmp.Diff([]string{"red", "blue"}, value); diff != "" {
		t.Fatalf("after removing middle entry (-want +got):\n%s", diff)
	}
}

func TestRadio_CheckedComparesOwnValue(t *testing.T) {
	engine := newTestEngine(t, Config{})

	red, err := engine.Bindings(field.TypeRadio, "color", "red")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	blue, err := engine.Bindings(field.TypeRadio, "color", "blue")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	red.OnChange(ChangeChecked(true, "red"))

	if !red.Checked() {
		t.Fatal("red radio should be checked")
	}
	if blue.Checked() {
		t.Fatal("blue radio should not be checked")
	}
	if got := red.Value(); got != "red" {
		t.Fatalf("radio value attribute: want %q, got %q", "red", got)
	}
}

func TestSelectMultiple_RecomputesFromOptionList(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeSelectMultiple, "tags")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnChange(ChangeOptions([]SelectOption{
		{Value: "a", Selected: true},
		{Value: "b", Selected: false},
		{Value: "c", Selected: true},
	}))

	value, _ := engine.Store().Value("tags")
	if diff := cmp.Diff([]string{"a", "c"}, value); diff != "" {
		t.Fatalf("selected values (-want +got):\n%s", diff)
	}
}

func TestTextChangeScenario(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeText, "email")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	if got := bag.Value(); got != "" {
		t.Fatalf("initial value: want empty, got %q", got)
	}

	bag.OnChange(ChangeValue("a@b.com"))

	snapshot := engine.Store().Current()
	if snapshot.Values["email"] != "a@b.com" {
		t.Fatalf("value not committed: %v", snapshot.Values["email"])
	}
	if !snapshot.Validity["email"] {
		t.Fatal("natively valid event should mark valid")
	}
	if _, exists := snapshot.Errors["email"]; exists {
		t.Fatal("valid field must have no error key")
	}
}

func TestNativeConstraint_RecordsMessage(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeEmail, "email")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnChange(Event{Target: Target{Value: "nope", Validity: Invalid("Please include an '@'.")}})

	snapshot := engine.Store().Current()
	if snapshot.Validity["email"] {
		t.Fatal("natively invalid event should mark invalid")
	}
	if got := snapshot.Errors["email"]; got != "Please include an '@'." {
		t.Fatalf("native message not recorded: %v", got)
	}
}

func TestCustomValidator_Verdicts(t *testing.T) {
	cases := []struct {
		name       string
		verdict    any
		wantValid  bool
		wantError  any
		wantErrKey bool
	}{
		{name: "true is valid", verdict: true, wantValid: true},
		{name: "nil is valid", verdict: nil, wantValid: true},
		{name: "false records empty payload", verdict: false, wantError: "", wantErrKey: true},
		{name: "string becomes payload", verdict: "too short", wantError: "too short", wantErrKey: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(t, Config{})
			bag, err := engine.Bindings(field.TypeText, "name", Options{
				Validate: func(string, map[string]any, Input) any { return tc.verdict },
			})
			if err != nil {
				t.Fatalf("bindings: %v", err)
			}

			// Seed a stale error so valid verdicts prove they clear it.
			engine.Store().SetValidity(map[string]bool{"name": false})
			engine.Store().SetErrors(map[string]any{"name": "stale"})

			bag.OnChange(ChangeValue("x"))

			snapshot := engine.Store().Current()
			if snapshot.Validity["name"] != tc.wantValid {
				t.Fatalf("validity: want %v, got %v", tc.wantValid, snapshot.Validity["name"])
			}
			payload, exists := snapshot.Errors["name"]
			if exists != tc.wantErrKey {
				t.Fatalf("error key presence: want %v, got %v", tc.wantErrKey, exists)
			}
			if exists && payload != tc.wantError {
				t.Fatalf("error payload: want %v, got %v", tc.wantError, payload)
			}
		})
	}
}

func TestCustomValidator_WinsOverNativeConstraint(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeText, "name", Options{
		Validate: func(string, map[string]any, Input) any { return true },
	})
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnChange(Event{Target: Target{Value: "x", Validity: Invalid("native says no")}})

	snapshot := engine.Store().Current()
	if !snapshot.Validity["name"] {
		t.Fatal("custom validator verdict must take precedence over the native constraint")
	}
}

func TestBlur_FirstAlwaysValidatesLaterOnlyWhenDirty(t *testing.T) {
	engine := newTestEngine(t, Config{})

	calls := 0
	bag, err := engine.Bindings(field.TypeText, "name", Options{
		ValidateOnBlur: true,
		Validate: func(string, map[string]any, Input) any {
			calls++
			return true
		},
	})
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnBlur(Blur(""))
	if calls != 1 {
		t.Fatalf("first blur must validate: got %d calls", calls)
	}

	bag.OnBlur(Blur(""))
	if calls != 1 {
		t.Fatalf("second blur with no change must not validate: got %d calls", calls)
	}

	bag.OnChange(ChangeValue("dirty"))
	if calls != 1 {
		t.Fatalf("validateOnBlur change must not validate: got %d calls", calls)
	}

	bag.OnBlur(Blur("dirty"))
	if calls != 2 {
		t.Fatalf("blur after change must validate: got %d calls", calls)
	}

	bag.OnBlur(Blur("dirty"))
	if calls != 2 {
		t.Fatalf("blur after validation with no change must not validate again: got %d calls", calls)
	}
}

func TestHandlerIdentity_StableAcrossRequests(t *testing.T) {
	engine := newTestEngine(t, Config{})

	first, err := engine.Bindings(field.TypeCheckbox, "opt", "red", Options{})
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	second, err := engine.Bindings(field.TypeCheckbox, "opt", "red")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	if reflect.ValueOf(first.OnChange).Pointer() != reflect.ValueOf(second.OnChange).Pointer() {
		t.Fatal("onChange identity must be stable for the same (type, name, ownValue)")
	}
	if reflect.ValueOf(first.OnBlur).Pointer() != reflect.ValueOf(second.OnBlur).Pointer() {
		t.Fatal("onBlur identity must be stable for the same (type, name, ownValue)")
	}

	other, err := engine.Bindings(field.TypeCheckbox, "opt", "blue")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if reflect.ValueOf(first.OnChange).Pointer() == reflect.ValueOf(other.OnChange).Pointer() {
		t.Fatal("different own values must get distinct handlers")
	}
}

func TestChangeHook_ObservesPreCommitValues(t *testing.T) {
	var gotPrevious, gotNext map[string]any
	var storeValueDuringHook any

	var engine *Engine
	engine = New(state.New(map[string]any{"name": "old"}), nil, nil, Config{
		OnChange: func(_ Event, previous, next map[string]any) {
			gotPrevious = previous
			gotNext = next
			storeValueDuringHook, _ = engine.Store().Value("name")
		},
	})

	bag, err := engine.Bindings(field.TypeText, "name")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	bag.OnChange(ChangeValue("new"))

	if gotPrevious["name"] != "old" {
		t.Fatalf("hook previous: want old, got %v", gotPrevious["name"])
	}
	if gotNext["name"] != "new" {
		t.Fatalf("hook next: want new, got %v", gotNext["name"])
	}
	if storeValueDuringHook != "old" {
		t.Fatalf("store must still hold the pre-commit value during the hook, got %v", storeValueDuringHook)
	}

	// Mutating the hook's copies must not leak into authoritative state.
	gotNext["name"] = "mutated"
	value, _ := engine.Store().Value("name")
	if value != "new" {
		t.Fatalf("hook mutation leaked into store: %v", value)
	}
}

func TestPerFieldOnChange_OverrideWins(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeText, "name", Options{
		OnChange: func(Event) any { return "override" },
	})
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	bag.OnChange(ChangeValue("raw"))

	value, _ := engine.Store().Value("name")
	if value != "override" {
		t.Fatalf("override must win: got %v", value)
	}
}

func TestTouch_OnTouchedFiresOnce(t *testing.T) {
	touched := 0
	engine := newTestEngine(t, Config{
		OnTouched: func(Event) { touched++ },
	})

	bag, err := engine.Bindings(field.TypeText, "name")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}

	bag.OnBlur(Blur(""))
	bag.OnBlur(Blur(""))

	if touched != 1 {
		t.Fatalf("onTouched must fire once per field: got %d", touched)
	}
	if !engine.Store().Current().Touched["name"] {
		t.Fatal("field must be touched after blur")
	}
}

func TestTouchOnChange_MarksTouchedAtChange(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bag, err := engine.Bindings(field.TypeText, "name", Options{TouchOnChange: true})
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	bag.OnChange(ChangeValue("x"))

	if !engine.Store().Current().Touched["name"] {
		t.Fatal("touchOnChange must mark the field touched on change")
	}
}

func TestProgrammaticValue_WarnsOncePerKey(t *testing.T) {
	var warnings []string
	engine := newTestEngine(t, Config{
		Debug:  true,
		Logger: LoggerFunc(func(format string, args ...any) { warnings = append(warnings, format) }),
	})

	if _, err := engine.Bindings(field.TypeText, "name"); err != nil {
		t.Fatalf("bindings: %v", err)
	}

	engine.SetField("name", "a")
	engine.SetField("name", "b")

	if len(warnings) != 1 {
		t.Fatalf("advisory must be emitted once per field key, got %d", len(warnings))
	}
	snapshot := engine.Store().Current()
	if !snapshot.Validity["name"] {
		t.Fatal("programmatic value without a validator is unconditionally valid")
	}
}

func TestProgrammaticValue_SilentWithoutDebug(t *testing.T) {
	var warnings int
	engine := newTestEngine(t, Config{
		Logger: LoggerFunc(func(string, ...any) { warnings++ }),
	})

	engine.SetField("name", "a")
	if warnings != 0 {
		t.Fatal("advisories must be suppressed outside debug mode")
	}
}

func TestSetField_UsesBoundValidator(t *testing.T) {
	engine := newTestEngine(t, Config{})

	if _, err := engine.Bindings(field.TypeText, "name", Options{
		Validate: func(value string, _ map[string]any, _ Input) any {
			if value == "" {
				return "required"
			}
			return true
		},
	}); err != nil {
		t.Fatalf("bindings: %v", err)
	}

	engine.SetField("name", "")

	snapshot := engine.Store().Current()
	if snapshot.Validity["name"] {
		t.Fatal("bound validator must reject the programmatic value")
	}
	if snapshot.Errors["name"] != "required" {
		t.Fatalf("error payload: %v", snapshot.Errors["name"])
	}
	if !snapshot.Touched["name"] {
		t.Fatal("SetField must mark the field touched")
	}
}

func TestMixedModeCheckbox_ChecksFalseInsteadOfPanicking(t *testing.T) {
	engine := newTestEngine(t, Config{})

	bare, err := engine.Bindings(field.TypeCheckbox, "opt")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	bare.OnChange(ChangeChecked(true, ""))

	owned, err := engine.Bindings(field.TypeCheckbox, "opt", "red")
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if owned.Checked() {
		t.Fatal("mismatched value shape reports unchecked")
	}
}

func TestUnknownType_IsUsageError(t *testing.T) {
	engine := newTestEngine(t, Config{})
	if _, err := engine.Bindings(field.Type("bogus"), "name"); err == nil {
		t.Fatal("unknown field type must be rejected")
	}
}

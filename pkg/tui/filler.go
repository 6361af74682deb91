package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/descriptor"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
)

// maxAttempts bounds re-prompting for a field that keeps failing
// validation; after that the invalid value stands and the session moves on.
const maxAttempts = 3

// Filler drives a form through terminal prompts, one descriptor field at a
// time.
type Filler struct {
	driver PromptDriver
}

// FillOption configures a Filler.
type FillOption func(*Filler)

// WithDriver swaps the prompt driver, primarily for tests.
func WithDriver(driver PromptDriver) FillOption {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// NewFiller constructs a Filler with the survey driver by default.
func NewFiller(options ...FillOption) *Filler {
	f := &Filler{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every field of the descriptor, feeding answers through
// the form's binding handlers so validation, touched tracking, and hooks
// behave exactly as they would under a UI host. It returns the final values
// map.
func (f *Filler) Fill(ctx context.Context, frm *form.Form, def descriptor.Form) (map[string]any, error) {
	if frm == nil {
		return nil, fmt.Errorf("tui: form is required")
	}

	for _, fld := range def.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.fillField(ctx, frm, fld); err != nil {
			return nil, err
		}
	}

	values := frm.State().Values
	out := make(map[string]any, len(values))
	for name, value := range values {
		out[name] = value
	}
	return out, nil
}

func (f *Filler) fillField(ctx context.Context, frm *form.Form, fld descriptor.Field) error {
	opts, err := descriptor.Bind(fld)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := f.promptOnce(ctx, frm, fld, opts); err != nil {
			return err
		}

		snapshot := frm.State()
		payload, invalid := snapshot.Errors[fld.Name]
		if !invalid {
			return nil
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %v", fld.DisplayLabel(), payload)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) promptOnce(ctx context.Context, frm *form.Form, fld descriptor.Field, opts binding.Options) error {
	label := fld.DisplayLabel()

	switch t := fld.FieldType(); {
	case t == field.TypeCheckbox && len(fld.OwnValues) > 0:
		return f.promptCheckboxGroup(ctx, frm, fld, opts)

	case t == field.TypeCheckbox:
		bag, err := frm.Checkbox(fld.Name, opts)
		if err != nil {
			return err
		}
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{Message: label, Help: fld.Help, Default: bag.Checked()})
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeChecked(checked, ""))
		bag.OnBlur(binding.Blur(strconv.FormatBool(checked)))
		return nil

	case t == field.TypeRadio:
		idx, err := f.driver.Select(ctx, SelectConfig{Message: label, Options: fld.OwnValues, Help: fld.Help})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(fld.OwnValues) {
			return nil
		}
		own := fld.OwnValues[idx]
		bag, err := frm.Radio(fld.Name, own, opts)
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeChecked(true, own))
		bag.OnBlur(binding.Blur(own))
		return nil

	case t == field.TypeSelect:
		idx, err := f.driver.Select(ctx, SelectConfig{Message: label, Options: fld.Options, Help: fld.Help})
		if err != nil {
			return err
		}
		choice := ""
		if idx >= 0 && idx < len(fld.Options) {
			choice = fld.Options[idx]
		}
		bag, err := frm.Select(fld.Name, opts)
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeValue(choice))
		bag.OnBlur(binding.Blur(choice))
		return nil

	case t == field.TypeSelectMultiple:
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: fld.Options, Help: fld.Help})
		if err != nil {
			return err
		}
		selected := make(map[int]struct{}, len(indices))
		for _, idx := range indices {
			selected[idx] = struct{}{}
		}
		options := make([]binding.SelectOption, len(fld.Options))
		for i, value := range fld.Options {
			_, isSelected := selected[i]
			options[i] = binding.SelectOption{Value: value, Selected: isSelected}
		}
		bag, err := frm.SelectMultiple(fld.Name, opts)
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeOptions(options))
		bag.OnBlur(binding.Blur(""))
		return nil

	case t == field.TypeTextarea:
		bag, err := frm.Textarea(fld.Name, opts)
		if err != nil {
			return err
		}
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{Message: label, Help: fld.Help, Default: bag.Value()})
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeValue(answer))
		bag.OnBlur(binding.Blur(answer))
		return nil

	case t == field.TypePassword:
		bag, err := frm.Password(fld.Name, opts)
		if err != nil {
			return err
		}
		answer, err := f.driver.Password(ctx, InputConfig{Message: label, Help: fld.Help})
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeValue(answer))
		bag.OnBlur(binding.Blur(answer))
		return nil

	default:
		bag, err := frm.Input(t)(fld.Name, opts)
		if err != nil {
			return err
		}
		answer, err := f.driver.Input(ctx, InputConfig{Message: label, Help: fld.Help, Default: bag.Value()})
		if err != nil {
			return err
		}
		bag.OnChange(binding.ChangeValue(answer))
		bag.OnBlur(binding.Blur(answer))
		return nil
	}
}

// promptCheckboxGroup multi-selects over the group's own values and toggles
// each chosen entry through its own binding, so the stored list is built the
// same way repeated UI clicks would build it.
func (f *Filler) promptCheckboxGroup(ctx context.Context, frm *form.Form, fld descriptor.Field, opts binding.Options) error {
	var defaults []int
	if bag, err := frm.Checkbox(fld.Name, firstOwn(fld.OwnValues), opts); err == nil {
		current := make(map[string]struct{})
		for _, value := range bag.Values() {
			current[value] = struct{}{}
		}
		for i, own := range fld.OwnValues {
			if _, checked := current[own]; checked {
				defaults = append(defaults, i)
			}
		}
	}

	indices, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message:  fld.DisplayLabel(),
		Options:  fld.OwnValues,
		Help:     fld.Help,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}

	wanted := make(map[string]struct{}, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(fld.OwnValues) {
			wanted[fld.OwnValues[idx]] = struct{}{}
		}
	}

	var lastOwn string
	for _, own := range fld.OwnValues {
		bag, err := frm.Checkbox(fld.Name, own, opts)
		if err != nil {
			return err
		}
		_, want := wanted[own]
		if bag.Checked() == want {
			continue
		}
		bag.OnChange(binding.ChangeChecked(want, own))
		lastOwn = own
	}

	if lastOwn != "" {
		bag, err := frm.Checkbox(fld.Name, lastOwn, opts)
		if err != nil {
			return err
		}
		bag.OnBlur(binding.Blur(lastOwn))
	}
	return nil
}

func firstOwn(ownValues []string) string {
	if len(ownValues) == 0 {
		return ""
	}
	return ownValues[0]
}

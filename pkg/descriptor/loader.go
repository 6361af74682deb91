package descriptor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/field"
)

// Registry holds the form definitions discovered by a load. Lookups are by
// form name.
type Registry struct {
	forms map[string]Form
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Form, bool) {
	if r == nil || len(r.forms) == 0 {
		return Form{}, false
	}
	form, ok := r.forms[strings.TrimSpace(name)]
	return form, ok
}

// Names lists the registered form names in sorted order.
func (r *Registry) Names() []string {
	if r == nil || len(r.forms) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered forms.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.forms)
}

// LoadFS walks the provided filesystem and parses every JSON/YAML form
// definition it finds. A nil filesystem yields an empty registry. Duplicate
// form names across files are an error rather than a silent overwrite.
func LoadFS(fsys fs.FS) (*Registry, error) {
	registry := &Registry{forms: make(map[string]Form)}
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("descriptor: read %s: %w", path, err)
		}

		form, err := Parse(data, path)
		if err != nil {
			return err
		}

		if _, exists := registry.forms[form.Name]; exists {
			return fmt.Errorf("descriptor: file %s redefines form %q", path, form.Name)
		}
		registry.forms[form.Name] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// Parse decodes and validates a single definition payload. The path is used
// for error reporting and format detection only.
func Parse(data []byte, path string) (Form, error) {
	var form Form
	if isJSON(path, data) {
		if err := json.Unmarshal(data, &form); err != nil {
			return Form{}, fmt.Errorf("descriptor: parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &form); err != nil {
			return Form{}, fmt.Errorf("descriptor: parse %s: %w", path, err)
		}
	}

	if err := normalise(&form, path); err != nil {
		return Form{}, err
	}
	return form, nil
}

func normalise(form *Form, path string) error {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		return fmt.Errorf("descriptor: file %s defines a form without a name", path)
	}
	form.Title = sanitizeMarkup(form.Title)
	form.Description = sanitizeMarkup(form.Description)

	seen := make(map[string]struct{}, len(form.Fields))
	for i := range form.Fields {
		fld := &form.Fields[i]
		fld.Name = strings.TrimSpace(fld.Name)
		if fld.Name == "" {
			return fmt.Errorf("descriptor: form %q (%s) has a field without a name", form.Name, path)
		}
		if _, dup := seen[fld.Name]; dup {
			return fmt.Errorf("descriptor: form %q (%s) declares field %q twice", form.Name, path, fld.Name)
		}
		seen[fld.Name] = struct{}{}

		if !fld.FieldType().Known() {
			return fmt.Errorf("descriptor: form %q field %q has unknown type %q", form.Name, fld.Name, fld.Type)
		}
		if fld.FieldType() == field.TypeRadio && len(fld.OwnValues) == 0 {
			return fmt.Errorf("descriptor: form %q field %q is a radio group without ownValues", form.Name, fld.Name)
		}

		fld.Label = sanitizeMarkup(fld.Label)
		fld.Help = sanitizeMarkup(fld.Help)
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isJSON(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

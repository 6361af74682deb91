// Package openapi derives form descriptors from OpenAPI documents: an
// operation's request-body schema becomes a field list with the matching
// declarative validation rules, ready to mount as a form.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/descriptor"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// ErrOperationNotFound reports a lookup for an operation id the document
// does not define.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// LoadDocument parses and validates an OpenAPI document payload.
func LoadDocument(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// FormFromOperation loads a document and converts the request-body schema of
// the named operation into a form descriptor.
func FormFromOperation(ctx context.Context, raw []byte, operationID string) (descriptor.Form, error) {
	doc, err := LoadDocument(ctx, raw)
	if err != nil {
		return descriptor.Form{}, err
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return descriptor.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return descriptor.Form{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	form := descriptor.Form{
		Name:        operationID,
		Title:       operation.Summary,
		Description: operation.Description,
		Fields:      fieldsFromSchema(schema),
	}
	return form, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

// requestSchema prefers form-friendly media types before falling back to
// whatever the body declares.
func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// fieldsFromSchema flattens an object schema's properties into descriptor
// fields in sorted name order for deterministic output.
func fieldsFromSchema(schema *openapi3.Schema) []descriptor.Field {
	if schema == nil || len(schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]descriptor.Field, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fld := fieldFromProperty(name, ref.Value)
		if _, ok := required[name]; ok {
			fld.Required = true
		}
		fields = append(fields, fld)
	}
	return fields
}

func fieldFromProperty(name string, prop *openapi3.Schema) descriptor.Field {
	fld := descriptor.Field{
		Name:  name,
		Label: prop.Title,
		Help:  prop.Description,
	}
	if prop.Default != nil {
		fld.Default = prop.Default
	}

	switch schemaType(prop) {
	case "boolean":
		fld.Type = string(field.TypeCheckbox)

	case "integer", "number":
		fld.Type = string(field.TypeNumber)
		fld.Rules = numericRules(prop)

	case "array":
		fld.Type = string(field.TypeSelectMultiple)
		if prop.Items != nil && prop.Items.Value != nil {
			fld.Options = stringifyEnum(prop.Items.Value.Enum)
		}

	default:
		if len(prop.Enum) > 0 {
			fld.Type = string(field.TypeSelect)
			fld.Options = stringifyEnum(prop.Enum)
			break
		}
		fld.Type = string(textTypeForFormat(prop.Format))
		fld.Rules = stringRules(prop)
	}
	return fld
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	for _, candidate := range []string{"string", "integer", "number", "boolean", "array", "object"} {
		if schema.Type.Is(candidate) {
			return candidate
		}
	}
	return ""
}

// textTypeForFormat maps OpenAPI string formats onto the DOM input types the
// engine supports.
func textTypeForFormat(format string) field.Type {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "email", "idn-email":
		return field.TypeEmail
	case "uri", "url":
		return field.TypeURL
	case "date":
		return field.TypeDate
	case "time":
		return field.TypeTime
	case "password":
		return field.TypePassword
	case "tel", "phone":
		return field.TypeTel
	default:
		return field.TypeText
	}
}

func numericRules(prop *openapi3.Schema) []validate.Rule {
	var rules []validate.Rule
	if prop.Min != nil {
		params := map[string]string{"value": formatFloat(*prop.Min)}
		if prop.ExclusiveMin {
			params["exclusive"] = "true"
		}
		rules = append(rules, validate.Rule{Kind: validate.RuleMin, Params: params})
	}
	if prop.Max != nil {
		params := map[string]string{"value": formatFloat(*prop.Max)}
		if prop.ExclusiveMax {
			params["exclusive"] = "true"
		}
		rules = append(rules, validate.Rule{Kind: validate.RuleMax, Params: params})
	}
	return rules
}

func stringRules(prop *openapi3.Schema) []validate.Rule {
	var rules []validate.Rule
	if prop.MinLength > 0 {
		rules = append(rules, validate.Rule{
			Kind:   validate.RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(prop.MinLength, 10)},
		})
	}
	if prop.MaxLength != nil {
		rules = append(rules, validate.Rule{
			Kind:   validate.RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*prop.MaxLength, 10)},
		})
	}
	if prop.Pattern != "" {
		rules = append(rules, validate.Rule{
			Kind:   validate.RulePattern,
			Params: map[string]string{"pattern": prop.Pattern},
		})
	}
	return rules
}

func stringifyEnum(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Package admin backs the back-office submission views: grid columns are
// derived from the published API schema so the list stays in step with the
// payload contract.
package admin

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var apiSpec []byte

// Column describes one grid column of the submission list view.
type Column struct {
	Path     string
	Title    string
	Kind     string
	Sortable bool
}

// DefaultColumns derives the grid columns from the embedded API document's
// SubmissionRecord schema.
func DefaultColumns() ([]Column, error) {
	return ColumnsFromDocument(apiSpec, "SubmissionRecord")
}

// ColumnsFromDocument loads an OpenAPI document and derives columns from
// the named component schema.
func ColumnsFromDocument(data []byte, component string) ([]Column, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("admin: load api document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("admin: api document has no components")
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("admin: schema %q not found", component)
	}
	return ColumnsFromSchema(ref.Value), nil
}

// ColumnsFromSchema turns an object schema's properties into grid columns.
// Scalar properties sort; objects and arrays display only.
func ColumnsFromSchema(schema *openapi3.Schema) []Column {
	if schema == nil {
		return nil
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name].Value
		if prop == nil {
			continue
		}

		kind := "string"
		switch {
		case prop.Type.Is(openapi3.TypeInteger):
			kind = "integer"
		case prop.Type.Is(openapi3.TypeNumber):
			kind = "number"
		case prop.Type.Is(openapi3.TypeBoolean):
			kind = "boolean"
		case prop.Type.Is(openapi3.TypeArray):
			kind = "array"
		case prop.Type.Is(openapi3.TypeObject):
			kind = "object"
		}

		title := prop.Title
		if title == "" {
			title = titleFromKey(name)
		}

		columns = append(columns, Column{
			Path:     name,
			Title:    title,
			Kind:     kind,
			Sortable: kind != "array" && kind != "object",
		})
	}
	return columns
}

// titleFromKey turns a camelCased property name into a display title:
// "submissionTime" becomes "Submission Time".
func titleFromKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

package model

import (
	"fmt"
	"strings"
)

// Decorator mutates a form definition after loading but before rendering.
// Implementations can rewrite labels, inject defaults, or reorder sections.
type Decorator interface {
	Decorate(def *FormDefinition) error
}

// DecoratorFunc adapts plain functions to the Decorator interface.
type DecoratorFunc func(def *FormDefinition) error

// Decorate executes the wrapped function when non-nil.
func (fn DecoratorFunc) Decorate(def *FormDefinition) error {
	if fn == nil {
		return nil
	}
	return fn(def)
}

// Field resolves a field config by id. The boolean reports whether the id is
// known; callers must guard the zero value.
func (d FormDefinition) Field(id string) (FieldConfig, bool) {
	for _, field := range d.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// Section resolves a section config by id.
func (d FormDefinition) Section(id string) (SectionConfig, bool) {
	for _, section := range d.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return SectionConfig{}, false
}

// SectionFields resolves a section's field ids into configs in declared
// order. Unknown ids are skipped; conditional resolution happens at render
// time, not here.
func (d FormDefinition) SectionFields(sectionID string) []FieldConfig {
	section, ok := d.Section(sectionID)
	if !ok {
		return nil
	}
	fields := make([]FieldConfig, 0, len(section.FieldIDs))
	for _, id := range section.FieldIDs {
		if field, ok := d.Field(id); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// FieldPaths returns every dotted value path the definition can produce,
// expanding composite blocks into their nested members. Conditional wrappers
// contribute their inner field's paths.
func (d FormDefinition) FieldPaths() []string {
	var paths []string
	for _, field := range d.Fields {
		paths = append(paths, fieldPaths(field)...)
	}
	return paths
}

func fieldPaths(field FieldConfig) []string {
	switch field.Kind {
	case KindConditional:
		if field.Inner == nil {
			return nil
		}
		return fieldPaths(*field.Inner)
	case KindAddressGroup:
		return []string{
			joinPath(field.ID, "streetAddress"),
			joinPath(field.ID, "city"),
			joinPath(field.ID, "state"),
			joinPath(field.ID, "zip"),
		}
	case KindContactGroup:
		return []string{
			joinPath(field.ID, "fullName"),
			joinPath(field.ID, "email"),
			joinPath(field.ID, "phone"),
		}
	default:
		return []string{field.ID}
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// Verify checks the definition's internal consistency: every kind is known,
// every section field id resolves, conditional wrappers carry both a rule
// and an inner field, and choice fields declare options.
func (d FormDefinition) Verify() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("model: form definition requires an id")
	}

	known := make(map[string]struct{}, len(d.Fields))
	for _, field := range d.Fields {
		if err := verifyField(field); err != nil {
			return err
		}
		if _, dup := known[field.ID]; dup {
			return fmt.Errorf("model: duplicate field id %q in form %q", field.ID, d.ID)
		}
		known[field.ID] = struct{}{}
	}

	for _, section := range d.Sections {
		for _, id := range section.FieldIDs {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("model: section %q references unknown field %q", section.ID, id)
			}
		}
		switch section.Layout {
		case "", SectionLayoutDefault, SectionLayoutSideBySide, SectionLayoutTwoColumn:
		default:
			return fmt.Errorf("model: section %q uses unknown layout %q", section.ID, section.Layout)
		}
	}
	return nil
}

func verifyField(field FieldConfig) error {
	if strings.TrimSpace(field.ID) == "" {
		return fmt.Errorf("model: field config requires an id")
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("model: field %q uses unknown kind %q", field.ID, field.Kind)
	}

	switch field.Kind {
	case KindConditional:
		if field.Condition == nil || field.Inner == nil {
			return fmt.Errorf("model: conditional field %q requires both condition and inner field", field.ID)
		}
		switch field.Condition.Operator {
		case OperatorEq, OperatorNeq:
		default:
			return fmt.Errorf("model: conditional field %q uses unknown operator %q", field.ID, field.Condition.Operator)
		}
		return verifyField(*field.Inner)
	case KindDropdown, KindRadioGroup, KindRadioButtons:
		if len(field.Options) == 0 {
			return fmt.Errorf("model: field %q of kind %q requires options", field.ID, field.Kind)
		}
	}
	return nil
}

// Package registry holds the load-time constant form definitions. The store
// is immutable after construction and safe for any number of concurrent
// readers; there is no mutation API.
package registry

import (
	"fmt"
	"sort"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// Registry resolves form definitions and their field/section configs by id.
type Registry struct {
	forms map[string]model.FormDefinition
}

// New builds a registry from verified definitions. Duplicate form ids and
// definitions failing verification are rejected.
func New(defs ...model.FormDefinition) (*Registry, error) {
	forms := make(map[string]model.FormDefinition, len(defs))
	for _, def := range defs {
		if err := def.Verify(); err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		if _, dup := forms[def.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate form id %q", def.ID)
		}
		forms[def.ID] = def
	}
	return &Registry{forms: forms}, nil
}

// Form resolves a form definition by id.
func (r *Registry) Form(id string) (model.FormDefinition, bool) {
	if r == nil {
		return model.FormDefinition{}, false
	}
	def, ok := r.forms[id]
	return def, ok
}

// Forms lists the registered form ids in sorted order.
func (r *Registry) Forms() []string {
	if r == nil || len(r.forms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Field resolves a field config within a form. Unknown ids yield the zero
// value; callers must guard.
func (r *Registry) Field(formID, fieldID string) (model.FieldConfig, bool) {
	def, ok := r.Form(formID)
	if !ok {
		return model.FieldConfig{}, false
	}
	return def.Field(fieldID)
}

// Section resolves a section config within a form.
func (r *Registry) Section(formID, sectionID string) (model.SectionConfig, bool) {
	def, ok := r.Form(formID)
	if !ok {
		return model.SectionConfig{}, false
	}
	return def.Section(sectionID)
}

// SectionFields resolves a section's fields in declared order. Unknown form
// or section ids yield an empty list, never an error.
func (r *Registry) SectionFields(formID, sectionID string) []model.FieldConfig {
	def, ok := r.Form(formID)
	if !ok {
		return nil
	}
	return def.SectionFields(sectionID)
}

package validation

import (
	"sort"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/visibility"
)

// Schema binds dotted field paths to rules for one form definition. Fields
// hidden by a conditional rule are excluded from validation entirely.
type Schema struct {
	def   model.FormDefinition
	rules map[string][]Rule
	gates map[string]model.ConditionalRule
}

// NewSchema creates an empty schema for a definition. Conditional gates are
// indexed up front so every path knows whether a visibility rule covers it.
func NewSchema(def model.FormDefinition) *Schema {
	schema := &Schema{
		def:   def,
		rules: make(map[string][]Rule),
		gates: make(map[string]model.ConditionalRule),
	}
	for _, field := range def.Fields {
		if field.Kind != model.KindConditional || field.Condition == nil || field.Inner == nil {
			continue
		}
		gate := *field.Condition
		for _, path := range fieldPathsOf(*field.Inner) {
			schema.gates[path] = gate
		}
	}
	return schema
}

func fieldPathsOf(field model.FieldConfig) []string {
	def := model.FormDefinition{ID: "probe", Fields: []model.FieldConfig{field}}
	return def.FieldPaths()
}

// Field attaches rules to a dotted path, appending to any existing rules.
func (s *Schema) Field(path string, rules ...Rule) *Schema {
	if s == nil || strings.TrimSpace(path) == "" {
		return s
	}
	s.rules[path] = append(s.rules[path], rules...)
	return s
}

// Paths lists every path carrying rules, sorted for deterministic passes.
func (s *Schema) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, 0, len(s.rules))
	for path := range s.rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Excluded reports whether a path sits behind a failing conditional gate.
func (s *Schema) Excluded(path string, values map[string]any) bool {
	if s == nil {
		return false
	}
	gate, ok := s.gates[path]
	if !ok {
		return false
	}
	visible, err := visibility.Default().Eval(gate, values)
	if err != nil {
		return true
	}
	return !visible
}

// ValidateField runs one path's rules against the candidate object and
// returns its messages. Excluded paths always pass.
func (s *Schema) ValidateField(path string, values map[string]any) []string {
	if s == nil {
		return nil
	}
	if s.Excluded(path, values) {
		return nil
	}
	value, _ := formstate.Get(values, path)
	var messages []string
	for _, rule := range s.rules[path] {
		if rule == nil {
			continue
		}
		if message := rule(value, values); message != "" {
			messages = append(messages, message)
		}
	}
	return messages
}

// Validate runs every path's rules and returns the error map. An empty map
// means the candidate passes.
func (s *Schema) Validate(values map[string]any) map[string][]string {
	errs := make(map[string][]string)
	if s == nil {
		return errs
	}
	for _, path := range s.Paths() {
		if messages := s.ValidateField(path, values); len(messages) > 0 {
			errs[path] = messages
		}
	}
	return errs
}

// Validator adapts the schema into the formstate hook.
func (s *Schema) Validator() formstate.Validator {
	return func(path string, values map[string]any) []string {
		return s.ValidateField(path, values)
	}
}

package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/renderers/vanilla/components"
)

type fieldRenderer struct {
	registry *components.Registry
	values   map[string]any
	errors   map[string][]string
}

func newFieldRenderer(registry *components.Registry, values map[string]any, errors map[string][]string) *fieldRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &fieldRenderer{
		registry: registry,
		values:   values,
		errors:   errors,
	}
}

func (r *fieldRenderer) render(field model.FieldConfig) (string, error) {
	component, ok := r.registry.Resolve(field.Kind)
	if !ok {
		return "", fmt.Errorf("vanilla: no component registered for kind %q (field %q)", field.Kind, field.ID)
	}

	data := components.ComponentData{
		Values:      r.values,
		Errors:      r.errors,
		RenderChild: r.render,
	}

	var control bytes.Buffer
	if err := component(&control, field, data); err != nil {
		return "", fmt.Errorf("vanilla: render field %q: %w", field.ID, err)
	}
	if control.Len() == 0 {
		// Hidden conditional fields render nothing, wrapper included.
		return "", nil
	}

	return buildFieldMarkup(field, control.String(), r.errors), nil
}

func buildFieldMarkup(field model.FieldConfig, control string, errors map[string][]string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="lf-field`)
	if field.CSSClass != "" {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(field.CSSClass))
	}
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`">` + "\n")

	if shouldRenderLabel(field) {
		builder.WriteString(`    <label for="lf-`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`" class="lf-label">`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString(`</label>` + "\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if messages := errors[field.ID]; len(messages) > 0 && field.Kind != model.KindConditional {
		builder.WriteString(`    <p class="lf-error" data-error-for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(strings.TrimSpace(messages[0])))
		builder.WriteString(`</p>` + "\n")
	}

	builder.WriteString(`</div>` + "\n")
	return builder.String()
}

func shouldRenderLabel(field model.FieldConfig) bool {
	if strings.TrimSpace(field.Label) == "" {
		return false
	}
	// Composite blocks and conditionals label their own members.
	switch field.Kind {
	case model.KindConditional:
		return false
	}
	return true
}

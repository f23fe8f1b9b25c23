package vanilla

import (
	"fmt"
	"html"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/render"
)

func sectionLayoutClass(layout model.SectionLayout) string {
	switch layout {
	case model.SectionLayoutSideBySide:
		return "lf-section-body--side-by-side"
	case model.SectionLayoutTwoColumn:
		return "lf-section-body--two-column"
	default:
		return "lf-section-body--stack"
	}
}

// renderSection emits one titled section: heading, optional sanitised
// description, and the configured fields in declared order under the
// layout's body class.
func renderSection(def model.FormDefinition, section model.SectionConfig, fields *fieldRenderer, options render.RenderOptions) (string, error) {
	var builder strings.Builder

	sectionClass := classOr(options.Chrome.Section, "lf-section")
	builder.WriteString(`<section class="` + escapeAttr(sectionClass) + `" data-section="` + escapeAttr(section.ID) + `">` + "\n")
	if strings.TrimSpace(section.Title) != "" {
		builder.WriteString(`  <h2 class="lf-section-title">` + html.EscapeString(section.Title) + `</h2>` + "\n")
	}
	if desc := SanitizeDescription(section.Description); desc != "" {
		builder.WriteString(`  <p class="lf-section-description">` + desc + `</p>` + "\n")
	}

	builder.WriteString(`  <div class="lf-section-body ` + sectionLayoutClass(section.Layout) + `">` + "\n")
	for _, id := range section.FieldIDs {
		field, ok := def.Field(id)
		if !ok {
			return "", fmt.Errorf("vanilla: section %q references unknown field %q", section.ID, id)
		}
		markup, err := fields.render(field)
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
	}
	builder.WriteString(`  </div>` + "\n")
	builder.WriteString(`</section>` + "\n")
	return builder.String(), nil
}

func escapeAttr(s string) string {
	return html.EscapeString(s)
}

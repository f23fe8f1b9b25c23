package components

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/visibility"
)

// NewDefaultRegistry constructs a registry pre-populated with one component
// per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(model.KindDropdown, dropdownRenderer)
	registry.MustRegister(model.KindInput, inputRenderer)
	registry.MustRegister(model.KindTextarea, textareaRenderer)
	registry.MustRegister(model.KindRadioGroup, radioGroupRenderer)
	registry.MustRegister(model.KindRadioButtons, radioButtonsRenderer)
	registry.MustRegister(model.KindAddressGroup, addressGroupRenderer)
	registry.MustRegister(model.KindContactGroup, contactGroupRenderer)
	registry.MustRegister(model.KindFileUpload, fileUploadRenderer)
	registry.MustRegister(model.KindConditional, conditionalRenderer)

	return registry
}

func esc(s string) string {
	return html.EscapeString(s)
}

func valueAt(data ComponentData, path string) string {
	return formstate.StringAt(data.Values, path)
}

func currentOr(data ComponentData, path, fallback string) string {
	if v := valueAt(data, path); v != "" {
		return v
	}
	return fallback
}

func dropdownRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	current := currentOr(data, field.ID, field.Default)

	buf.WriteString(`<select id="lf-` + esc(field.ID) + `" name="` + esc(field.ID) + `" class="lf-select">` + "\n")
	if field.Placeholder != "" {
		buf.WriteString(`    <option value="" disabled`)
		if current == "" {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>` + esc(field.Placeholder) + `</option>` + "\n")
	}
	for _, option := range field.Options {
		buf.WriteString(`    <option value="` + esc(option.Value) + `"`)
		if option.Value == current {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>` + esc(option.Title()) + `</option>` + "\n")
	}
	buf.WriteString(`</select>` + "\n")
	return nil
}

func inputRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	writeTextInput(buf, field.ID, field, valueAt(data, field.ID))
	return nil
}

func writeTextInput(buf *bytes.Buffer, path string, field model.FieldConfig, value string) {
	buf.WriteString(`<input type="text" id="lf-` + esc(path) + `" name="` + esc(path) + `" class="lf-input"`)
	if field.Placeholder != "" {
		buf.WriteString(` placeholder="` + esc(field.Placeholder) + `"`)
	}
	if field.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(field.MaxLength) + `"`)
	}
	if value != "" {
		buf.WriteString(` value="` + esc(value) + `"`)
	}
	buf.WriteString(`>` + "\n")
}

func textareaRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	rows := field.Rows
	if rows <= 0 {
		rows = 4
	}
	buf.WriteString(`<textarea id="lf-` + esc(field.ID) + `" name="` + esc(field.ID) + `" class="lf-textarea" rows="` + strconv.Itoa(rows) + `"`)
	if field.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(field.MaxLength) + `"`)
	}
	if field.Placeholder != "" {
		buf.WriteString(` placeholder="` + esc(field.Placeholder) + `"`)
	}
	buf.WriteString(`>` + esc(valueAt(data, field.ID)) + `</textarea>` + "\n")
	return nil
}

func radioGroupRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	current := currentOr(data, field.ID, field.Default)

	buf.WriteString(`<div class="lf-radio-group" role="radiogroup">` + "\n")
	for _, option := range field.Options {
		checked := ""
		selectedClass := ""
		if option.Value == current {
			checked = ` checked`
			selectedClass = ` lf-radio--selected`
		}
		buf.WriteString(`    <label class="lf-radio` + selectedClass + `">`)
		buf.WriteString(`<input type="radio" name="` + esc(field.ID) + `" value="` + esc(option.Value) + `"` + checked + `> `)
		buf.WriteString(esc(option.Title()))
		buf.WriteString(`</label>` + "\n")
	}
	buf.WriteString(`</div>` + "\n")
	return nil
}

func radioButtonsRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	current := currentOr(data, field.ID, field.Default)

	layout := field.Layout
	if layout == "" {
		layout = model.ButtonLayoutResponsive
	}

	buf.WriteString(`<div class="lf-radio-buttons lf-radio-buttons--` + esc(string(layout)) + `" role="radiogroup">` + "\n")
	for _, option := range field.Options {
		selected := ""
		checked := ""
		if option.Value == current {
			selected = ` lf-radio-button--selected`
			checked = ` checked`
		}
		buf.WriteString(`    <label class="lf-radio-button` + selected + `">`)
		buf.WriteString(`<input type="radio" name="` + esc(field.ID) + `" value="` + esc(option.Value) + `"` + checked + `>`)
		buf.WriteString(`<span>` + esc(option.Title()) + `</span>`)
		buf.WriteString(`</label>` + "\n")
	}
	buf.WriteString(`</div>` + "\n")
	return nil
}

// Accepted MIME prefixes mirrored in the upload pre-check; keep the two in
// sync.
const fileUploadAccept = "image/*,video/*,.pdf,.doc,.docx"

func fileUploadRenderer(buf *bytes.Buffer, field model.FieldConfig, _ ComponentData) error {
	buf.WriteString(`<div class="lf-file-upload" data-field="` + esc(field.ID) + `">` + "\n")
	buf.WriteString(`    <input type="file" id="lf-` + esc(field.ID) + `" name="` + esc(field.ID) + `" multiple accept="` + fileUploadAccept + `">` + "\n")
	buf.WriteString(`    <ul class="lf-file-upload-list"></ul>` + "\n")
	buf.WriteString(`</div>` + "\n")
	return nil
}

func conditionalRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	if field.Inner == nil {
		return fmt.Errorf("components: conditional field %q has no inner field", field.ID)
	}
	if !visibility.Visible(field, data.Values) {
		return nil
	}
	if data.RenderChild == nil {
		return fmt.Errorf("components: conditional field %q has no child renderer", field.ID)
	}
	rendered, err := data.RenderChild(*field.Inner)
	if err != nil {
		return err
	}
	buf.WriteString(rendered)
	return nil
}

func firstError(data ComponentData, path string) string {
	messages := data.Errors[path]
	if len(messages) == 0 {
		return ""
	}
	return strings.TrimSpace(messages[0])
}

func writeInlineError(buf *bytes.Buffer, data ComponentData, path string) {
	if message := firstError(data, path); message != "" {
		buf.WriteString(`    <p class="lf-error" data-error-for="` + esc(path) + `">` + esc(message) + `</p>` + "\n")
	}
}

package components

import (
	"bytes"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// usStates is the fixed enumeration the address block offers. California
// leads the business footprint, so it doubles as the default.
var usStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

const defaultState = "CA"

// addressGroupRenderer emits the street/state/city/zip cluster rooted at the
// field id. Street spans the full width; state, city, and zip share a
// three-column row. Per-member errors come from the shared error map via the
// dotted prefix; the block owns no validation rules of its own.
func addressGroupRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	root := field.ID

	buf.WriteString(`<div class="lf-address-group" data-group="` + esc(root) + `">` + "\n")

	streetPath := root + ".streetAddress"
	buf.WriteString(`  <div class="lf-address-street">` + "\n")
	writeSubLabel(buf, streetPath, "Street Address", field.Required)
	writeTextInput(buf, streetPath, model.FieldConfig{Placeholder: "Street address"}, valueAt(data, streetPath))
	writeInlineError(buf, data, streetPath)
	buf.WriteString(`  </div>` + "\n")

	buf.WriteString(`  <div class="lf-address-row">` + "\n")

	statePath := root + ".state"
	buf.WriteString(`    <div class="lf-address-state">` + "\n")
	writeSubLabel(buf, statePath, "State", field.Required)
	current := currentOr(data, statePath, defaultState)
	buf.WriteString(`<select id="lf-` + esc(statePath) + `" name="` + esc(statePath) + `" class="lf-select">` + "\n")
	for _, state := range usStates {
		buf.WriteString(`    <option value="` + state + `"`)
		if state == current {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>` + state + `</option>` + "\n")
	}
	buf.WriteString(`</select>` + "\n")
	writeInlineError(buf, data, statePath)
	buf.WriteString(`    </div>` + "\n")

	cityPath := root + ".city"
	buf.WriteString(`    <div class="lf-address-city">` + "\n")
	writeSubLabel(buf, cityPath, "City", field.Required)
	writeTextInput(buf, cityPath, model.FieldConfig{Placeholder: "City"}, valueAt(data, cityPath))
	writeInlineError(buf, data, cityPath)
	buf.WriteString(`    </div>` + "\n")

	zipPath := root + ".zip"
	buf.WriteString(`    <div class="lf-address-zip">` + "\n")
	writeSubLabel(buf, zipPath, "Zip", field.Required)
	writeTextInput(buf, zipPath, model.FieldConfig{Placeholder: "Zip", MaxLength: 10}, valueAt(data, zipPath))
	writeInlineError(buf, data, zipPath)
	buf.WriteString(`    </div>` + "\n")

	buf.WriteString(`  </div>` + "\n")
	buf.WriteString(`</div>` + "\n")
	return nil
}

// contactGroupRenderer emits the full-name/email/phone cluster rooted at the
// field id. Full name spans the full width; email and phone sit side by
// side.
func contactGroupRenderer(buf *bytes.Buffer, field model.FieldConfig, data ComponentData) error {
	root := field.ID

	buf.WriteString(`<div class="lf-contact-group" data-group="` + esc(root) + `">` + "\n")

	namePath := root + ".fullName"
	buf.WriteString(`  <div class="lf-contact-name">` + "\n")
	writeSubLabel(buf, namePath, "Full Name", field.Required)
	writeTextInput(buf, namePath, model.FieldConfig{Placeholder: "Full name"}, valueAt(data, namePath))
	writeInlineError(buf, data, namePath)
	buf.WriteString(`  </div>` + "\n")

	buf.WriteString(`  <div class="lf-contact-row">` + "\n")

	emailPath := root + ".email"
	buf.WriteString(`    <div class="lf-contact-email">` + "\n")
	writeSubLabel(buf, emailPath, "Email", field.Required)
	writeTextInput(buf, emailPath, model.FieldConfig{Placeholder: "Email"}, valueAt(data, emailPath))
	writeInlineError(buf, data, emailPath)
	buf.WriteString(`    </div>` + "\n")

	phonePath := root + ".phone"
	buf.WriteString(`    <div class="lf-contact-phone">` + "\n")
	writeSubLabel(buf, phonePath, "Phone", field.Required)
	writeTextInput(buf, phonePath, model.FieldConfig{Placeholder: "Phone", MaxLength: 10}, valueAt(data, phonePath))
	writeInlineError(buf, data, phonePath)
	buf.WriteString(`    </div>` + "\n")

	buf.WriteString(`  </div>` + "\n")
	buf.WriteString(`</div>` + "\n")
	return nil
}

func writeSubLabel(buf *bytes.Buffer, path, label string, required bool) {
	buf.WriteString(`<label for="lf-` + esc(path) + `" class="lf-sublabel">` + esc(label))
	if required {
		buf.WriteString(` *`)
	}
	buf.WriteString(`</label>` + "\n")
}

package forms

import (
	"strings"
	"time"
	"unicode"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/visibility"
)

const (
	brokeragePath       = "brokerage"
	customBrokeragePath = "customBrokerage"
	visitDatePath       = "requestedVisitDateTime"
	visitTimePath       = "requestedVisitTime"
	otherBrokerage      = "Other"
)

// Normalize builds the submission payload from live values: gated fields
// whose condition is closed are stripped, customBrokerage resolves into the
// effective brokerage, separate visit date and time merge into one ISO-8601
// instant, and the uploaded files ride along.
func Normalize(def model.FormDefinition, values map[string]any, files []model.UploadedFile, now time.Time) model.Submission {
	payload := make(map[string]any)
	for path, value := range formstate.Flatten(values) {
		formstate.Set(payload, path, value)
	}

	stripHidden(def, payload)
	resolveBrokerage(payload)
	combineVisitDateTime(payload)

	return model.Submission{
		FormID:         def.ID,
		SubmissionTime: now.UTC(),
		Values:         payload,
		Files:          append([]model.UploadedFile(nil), files...),
	}
}

// stripHidden removes values belonging to conditional fields whose gate is
// closed; they never reach the payload.
func stripHidden(def model.FormDefinition, payload map[string]any) {
	for _, field := range def.Fields {
		if field.Kind != model.KindConditional || field.Inner == nil {
			continue
		}
		if visibility.Visible(field, payload) {
			continue
		}
		for _, path := range innerPaths(*field.Inner) {
			formstate.Delete(payload, path)
		}
	}
}

func innerPaths(inner model.FieldConfig) []string {
	switch inner.Kind {
	case model.KindContactGroup:
		return []string{inner.ID + ".fullName", inner.ID + ".email", inner.ID + ".phone"}
	case model.KindAddressGroup:
		return []string{inner.ID + ".streetAddress", inner.ID + ".city", inner.ID + ".state", inner.ID + ".zip"}
	default:
		return []string{inner.ID}
	}
}

// resolveBrokerage folds a filled customBrokerage into the effective
// brokerage value when "Other" was chosen. The custom value is camel-cased
// at blur time, so resubmitting identical input yields an identical payload.
func resolveBrokerage(payload map[string]any) {
	if formstate.StringAt(payload, brokeragePath) != otherBrokerage {
		return
	}
	custom := formstate.StringAt(payload, customBrokeragePath)
	if custom == "" {
		return
	}
	formstate.Set(payload, brokeragePath, CamelCase(custom))
	formstate.Delete(payload, customBrokeragePath)
}

// combineVisitDateTime merges the separate date and time answers into one
// ISO-8601 instant when both are present and parseable.
func combineVisitDateTime(payload map[string]any) {
	date := formstate.StringAt(payload, visitDatePath)
	clock := formstate.StringAt(payload, visitTimePath)
	if date == "" || clock == "" {
		return
	}

	combined, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return
	}
	formstate.Set(payload, visitDatePath, combined.UTC().Format(time.RFC3339))
	formstate.Delete(payload, visitTimePath)
}

// CamelCase collapses a free-text name into a lowerCamelCase token:
// "Acme Realty" becomes "acmeRealty". Applying it to its own output is a
// no-op.
func CamelCase(s string) string {
	var b strings.Builder
	upperNext := false
	first := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			switch {
			case first:
				b.WriteRune(unicode.ToLower(r))
				first = false
			case upperNext:
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			default:
				b.WriteRune(r)
			}
		default:
			if !first {
				upperNext = true
			}
		}
	}
	return b.String()
}

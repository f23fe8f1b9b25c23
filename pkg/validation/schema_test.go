package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/validation"
)

func estimateDefinition() model.FormDefinition {
	return model.FormDefinition{
		ID: "get-estimate",
		Fields: []model.FieldConfig{
			{ID: "brokerage", Kind: model.KindDropdown, Options: []model.Option{{Value: "Equity Union"}, {Value: "Other"}}},
			{
				ID:        "customBrokerage",
				Kind:      model.KindConditional,
				Condition: &model.ConditionalRule{WatchField: "brokerage", Operator: model.OperatorEq, Value: "Other"},
				Inner:     &model.FieldConfig{ID: "customBrokerage", Kind: model.KindInput},
			},
			{ID: "rtDigitalSelection", Kind: model.KindRadioButtons, Options: []model.Option{{Value: "upload"}, {Value: "video-call"}, {Value: "in-person"}}},
			{
				ID:        "requestedVisitDateTime",
				Kind:      model.KindConditional,
				Condition: &model.ConditionalRule{WatchField: "rtDigitalSelection", Operator: model.OperatorNeq, Value: "upload"},
				Inner:     &model.FieldConfig{ID: "requestedVisitDateTime", Kind: model.KindInput},
			},
			{
				ID:        "requestedVisitTime",
				Kind:      model.KindConditional,
				Condition: &model.ConditionalRule{WatchField: "rtDigitalSelection", Operator: model.OperatorNeq, Value: "upload"},
				Inner:     &model.FieldConfig{ID: "requestedVisitTime", Kind: model.KindInput},
			},
		},
	}
}

func estimateSchema() *validation.Schema {
	def := estimateDefinition()
	return validation.NewSchema(def).
		Field("brokerage", validation.Required("Brokerage is required")).
		Field("customBrokerage", validation.Required("Brokerage name is required")).
		Field("requestedVisitDateTime", validation.Required("Please select a meeting date")).
		Field("requestedVisitTime", validation.Required("Please select a meeting time"))
}

func TestSchema_ConditionalExclusion(t *testing.T) {
	schema := estimateSchema()

	// Upload flow: both visit fields sit behind a failing gate.
	errs := schema.Validate(map[string]any{
		"brokerage":          "Equity Union",
		"rtDigitalSelection": "upload",
	})
	if len(errs) != 0 {
		t.Fatalf("upload flow should pass, got %v", errs)
	}

	// Video call flow: both visit fields become required.
	errs = schema.Validate(map[string]any{
		"brokerage":          "Equity Union",
		"rtDigitalSelection": "video-call",
	})
	want := map[string][]string{
		"requestedVisitDateTime": {"Please select a meeting date"},
		"requestedVisitTime":     {"Please select a meeting time"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("video-call flow mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_CustomBrokerageGate(t *testing.T) {
	schema := estimateSchema()

	errs := schema.Validate(map[string]any{
		"brokerage":          "Other",
		"rtDigitalSelection": "upload",
	})
	if diff := cmp.Diff(map[string][]string{"customBrokerage": {"Brokerage name is required"}}, errs); diff != "" {
		t.Fatalf("other-brokerage mismatch (-want +got):\n%s", diff)
	}

	errs = schema.Validate(map[string]any{
		"brokerage":          "Other",
		"customBrokerage":    "Acme Realty",
		"rtDigitalSelection": "upload",
	})
	if len(errs) != 0 {
		t.Fatalf("filled custom brokerage should pass, got %v", errs)
	}
}

func TestSchema_ValidateFieldOnly(t *testing.T) {
	schema := estimateSchema()
	values := map[string]any{"rtDigitalSelection": "in-person"}

	if got := schema.ValidateField("requestedVisitTime", values); len(got) != 1 {
		t.Fatalf("expected one message, got %v", got)
	}
	values["requestedVisitTime"] = "10:30"
	if got := schema.ValidateField("requestedVisitTime", values); got != nil {
		t.Fatalf("expected pass, got %v", got)
	}
}

func TestRules(t *testing.T) {
	values := map[string]any{}

	cases := []struct {
		name  string
		rule  validation.Rule
		value any
		want  string
	}{
		{"required empty", validation.Required("need it"), "", "need it"},
		{"required whitespace", validation.Required("need it"), "   ", "need it"},
		{"required ok", validation.Required("need it"), "x", ""},
		{"phone dashes", validation.Phone("bad phone"), "555-123-4567", "bad phone"},
		{"phone ok", validation.Phone("bad phone"), "5551234567", ""},
		{"zip plus4", validation.Zip("bad zip"), "90001-1234", ""},
		{"zip short", validation.Zip("bad zip"), "9000", "bad zip"},
		{"email bad", validation.Email("bad email"), "jane@", "bad email"},
		{"email ok", validation.Email("bad email"), "jane@x.com", ""},
		{"email empty passes", validation.Email("bad email"), "", ""},
		{"max length", validation.MaxLength(3, "too long"), "abcd", "too long"},
		{"min length empty passes", validation.MinLength(5, "too short"), "", ""},
		{"one of", validation.OneOf([]string{"a", "b"}, "pick one"), "c", "pick one"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule(tc.value, values); got != tc.want {
				t.Fatalf("rule = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWhen_Branches(t *testing.T) {
	rule := validation.When("rtDigitalSelection", "upload",
		nil,
		[]validation.Rule{validation.Required("required for visits")},
	)

	if got := rule("", map[string]any{"rtDigitalSelection": "upload"}); got != "" {
		t.Fatalf("upload branch should pass, got %q", got)
	}
	if got := rule("", map[string]any{"rtDigitalSelection": "in-person"}); got != "required for visits" {
		t.Fatalf("visit branch = %q", got)
	}
}

package vanilla

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/render"
	"github.com/doron007/realtechee-forms/pkg/renderers/vanilla/components"
)

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return renderer
}

func mustForm(t *testing.T, id string) model.FormDefinition {
	t.Helper()
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("registry.Default() error = %v", err)
	}
	def, ok := reg.Form(id)
	if !ok {
		t.Fatalf("form %q not registered", id)
	}
	return def
}

func TestRendererIdentity(t *testing.T) {
	renderer := mustRenderer(t)
	if got := renderer.Name(); got != "vanilla" {
		t.Errorf("Name() = %q, want %q", got, "vanilla")
	}
	if got := renderer.ContentType(); !strings.HasPrefix(got, "text/html") {
		t.Errorf("ContentType() = %q, want text/html prefix", got)
	}
}

func TestRenderGetEstimate(t *testing.T) {
	renderer := mustRenderer(t)
	def := mustForm(t, "get-estimate")

	out, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)

	for _, want := range []string{
		`data-form="get-estimate"`,
		`data-section="property"`,
		`data-field="relationToProperty"`,
		`class="lf-address-group" data-group="propertyAddress"`,
		`name="propertyAddress.streetAddress"`,
		`lf-radio-buttons--responsive`,
		`name="fileUpload" multiple`,
		`<button type="submit" class="lf-submit">Submit</button>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderConditionalFollowsWatchedValue(t *testing.T) {
	renderer := mustRenderer(t)
	def := mustForm(t, "get-estimate")

	hidden, err := renderer.Render(context.Background(), def, render.RenderOptions{
		Values: map[string]any{"brokerage": "Equity Union"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(hidden), `name="customBrokerage"`) {
		t.Errorf("customBrokerage rendered while brokerage != Other")
	}

	shown, err := renderer.Render(context.Background(), def, render.RenderOptions{
		Values: map[string]any{"brokerage": "Other"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(shown), `name="customBrokerage"`) {
		t.Errorf("customBrokerage not rendered while brokerage == Other")
	}
}

func TestRenderVisitFieldsHiddenForUpload(t *testing.T) {
	renderer := mustRenderer(t)
	def := mustForm(t, "get-estimate")

	// Default rtDigitalSelection is upload, so the visit date and time
	// inputs stay off the page until another option is picked.
	out, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(out), `name="requestedVisitDateTime"`) {
		t.Errorf("visit date rendered for upload selection")
	}

	out, err = renderer.Render(context.Background(), def, render.RenderOptions{
		Values: map[string]any{"rtDigitalSelection": "video-call"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), `name="requestedVisitDateTime"`) {
		t.Errorf("visit date missing for video-call selection")
	}
}

func TestRenderRequiredMarker(t *testing.T) {
	renderer := mustRenderer(t)
	def := mustForm(t, "general-inquiry")

	out, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)
	if !strings.Contains(page, `Full Name *`) {
		t.Errorf("required contact sublabel missing asterisk")
	}
}

func TestRenderErrorsAndHiddenFields(t *testing.T) {
	renderer := mustRenderer(t)
	def := mustForm(t, "general-inquiry")

	out, err := renderer.Render(context.Background(), def, render.RenderOptions{
		Errors: map[string][]string{
			"":                  {"Something went wrong, please retry."},
			"contactInfo.email": {"Enter a valid email address"},
		},
		Hidden:      render.MergeHiddenFields(nil, render.SessionField("sess-123"), render.CSRFToken("csrf_token", "tok-9")),
		SubmitLabel: "Send Inquiry",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)

	for _, want := range []string{
		`<p class="lf-form-error">Something went wrong, please retry.</p>`,
		`data-error-for="contactInfo.email"`,
		`<input type="hidden" name="sessionId" value="sess-123">`,
		`name="csrf_token"`,
		`>Send Inquiry</button>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderSectionLayouts(t *testing.T) {
	renderer := mustRenderer(t)
	def := model.FormDefinition{
		ID: "layouts",
		Sections: []model.SectionConfig{
			{ID: "a", Title: "A", FieldIDs: []string{"one"}},
			{ID: "b", Title: "B", Layout: model.SectionLayoutSideBySide, FieldIDs: []string{"two"}},
			{ID: "c", Title: "C", Layout: model.SectionLayoutTwoColumn, FieldIDs: []string{"three"}},
		},
		Fields: []model.FieldConfig{
			{ID: "one", Kind: model.KindInput, Label: "One"},
			{ID: "two", Kind: model.KindInput, Label: "Two"},
			{ID: "three", Kind: model.KindInput, Label: "Three"},
		},
	}

	out, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)
	for _, want := range []string{
		"lf-section-body--stack",
		"lf-section-body--side-by-side",
		"lf-section-body--two-column",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page missing layout class %q", want)
		}
	}
}

func TestRenderUnknownFieldReference(t *testing.T) {
	renderer := mustRenderer(t)
	def := model.FormDefinition{
		ID:       "broken",
		Sections: []model.SectionConfig{{ID: "s", FieldIDs: []string{"ghost"}}},
	}

	if _, err := renderer.Render(context.Background(), def, render.RenderOptions{}); err == nil {
		t.Fatalf("Render() expected error for unknown field reference")
	}
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	got := components.NewDefaultRegistry().Kinds()
	if diff := cmp.Diff(model.Kinds(), got); diff != "" {
		t.Fatalf("registered kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "Tell us about the property.", want: "Tell us about the property."},
		{name: "keeps emphasis", in: "Upload <strong>photos</strong> if you can.", want: "Upload <strong>photos</strong> if you can."},
		{name: "strips script", in: `Hi<script>alert("x")</script>`, want: "Hi"},
		{name: "blank", in: "   ", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeDescription(tc.in); got != tc.want {
				t.Errorf("SanitizeDescription(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

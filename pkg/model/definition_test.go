package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/pkg/model"
)

func sampleDefinition() model.FormDefinition {
	return model.FormDefinition{
		ID: "general-inquiry",
		Sections: []model.SectionConfig{
			{ID: "contact", Title: "Contact", FieldIDs: []string{"contactInfo", "address"}},
			{ID: "details", Title: "Details", Layout: model.SectionLayoutTwoColumn, FieldIDs: []string{"product", "message"}},
		},
		Fields: []model.FieldConfig{
			{ID: "contactInfo", Kind: model.KindContactGroup},
			{ID: "address", Kind: model.KindAddressGroup},
			{ID: "product", Kind: model.KindDropdown, Options: []model.Option{{Value: "Design Services"}}},
			{ID: "message", Kind: model.KindTextarea, Rows: 5},
		},
	}
}

func TestFormDefinition_Lookups(t *testing.T) {
	def := sampleDefinition()

	if _, ok := def.Field("nope"); ok {
		t.Fatal("unknown field id should not resolve")
	}
	if _, ok := def.Section("nope"); ok {
		t.Fatal("unknown section id should not resolve")
	}
	if got := def.SectionFields("nope"); got != nil {
		t.Fatalf("unknown section should yield no fields, got %v", got)
	}

	fields := def.SectionFields("details")
	var ids []string
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff([]string{"product", "message"}, ids); diff != "" {
		t.Fatalf("section field order mismatch (-want +got):\n%s", diff)
	}
}

func TestFormDefinition_FieldPathsExpandComposites(t *testing.T) {
	def := sampleDefinition()

	want := []string{
		"contactInfo.fullName", "contactInfo.email", "contactInfo.phone",
		"address.streetAddress", "address.city", "address.state", "address.zip",
		"product", "message",
	}
	if diff := cmp.Diff(want, def.FieldPaths()); diff != "" {
		t.Fatalf("field paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFormDefinition_FieldPathsForConditional(t *testing.T) {
	def := model.FormDefinition{
		ID: "estimate",
		Fields: []model.FieldConfig{
			{ID: "brokerage", Kind: model.KindDropdown, Options: []model.Option{{Value: "Other"}}},
			{
				ID:        "customBrokerageWrapper",
				Kind:      model.KindConditional,
				Condition: &model.ConditionalRule{WatchField: "brokerage", Operator: model.OperatorEq, Value: "Other"},
				Inner:     &model.FieldConfig{ID: "customBrokerage", Kind: model.KindInput},
			},
		},
	}

	want := []string{"brokerage", "customBrokerage"}
	if diff := cmp.Diff(want, def.FieldPaths()); diff != "" {
		t.Fatalf("conditional field paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFormDefinition_Verify(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*model.FormDefinition)
		wantErr bool
	}{
		{name: "valid", mutate: func(*model.FormDefinition) {}},
		{
			name:    "unknown kind",
			mutate:  func(d *model.FormDefinition) { d.Fields[3].Kind = "carousel" },
			wantErr: true,
		},
		{
			name:    "unresolved section field",
			mutate:  func(d *model.FormDefinition) { d.Sections[0].FieldIDs = append(d.Sections[0].FieldIDs, "ghost") },
			wantErr: true,
		},
		{
			name:    "dropdown without options",
			mutate:  func(d *model.FormDefinition) { d.Fields[2].Options = nil },
			wantErr: true,
		},
		{
			name:    "unknown section layout",
			mutate:  func(d *model.FormDefinition) { d.Sections[1].Layout = "mosaic" },
			wantErr: true,
		},
		{
			name: "conditional without inner",
			mutate: func(d *model.FormDefinition) {
				d.Fields = append(d.Fields, model.FieldConfig{
					ID:        "broken",
					Kind:      model.KindConditional,
					Condition: &model.ConditionalRule{WatchField: "product", Operator: model.OperatorEq, Value: "x"},
				})
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := sampleDefinition()
			tc.mutate(&def)
			err := def.Verify()
			if tc.wantErr && err == nil {
				t.Fatal("expected verify error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("verify: %v", err)
			}
		})
	}
}

func TestKinds_EveryKindValid(t *testing.T) {
	for _, kind := range model.Kinds() {
		if !kind.Valid() {
			t.Fatalf("kind %q should be valid", kind)
		}
	}
	if model.FieldKind("carousel").Valid() {
		t.Fatal("unknown kind should not be valid")
	}
}

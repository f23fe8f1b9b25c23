package registry_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/registry"
)

func TestDefault_LoadsEmbeddedDefinitions(t *testing.T) {
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("load embedded definitions: %v", err)
	}

	want := []string{"affiliate-inquiry", "general-inquiry", "get-estimate", "get-qualified"}
	if diff := cmp.Diff(want, reg.Forms()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}

	for _, id := range reg.Forms() {
		def, ok := reg.Form(id)
		if !ok {
			t.Fatalf("form %q did not resolve", id)
		}
		if err := def.Verify(); err != nil {
			t.Fatalf("form %q failed verification: %v", id, err)
		}
	}
}

func TestRegistry_UnknownIDsNeverError(t *testing.T) {
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("load embedded definitions: %v", err)
	}

	if _, ok := reg.Form("nope"); ok {
		t.Fatal("unknown form resolved")
	}
	if _, ok := reg.Field("get-estimate", "nope"); ok {
		t.Fatal("unknown field resolved")
	}
	if _, ok := reg.Section("get-estimate", "nope"); ok {
		t.Fatal("unknown section resolved")
	}
	if fields := reg.SectionFields("nope", "nope"); fields != nil {
		t.Fatalf("unknown section should yield nil, got %v", fields)
	}
}

func TestRegistry_SectionFieldsDeclaredOrder(t *testing.T) {
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("load embedded definitions: %v", err)
	}

	var ids []string
	for _, field := range reg.SectionFields("get-estimate", "meeting") {
		ids = append(ids, field.ID)
	}
	want := []string{"rtDigitalSelection", "requestedVisitDateTime", "requestedVisitTime"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("meeting section order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_AppliesDecorators(t *testing.T) {
	fsys := fstest.MapFS{
		"tiny.yaml": &fstest.MapFile{Data: []byte(`
id: tiny
sections:
  - id: main
    title: Main
    fields: [note]
fieldConfigs:
  - id: note
    kind: textarea
    label: Note
`)},
	}

	reg, err := registry.LoadFS(fsys, model.DecoratorFunc(func(def *model.FormDefinition) error {
		def.Title = "Decorated"
		return nil
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	def, ok := reg.Form("tiny")
	if !ok {
		t.Fatal("tiny form did not resolve")
	}
	if def.Title != "Decorated" {
		t.Fatalf("decorator did not run, title %q", def.Title)
	}
}

func TestLoadFS_RejectsBrokenDefinitions(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.yaml": &fstest.MapFile{Data: []byte(`
id: broken
sections:
  - id: main
    title: Main
    fields: [ghost]
fieldConfigs:
  - id: real
    kind: input
`)},
	}

	if _, err := registry.LoadFS(fsys); err == nil {
		t.Fatal("expected verification error for unresolved section field")
	}
}

package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/model"
)

func TestDefaultColumns(t *testing.T) {
	columns, err := DefaultColumns()
	if err != nil {
		t.Fatalf("DefaultColumns() error = %v", err)
	}

	want := []Column{
		{Path: "archived", Title: "Archived", Kind: "boolean", Sortable: true},
		{Path: "createdAt", Title: "Created At", Kind: "string", Sortable: true},
		{Path: "files", Title: "Files", Kind: "array", Sortable: false},
		{Path: "formId", Title: "Form Id", Kind: "string", Sortable: true},
		{Path: "id", Title: "Id", Kind: "string", Sortable: true},
		{Path: "submissionTime", Title: "Submission Time", Kind: "string", Sortable: true},
		{Path: "values", Title: "Values", Kind: "object", Sortable: false},
	}
	if diff := cmp.Diff(want, columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnsFromDocumentUnknownComponent(t *testing.T) {
	if _, err := ColumnsFromDocument(apiSpec, "Nope"); err == nil {
		t.Fatalf("expected error for unknown component")
	}
}

func TestServiceListSanitizesCells(t *testing.T) {
	memory := store.NewMemoryStore()
	ctx := context.Background()

	_, err := memory.Create(ctx, model.Submission{
		FormID:         "general-inquiry",
		SubmissionTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Values: map[string]any{
			"message": `Hello <script>alert("x")</script>there`,
			"contactInfo": map[string]any{
				"fullName": "Jane Doe",
			},
		},
		Files: []model.UploadedFile{{ID: "f1", Name: "a.jpg"}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	service, err := NewService(memory)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	rows, err := service.List(ctx, store.Query{FormID: "general-inquiry"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("List() = %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.Cells["message"] != "Hello there" {
		t.Errorf("message cell = %q, want script stripped", row.Cells["message"])
	}
	if row.Cells["contactInfo.fullName"] != "Jane Doe" {
		t.Errorf("nested cell = %q", row.Cells["contactInfo.fullName"])
	}
	if row.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", row.FileCount)
	}
}

func TestServiceArchiveRoundTrip(t *testing.T) {
	memory := store.NewMemoryStore()
	ctx := context.Background()

	record, err := memory.Create(ctx, model.Submission{FormID: "get-estimate", SubmissionTime: time.Now()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	service, err := NewService(memory)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if err := service.Archive(ctx, record.ID); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	rows, err := service.List(ctx, store.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("List() = %d rows after archive, want 0", len(rows))
	}

	if err := service.Unarchive(ctx, record.ID); err != nil {
		t.Fatalf("Unarchive() error = %v", err)
	}
	rows, err = service.List(ctx, store.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("List() = %d rows after unarchive, want 1", len(rows))
	}
}

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/formstate"
)

// Row is one submission prepared for the grid: raw identity fields plus
// sanitized display cells keyed by dotted value path.
type Row struct {
	ID             string            `json:"id"`
	FormID         string            `json:"formId"`
	SubmissionTime time.Time         `json:"submissionTime"`
	Archived       bool              `json:"archived"`
	FileCount      int               `json:"fileCount"`
	Cells          map[string]string `json:"cells"`
}

// Service serves the back-office list and archive operations. Free-text
// answers pass through a strict sanitizer before display.
type Service struct {
	store  store.Store
	policy *bluemonday.Policy
}

func NewService(submissions store.Store) (*Service, error) {
	if submissions == nil {
		return nil, fmt.Errorf("admin: store is required")
	}
	return &Service{
		store:  submissions,
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// List returns grid rows for the query.
func (s *Service) List(ctx context.Context, query store.Query) ([]Row, error) {
	records, err := s.store.List(ctx, query)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, s.row(record))
	}
	return rows, nil
}

// Get returns one submission as a grid row.
func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Row{}, err
	}
	return s.row(record), nil
}

// Archive hides a submission from the default listing. The record stays
// retrievable with IncludeArchived.
func (s *Service) Archive(ctx context.Context, id string) error {
	return s.store.SetArchived(ctx, id, true)
}

// Unarchive restores an archived submission to the default listing.
func (s *Service) Unarchive(ctx context.Context, id string) error {
	return s.store.SetArchived(ctx, id, false)
}

func (s *Service) row(record store.Record) Row {
	cells := make(map[string]string)
	for path, value := range formstate.Flatten(record.Values) {
		cells[path] = s.policy.Sanitize(fmt.Sprint(value))
	}
	return Row{
		ID:             record.ID,
		FormID:         record.FormID,
		SubmissionTime: record.SubmissionTime,
		Archived:       record.Archived,
		FileCount:      len(record.Files),
		Cells:          cells,
	}
}

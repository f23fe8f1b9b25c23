// Package store persists form submissions for the back office.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/model"
)

// ErrNotFound is returned when a submission id does not exist.
var ErrNotFound = errors.New("store: submission not found")

// Record is one persisted submission.
type Record struct {
	ID             string               `bson:"_id" json:"id"`
	FormID         string               `bson:"formId" json:"formId"`
	SubmissionTime time.Time            `bson:"submissionTime" json:"submissionTime"`
	Values         map[string]any       `bson:"values" json:"values"`
	Files          []model.UploadedFile `bson:"files,omitempty" json:"files,omitempty"`
	Archived       bool                 `bson:"archived" json:"archived"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}

// Query filters and orders a submission listing. Filter is a free-text
// match against submitted values, applied before Limit and Offset.
type Query struct {
	FormID          string
	Filter          string
	IncludeArchived bool
	SortBy          string
	Desc            bool
	Limit           int64
	Offset          int64
}

// Matches reports whether the free-text filter hits any submitted value.
// An empty filter matches everything.
func (q Query) Matches(record Record) bool {
	needle := strings.ToLower(strings.TrimSpace(q.Filter))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(record.FormID), needle) {
		return true
	}
	for _, value := range formstate.Flatten(record.Values) {
		if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	for _, file := range record.Files {
		if strings.Contains(strings.ToLower(file.Name), needle) {
			return true
		}
	}
	return false
}

// Store is the persistence contract the server and admin service use.
type Store interface {
	Create(ctx context.Context, submission model.Submission) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, query Query) ([]Record, error)
	SetArchived(ctx context.Context, id string, archived bool) error
}

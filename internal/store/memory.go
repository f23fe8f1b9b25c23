package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// MemoryStore is an in-process Store used by tests and local runs without a
// database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, submission model.Submission) (Record, error) {
	record := Record{
		ID:             uuid.NewString(),
		FormID:         submission.FormID,
		SubmissionTime: submission.SubmissionTime,
		Values:         submission.Values,
		Files:          submission.Files,
		CreatedAt:      s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return record, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) List(_ context.Context, query Query) ([]Record, error) {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		if query.FormID != "" && record.FormID != query.FormID {
			continue
		}
		if !query.IncludeArchived && record.Archived {
			continue
		}
		if !query.Matches(record) {
			continue
		}
		records = append(records, record)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		less := recordLess(records[i], records[j], query.SortBy)
		if query.Desc {
			return !less
		}
		return less
	})

	if query.Offset > 0 {
		if query.Offset >= int64(len(records)) {
			return nil, nil
		}
		records = records[query.Offset:]
	}
	if query.Limit > 0 && int64(len(records)) > query.Limit {
		records = records[:query.Limit]
	}
	return records, nil
}

func recordLess(a, b Record, sortBy string) bool {
	switch sortBy {
	case "formId":
		if a.FormID != b.FormID {
			return a.FormID < b.FormID
		}
	case "createdAt":
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	if !a.SubmissionTime.Equal(b.SubmissionTime) {
		return a.SubmissionTime.Before(b.SubmissionTime)
	}
	return a.ID < b.ID
}

func (s *MemoryStore) SetArchived(_ context.Context, id string, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	record.Archived = archived
	s.records[id] = record
	return nil
}

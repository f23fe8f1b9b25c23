package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Storage puts objects under a key and returns a publicly readable URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// progressReader reports cumulative bytes read. Percentages derived from it
// are strictly increasing because callback calls only happen on positive
// reads.
type progressReader struct {
	inner    io.Reader
	total    int64
	read     int64
	onChange func(percent float64)
}

func newProgressReader(inner io.Reader, total int64, onChange func(percent float64)) *progressReader {
	return &progressReader{inner: inner, total: total, onChange: onChange}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 && r.onChange != nil && r.total > 0 {
		r.read += int64(n)
		r.onChange(float64(r.read) / float64(r.total) * 100)
	}
	return n, err
}

// MemoryStorage is an in-process Storage used by tests and local runs.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailKeys forces Put to fail for the listed keys.
	FailKeys map[string]bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.FailKeys[key] {
		return "", fmt.Errorf("memory storage: put %s: forced failure", key)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = buf.Bytes()
	return "memory://" + key, nil
}

// Keys lists stored object keys in sorted order.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Object returns a stored object's bytes.
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports how many objects were stored.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

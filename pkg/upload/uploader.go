// Package upload validates, keys, and stores form attachments. A batch is
// checked as a whole before the first byte moves; individual uploads then
// proceed concurrently and fail independently.
package upload

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// DefaultMaxFileSizeMB matches the per-file limit the request forms enforce.
const DefaultMaxFileSizeMB int64 = 15

// File is one pending attachment prior to upload.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// ProgressFunc receives per-file progress as a 0-100 percentage. Calls for
// one file carry strictly increasing percentages.
type ProgressFunc func(filename string, percent float64)

// Failure records one upload that did not complete. Sibling uploads in the
// batch are unaffected.
type Failure struct {
	Filename string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("upload: %s failed: %v", f.Filename, f.Err)
}

// Result carries the batch outcome: completed records plus any per-file
// failures.
type Result struct {
	Uploaded []model.UploadedFile
	Failed   []Failure
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithMaxFileSizeMB overrides the per-file size limit.
func WithMaxFileSizeMB(mb int64) Option {
	return func(u *Uploader) {
		if mb > 0 {
			u.maxFileSizeMB = mb
		}
	}
}

// WithConcurrency caps how many uploads run at once.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.log = logger
		}
	}
}

// WithClock overrides the time source used for key timestamps.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
	}
}

// Uploader moves validated batches into object storage.
type Uploader struct {
	storage       Storage
	maxFileSizeMB int64
	concurrency   int
	now           func() time.Time
	log           *logrus.Logger
}

func New(storage Storage, options ...Option) (*Uploader, error) {
	if storage == nil {
		return nil, fmt.Errorf("upload: storage is required")
	}
	u := &Uploader{
		storage:       storage,
		maxFileSizeMB: DefaultMaxFileSizeMB,
		concurrency:   4,
		now:           time.Now,
		log:           logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(u)
	}
	return u, nil
}

// UploadBatch validates all files up front, then uploads them concurrently.
// When the pre-check fails nothing is stored and the returned error names
// the offending file. After the pre-check, one file's failure never rolls
// back its siblings; failures are reported in the Result.
func (u *Uploader) UploadBatch(ctx context.Context, files []File, address, sessionID string, onProgress ProgressFunc) (*Result, error) {
	if len(files) == 0 {
		return &Result{}, nil
	}
	if err := CheckBatch(files, u.maxFileSizeMB); err != nil {
		return nil, err
	}

	uploaded := make([]*model.UploadedFile, len(files))
	var (
		mu     sync.Mutex
		failed []Failure
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(u.concurrency)

	for i := range files {
		group.Go(func() error {
			file := files[i]
			record, err := u.uploadOne(groupCtx, file, address, sessionID, onProgress)
			if err != nil {
				u.log.WithError(err).WithField("file", file.Name).Warn("upload failed")
				mu.Lock()
				failed = append(failed, Failure{Filename: file.Name, Err: err})
				mu.Unlock()
				return nil
			}
			uploaded[i] = record
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Failed: failed}
	for _, record := range uploaded {
		if record != nil {
			result.Uploaded = append(result.Uploaded, *record)
		}
	}
	return result, nil
}

func (u *Uploader) uploadOne(ctx context.Context, file File, address, sessionID string, onProgress ProgressFunc) (*model.UploadedFile, error) {
	category, ok := CategoryOf(file.ContentType, file.Name)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", file.ContentType)
	}

	key := Key(address, sessionID, category, file.Name, u.now())

	body := io.Reader(file.Body)
	if onProgress != nil {
		name := file.Name
		body = newProgressReader(body, file.Size, func(percent float64) {
			onProgress(name, percent)
		})
	}

	url, err := u.storage.Put(ctx, key, file.ContentType, body, file.Size)
	if err != nil {
		return nil, err
	}

	return &model.UploadedFile{
		ID:       uuid.NewString(),
		Name:     file.Name,
		Size:     file.Size,
		Type:     file.ContentType,
		URL:      url,
		Key:      key,
		Category: string(category),
	}, nil
}

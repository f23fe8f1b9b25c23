package upload

import (
	"fmt"
	"path"
	"strings"
)

// Category buckets an upload by media type; it becomes a storage path
// segment and travels with the UploadedFile record.
type Category string

const (
	CategoryImages Category = "images"
	CategoryVideos Category = "videos"
	CategoryDocs   Category = "docs"
)

var docTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

var docExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// CategoryOf classifies a file by MIME type, falling back to the filename
// extension for document types browsers often leave blank.
func CategoryOf(contentType, filename string) (Category, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return CategoryImages, true
	case strings.HasPrefix(ct, "video/"):
		return CategoryVideos, true
	}
	if _, ok := docTypes[ct]; ok {
		return CategoryDocs, true
	}
	if _, ok := docExtensions[strings.ToLower(path.Ext(filename))]; ok {
		return CategoryDocs, true
	}
	return "", false
}

// BatchError rejects a whole selection because of one offending file. No
// upload in the batch starts when it is returned.
type BatchError struct {
	Filename string
	Reason   string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("upload: %s: %s", e.Filename, e.Reason)
}

// CheckBatch validates every file before any upload begins: size within the
// limit, media type in one of the allow-lists. The first failure aborts the
// whole batch.
func CheckBatch(files []File, maxFileSizeMB int64) error {
	limit := maxFileSizeMB * 1024 * 1024
	for _, file := range files {
		if limit > 0 && file.Size > limit {
			return &BatchError{
				Filename: file.Name,
				Reason:   fmt.Sprintf("exceeds the %dMB size limit", maxFileSizeMB),
			}
		}
		if _, ok := CategoryOf(file.ContentType, file.Name); !ok {
			return &BatchError{
				Filename: file.Name,
				Reason:   fmt.Sprintf("unsupported file type %q", file.ContentType),
			}
		}
	}
	return nil
}

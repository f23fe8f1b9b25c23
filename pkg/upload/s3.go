package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// public objects live under this prefix so a bucket policy can expose them
// without touching private keys.
const publicPrefix = "public/"

// S3API is the slice of the S3 client the storage layer needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage stores uploads in an S3 bucket and returns direct public URLs
// of the form https://<bucket>.s3.<region>.amazonaws.com/public/<key>.
type S3Storage struct {
	client S3API
	bucket string
	region string
}

func NewS3Storage(client S3API, bucket, region string) (*S3Storage, error) {
	if client == nil {
		return nil, errors.New("upload: s3 client is required")
	}
	bucket = strings.TrimSpace(bucket)
	region = strings.TrimSpace(region)
	if bucket == "" || region == "" {
		return nil, errors.New("upload: s3 bucket and region are required")
	}
	return &S3Storage{client: client, bucket: bucket, region: region}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	objectKey := publicPrefix + key
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload: put object %s: %w", objectKey, err)
	}
	return s.URL(key), nil
}

// URL reports the public URL for a storage key without uploading anything.
func (s *S3Storage) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s%s", s.bucket, s.region, publicPrefix, key)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vadim/tweetlab/internal/config"
)

// S3Storage keeps export documents in an S3-compatible bucket (AWS or MinIO)
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3Storage builds a path-style client with static credentials
func NewS3Storage(cfg config.S3) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &S3Storage{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// UploadInput is one document to store
type UploadInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string // only the extension is kept
	Prefix      string // e.g. "exports/<user>"
}

// UploadOutput is where a document ended up
type UploadOutput struct {
	Key        string
	URL        string
	Size       int64
	UploadedAt time.Time
}

// Upload writes the document under a fresh dated key
func (s *S3Storage) Upload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	key := s.objectKey(in)

	put := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        in.Reader,
		ContentType: aws.String(in.ContentType),
	}
	if in.Size > 0 {
		put.ContentLength = aws.Int64(in.Size)
	}

	if _, err := s.client.PutObject(ctx, put); err != nil {
		return nil, fmt.Errorf("putting %s: %w", key, err)
	}

	return &UploadOutput{
		Key:        key,
		URL:        s.URL(key),
		Size:       in.Size,
		UploadedAt: s.now(),
	}, nil
}

// URL returns the public URL of a key
func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + key
}

// objectKey is <prefix>/<yyyy/mm/dd>/<uuid><ext>
func (s *S3Storage) objectKey(in UploadInput) string {
	ext := path.Ext(in.Filename)
	if ext == "" {
		ext = extensionFor(in.ContentType)
	}

	key := path.Join(s.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
	if prefix := strings.Trim(in.Prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func extensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(mediaType) {
	case "application/json":
		return ".json"
	case "text/csv":
		return ".csv"
	case "text/plain":
		return ".txt"
	}
	return ""
}

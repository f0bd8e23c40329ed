// Package storage uploads raw file payloads to S3-compatible object storage
// and returns retrieval URLs. A failure here never blocks tabular ingestion.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore accepts raw bytes plus an object key and returns a retrieval URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Config holds S3-compatible object storage settings.
type Config struct {
	Endpoint string
	Region   string
	Bucket   string
	KeyID    string
	Secret   string
	// PublicBaseURL overrides the retrieval URL prefix; when empty the URL is
	// built from Endpoint and Bucket.
	PublicBaseURL string
}

// Enabled reports whether enough settings are present to reach a bucket.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.KeyID != "" && c.Secret != ""
}

// S3Store implements BlobStore against any S3-compatible endpoint, using
// path-style addressing.
type S3Store struct {
	client *s3.Client
	cfg    Config
}

var _ BlobStore = (*S3Store)(nil)

// NewS3Store creates a blob store from config.
func NewS3Store(cfg Config) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("object storage config is incomplete")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.KeyID, cfg.Secret, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	cfg.Endpoint = endpoint
	return &S3Store{client: client, cfg: cfg}, nil
}

// Upload writes the payload under key and returns its retrieval URL.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + strings.TrimLeft(escaped, "/")
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, strings.TrimLeft(escaped, "/"))
}

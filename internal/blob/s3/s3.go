// Package s3 stores receipt blobs in an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/motoreast/rebate-portal/internal/blob"
)

// Ensure Store satisfies the blob.Store interface at compile time.
var _ blob.Store = (*Store)(nil)

// Store is an S3-backed receipt blob store.
type Store struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// Options configures the S3 store.
type Options struct {
	Bucket   string
	Region   string
	Endpoint string // dev/localstack override; enables path-style addressing
	BaseURL  string // public base URL override for stored objects
}

// New loads AWS configuration and returns a ready store.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // localstack/dev friendliness
		}
	})

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		if opts.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(opts.Endpoint, "/"), opts.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &Store{client: client, bucket: opts.Bucket, region: opts.Region, baseURL: baseURL}, nil
}

// Upload stores body under path in the receipt bucket.
func (s *Store) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", blob.ErrUpload, path, err)
	}
	return nil
}

// PublicURL returns the public URL for a stored object path.
func (s *Store) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimPrefix(path, "/")
}

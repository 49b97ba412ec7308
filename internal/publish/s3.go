// Package publish mirrors generated article pages to S3 compatible storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrBucketRequired is returned when a publisher is built without a bucket.
var ErrBucketRequired = errors.New("publish: bucket is required")

// S3Config contains the settings for the S3 publisher. Region and Profile
// are optional and fall back to the standard AWS config chain.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every object key.
	Prefix  string
	Region  string
	Profile string
	// UsePathStyle forces path-style addressing for S3 compatible providers.
	UsePathStyle bool
}

// ObjectPutter is the slice of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads each page to {Prefix}/{name}.html.
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger interfaces.Logger
}

// Option customises the publisher.
type Option func(*S3Publisher)

// WithLogger attaches a logger used for upload diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *S3Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewS3Publisher creates a publisher using the default AWS configuration
// chain with optional overrides from cfg.
func NewS3Publisher(ctx context.Context, cfg S3Config, opts ...Option) (*S3Publisher, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("publish: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewPublisher(client, cfg, opts...)
}

// NewPublisher wraps an existing client.
func NewPublisher(client ObjectPutter, cfg S3Config, opts ...Option) (*S3Publisher, error) {
	if client == nil {
		return nil, errors.New("publish: s3 client is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	p := &S3Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Key returns the object key used for an article.
func (p *S3Publisher) Key(name string) string {
	file := name + ".html"
	if p.prefix == "" {
		return file
	}
	return path.Join(p.prefix, file)
}

// Publish uploads body under the article key.
func (p *S3Publisher) Publish(ctx context.Context, name string, body []byte, contentType string) error {
	key := p.Key(name)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := p.client.PutObject(ctx, in); err != nil {
		logging.WithFields(p.logger.WithContext(ctx), map[string]any{
			"bucket": p.bucket,
			"key":    key,
			"error":  err,
		}).Error("publish.s3.put_failed")
		return fmt.Errorf("publish: put s3://%s/%s: %w", p.bucket, key, err)
	}
	p.logger.WithContext(ctx).Debug("publish.s3.put", "bucket", p.bucket, "key", key, "bytes", len(body))
	return nil
}

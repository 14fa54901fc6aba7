package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config configures the S3 backend.
type S3Config struct {
	Region         string `env:"S3_REGION"`                      // Region is the AWS region of the bucket.
	Bucket         string `env:"S3_BUCKET"`                      // Bucket holds all tenant objects.
	BasePrefix     string `env:"S3_BASE_PREFIX"`                 // BasePrefix is the key prefix shared objects live under.
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`               // AccessKeyID enables static credentials when set with SecretKey.
	SecretKey      string `env:"S3_SECRET_KEY"`                  // SecretKey is the static credential secret.
	Endpoint       string `env:"S3_ENDPOINT"`                    // Endpoint overrides the AWS endpoint for S3-compatible services.
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // ForcePathStyle is required by most S3-compatible services.
}

// S3Client is the subset of the S3 API this backend uses. Narrowed for
// mockability in tests.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 is an object-store Storage that isolates tenants by key prefix.
// There are no directories to create: scoping only changes the prefix
// subsequent keys are built under.
type S3 struct {
	client     S3Client
	bucket     string
	basePrefix string

	mu     sync.RWMutex
	prefix string // active key prefix, basePrefix when unscoped
}

// S3Option configures NewS3.
type S3Option func(*s3Options)

type s3Options struct {
	client S3Client
}

// WithS3Client sets a pre-configured client, bypassing AWS config
// loading. Useful for tests.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.client = client }
}

// NewS3 creates an S3 storage, loading AWS configuration (and static
// credentials when provided) the same way the rest of the AWS SDK does.
func NewS3(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}

	var options s3Options
	for _, opt := range opts {
		opt(&options)
	}

	client := options.client
	if client == nil {
		if cfg.Region == "" {
			return nil, ErrInvalidConfig
		}
		awsOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	base := normalizePrefix(cfg.BasePrefix)
	return &S3{
		client:     client,
		bucket:     cfg.Bucket,
		basePrefix: base,
		prefix:     base,
	}, nil
}

// Scope confines subsequent keys to the tenant's prefix.
func (s *S3) Scope(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = s.basePrefix + tenantDirPrefix + strconv.FormatInt(id, 10) + "/"
	return nil
}

// Unscope returns to the shared prefix.
func (s *S3) Unscope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = s.basePrefix
}

// ActivePrefix returns the prefix keys currently resolve under.
func (s *S3) ActivePrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefix
}

func (s *S3) Save(ctx context.Context, path string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("s3: put %q: %w", path, err)
	}
	return nil
}

func (s *S3) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3: get %q: %w", path, err)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("s3: delete %q: %w", path, err)
	}
	return nil
}

func (s *S3) List(ctx context.Context, dir string) ([]string, error) {
	prefix := s.key(dir)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: list %q: %w", dir, err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, strings.TrimPrefix(aws.ToString(obj.Key), prefix))
	}
	return keys, nil
}

func (s *S3) key(path string) string {
	return s.ActivePrefix() + strings.TrimPrefix(path, "/")
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

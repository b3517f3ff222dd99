package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/qrdrive-io/qrdrive/iox"
	"github.com/qrdrive-io/qrdrive/types"
)

// S3Config holds configuration for the S3 storage backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses the default chain if
	// empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// s3API is the narrow slice of the S3 client the store needs.
// Abstracted for test injection.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 stores frames as objects under bucket/prefix.
type S3 struct {
	client s3API
	cfg    S3Config
}

// NewS3 creates an S3 store. Credentials come from the AWS SDK default
// chain (env vars, shared config, IAM role).
func NewS3(ctx context.Context, s3cfg S3Config) (*S3, error) {
	if err := s3cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(s3cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, wrap(fmt.Errorf("load AWS config: %w", err), "init", s3cfg.Bucket)
	}

	var s3Opts []func(*s3.Options)
	if s3cfg.Endpoint != "" {
		endpoint := s3cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if s3cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3{client: s3.NewFromConfig(awsConfig, s3Opts...), cfg: s3cfg}, nil
}

// newS3WithClient wires a pre-built client, for tests.
func newS3WithClient(client s3API, cfg S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

func (s *S3) key(name string) string {
	if s.cfg.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(s.cfg.Prefix, "/") + "/" + name
}

func (s *S3) put(ctx context.Context, name, contentType string, data []byte) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	return wrap(err, "write", s.cfg.Bucket+"/"+key)
}

func (s *S3) get(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, wrap(err, "read", s.cfg.Bucket+"/"+key)
	}
	defer iox.DiscardClose(out.Body)

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, wrap(err, "read", s.cfg.Bucket+"/"+key)
	}
	return data, nil
}

// WriteFrame implements Store.
func (s *S3) WriteFrame(ctx context.Context, base string, index int, data []byte) error {
	return s.put(ctx, FrameName(base, index), "image/png", data)
}

// ReadFrame implements Store.
func (s *S3) ReadFrame(ctx context.Context, base string, index int) ([]byte, error) {
	return s.get(ctx, FrameName(base, index))
}

// WriteManifest implements Store.
func (s *S3) WriteManifest(ctx context.Context, base string, m *types.Manifest) error {
	data, err := EncodeManifest(m)
	if err != nil {
		return err
	}
	return s.put(ctx, ManifestName(base), "application/msgpack", data)
}

// ReadManifest implements Store.
func (s *S3) ReadManifest(ctx context.Context, base string) (*types.Manifest, error) {
	data, err := s.get(ctx, ManifestName(base))
	if err != nil {
		return nil, err
	}
	return DecodeManifest(data)
}

// Verify S3 implements Store.
var _ Store = (*S3)(nil)

package sink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dd0wney/drugnet/pkg/metrics"
)

// PutObjectAPI is the subset of the S3 client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3 sink.
type S3Config struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the service endpoint, e.g. for MinIO.
	Endpoint string
	// Static credentials; the default chain is used when AccessKeyID is empty.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Sink uploads artifacts to a bucket under Prefix/RunID/.
type S3Sink struct {
	Client  PutObjectAPI
	Bucket  string
	Prefix  string
	RunID   uuid.UUID
	Metrics *metrics.Registry
}

// NewS3Sink creates a sink from cfg with a fresh run ID.
func NewS3Sink(ctx context.Context, cfg S3Config, m *metrics.Registry) (*S3Sink, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Sink{
		Client:  client,
		Bucket:  cfg.Bucket,
		Prefix:  cfg.Prefix,
		RunID:   uuid.New(),
		Metrics: m,
	}, nil
}

// Key returns the object key of name.
func (s *S3Sink) Key(name string) string {
	parts := []string{strings.Trim(s.Prefix, "/")}
	if s.RunID != uuid.Nil {
		parts = append(parts, s.RunID.String())
	}
	return strings.TrimPrefix(path.Join(append(parts, name)...), "/")
}

// Put uploads data as Key(name).
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (err error) {
	defer func() { record(s.Metrics, "s3", len(data), err) }()
	if err := checkName(name); err != nil {
		return err
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(s.Key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s: %w", name, s.Bucket, err)
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".gml":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

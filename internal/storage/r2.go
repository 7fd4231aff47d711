package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("r2 storage is not configured")

// R2Client pulls transaction datasets from an S3-compatible bucket, so a
// deployment can refresh its snapshot from object storage instead of a
// local file.
type R2Client struct {
	client *s3.Client
	bucket string
}

type r2Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func NewR2ClientFromEnv() (*R2Client, error) {
	cfg := r2Config{
		Endpoint:  strings.TrimSpace(os.Getenv("R2_ENDPOINT")),
		AccessKey: strings.TrimSpace(os.Getenv("R2_ACCESS_KEY_ID")),
		SecretKey: strings.TrimSpace(os.Getenv("R2_SECRET_ACCESS_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("R2_BUCKET")),
		Region:    strings.TrimSpace(os.Getenv("R2_REGION")),
	}

	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg := aws.Config{
		Region:                      cfg.Region,
		Credentials:                 credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		EndpointResolverWithOptions: resolver,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &R2Client{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// FetchDataset streams an object from the bucket. The caller owns the
// returned reader.
func (r *R2Client) FetchDataset(ctx context.Context, key string) (io.ReadCloser, error) {
	if r == nil || r.client == nil {
		return nil, ErrNotConfigured
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("r2 fetch failed: %w", err)
	}
	return out.Body, nil
}

// FetchDatasetToFile downloads an object to a local path, for formats the
// loader can only read from disk.
func (r *R2Client) FetchDatasetToFile(ctx context.Context, key, path string) (int64, error) {
	body, err := r.FetchDataset(ctx, key)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return 0, fmt.Errorf("write dataset file: %w", err)
	}
	return n, nil
}

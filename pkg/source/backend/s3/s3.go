// Package s3 implements an S3-compatible document backend.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("s3", NewBackend)
}

// Backend fetches documents from S3-compatible object storage. References
// look like s3://bucket/path/to/config.yml.
type Backend struct {
	client *s3.Client
}

// NewBackend creates a new S3 backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	region := cfg["region"]
	if region == "" {
		region = "us-east-1"
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	if profile := cfg["profile"]; profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	// Support explicit credentials
	if accessKey := cfg["access_key"]; accessKey != "" {
		secretKey := cfg["secret_key"]
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoint for S3-compatible stores (MinIO, LocalStack)
		if endpoint := cfg["endpoint"]; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Backend{client: client}, nil
}

func (b *Backend) Type() string {
	return "s3"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	bucket := ref.Host
	key := strings.TrimPrefix(ref.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 reference %q (expected s3://bucket/key)", ref)
	}

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", bucket, key, err)
	}

	return resp.Body, nil
}

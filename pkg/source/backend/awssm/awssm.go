// Package awssm implements an AWS Secrets Manager document backend.
// Configuration stored as a secret (commonly a JSON object) can then be
// layered like any other document.
package awssm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("awssm", NewBackend)
}

// Backend fetches documents from AWS Secrets Manager. References look like
// awssm://my-app/production/config.json; the full host+path is the secret
// id. An optional version stage is passed as ?stage=AWSPREVIOUS.
type Backend struct {
	client *secretsmanager.Client
}

// NewBackend creates a new Secrets Manager backend.
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

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if endpoint := cfg["endpoint"]; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Backend{client: client}, nil
}

func (b *Backend) Type() string {
	return "awssm"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	secretID := ref.Host + ref.Path
	secretID = strings.Trim(secretID, "/")
	if secretID == "" {
		return nil, fmt.Errorf("invalid secrets manager reference %q (expected awssm://secret-id)", ref)
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}
	if stage := ref.Query().Get("stage"); stage != "" {
		input.VersionStage = aws.String(stage)
	}

	resp, err := b.client.GetSecretValue(ctx, input)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch secret %s: %w", secretID, err)
	}

	if resp.SecretString != nil {
		return io.NopCloser(strings.NewReader(*resp.SecretString)), nil
	}
	return io.NopCloser(bytes.NewReader(resp.SecretBinary)), nil
}

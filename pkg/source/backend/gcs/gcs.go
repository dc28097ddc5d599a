// Package gcs implements a Google Cloud Storage document backend.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("gs", NewBackend)
}

// Backend fetches documents from Google Cloud Storage. References look like
// gs://bucket/path/to/config.yml.
type Backend struct {
	client *storage.Client
}

// NewBackend creates a new GCS backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	ctx := context.Background()
	var opts []option.ClientOption

	// Support explicit credentials file
	if credentialsFile := cfg["credentials"]; credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Support credentials JSON
	if credentialsJSON := cfg["credentials_json"]; credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	// Support custom endpoint (for emulator)
	if endpoint := cfg["endpoint"]; endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &Backend{client: client}, nil
}

func (b *Backend) Type() string {
	return "gs"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	bucket := ref.Host
	object := strings.TrimPrefix(ref.Path, "/")
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("invalid gcs reference %q (expected gs://bucket/object)", ref)
	}

	reader, err := b.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch gs://%s/%s: %w", bucket, object, err)
	}

	return reader, nil
}

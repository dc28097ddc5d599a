// Package local implements a local filesystem document backend.
package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("file", NewBackend)
}

// Backend reads documents from the local filesystem.
type Backend struct{}

// NewBackend creates a new local backend.
func NewBackend(config map[string]string) (backend.Backend, error) {
	return &Backend{}, nil
}

func (b *Backend) Type() string {
	return "file"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	path := ref.Path
	if ref.Opaque != "" {
		path = ref.Opaque
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return file, nil
}

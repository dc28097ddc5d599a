// Package httpsrc implements an HTTP(S) document backend.
package httpsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("http", NewBackend)
	backend.Register("https", NewBackend)
}

const defaultTimeout = 30 * time.Second

// Backend fetches documents over HTTP(S).
type Backend struct {
	client *http.Client
}

// NewBackend creates a new HTTP backend. The "timeout" config key accepts a
// Go duration string.
func NewBackend(config map[string]string) (backend.Backend, error) {
	timeout := defaultTimeout
	if raw := config["timeout"]; raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
		timeout = parsed
	}

	return &Backend{
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (b *Backend) Type() string {
	return "http"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", ref, err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, backend.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s fetching %s", resp.Status, ref)
	}

	return resp.Body, nil
}

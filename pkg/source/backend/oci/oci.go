// Package oci implements a document backend that reads files out of OCI
// registry artifacts.
package oci

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("oci", NewBackend)
}

// Backend pulls an artifact image and extracts one file from its layers.
// References look like oci://registry.example.com/org/config:v1//prod.yml;
// the "//" separates the image reference from the file path inside the
// artifact.
type Backend struct {
	auth authn.Keychain
}

// NewBackend creates a new OCI backend using the default credential
// keychain.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	return &Backend{auth: authn.DefaultKeychain}, nil
}

func (b *Backend) Type() string {
	return "oci"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	imageRef, filePath, found := strings.Cut(ref.Host+ref.Path, "//")
	if !found || imageRef == "" || filePath == "" {
		return nil, fmt.Errorf("invalid oci reference %q (expected oci://registry/repo:tag//path)", ref)
	}

	parsed, err := name.ParseReference(imageRef)
	if err != nil {
		return nil, fmt.Errorf("invalid oci reference %q: %w", imageRef, err)
	}

	img, err := remote.Image(parsed, remote.WithAuthFromKeychain(b.auth), remote.WithContext(ctx))
	if err != nil {
		if terr, ok := err.(*transport.Error); ok && terr.StatusCode == 404 {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to pull %s: %w", imageRef, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, fmt.Errorf("failed to get layers of %s: %w", imageRef, err)
	}

	// Later layers take precedence, so search them in reverse.
	for i := len(layers) - 1; i >= 0; i-- {
		rc, err := layers[i].Uncompressed()
		if err != nil {
			return nil, fmt.Errorf("failed to uncompress layer: %w", err)
		}
		data, found, err := findInTar(rc, filePath)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to scan layer of %s: %w", imageRef, err)
		}
		if found {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}

	return nil, backend.ErrNotFound
}

func findInTar(r io.Reader, filePath string) ([]byte, bool, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if strings.TrimPrefix(hdr.Name, "./") == filePath {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, false, err
			}
			return data, true, nil
		}
	}
}

// Package git implements a document backend that reads files out of git
// repositories.
package git

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"

	"github.com/confctl/confctl/pkg/source/backend"
)

func init() {
	backend.Register("git", NewBackend)
}

// Backend shallow-clones a repository and reads one file from the checkout.
// References look like git://host/org/repo//path/to/config.yml?ref=main;
// the "//" separates the repository from the file path inside it, and the
// optional ref query selects a branch or tag.
type Backend struct {
	cacheDir string
}

// NewBackend creates a new git backend. The "cache_dir" config key overrides
// where checkouts are placed.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	cacheDir := cfg["cache_dir"]
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		cacheDir = filepath.Join(userCache, "confctl", "git")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Backend{cacheDir: cacheDir}, nil
}

func (b *Backend) Type() string {
	return "git"
}

func (b *Backend) Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error) {
	repoPath, filePath, found := strings.Cut(strings.TrimPrefix(ref.Path, "/"), "//")
	if ref.Host == "" || !found || filePath == "" {
		return nil, fmt.Errorf("invalid git reference %q (expected git://host/repo//path/to/file)", ref)
	}

	cloneURL := fmt.Sprintf("https://%s/%s", ref.Host, repoPath)
	gitRef := ref.Query().Get("ref")

	// Fresh checkout per fetch; the directory is removed once the file has
	// been read.
	dest := filepath.Join(b.cacheDir, uuid.New().String())

	if err := b.clone(ctx, cloneURL, gitRef, dest); err != nil {
		os.RemoveAll(dest)
		return nil, err
	}

	file, err := os.Open(filepath.Join(dest, filepath.FromSlash(filePath)))
	if err != nil {
		os.RemoveAll(dest)
		if os.IsNotExist(err) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s from %s: %w", filePath, cloneURL, err)
	}

	return &checkoutFile{File: file, dir: dest}, nil
}

func (b *Backend) clone(ctx context.Context, cloneURL, gitRef, dest string) error {
	cloneOpts := &gogit.CloneOptions{
		URL:          cloneURL,
		Depth:        1,
		SingleBranch: true,
	}

	if gitRef == "" {
		if _, err := gogit.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
			return fmt.Errorf("git clone failed: %w", err)
		}
		return nil
	}

	// Try the ref as a branch first, then as a tag
	cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(gitRef)
	if _, err := gogit.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
		os.RemoveAll(dest)
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(gitRef)
		if _, err := gogit.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
			return fmt.Errorf("git clone failed: %w", err)
		}
	}
	return nil
}

// checkoutFile removes the temporary checkout when the document is closed.
type checkoutFile struct {
	*os.File
	dir string
}

func (f *checkoutFile) Close() error {
	err := f.File.Close()
	if rmErr := os.RemoveAll(f.dir); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

// Package source resolves document references to parsed documents. A
// reference can be a local file path, an inline JSON object, or a URL whose
// scheme selects a registered backend (http, https, s3, gs, azblob, awssm,
// git, oci).
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"
	"github.com/confctl/confctl/pkg/source/backend"
)

// Document is one resolved configuration document.
type Document struct {
	// Ref is the reference the document was resolved from.
	Ref string

	// Format is the detected or overridden serialization format.
	Format document.Format

	// Value is the parsed document.
	Value document.Value
}

// ReferenceType classifies a document reference.
type ReferenceType string

const (
	// ReferenceTypeInline is a JSON object given directly as the argument.
	ReferenceTypeInline ReferenceType = "inline"

	// ReferenceTypeLocal is a local filesystem path.
	ReferenceTypeLocal ReferenceType = "local"

	// ReferenceTypeRemote is a URL handled by a registered backend.
	ReferenceTypeRemote ReferenceType = "remote"
)

// DetectReferenceType classifies a reference string. Anything that is not
// inline JSON and has no registered URL scheme is treated as a local path.
func DetectReferenceType(ref string) ReferenceType {
	trimmed := strings.TrimSpace(ref)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return ReferenceTypeInline
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && backend.Supported(u.Scheme) {
		return ReferenceTypeRemote
	}
	return ReferenceTypeLocal
}

// Options configures a Resolver.
type Options struct {
	// Format forces every document's format instead of detecting it from
	// the reference's extension.
	Format document.Format

	// BackendConfig is passed to every backend factory (credentials,
	// endpoints, cache locations).
	BackendConfig map[string]string
}

// Resolver resolves document references.
type Resolver struct {
	format        document.Format
	backendConfig map[string]string
	backends      map[string]backend.Backend
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		format:        opts.Format,
		backendConfig: opts.BackendConfig,
		backends:      make(map[string]backend.Backend),
	}
}

// Resolve fetches and parses one document reference.
func (r *Resolver) Resolve(ctx context.Context, ref string) (Document, error) {
	switch DetectReferenceType(ref) {
	case ReferenceTypeInline:
		return r.resolveInline(ref)
	case ReferenceTypeRemote:
		return r.resolveRemote(ctx, ref)
	default:
		return r.resolveLocal(ref)
	}
}

// ResolveAll resolves references in order, failing on the first error.
func (r *Resolver) ResolveAll(ctx context.Context, refs []string) ([]Document, error) {
	docs := make([]Document, 0, len(refs))
	for _, ref := range refs {
		doc, err := r.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *Resolver) resolveInline(ref string) (Document, error) {
	v, err := document.DecodeJSON([]byte(ref))
	if err != nil {
		return Document{}, errors.ParseError("inline document", err)
	}
	return Document{Ref: ref, Format: document.FormatJSON, Value: v}, nil
}

func (r *Resolver) resolveLocal(ref string) (Document, error) {
	format, err := r.formatFor(ref, "")
	if err != nil {
		return Document{}, err
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.NotFoundError("document", ref)
		}
		return Document{}, errors.Wrap(errors.ErrCodeBackend,
			fmt.Sprintf("failed to read %s", ref), err)
	}

	v, err := document.Decode(data, format, ref)
	if err != nil {
		return Document{}, err
	}
	return Document{Ref: ref, Format: format, Value: v}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, ref string) (Document, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return Document{}, errors.ParseError(ref, err)
	}

	b, err := r.backendFor(u.Scheme)
	if err != nil {
		return Document{}, errors.BackendError(u.Scheme, "init", err)
	}

	reader, err := b.Fetch(ctx, u)
	if err != nil {
		if err == backend.ErrNotFound {
			return Document{}, errors.NotFoundError("document", ref)
		}
		return Document{}, errors.BackendError(b.Type(), "fetch", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return Document{}, errors.BackendError(b.Type(), "read", err)
	}

	// Remote references without a usable extension default to JSON, the
	// common case for config served from APIs and secret stores.
	format, err := r.formatFor(ref, document.FormatJSON)
	if err != nil {
		return Document{}, err
	}

	v, err := document.Decode(data, format, ref)
	if err != nil {
		return Document{}, err
	}
	return Document{Ref: ref, Format: format, Value: v}, nil
}

func (r *Resolver) formatFor(ref string, fallback document.Format) (document.Format, error) {
	if r.format != "" {
		return r.format, nil
	}
	format, err := document.DetectFormat(ref)
	if err != nil {
		if fallback != "" {
			return fallback, nil
		}
		return "", err
	}
	return format, nil
}

func (r *Resolver) backendFor(scheme string) (backend.Backend, error) {
	if b, ok := r.backends[scheme]; ok {
		return b, nil
	}
	b, err := backend.New(scheme, r.backendConfig)
	if err != nil {
		return nil, err
	}
	r.backends[scheme] = b
	return b, nil
}

// Package backend defines the document source backend interface and the
// registry that maps URL schemes to backend implementations. Backends
// register themselves via init(); the CLI imports each backend package for
// its side effects.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// Backend fetches raw document bytes from one kind of source.
type Backend interface {
	// Type returns the backend's scheme name.
	Type() string

	// Fetch opens the document identified by ref for reading. The caller
	// closes the returned reader.
	Fetch(ctx context.Context, ref *url.URL) (io.ReadCloser, error)
}

// Factory creates a backend from string configuration (credentials,
// endpoints, cache locations).
type Factory func(config map[string]string) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend factory available under the given scheme.
// Called from backend package init() functions.
func Register(scheme string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[scheme] = factory
}

// New creates a backend for the given scheme.
func New(scheme string, config map[string]string) (Backend, error) {
	registryMu.RLock()
	factory, ok := registry[scheme]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no backend registered for scheme %q", scheme)
	}
	return factory(config)
}

// Supported reports whether a backend is registered for the scheme.
func Supported(scheme string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[scheme]
	return ok
}

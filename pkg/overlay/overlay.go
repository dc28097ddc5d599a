// Package overlay folds a directory tree of configuration layers. A tree
// like
//
//	conf/
//	  _default.yml
//	  production.yml
//	  eu-west/
//	    _default.yml
//	    production.yml
//
// resolves by merging, in order: the root's defaults file, the root's named
// files, then the same pair inside each requested subfolder. Later layers
// override earlier ones. Missing files are empty layers, so sparse trees
// are fine.
package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"
	"github.com/confctl/confctl/pkg/merge"
)

// DefaultName is the basename of the defaults layer in every folder.
const DefaultName = "_default"

// layerExtensions are tried in order when locating a layer file.
var layerExtensions = []string{".yml", ".yaml", ".json", ".env", ".hcl", ".tf"}

// Overlay folds layers out of one directory tree.
type Overlay struct {
	root   string
	policy merge.Policy

	mu    sync.Mutex
	cache map[string]layerResult
}

type layerResult struct {
	value document.Value
	found bool
	err   error
}

// New creates an overlay rooted at dir.
func New(dir string, policy merge.Policy) *Overlay {
	return &Overlay{
		root:   dir,
		policy: policy,
		cache:  make(map[string]layerResult),
	}
}

// Get folds the layers selected by names and subfolders. For each folder in
// (root, subfolders...) it applies the defaults layer and then each named
// layer, in the given order.
func (o *Overlay) Get(names, subfolders []string) (document.Value, error) {
	if err := o.policy.Validate(); err != nil {
		return document.Value{}, err
	}

	folders := append([]string{""}, subfolders...)
	layerNames := append([]string{DefaultName}, names...)

	result := document.Map(document.NewMapping())
	for _, folder := range folders {
		for _, name := range layerNames {
			layer, found, err := o.layer(folder, name)
			if err != nil {
				return document.Value{}, err
			}
			if !found {
				continue
			}
			result, err = merge.Merge(result, layer, o.policy, document.RootPath())
			if err != nil {
				return document.Value{}, err
			}
		}
	}
	return result, nil
}

// layer loads one folder/name layer, memoizing the result so repeated Get
// calls over the same tree parse each file once.
func (o *Overlay) layer(folder, name string) (document.Value, bool, error) {
	key := folder + "\x00" + name

	o.mu.Lock()
	cached, ok := o.cache[key]
	o.mu.Unlock()
	if ok {
		return cached.value, cached.found, cached.err
	}

	value, found, err := o.loadLayer(folder, name)

	o.mu.Lock()
	o.cache[key] = layerResult{value: value, found: found, err: err}
	o.mu.Unlock()

	return value, found, err
}

func (o *Overlay) loadLayer(folder, name string) (document.Value, bool, error) {
	for _, ext := range layerExtensions {
		path := filepath.Join(o.root, folder, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return document.Value{}, false, errors.Wrap(errors.ErrCodeBackend,
				fmt.Sprintf("failed to read %s", path), err)
		}

		format, err := document.DetectFormat(path)
		if err != nil {
			return document.Value{}, false, err
		}
		v, err := document.Decode(data, format, path)
		if err != nil {
			return document.Value{}, false, err
		}
		return v, true, nil
	}
	return document.Value{}, false, nil
}

// Root returns the overlay's root directory.
func (o *Overlay) Root() string {
	return o.root
}

// Exists reports whether the overlay root is a directory.
func (o *Overlay) Exists() (bool, error) {
	info, err := os.Stat(o.root)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

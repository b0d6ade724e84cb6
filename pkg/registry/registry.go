// SPDX-License-Identifier: MPL-2.0

// Package registry resolves package names to initialized build packages
// across the layered search path: app-local packages, extra local package
// directories, then the versioned store addressed through a release
// manifest.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/webermax/meteor/pkg/build"
	"github.com/webermax/meteor/pkg/manifest"
	"github.com/webermax/meteor/pkg/release"
)

// StoreOptions locates the versioned package store.
type StoreOptions struct {
	// Dir is the store root; empty disables the store layer.
	Dir string
	// Release pins each store package to one version. Required when Dir is
	// set.
	Release *release.Release
}

// Options configures the search layers.
type Options struct {
	// AppDir enables the app-local layer <AppDir>/packages/<name>; empty
	// disables it.
	AppDir string
	// PackageDirs are extra local directories searched as <dir>/<name>, in
	// order.
	PackageDirs []string
	// Store is the lowest-priority layer.
	Store StoreOptions
	// Log is optional; nil falls back to the default logger.
	Log *log.Logger
}

// Handle names a package: either its name as a string or an already
// initialized *build.Package, which passes through untouched.
type Handle any

// Registry caches one initialized Package per resolvable name. Sequential
// Gets observe the identical instance until Flush discards everything.
type Registry struct {
	opts Options

	mu     sync.RWMutex
	loaded map[string]*build.Package

	group singleflight.Group
}

// New returns an empty registry over the given search layers.
func New(opts Options) *Registry {
	return &Registry{
		opts:   opts,
		loaded: make(map[string]*build.Package),
	}
}

// Get resolves a name to its initialized package. A miss is not an error:
// it returns (nil, false, nil), and the caller decides whether the absence
// is fatal. Concurrent first loads of the same name collapse to a single
// winner; the cache is only populated on success.
func (r *Registry) Get(name string) (*build.Package, bool, error) {
	if p, ok := r.cached(name); ok {
		return p, true, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		// A racing call may have won and populated the cache before this
		// flight started.
		if p, ok := r.cached(name); ok {
			return p, nil
		}

		dir, ok, err := r.locate(name)
		if err != nil || !ok {
			return nil, err
		}

		p, err := loadPackage(name, dir)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.loaded[name] = p
		r.mu.Unlock()

		r.logger().Debug("package loaded", "name", name, "dir", dir, "id", p.ID())
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	if v == nil {
		return nil, false, nil
	}
	return v.(*build.Package), true, nil
}

// Resolve accepts a name or an already-loaded package. Packages pass
// through untouched so callers can hold mixed lists of handles.
func (r *Registry) Resolve(h Handle) (*build.Package, bool, error) {
	switch v := h.(type) {
	case *build.Package:
		return v, true, nil
	case string:
		return r.Get(v)
	default:
		return nil, false, fmt.Errorf("invalid package handle of type %T", h)
	}
}

// Load implements build.Loader: a miss becomes a NotFoundError because the
// compiler cannot proceed without its dependency.
func (r *Registry) Load(name string) (*build.Package, error) {
	p, ok, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &build.NotFoundError{
			Kind: "package",
			Name: name,
			Hint: "not present in the app, any package directory, or the store",
		}
	}
	return p, nil
}

// Loaded returns the names currently cached, sorted.
func (r *Registry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loaded))
	for name := range r.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush discards every cached package. The next Get reloads from disk and
// yields a fresh instance with a new id; used by dev-mode reload.
func (r *Registry) Flush() {
	r.mu.Lock()
	r.loaded = make(map[string]*build.Package)
	r.mu.Unlock()
}

// Locate reports the directory a name would load from, without loading.
func (r *Registry) Locate(name string) (string, bool, error) {
	return r.locate(name)
}

// locate walks the search layers in priority order; the first directory
// containing a manifest wins.
func (r *Registry) locate(name string) (string, bool, error) {
	if r.opts.AppDir != "" {
		dir := filepath.Join(r.opts.AppDir, "packages", name)
		if hasManifest(dir) {
			return dir, true, nil
		}
	}

	for _, base := range r.opts.PackageDirs {
		dir := filepath.Join(base, name)
		if hasManifest(dir) {
			return dir, true, nil
		}
	}

	if r.opts.Store.Dir != "" && r.opts.Store.Release != nil {
		if dir, ok := r.opts.Store.Release.PackagePath(r.opts.Store.Dir, name); ok {
			if !hasManifest(dir) {
				// The release pins the package but the store copy is
				// incomplete; that is corruption, not a simple miss.
				version, _ := r.opts.Store.Release.PinnedVersion(name)
				return "", false, &build.NotFoundError{
					Kind: "manifest",
					Name: name,
					Path: dir,
					Hint: fmt.Sprintf("the release pins version %s but the store directory has no manifest", version),
				}
			}
			return dir, true, nil
		}
	}

	return "", false, nil
}

func (r *Registry) cached(name string) (*build.Package, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.loaded[name]
	return p, ok
}

func (r *Registry) logger() *log.Logger {
	if r.opts.Log != nil {
		return r.opts.Log
	}
	return log.Default()
}

func loadPackage(name, dir string) (*build.Package, error) {
	m, err := manifest.Parse(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading package %q: %w", name, err)
	}
	return build.NewFromManifest(name, dir, m)
}

func hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, manifest.FileName))
	return err == nil && info.Mode().IsRegular()
}

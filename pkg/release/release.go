// SPDX-License-Identifier: MPL-2.0

// Package release parses release manifests and resolves package names to
// their directories inside a versioned package store.
package release

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webermax/meteor/pkg/cueutil"
)

//go:embed release_schema.cue
var releaseSchema string

// Release is a parsed release manifest: a named, versioned catalog pinning
// each shipped package to exactly one version.
type Release struct {
	// Name identifies the release train.
	Name string `json:"name"`
	// Version is the release's own version label.
	Version string `json:"version"`
	// Packages maps package names to their pinned versions.
	Packages map[string]string `json:"packages"`

	// FilePath is where this manifest was loaded from (not in CUE).
	FilePath string `json:"-"`
}

// Parse reads and parses a release manifest from the given path.
func Parse(path string) (*Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read release manifest at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses release manifest content from bytes. The path is used
// for error messages and recorded as FilePath.
func ParseBytes(data []byte, path string) (*Release, error) {
	result, err := cueutil.ParseAndDecodeString[Release](
		releaseSchema,
		data,
		"#Release",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	r := result.Value
	r.FilePath = path
	return r, nil
}

// PinnedVersion returns the version the release pins for a package name.
func (r *Release) PinnedVersion(name string) (string, bool) {
	version, ok := r.Packages[name]
	return version, ok
}

// PackagePath resolves a package name to its directory inside the store,
// <store>/packages/<name>/<version>. False when the release does not pin
// the package.
func (r *Release) PackagePath(storeDir, name string) (string, bool) {
	version, ok := r.PinnedVersion(name)
	if !ok {
		return "", false
	}
	return filepath.Join(storeDir, "packages", name, version), true
}

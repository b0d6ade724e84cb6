// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"maps"
	"path"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/webermax/meteor/pkg/linker"
	"github.com/webermax/meteor/pkg/manifest"
)

// BasePackage is the name of the distinguished base package every other
// package implicitly depends on.
const BasePackage = "meteor"

// packageIDs issues process-unique package ids. Ids are never reused, so a
// reloaded package is distinguishable from its predecessor by id alone.
var packageIDs atomic.Int64

// Metadata is the free-form description of a package.
type Metadata struct {
	// Summary is a one-line human description.
	Summary string
	// Internal marks the package as not intended for direct use by apps.
	Internal bool
	// Environments restricts where the package may run; empty means no
	// restriction.
	Environments []string
}

// Package is the central build entity: one instance per package name, or
// one anonymous instance representing an application. A Package is
// populated by exactly one of NewFromManifest or NewFromAppDir and is
// immutable once Compile has finished.
type Package struct {
	id   int64
	name string // empty for the application pseudo-package

	sourceRoot string
	serveRoot  string // empty means serve source paths verbatim

	meta Metadata

	// manifestRel is the dependency-list entry for the file that defined
	// this package ("package.cue", or the app package list).
	manifestRel string

	uses            Matrix[[]string]
	unordered       map[string]bool
	declaredFiles   Matrix[[]string]
	declaredExports Matrix[[]string]
	extensions      map[string]string

	npmPins    map[string]string
	npmPinsSet bool

	// deps is the set of relative file paths the build output depends on,
	// kept for change-watching. It only grows.
	deps map[string]struct{}

	compiled  bool
	exports   Matrix[[]string]
	prelink   Matrix[[]linker.File]
	boundary  Matrix[string]
	resources Matrix[[]Resource]
}

// NewFromManifest initializes a named package from its parsed manifest.
// sourceRoot is the package directory the manifest was read from.
func NewFromManifest(name, sourceRoot string, m *manifest.Manifest) (*Package, error) {
	if name == "" {
		return nil, fmt.Errorf("package name must not be empty")
	}
	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source root: %w", err)
	}

	p := &Package{
		id:          packageIDs.Add(1),
		name:        name,
		sourceRoot:  absRoot,
		serveRoot:   "/packages/" + name,
		manifestRel: manifest.FileName,
		extensions:  maps.Clone(m.Extensions),
		deps:        make(map[string]struct{}),
		meta: Metadata{
			Summary:      m.Summary,
			Internal:     m.Internal,
			Environments: append([]string(nil), m.Environments...),
		},
	}
	if p.extensions == nil {
		p.extensions = make(map[string]string)
	}

	p.uses, p.unordered = buildUses(m, name)

	if err := p.applyRoleBlocks(m); err != nil {
		return nil, err
	}

	if len(m.Npm) > 0 {
		if err := p.SetNpmPins(m.Npm); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// NewFromAppDir initializes the anonymous application pseudo-package. uses
// is the app's declared package list (applied to every slice); listFile is
// the dependency-list entry for the file the list came from, empty when the
// app declared none.
func NewFromAppDir(dir string, uses []string, listFile string) (*Package, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve app directory: %w", err)
	}

	p := &Package{
		id:          packageIDs.Add(1),
		sourceRoot:  absRoot,
		serveRoot:   "/",
		manifestRel: listFile,
		extensions:  make(map[string]string),
		unordered:   make(map[string]bool),
		deps:        make(map[string]struct{}),
	}

	p.uses.ForEach(func(r Role, e Environment, cell *[]string) {
		*cell = withBaseFirst(uniqueLastWins(uses), "", r)
	})

	return p, nil
}

// applyRoleBlocks distributes the manifest's files and exports declarations
// across the matrices. Declaration order is preserved within each cell.
func (p *Package) applyRoleBlocks(m *manifest.Manifest) error {
	for _, role := range Roles() {
		block := m.Role(role == RoleTest)
		if block == nil {
			continue
		}
		for _, fs := range block.Files {
			for _, envName := range fs.Environments() {
				env, err := ParseEnvironment(envName)
				if err != nil {
					return err
				}
				cell := p.declaredFiles.Ptr(role, env)
				*cell = append(*cell, fs.Paths...)
			}
		}
		for _, ex := range block.Exports {
			for _, envName := range ex.Environments() {
				env, err := ParseEnvironment(envName)
				if err != nil {
					return err
				}
				cell := p.declaredExports.Ptr(role, env)
				*cell = append(*cell, ex.Symbols...)
			}
		}
	}
	return nil
}

// ID returns the process-unique package id.
func (p *Package) ID() int64 { return p.id }

// Name returns the package name, empty for an application.
func (p *Package) Name() string { return p.name }

// IsApp reports whether this is the anonymous application pseudo-package.
func (p *Package) IsApp() bool { return p.name == "" }

// SourceRoot returns the absolute directory sources are read from.
func (p *Package) SourceRoot() string { return p.sourceRoot }

// Metadata returns the package description.
func (p *Package) Metadata() Metadata { return p.meta }

// Uses returns the ordered dependency names of one slice.
func (p *Package) Uses(r Role, e Environment) []string {
	return append([]string(nil), p.uses.Get(r, e)...)
}

// IsUnordered reports whether the named dependency may load in any order
// relative to this package.
func (p *Package) IsUnordered(name string) bool { return p.unordered[name] }

// DeclaredFiles returns the manifest-declared source files of one slice.
func (p *Package) DeclaredFiles(r Role, e Environment) []string {
	return append([]string(nil), p.declaredFiles.Get(r, e)...)
}

// DeclaredExports returns the manifest-declared export symbols of one slice.
func (p *Package) DeclaredExports(r Role, e Environment) []string {
	return append([]string(nil), p.declaredExports.Get(r, e)...)
}

// HandlerNameFor returns the handler this package itself registers for an
// extension.
func (p *Package) HandlerNameFor(ext string) (string, bool) {
	name, ok := p.extensions[ext]
	return name, ok
}

// Extensions returns a copy of the package's own extension registrations.
func (p *Package) Extensions() map[string]string {
	return maps.Clone(p.extensions)
}

// NpmPins returns a copy of the exact-version pin map.
func (p *Package) NpmPins() map[string]string {
	return maps.Clone(p.npmPins)
}

// SetNpmPins records the exact-version pin map. It may be called at most
// once per package.
func (p *Package) SetNpmPins(pins map[string]string) error {
	if p.npmPinsSet {
		return &manifest.ConfigurationError{
			Path:    p.manifestRel,
			Field:   "npm",
			Message: "npm dependencies may only be declared once",
		}
	}
	p.npmPins = maps.Clone(pins)
	p.npmPinsSet = true
	return nil
}

// Dependencies returns the sorted set of relative file paths the compiled
// output depends on. Populated by Compile.
func (p *Package) Dependencies() []string {
	out := make([]string, 0, len(p.deps))
	for d := range p.deps {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Compiled reports whether Compile has completed for this package.
func (p *Package) Compiled() bool { return p.compiled }

// Exports returns the exported symbol list of one slice.
func (p *Package) Exports(r Role, e Environment) []string {
	return append([]string(nil), p.exports.Get(r, e)...)
}

// Prelink returns the prelinked JavaScript files of one slice.
func (p *Package) Prelink(r Role, e Environment) []linker.File {
	return append([]linker.File(nil), p.prelink.Get(r, e)...)
}

// Boundary returns the linker splice marker of one slice.
func (p *Package) Boundary(r Role, e Environment) string {
	return p.boundary.Get(r, e)
}

// Resources returns the non-JavaScript resource records of one slice.
func (p *Package) Resources(r Role, e Environment) []Resource {
	return append([]Resource(nil), p.resources.Get(r, e)...)
}

// servePathFor maps a relative source path to the path it is served under.
// An empty serve root means source paths are used verbatim.
func (p *Package) servePathFor(rel string) string {
	if p.serveRoot == "" {
		return rel
	}
	return path.Join(p.serveRoot, rel)
}

// combinedServePath is the single-file serve path handed to the linker,
// qualified per role so a package's test bundle never collides with its
// use bundle. Absent for the application package.
func (p *Package) combinedServePath(r Role) string {
	if p.IsApp() {
		return ""
	}
	if r == RoleTest {
		return "/packages/" + p.name + ":tests.js"
	}
	return "/packages/" + p.name + ".js"
}

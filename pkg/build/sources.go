// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// Loader resolves a package name to an initialized Package. The registry
// implements it; tests may substitute a fixture map.
type Loader interface {
	// Load returns the package, or a NotFoundError when the name cannot be
	// resolved in any search layer.
	Load(name string) (*Package, error)
}

// extensionCandidate is one handler registration visible to a slice, either
// the package's own or one contributed by a direct dependency.
type extensionCandidate struct {
	// owner is the name of the registering package; own is true when the
	// registration belongs to the package being compiled.
	owner   string
	handler string
	own     bool
}

// sliceExtensions collects the recognized extensions of one slice: the
// package's own registrations plus those of every direct dependency in the
// slice's use list. The dependencies must already be resolvable, which is
// why a package's own extension set is fully known at init time.
func sliceExtensions(p *Package, r Role, e Environment, loader Loader) (map[string][]extensionCandidate, error) {
	exts := make(map[string][]extensionCandidate)

	for ext, handler := range p.extensions {
		exts[ext] = append(exts[ext], extensionCandidate{owner: p.name, handler: handler, own: true})
	}

	for _, depName := range p.uses.Get(r, e) {
		dep, err := loader.Load(depName)
		if err != nil {
			return nil, fmt.Errorf("resolving dependency %q of %s: %w", depName, describePackage(p), err)
		}
		for ext, handler := range dep.extensions {
			exts[ext] = append(exts[ext], extensionCandidate{owner: depName, handler: handler})
		}
	}

	return exts, nil
}

// matchExtension finds the registered extension a file name falls under,
// preferring the longest match so multi-part extensions win over their
// suffixes. Returns false when no registered extension applies.
func matchExtension(base string, exts map[string][]extensionCandidate) (string, bool) {
	best := ""
	for ext := range exts {
		if strings.HasSuffix(base, "."+ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best, best != ""
}

// ResolveSources walks the package's source tree and returns the ordered
// list of compilable files for one slice, relative to the source root.
//
// Files are collected depth-first in lexical order, filtered to the slice's
// recognized extensions and against the ignore patterns (matched on path
// base names; matching directories are pruned). The result is then
// reordered so template markup (.html) precedes everything else, each group
// keeping its internal order, so markup-defined template objects exist
// before the code that attaches behavior to them.
func (c *Compiler) ResolveSources(p *Package, r Role, e Environment, ignore []*regexp.Regexp) ([]string, error) {
	exts, err := sliceExtensions(p, r, e, c.Loader)
	if err != nil {
		return nil, err
	}
	return scanSources(p, exts, ignore)
}

func scanSources(p *Package, exts map[string][]extensionCandidate, ignore []*regexp.Regexp) ([]string, error) {
	var templates, others []string

	root := p.sourceRoot
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()

		if d.IsDir() {
			if path != root && matchesAny(base, ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(base, ignore) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
			return &IntegrityError{Path: path, Root: root}
		}
		rel = filepath.ToSlash(rel)

		if _, ok := matchExtension(base, exts); !ok {
			return nil
		}

		if strings.HasSuffix(base, ".html") {
			templates = append(templates, rel)
		} else {
			others = append(others, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return append(templates, others...), nil
}

func matchesAny(base string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(base) {
			return true
		}
	}
	return false
}

// orderSources applies the templates-first rule to an explicit file list,
// preserving the relative order within each group.
func orderSources(files []string) []string {
	var templates, others []string
	for _, f := range files {
		if strings.HasSuffix(f, ".html") {
			templates = append(templates, f)
		} else {
			others = append(others, f)
		}
	}
	return append(templates, others...)
}

func describePackage(p *Package) string {
	if p.IsApp() {
		return "app"
	}
	return "package " + p.name
}

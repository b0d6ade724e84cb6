// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/webermax/meteor/pkg/linker"
)

// CompileOptions tunes a single compile pass.
type CompileOptions struct {
	// ForceExport lists symbols per slice that must be exported even if no
	// source or manifest declaration mentions them.
	ForceExport Matrix[[]string]
	// Ignore patterns are matched against path base names during app
	// source scans; matching files are skipped, matching directories are
	// pruned.
	Ignore []*regexp.Regexp
}

// Compiler drives handler invocation per source file and hands the
// collected JavaScript to the linker, one (role, environment) slice at a
// time.
type Compiler struct {
	// Loader resolves direct dependencies (for their extension tables).
	Loader Loader
	// Handlers resolves handler names from manifests to implementations.
	Handlers HandlerLookup
	// Linker is the prelink collaborator.
	Linker linker.Linker
	// Log is optional; nil falls back to the default logger.
	Log *log.Logger
}

// sliceResult stages one slice's outputs until the whole compile succeeds.
type sliceResult struct {
	js        []linker.SourceFile
	resources []Resource
	declared  []string // handler-declared export symbols

	prelinked []linker.File
	boundary  string
	exports   []string
}

// Compile populates the package's prelink, boundary, exports, and resources
// matrices and accumulates the dependency file list. A failure anywhere is
// fatal for the whole pass: no partial results are published. A package
// compiles at most once; reloading means constructing a fresh Package.
func (c *Compiler) Compile(p *Package, opts CompileOptions) error {
	if p.compiled {
		return fmt.Errorf("%s is already compiled (id %d); reload instead of recompiling", describePackage(p), p.id)
	}

	logger := c.logger().With("package", describePackage(p))

	var staged Matrix[*sliceResult]
	deps := make(map[string]struct{})
	if p.manifestRel != "" {
		deps[p.manifestRel] = struct{}{}
	}

	for _, r := range Roles() {
		for _, e := range Environments() {
			res, err := c.compileSlice(p, r, e, opts, deps)
			if err != nil {
				return fmt.Errorf("compiling %s %s/%s: %w", describePackage(p), r, e, err)
			}
			staged.Set(r, e, res)
			logger.Debug("slice compiled",
				"role", r.String(), "env", e.String(),
				"js", len(res.js), "resources", len(res.resources),
				"exports", len(res.exports))
		}
	}

	// Publish. Nothing above mutated the package, so a failed compile
	// leaves it untouched.
	staged.ForEach(func(r Role, e Environment, res **sliceResult) {
		out := *res
		p.resources.Set(r, e, out.resources)
		p.exports.Set(r, e, out.exports)
		p.prelink.Set(r, e, out.prelinked)
		p.boundary.Set(r, e, out.boundary)
	})
	for d := range deps {
		p.deps[d] = struct{}{}
	}
	p.compiled = true
	return nil
}

// compileSlice runs one (role, environment) cell: resolve the ordered
// source list, compile each file through its handler (or the static
// fallback), then prelink the collected JavaScript.
func (c *Compiler) compileSlice(p *Package, r Role, e Environment, opts CompileOptions, deps map[string]struct{}) (*sliceResult, error) {
	exts, err := sliceExtensions(p, r, e, c.Loader)
	if err != nil {
		return nil, err
	}

	var sources []string
	if p.IsApp() {
		sources, err = scanSources(p, exts, opts.Ignore)
		if err != nil {
			return nil, err
		}
	} else {
		sources = orderSources(p.declaredFiles.Get(r, e))
	}

	res := &sliceResult{}

	for _, rel := range sources {
		fullPath := filepath.Join(p.sourceRoot, filepath.FromSlash(rel))
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", rel, err)
		}
		deps[rel] = struct{}{}

		file := SourceFile{
			Path:      rel,
			FullPath:  fullPath,
			ServePath: p.servePathFor(rel),
			Data:      data,
		}

		var handler Handler
		if ext, ok := matchExtension(filepath.Base(fullPath), exts); ok {
			h, found, err := c.resolveHandler(r, ext, exts[ext])
			if err != nil {
				return nil, err
			}
			if found {
				handler = h
			}
		}

		if handler == nil {
			// No handler claims the file: serve it verbatim.
			res.resources = append(res.resources, Resource{
				Type:      ResourceStatic,
				Data:      data,
				ServePath: file.ServePath,
			})
			continue
		}

		api := &CompileAPI{role: r, env: e, sourcePath: rel, out: res}
		if err := handler.Compile(api, file); err != nil {
			return nil, fmt.Errorf("handler failed on %s: %w", rel, err)
		}
	}

	declared := p.declaredExports.Get(r, e)
	forced := opts.ForceExport.Get(r, e)
	forceExport := make([]string, 0, len(declared)+len(forced)+len(res.declared))
	forceExport = append(forceExport, declared...)
	forceExport = append(forceExport, forced...)
	forceExport = append(forceExport, res.declared...)

	out, err := c.Linker.Prelink(linker.Input{
		Files:               res.js,
		UseGlobalNamespace:  p.IsApp(),
		CombinedServePath:   p.combinedServePath(r),
		ImportStubServePath: linker.DefaultImportStubServePath,
		Name:                p.name,
		ForceExport:         forceExport,
	})
	if err != nil {
		return nil, fmt.Errorf("prelink failed: %w", err)
	}

	// Linker output is stored verbatim.
	res.prelinked = out.Files
	res.boundary = out.Boundary
	res.exports = out.Exports

	return res, nil
}

func (c *Compiler) logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return log.Default()
}

// CompileAPI is the capability object handed to a handler invocation. A
// handler may contribute resource records and designate exported symbols;
// it has no other way to reach engine state.
type CompileAPI struct {
	role       Role
	env        Environment
	sourcePath string
	out        *sliceResult
}

// Role returns the role being compiled.
func (a *CompileAPI) Role() Role { return a.role }

// Environment returns the environment being compiled.
func (a *CompileAPI) Environment() Environment { return a.env }

// AddResource contributes one resource record. Record shape is validated
// synchronously; a violation aborts the compile. JavaScript records are
// collected as linker input, everything else lands in the package's
// resource list.
func (a *CompileAPI) AddResource(r Resource) error {
	if err := r.validate(); err != nil {
		return fmt.Errorf("invalid resource record: %w", err)
	}
	if r.Type == ResourceJS {
		a.out.js = append(a.out.js, linker.SourceFile{
			SourcePath: a.sourcePath,
			ServePath:  r.ServePath,
			Data:       r.Data,
		})
		return nil
	}
	a.out.resources = append(a.out.resources, r)
	return nil
}

// DeclareExport designates symbols the slice must export. They are merged
// into the linker's force-export list.
func (a *CompileAPI) DeclareExport(symbols ...string) {
	a.out.declared = append(a.out.declared, symbols...)
}

// NewCompileAPI returns a detached capability object collecting into its
// own buffers. It exists for handler implementations' tests and for
// tooling that invokes a single handler outside a package compile.
func NewCompileAPI(r Role, e Environment, sourcePath string) *CompileAPI {
	return &CompileAPI{role: r, env: e, sourcePath: sourcePath, out: &sliceResult{}}
}

// CollectedJS returns the JavaScript fragments contributed so far.
func (a *CompileAPI) CollectedJS() []linker.SourceFile {
	return append([]linker.SourceFile(nil), a.out.js...)
}

// CollectedResources returns the non-JavaScript records contributed so far.
func (a *CompileAPI) CollectedResources() []Resource {
	return append([]Resource(nil), a.out.resources...)
}

// DeclaredExports returns the symbols designated via DeclareExport.
func (a *CompileAPI) DeclaredExports() []string {
	return append([]string(nil), a.out.declared...)
}

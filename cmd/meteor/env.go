// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/webermax/meteor/internal/issue"
	"github.com/webermax/meteor/pkg/build"
	"github.com/webermax/meteor/pkg/handler"
	"github.com/webermax/meteor/pkg/linker"
	"github.com/webermax/meteor/pkg/manifest"
	"github.com/webermax/meteor/pkg/registry"
	"github.com/webermax/meteor/pkg/release"
)

// defaultIgnore filters app source scans: dotfiles, npm install trees,
// and editor backups.
var defaultIgnore = []*regexp.Regexp{
	regexp.MustCompile(`^\.`),
	regexp.MustCompile(`^node_modules$`),
	regexp.MustCompile(`~$`),
}

// newLogger returns the CLI logger, debug-level when --verbose is set.
func newLogger() *log.Logger {
	l := log.New(os.Stderr)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// newRegistry builds the layered package registry: the app's local
// packages, the configured package directories, and the store when a
// release manifest is present.
func newRegistry(appDir string) (*registry.Registry, error) {
	opts := registry.Options{
		AppDir:      appDir,
		PackageDirs: cfg.PackageDirs,
		Log:         newLogger(),
	}

	if cfg.StoreDir != "" && fileExists(cfg.ReleaseFile) {
		rel, err := release.Parse(cfg.ReleaseFile)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load release manifest").
				WithResource(cfg.ReleaseFile).
				WithSuggestion("Check the release file's CUE syntax").
				Wrap(err).
				BuildError()
		}
		opts.Store = registry.StoreOptions{Dir: cfg.StoreDir, Release: rel}
	}

	return registry.New(opts), nil
}

// loadTarget initializes the build entity for a directory: a named
// package when it carries a manifest, otherwise the anonymous app.
func loadTarget(dir string) (*build.Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(abs, manifest.FileName)
	if fileExists(manifestPath) {
		m, err := manifest.Parse(manifestPath)
		if err != nil {
			return nil, err
		}
		return build.NewFromManifest(filepath.Base(abs), abs, m)
	}

	var uses []string
	listFile := ""
	if appList := filepath.Join(abs, manifest.AppFileName); fileExists(appList) {
		app, err := manifest.ParseApp(appList)
		if err != nil {
			return nil, err
		}
		uses = app.Packages
		listFile = manifest.AppFileName
	}
	return build.NewFromAppDir(abs, uses, listFile)
}

// newCompiler assembles the engine with the default handler set and the
// reference prelinker.
func newCompiler(loader build.Loader) *build.Compiler {
	return &build.Compiler{
		Loader:   loader,
		Handlers: handler.DefaultRegistry(),
		Linker:   linker.Prelinker{},
		Log:      newLogger(),
	}
}

// storeRelease parses the configured release manifest, nil when the
// store layer is disabled or unreadable.
func storeRelease() *release.Release {
	if cfg.StoreDir == "" || !fileExists(cfg.ReleaseFile) {
		return nil
	}
	rel, err := release.Parse(cfg.ReleaseFile)
	if err != nil {
		return nil
	}
	return rel
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

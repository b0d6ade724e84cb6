// SPDX-License-Identifier: MPL-2.0

package build_test

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/webermax/meteor/pkg/build"
	"github.com/webermax/meteor/pkg/handler"
	"github.com/webermax/meteor/pkg/linker"
	"github.com/webermax/meteor/pkg/manifest"
)

type stubLoader map[string]*build.Package

func (l stubLoader) Load(name string) (*build.Package, error) {
	if p, ok := l[name]; ok {
		return p, nil
	}
	return nil, &build.NotFoundError{Kind: "package", Name: name}
}

// basePackage builds a stand-in base package whose only job is to
// contribute extension registrations to its dependents.
func basePackage(t *testing.T, exts map[string]string) *build.Package {
	t.Helper()
	p, err := build.NewFromManifest(build.BasePackage, t.TempDir(), &manifest.Manifest{
		Extensions: exts,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newCompiler(loader build.Loader) *build.Compiler {
	return &build.Compiler{
		Loader:   loader,
		Handlers: handler.DefaultRegistry(),
		Linker:   linker.Prelinker{},
	}
}

func TestCompileApp(t *testing.T) {
	appDir := t.TempDir()
	writeTree(t, appDir, map[string]string{
		"main.js":    "// @export Session\nSession = {};\n",
		"index.html": "<head><title>demo</title></head>\n<body><p>hi</p></body>\n",
		"styles.css": "body { color: red }\n",
	})

	app, err := build.NewFromAppDir(appDir, nil, "packages.cue")
	if err != nil {
		t.Fatal(err)
	}

	loader := stubLoader{
		build.BasePackage: basePackage(t, map[string]string{
			"js": "js", "css": "css", "html": "templates",
		}),
	}

	if err := newCompiler(loader).Compile(app, build.CompileOptions{}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !app.Compiled() {
		t.Fatal("package not marked compiled")
	}

	// All four slices see the same scanned tree, so the @export directive
	// surfaces in every cell.
	for _, r := range build.Roles() {
		for _, e := range build.Environments() {
			if got := app.Exports(r, e); !reflect.DeepEqual(got, []string{"Session"}) {
				t.Errorf("Exports(%s, %s) = %v, want [Session]", r, e, got)
			}
			if app.Boundary(r, e) == "" {
				t.Errorf("Boundary(%s, %s) is empty", r, e)
			}
		}
	}

	deps := app.Dependencies()
	for _, want := range []string{"packages.cue", "main.js", "index.html", "styles.css"} {
		found := false
		for _, d := range deps {
			if d == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Dependencies() = %v, missing %q", deps, want)
		}
	}

	// App JavaScript runs in the global namespace, one served file per
	// source file.
	files := app.Prelink(build.RoleUse, build.EnvClient)
	if len(files) != 1 {
		t.Fatalf("prelinked files = %d, want 1", len(files))
	}
	if files[0].ServePath != "/main.js" {
		t.Errorf("ServePath = %q, want /main.js", files[0].ServePath)
	}
	if strings.Contains(string(files[0].Data), "(function () {") {
		t.Error("app fragment must not be closure-scoped")
	}

	// The stylesheet and both template sections are resource records.
	var types []build.ResourceType
	for _, res := range app.Resources(build.RoleUse, build.EnvClient) {
		types = append(types, res.Type)
	}
	want := []build.ResourceType{build.ResourceHead, build.ResourceBody, build.ResourceCSS}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("resource types = %v, want %v", types, want)
	}
}

func TestCompilePackage(t *testing.T) {
	pkgDir := t.TempDir()
	writeTree(t, pkgDir, map[string]string{
		"widgets.html": "<body><div>w</div></body>\n",
		"widgets.js":   "Widgets = {};\n",
	})

	m := &manifest.Manifest{
		OnUse: &manifest.RoleBlock{
			Files: []manifest.FileSet{
				{Paths: []string{"widgets.js", "widgets.html"}, Where: []string{"client"}},
			},
			Exports: []manifest.ExportSet{
				{Symbols: []string{"Widgets"}, Where: []string{"client"}},
			},
		},
	}
	pkg, err := build.NewFromManifest("widgets", pkgDir, m)
	if err != nil {
		t.Fatal(err)
	}

	loader := stubLoader{
		build.BasePackage: basePackage(t, map[string]string{
			"js": "js", "html": "templates",
		}),
	}

	if err := newCompiler(loader).Compile(pkg, build.CompileOptions{}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := pkg.Exports(build.RoleUse, build.EnvClient); !reflect.DeepEqual(got, []string{"Widgets"}) {
		t.Errorf("use/client exports = %v, want [Widgets]", got)
	}
	if got := pkg.Exports(build.RoleUse, build.EnvServer); len(got) != 0 {
		t.Errorf("use/server exports = %v, want empty", got)
	}

	// Package JavaScript is combined into a single closure-scoped file.
	files := pkg.Prelink(build.RoleUse, build.EnvClient)
	if len(files) != 1 {
		t.Fatalf("prelinked files = %d, want 1", len(files))
	}
	if files[0].ServePath != "/packages/widgets.js" {
		t.Errorf("ServePath = %q, want /packages/widgets.js", files[0].ServePath)
	}
	if !strings.Contains(string(files[0].Data), "(function () {") {
		t.Error("package fragment must be closure-scoped")
	}

	deps := pkg.Dependencies()
	want := []string{manifest.FileName, "widgets.html", "widgets.js"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Dependencies() = %v, want %v", deps, want)
	}
}

func TestCompileStaticFallback(t *testing.T) {
	pkgDir := t.TempDir()
	writeTree(t, pkgDir, map[string]string{"w.frag": "raw bytes"})

	// The package's own handler never applies to its own test role; with no
	// dependency claiming .frag the file is served verbatim.
	m := &manifest.Manifest{
		Extensions: map[string]string{"frag": "js"},
		OnTest: &manifest.RoleBlock{
			Files: []manifest.FileSet{
				{Paths: []string{"w.frag"}, Where: []string{"server"}},
			},
		},
	}
	pkg, err := build.NewFromManifest("raw", pkgDir, m)
	if err != nil {
		t.Fatal(err)
	}

	loader := stubLoader{build.BasePackage: basePackage(t, nil)}
	if err := newCompiler(loader).Compile(pkg, build.CompileOptions{}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	resources := pkg.Resources(build.RoleTest, build.EnvServer)
	if len(resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(resources))
	}
	if resources[0].Type != build.ResourceStatic {
		t.Errorf("resource type = %v, want static", resources[0].Type)
	}
	if got, want := resources[0].ServePath, "/packages/raw/w.frag"; got != want {
		t.Errorf("ServePath = %q, want %q", got, want)
	}
}

func TestCompileFailurePublishesNothing(t *testing.T) {
	appDir := t.TempDir()
	writeTree(t, appDir, map[string]string{"x.boom": "data"})

	app, err := build.NewFromAppDir(appDir, nil, "packages.cue")
	if err != nil {
		t.Fatal(err)
	}

	// The base package maps .boom to a handler name nothing registers.
	loader := stubLoader{
		build.BasePackage: basePackage(t, map[string]string{"boom": "kaboom"}),
	}

	if err := newCompiler(loader).Compile(app, build.CompileOptions{}); err == nil {
		t.Fatal("expected compile failure")
	}

	if app.Compiled() {
		t.Error("failed compile must not mark the package compiled")
	}
	if deps := app.Dependencies(); len(deps) != 0 {
		t.Errorf("failed compile published dependencies: %v", deps)
	}
	for _, r := range build.Roles() {
		for _, e := range build.Environments() {
			if got := app.Exports(r, e); len(got) != 0 {
				t.Errorf("failed compile published exports for %s/%s: %v", r, e, got)
			}
		}
	}
}

func TestCompileTwiceFails(t *testing.T) {
	app, err := build.NewFromAppDir(t.TempDir(), nil, "")
	if err != nil {
		t.Fatal(err)
	}
	loader := stubLoader{build.BasePackage: basePackage(t, nil)}
	c := newCompiler(loader)

	if err := c.Compile(app, build.CompileOptions{}); err != nil {
		t.Fatalf("first Compile: %v", err)
	}
	err = c.Compile(app, build.CompileOptions{})
	if err == nil || !strings.Contains(err.Error(), "already compiled") {
		t.Fatalf("second Compile = %v, want already-compiled error", err)
	}
}

func TestCompileIgnorePatterns(t *testing.T) {
	appDir := t.TempDir()
	writeTree(t, appDir, map[string]string{
		"main.js":         "a = 1;\n",
		"main.spec.js":    "test code\n",
		"vendor/big.js":   "vendored\n",
		"client/ui.js":    "b = 2;\n",
		"client/ui.debug": "ignored extension\n",
	})

	app, err := build.NewFromAppDir(appDir, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	loader := stubLoader{
		build.BasePackage: basePackage(t, map[string]string{"js": "js"}),
	}
	c := newCompiler(loader)

	got, err := c.ResolveSources(app, build.RoleUse, build.EnvClient, []*regexp.Regexp{
		regexp.MustCompile(`\.spec\.js$`),
		regexp.MustCompile(`^vendor$`),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"client/ui.js", "main.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveSources = %v, want %v", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package linker

import (
	"reflect"
	"strings"
	"testing"
)

func TestPrelinkCombined(t *testing.T) {
	in := Input{
		Files: []SourceFile{
			{SourcePath: "a.js", ServePath: "/packages/demo/a.js", Data: []byte("var a = 1;")},
			{SourcePath: "b.js", ServePath: "/packages/demo/b.js", Data: []byte("var b = 2;\n")},
		},
		CombinedServePath:   "/packages/demo.js",
		ImportStubServePath: DefaultImportStubServePath,
		Name:                "demo",
		ForceExport:         []string{"B", "A", "A"},
	}

	out, err := Prelinker{}.Prelink(in)
	if err != nil {
		t.Fatalf("Prelink: %v", err)
	}

	if len(out.Files) != 1 {
		t.Fatalf("expected one combined file, got %d", len(out.Files))
	}
	if out.Files[0].ServePath != "/packages/demo.js" {
		t.Errorf("combined serve path = %q", out.Files[0].ServePath)
	}

	body := string(out.Files[0].Data)
	if !strings.Contains(body, out.Boundary) {
		t.Error("combined output does not contain the boundary marker")
	}
	if !strings.Contains(body, "(function () {") {
		t.Error("fragments should be closure-scoped for a named package")
	}
	if strings.Index(body, "var a = 1;") > strings.Index(body, "var b = 2;") {
		t.Error("fragment order not preserved")
	}

	if !reflect.DeepEqual(out.Exports, []string{"A", "B"}) {
		t.Errorf("Exports = %v, want [A B]", out.Exports)
	}
}

func TestPrelinkGlobalNamespaceApp(t *testing.T) {
	in := Input{
		Files: []SourceFile{
			{SourcePath: "client/main.js", ServePath: "/client/main.js", Data: []byte("Main = 1;")},
		},
		UseGlobalNamespace:  true,
		ImportStubServePath: DefaultImportStubServePath,
	}

	out, err := Prelinker{}.Prelink(in)
	if err != nil {
		t.Fatalf("Prelink: %v", err)
	}

	if len(out.Files) != 1 {
		t.Fatalf("expected one output file per input, got %d", len(out.Files))
	}
	body := string(out.Files[0].Data)
	if strings.Contains(body, "(function () {") {
		t.Error("app fragments must not be closure-scoped")
	}
	if out.Files[0].ServePath != "/client/main.js" {
		t.Errorf("serve path changed: %q", out.Files[0].ServePath)
	}
}

func TestPrelinkEmptyInput(t *testing.T) {
	out, err := Prelinker{}.Prelink(Input{ForceExport: []string{"X"}})
	if err != nil {
		t.Fatalf("Prelink: %v", err)
	}
	if len(out.Files) != 0 {
		t.Errorf("expected no files, got %d", len(out.Files))
	}
	if out.Boundary == "" {
		t.Error("boundary must be set even with no files")
	}
	if !reflect.DeepEqual(out.Exports, []string{"X"}) {
		t.Errorf("Exports = %v", out.Exports)
	}
}

func TestBoundaryUnique(t *testing.T) {
	a, err := newBoundary()
	if err != nil {
		t.Fatal(err)
	}
	b, err := newBoundary()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("boundaries must be unique per prelink")
	}
}

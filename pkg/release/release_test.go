// SPDX-License-Identifier: MPL-2.0

package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRelease = `
name:    "stable"
version: "0.6.4"
packages: {
	underscore: "1.0.0"
	ui:         "2.1.3"
}
`

func TestParseBytes(t *testing.T) {
	r, err := ParseBytes([]byte(sampleRelease), "release.cue")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	if r.Name != "stable" || r.Version != "0.6.4" {
		t.Errorf("parsed %q/%q, want stable/0.6.4", r.Name, r.Version)
	}
	if v, ok := r.PinnedVersion("ui"); !ok || v != "2.1.3" {
		t.Errorf("PinnedVersion(ui) = (%q, %v)", v, ok)
	}
	if _, ok := r.PinnedVersion("missing"); ok {
		t.Error("unpinned package resolved")
	}
	if r.FilePath != "release.cue" {
		t.Errorf("FilePath = %q", r.FilePath)
	}
}

func TestParseRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "missing name", src: `version: "1.0.0"` + "\npackages: {}\n"},
		{name: "empty name", src: "name: \"\"\nversion: \"1.0.0\"\npackages: {}\n"},
		{name: "empty pinned version", src: "name: \"s\"\nversion: \"1.0.0\"\npackages: ui: \"\"\n"},
		{name: "unknown field", src: "name: \"s\"\nversion: \"1.0.0\"\npackages: {}\nextra: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(tt.src), "release.cue"); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.cue")
	if err := os.WriteFile(path, []byte(sampleRelease), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.FilePath != path {
		t.Errorf("FilePath = %q, want %q", r.FilePath, path)
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "nope.cue")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPackagePath(t *testing.T) {
	r := &Release{Packages: map[string]string{"ui": "2.1.3"}}

	got, ok := r.PackagePath("/store", "ui")
	if !ok {
		t.Fatal("expected pinned package to resolve")
	}
	want := filepath.Join("/store", "packages", "ui", "2.1.3")
	if got != want {
		t.Errorf("PackagePath = %q, want %q", got, want)
	}

	if _, ok := r.PackagePath("/store", "missing"); ok {
		t.Error("unpinned package resolved to a path")
	}

	if !strings.HasPrefix(got, "/store") {
		t.Errorf("path %q escapes store", got)
	}
}

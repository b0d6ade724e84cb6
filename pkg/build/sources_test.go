// SPDX-License-Identifier: MPL-2.0

package build

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"
)

func TestOrderSources(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "templates move first, groups keep order",
			in:   []string{"b.js", "a.html", "c.html", "a.js"},
			want: []string{"a.html", "c.html", "b.js", "a.js"},
		},
		{
			name: "no templates unchanged",
			in:   []string{"b.js", "a.js"},
			want: []string{"b.js", "a.js"},
		},
		{
			name: "only templates unchanged",
			in:   []string{"b.html", "a.html"},
			want: []string{"b.html", "a.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderSources(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("orderSources(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchExtension(t *testing.T) {
	exts := map[string][]extensionCandidate{
		"js":       nil,
		"html":     nil,
		"tpl.html": nil,
	}

	tests := []struct {
		base    string
		want    string
		matched bool
	}{
		{"main.js", "js", true},
		{"index.html", "html", true},
		{"widget.tpl.html", "tpl.html", true}, // longest suffix wins
		{"notes.txt", "", false},
		{"js", "", false}, // no dot, not a match
	}

	for _, tt := range tests {
		got, ok := matchExtension(tt.base, exts)
		if got != tt.want || ok != tt.matched {
			t.Errorf("matchExtension(%q) = (%q, %v), want (%q, %v)",
				tt.base, got, ok, tt.want, tt.matched)
		}
	}
}

func TestScanSources(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"b.js",
		"a.html",
		"lib/c.js",
		".secret.js",
		".git/hook.js",
		"notes.txt",
	}
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p, err := NewFromAppDir(root, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	exts := map[string][]extensionCandidate{"js": nil, "html": nil}
	ignore := []*regexp.Regexp{regexp.MustCompile(`^\.`)}

	got, err := scanSources(p, exts, ignore)
	if err != nil {
		t.Fatal(err)
	}

	// Lexical walk order within each group, templates first. Dotfiles are
	// skipped and dot-directories pruned; unrecognized extensions never
	// appear.
	want := []string{"a.html", "b.js", "lib/c.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("scanSources = %v, want %v", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package build

import (
	"reflect"
	"testing"

	"github.com/webermax/meteor/pkg/manifest"
)

func TestUniqueLastWins(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "duplicate keeps last position",
			in:   []string{"a", "b", "a", "c"},
			want: []string{"b", "a", "c"},
		},
		{
			name: "no duplicates unchanged",
			in:   []string{"a", "b", "c"},
			want: []string{"a", "b", "c"},
		},
		{
			name: "all same collapses to one",
			in:   []string{"a", "a", "a"},
			want: []string{"a"},
		},
		{
			name: "empty",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uniqueLastWins(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("uniqueLastWins(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithBaseFirst(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		pkgName string
		role    Role
		want    []string
	}{
		{
			name:    "base prepended",
			in:      []string{"ui", "ddp"},
			pkgName: "ui",
			role:    RoleUse,
			want:    []string{BasePackage, "ui", "ddp"},
		},
		{
			name:    "explicit base moved to front, not duplicated",
			in:      []string{"ui", BasePackage, "ddp"},
			pkgName: "ui",
			role:    RoleUse,
			want:    []string{BasePackage, "ui", "ddp"},
		},
		{
			name:    "base package use role exempt",
			in:      []string{"underscore"},
			pkgName: BasePackage,
			role:    RoleUse,
			want:    []string{"underscore"},
		},
		{
			name:    "base package test role still gets base",
			in:      []string{"tinytest"},
			pkgName: BasePackage,
			role:    RoleTest,
			want:    []string{BasePackage, "tinytest"},
		},
		{
			name:    "empty cell gets base alone",
			in:      nil,
			pkgName: "ui",
			role:    RoleUse,
			want:    []string{BasePackage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withBaseFirst(tt.in, tt.pkgName, tt.role)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("withBaseFirst(%v, %q, %s) = %v, want %v",
					tt.in, tt.pkgName, tt.role, got, tt.want)
			}
		})
	}
}

func TestBuildUses(t *testing.T) {
	m := &manifest.Manifest{
		OnUse: &manifest.RoleBlock{
			Uses: []manifest.Use{
				{Packages: []string{"ui"}},
				{Packages: []string{"ddp"}, Where: []string{manifest.EnvServer}},
				{Packages: []string{"boot"}, Where: []string{manifest.EnvClient}, Unordered: true},
				{Packages: []string{"ui"}}, // duplicate, last position wins
			},
		},
		OnTest: &manifest.RoleBlock{
			Uses: []manifest.Use{
				{Packages: []string{"tinytest"}},
			},
		},
	}

	uses, unordered := buildUses(m, "widgets")

	want := map[string][]string{
		"use/client":  {BasePackage, "boot", "ui"},
		"use/server":  {BasePackage, "ddp", "ui"},
		"test/client": {BasePackage, "tinytest"},
		"test/server": {BasePackage, "tinytest"},
	}
	uses.ForEach(func(r Role, e Environment, cell *[]string) {
		key := r.String() + "/" + e.String()
		if !reflect.DeepEqual(*cell, want[key]) {
			t.Errorf("cell %s = %v, want %v", key, *cell, want[key])
		}
	})

	if !unordered["boot"] {
		t.Error("expected boot to be marked unordered")
	}
	if unordered["ui"] {
		t.Error("ui must not be marked unordered")
	}
}

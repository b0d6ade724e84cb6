// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Thing: {
	name:     string
	count?:   int & >=0
	tags?: [...string]
}
`

type thing struct {
	Name  string   `json:"name"`
	Count int      `json:"count,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, v *thing)
	}{
		{
			name: "valid document",
			data: `name: "widget", count: 3, tags: ["a", "b"]`,
			check: func(t *testing.T, v *thing) {
				if v.Name != "widget" || v.Count != 3 || len(v.Tags) != 2 {
					t.Errorf("decoded %+v, want widget/3/2 tags", v)
				}
			},
		},
		{
			name:    "missing required field",
			data:    `count: 3`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			data:    `name: "widget", count: "three"`,
			wantErr: true,
		},
		{
			name:    "constraint violation",
			data:    `name: "widget", count: -1`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAndDecodeString[thing](testSchema, []byte(tt.data), "#Thing")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, result.Value)
			}
		})
	}
}

func TestParseAndDecodeFileSizeLimit(t *testing.T) {
	data := []byte(`name: "widget"`)
	_, err := ParseAndDecodeString[thing](testSchema, data, "#Thing", WithMaxFileSize(4))
	if err == nil {
		t.Fatal("expected size limit error, got nil")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error %q does not mention the size limit", err)
	}
}

func TestParseAndDecodeErrorNamesFile(t *testing.T) {
	_, err := ParseAndDecodeString[thing](testSchema, []byte(`count: "x"`), "#Thing",
		WithFilename("things/bad.cue"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "things/bad.cue") {
		t.Errorf("error %q does not name the input file", err)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"simple", []string{"onUse", "uses"}, "onUse.uses"},
		{"index", []string{"uses", "0", "packages"}, "uses[0].packages"},
		{"leading numeric kept as field", []string{"0"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

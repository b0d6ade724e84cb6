// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPinsValidate(t *testing.T) {
	tests := []struct {
		name    string
		pins    Pins
		wantErr bool
	}{
		{name: "exact version", pins: Pins{"left-pad": "1.3.0"}},
		{name: "exact prerelease", pins: Pins{"react": "18.0.0-rc.1"}},
		{name: "caret range", pins: Pins{"left-pad": "^1.3.0"}, wantErr: true},
		{name: "tilde range", pins: Pins{"left-pad": "~1.3.0"}, wantErr: true},
		{name: "wildcard", pins: Pins{"left-pad": "1.x"}, wantErr: true},
		{name: "comparison", pins: Pins{"left-pad": ">=1.0.0"}, wantErr: true},
		{name: "partial version", pins: Pins{"left-pad": "1.3"}, wantErr: true},
		{name: "empty name", pins: Pins{"": "1.0.0"}, wantErr: true},
		{name: "empty set", pins: Pins{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pins.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInstallScript(t *testing.T) {
	script, err := installScript(Pins{"zlib": "1.0.0", "left-pad": "1.3.0"})
	if err != nil {
		t.Fatal(err)
	}
	// Sorted names keep the command reproducible.
	want := "npm install --no-save --no-audit --no-fund left-pad@1.3.0 zlib@1.0.0"
	if script != want {
		t.Errorf("installScript = %q, want %q", script, want)
	}
}

func TestEnsureInstallsAndRecords(t *testing.T) {
	dir := t.TempDir()
	var ran []string
	inst := &Installer{
		Dir: dir,
		RunScript: func(_ context.Context, script string) error {
			ran = append(ran, script)
			return nil
		},
	}
	pins := Pins{"left-pad": "1.3.0"}

	if err := inst.Ensure(context.Background(), pins); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(ran) != 1 || !strings.Contains(ran[0], "left-pad@1.3.0") {
		t.Fatalf("install commands = %v", ran)
	}

	recorded, err := readPins(filepath.Join(dir, PinsFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !recorded.Equal(pins) {
		t.Errorf("recorded pins = %v, want %v", recorded, pins)
	}

	// Unchanged pins: no second install.
	if err := inst.Ensure(context.Background(), pins); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if len(ran) != 1 {
		t.Errorf("install ran again for unchanged pins: %v", ran)
	}

	// Changed pins: installed and re-recorded.
	changed := Pins{"left-pad": "1.3.0", "zlib": "1.0.0"}
	if err := inst.Ensure(context.Background(), changed); err != nil {
		t.Fatalf("third Ensure: %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected a second install, got %v", ran)
	}
}

func TestEnsureRejectsFuzzyPins(t *testing.T) {
	inst := &Installer{
		Dir: t.TempDir(),
		RunScript: func(context.Context, string) error {
			t.Fatal("install must not run for invalid pins")
			return nil
		},
	}

	err := inst.Ensure(context.Background(), Pins{"left-pad": "^1.3.0"})
	if err == nil || !strings.Contains(err.Error(), "exact versions only") {
		t.Errorf("Ensure = %v, want exact-versions error", err)
	}
}

func TestEnsureEmptySetIsNoOp(t *testing.T) {
	dir := t.TempDir()
	inst := &Installer{
		Dir: dir,
		RunScript: func(context.Context, string) error {
			t.Fatal("install must not run for empty pins")
			return nil
		},
	}

	if err := inst.Ensure(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, PinsFileName)); !os.IsNotExist(err) {
		t.Error("empty pin set must not write a record")
	}
}

func TestEnsureDoesNotRecordFailedInstall(t *testing.T) {
	dir := t.TempDir()
	inst := &Installer{
		Dir: dir,
		RunScript: func(context.Context, string) error {
			return os.ErrDeadlineExceeded
		},
	}

	if err := inst.Ensure(context.Background(), Pins{"left-pad": "1.3.0"}); err == nil {
		t.Fatal("expected install failure")
	}
	if _, err := os.Stat(filepath.Join(dir, PinsFileName)); !os.IsNotExist(err) {
		t.Error("failed install must not write a pins record")
	}
}

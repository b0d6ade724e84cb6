// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// PinsFileName is the base name of the record written next to the install
// tree after a successful install.
const PinsFileName = "pins.toml"

// Pins maps npm package names to exact versions.
type Pins map[string]string

// pinsFile is the on-disk shape of the pins record.
type pinsFile struct {
	Packages map[string]string `toml:"packages"`
}

// Validate rejects empty names and anything that is not an exact semver
// version: ranges, wildcards, and partial versions all fail.
func (p Pins) Validate() error {
	for name, version := range p {
		if name == "" {
			return fmt.Errorf("npm dependency with empty name")
		}
		if _, err := semver.StrictNewVersion(version); err != nil {
			return fmt.Errorf("npm dependency %q pins version %q: exact versions only (e.g. 1.2.3): %w",
				name, version, err)
		}
	}
	return nil
}

// Equal reports whether both pin sets contain exactly the same versions.
func (p Pins) Equal(other Pins) bool {
	if len(p) != len(other) {
		return false
	}
	for name, version := range p {
		if other[name] != version {
			return false
		}
	}
	return true
}

// readPins loads a pins record. A missing file is an empty record.
func readPins(path string) (Pins, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pins{}, nil
		}
		return nil, fmt.Errorf("failed to read pins record: %w", err)
	}

	var file pinsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pins record %s: %w", path, err)
	}
	return Pins(file.Packages), nil
}

// writePins records the installed pin set. The write is atomic so a crash
// mid-write never leaves a record claiming an install that did not finish.
func writePins(path string, pins Pins) error {
	data, err := toml.Marshal(pinsFile{Packages: pins})
	if err != nil {
		return fmt.Errorf("failed to encode pins record: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pins-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create pins record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write pins record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write pins record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write pins record: %w", err)
	}
	return nil
}

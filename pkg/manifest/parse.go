// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/webermax/meteor/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema string

// Parse reads and parses a package manifest from the given path.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses manifest content from bytes. The path is used for error
// messages and recorded as FilePath.
func ParseBytes(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecodeString[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	m := result.Value
	m.FilePath = path

	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// ParseApp reads and parses an application package list from the given path.
func ParseApp(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app package list at %s: %w", path, err)
	}

	return ParseAppBytes(data, path)
}

// ParseAppBytes parses application package list content from bytes.
func ParseAppBytes(data []byte, path string) (*App, error) {
	result, err := cueutil.ParseAndDecodeString[App](
		manifestSchema,
		data,
		"#App",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	app := result.Value
	app.FilePath = path
	return app, nil
}

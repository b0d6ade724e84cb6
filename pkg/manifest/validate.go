// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
)

// ConfigurationError reports an invalid declaration in a package manifest.
// All configuration errors are fatal to the package being loaded.
type ConfigurationError struct {
	// Path is the manifest file the error was found in.
	Path string
	// Field names the offending manifest field.
	Field string
	// Message describes the violation.
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (m *Manifest) configErr(field, format string, args ...any) error {
	return &ConfigurationError{
		Path:    m.FilePath,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// validate enforces the manifest-level invariants that the CUE schema cannot
// express: non-empty extension bindings and exact npm version pins.
func (m *Manifest) validate() error {
	for ext, handler := range m.Extensions {
		if ext == "" {
			return m.configErr("extensions", "extension name must not be empty")
		}
		if strings.HasPrefix(ext, ".") {
			return m.configErr("extensions", "extension %q must be declared without the leading dot", ext)
		}
		if handler == "" {
			return m.configErr("extensions", "extension %q has no handler name", ext)
		}
	}

	for name, version := range m.Npm {
		if name == "" {
			return m.configErr("npm", "dependency name must not be empty")
		}
		// Exact versions only. Ranges and partial versions would make the
		// build irreproducible.
		if _, err := semver.StrictNewVersion(version); err != nil {
			return m.configErr("npm",
				"version %q for %q is not an exact version (ranges like \"^1.2.0\" are not allowed): %v",
				version, name, err)
		}
	}

	for _, role := range []*RoleBlock{m.OnUse, m.OnTest} {
		if role == nil {
			continue
		}
		for _, f := range role.Files {
			if len(f.Environments()) == 0 && len(f.Paths) > 0 {
				// Historical behavior: files without a `where` target no
				// environment at all. Surfaced at debug level only.
				log.Debug("manifest declares files with no target environment",
					"manifest", m.FilePath, "paths", f.Paths)
			}
		}
		for _, u := range role.Uses {
			if len(u.Packages) == 0 {
				return m.configErr("uses", "use declaration lists no packages")
			}
		}
	}

	return nil
}

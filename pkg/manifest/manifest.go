// SPDX-License-Identifier: MPL-2.0

package manifest

// FileName is the base name of the package manifest inside a package
// directory.
const FileName = "package.cue"

// AppFileName is the base name of the application package list inside an
// app directory.
const AppFileName = "packages.cue"

// EnvClient and EnvServer are the environment names accepted by `where`
// lists. The build engine maps them onto its closed enumeration.
const (
	EnvClient = "client"
	EnvServer = "server"
)

// Manifest is the parsed intent record of a package.cue file.
type Manifest struct {
	// Summary is a one-line human description of the package.
	Summary string `json:"summary,omitempty"`
	// Internal marks the package as not intended for direct use by apps.
	Internal bool `json:"internal,omitempty"`
	// Environments restricts the environments the package may run in.
	// Empty means no restriction.
	Environments []string `json:"environments,omitempty"`

	// OnUse carries declarations for the normal-inclusion role.
	OnUse *RoleBlock `json:"onUse,omitempty"`
	// OnTest carries declarations for the package's own test role.
	OnTest *RoleBlock `json:"onTest,omitempty"`

	// Extensions maps a file extension (no leading dot) to the name of a
	// registered source handler.
	Extensions map[string]string `json:"extensions,omitempty"`

	// Npm pins sub-dependencies to exact versions.
	Npm map[string]string `json:"npm,omitempty"`

	// FilePath is where this manifest was loaded from (not in CUE).
	FilePath string `json:"-"`
}

// RoleBlock groups the declarations made for a single role.
type RoleBlock struct {
	Uses    []Use       `json:"uses,omitempty"`
	Files   []FileSet   `json:"files,omitempty"`
	Exports []ExportSet `json:"exports,omitempty"`
}

// Use declares a dependency on one or more packages.
type Use struct {
	Packages []string `json:"packages"`
	// Where lists target environments. nil targets both; an explicit empty
	// list targets neither.
	Where []string `json:"where,omitempty"`
	// Unordered marks the dependency as order-independent and removes it
	// from symbol-import consideration. Used to break circular bootstrap
	// dependencies.
	Unordered bool `json:"unordered,omitempty"`
}

// FileSet declares source files for compilation.
type FileSet struct {
	Paths []string `json:"paths"`
	Where []string `json:"where,omitempty"`
}

// ExportSet declares symbols to force-export.
type ExportSet struct {
	Symbols []string `json:"symbols"`
	Where []string `json:"where,omitempty"`
}

// App is the parsed application package list (packages.cue).
type App struct {
	Packages []string `json:"packages"`

	// FilePath is where this list was loaded from (not in CUE).
	FilePath string `json:"-"`
}

// Environments resolves the `where` list of a Use declaration: nil means
// both environments, an explicit empty list means neither.
func (u Use) Environments() []string {
	if u.Where == nil {
		return []string{EnvClient, EnvServer}
	}
	return u.Where
}

// Environments resolves the `where` list of a FileSet. Omitted and empty
// both contribute to no environment. This mirrors the historical manifest
// surface; see the validation debug note in validate.go.
func (f FileSet) Environments() []string {
	return f.Where
}

// Environments resolves the `where` list of an ExportSet. Same semantics
// as FileSet.
func (e ExportSet) Environments() []string {
	return e.Where
}

// Role returns the block for the named role, or nil.
func (m *Manifest) Role(test bool) *RoleBlock {
	if test {
		return m.OnTest
	}
	return m.OnUse
}

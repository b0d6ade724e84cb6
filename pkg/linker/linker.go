// SPDX-License-Identifier: MPL-2.0

package linker

// DefaultImportStubServePath is the fixed serve path under which the final
// link stage splices package imports. The compile stage passes it through
// unchanged; its only requirement is stability across the whole build.
const DefaultImportStubServePath = "/package-stubs.js"

// SourceFile is one JavaScript fragment handed to the linker.
type SourceFile struct {
	// SourcePath is the path of the originating source file, relative to
	// the package source root.
	SourcePath string
	// ServePath is the absolute path the fragment is served under.
	ServePath string
	// Data is the raw fragment content.
	Data []byte
}

// Input is a single prelink request covering one (role, environment) slice
// of one package.
type Input struct {
	// Files are the slice's JavaScript fragments, in compile order.
	Files []SourceFile

	// UseGlobalNamespace disables per-package scoping. True only for the
	// anonymous application package, which has no import isolation.
	UseGlobalNamespace bool

	// CombinedServePath, when non-empty, asks the linker to merge all
	// fragments into a single file served under this path. Empty for the
	// application package.
	CombinedServePath string

	// ImportStubServePath is the fixed serve path used for import splicing
	// by the final link stage.
	ImportStubServePath string

	// Name is the package name, empty for the application package.
	Name string

	// ForceExport lists symbols that must appear in the export list even
	// if no fragment declares them.
	ForceExport []string
}

// File is one prelinked output fragment.
type File struct {
	ServePath string
	Data      []byte
}

// Output is the result of a prelink request.
type Output struct {
	// Files are the prelinked fragments, in order.
	Files []File
	// Boundary is the opaque splice marker the final link stage replaces
	// with the real import preamble.
	Boundary string
	// Exports is the ordered list of exported symbols.
	Exports []string
}

// Linker turns a slice's JavaScript fragments into prelinked modules.
type Linker interface {
	Prelink(in Input) (*Output, error)
}

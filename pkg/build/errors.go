// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"strings"
)

// NotFoundError reports a package, manifest, or handler that could not be
// located. Whether an unresolved name is fatal is the caller's decision.
type NotFoundError struct {
	// Kind names what was missing ("package", "manifest", "handler").
	Kind string
	// Name identifies the missing entity.
	Name string
	// Path is the location that was probed, when known.
	Path string
	// Hint is an optional suggestion appended to the message.
	Hint string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// AmbiguousHandlerError reports two or more equally-applicable handlers for
// one extension. The build cannot pick between them.
type AmbiguousHandlerError struct {
	// Extension is the contested file extension, without the leading dot.
	Extension string
	// Candidates are the names of the dependencies that each registered a
	// handler for the extension.
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousHandlerError) Error() string {
	return fmt.Sprintf("ambiguous handler for extension %q: registered by %s",
		e.Extension, strings.Join(e.Candidates, ", "))
}

// IntegrityError reports a scanned source path that normalizes outside the
// package's source root. This is an internal invariant violation, never
// user-recoverable.
type IntegrityError struct {
	Path string
	Root string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("source path %q escapes source root %q", e.Path, e.Root)
}

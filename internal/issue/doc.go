// SPDX-License-Identifier: MPL-2.0

// Package issue maps known failure modes of the build engine to rendered,
// actionable explanations. The catalog in issue.go carries the markdown
// bodies; ActionableError carries per-occurrence context (operation,
// resource, suggestions) and wraps the engine error for errors.Is/As.
package issue

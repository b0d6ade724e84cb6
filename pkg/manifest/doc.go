// SPDX-License-Identifier: MPL-2.0

// Package manifest defines the declarative package manifest (package.cue)
// and its parser.
//
// A manifest is a pure data record: it declares metadata, per-role
// dependency and source-file intent, extension-to-handler bindings, and
// exact npm version pins. Parsing never resolves dependencies and never
// reads any file beyond the manifest itself; the build engine consumes the
// record and does the rest.
package manifest

// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for parsing and validating CUE
// documents against embedded schemas.
//
// Every declarative file the build tool reads (package manifests, release
// manifests, app package lists) goes through the same three-step flow:
// compile the embedded schema, compile the user data, unify and decode into
// a Go struct. ParseAndDecode centralizes that flow together with error
// formatting that points at the offending field.
package cueutil

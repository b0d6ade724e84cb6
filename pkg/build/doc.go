// SPDX-License-Identifier: MPL-2.0

// Package build is the dependency-graph and compile-orchestration core of
// the bundler.
//
// A Package is constructed from exactly one source (a package directory
// manifest or an application directory) and carries its declarations as
// 2x2 matrices keyed by role (use, test) and environment (client, server).
// The Compiler turns a Package's source files into resource records and
// prelinked JavaScript, slice by slice, handing the JavaScript to an
// external linker.
package build

// SPDX-License-Identifier: MPL-2.0

// Package linker defines the contract between the compile stage and the
// prelink phase that resolves intra-bundle imports and exports.
//
// The real linking and minification pipeline is an external collaborator;
// this package carries the exchange types plus Prelinker, a small reference
// implementation used by the CLI and the test suite.
package linker

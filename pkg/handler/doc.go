// SPDX-License-Identifier: MPL-2.0

// Package handler hosts source-handler implementations and the registry
// that resolves the handler names declared in package manifests.
//
// A manifest binds a file extension to a handler name; the engine looks
// the name up here at compile time. Built-in handlers cover JavaScript,
// stylesheets, template markup, and opaque static files.
package handler

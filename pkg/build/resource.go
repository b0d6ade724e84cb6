// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"strings"
)

// ResourceType classifies a compiled resource record.
type ResourceType string

const (
	// ResourceJS is JavaScript destined for the prelink phase.
	ResourceJS ResourceType = "js"
	// ResourceCSS is a stylesheet served as-is.
	ResourceCSS ResourceType = "css"
	// ResourceHead is markup appended to the document head.
	ResourceHead ResourceType = "head"
	// ResourceBody is markup appended to the document body.
	ResourceBody ResourceType = "body"
	// ResourceStatic is an opaque file served verbatim.
	ResourceStatic ResourceType = "static"
)

// Resource is one compiled output record produced by a source handler (or
// by the static fallback for files no handler claims).
type Resource struct {
	// Type classifies the record.
	Type ResourceType
	// Data is the raw content.
	Data []byte
	// ServePath is the absolute path the record is served under. Ignored
	// for head and body records.
	ServePath string
}

// validate enforces record shape. Violations are programming errors in a
// handler and abort the compile.
func (r Resource) validate() error {
	switch r.Type {
	case ResourceJS, ResourceCSS, ResourceHead, ResourceBody, ResourceStatic:
	default:
		return fmt.Errorf("invalid resource type %q", r.Type)
	}

	if r.Data == nil {
		return fmt.Errorf("%s resource has nil data", r.Type)
	}

	if r.Type == ResourceHead || r.Type == ResourceBody {
		return nil
	}

	if r.ServePath == "" {
		return fmt.Errorf("%s resource has no serve path", r.Type)
	}
	if !strings.HasPrefix(r.ServePath, "/") {
		return fmt.Errorf("%s resource serve path %q is not absolute", r.Type, r.ServePath)
	}

	return nil
}

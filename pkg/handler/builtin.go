// SPDX-License-Identifier: MPL-2.0

package handler

import (
	"regexp"
	"strings"

	"github.com/webermax/meteor/pkg/build"
)

// exportDirective matches lines of the form "// @export Template, Session".
var exportDirective = regexp.MustCompile(`^\s*//\s*@export\s+(.+)$`)

// JS passes JavaScript through to the linker and honors @export
// directives.
type JS struct{}

// Compile implements Handler.
func (JS) Compile(api *build.CompileAPI, file build.SourceFile) error {
	for _, line := range strings.Split(string(file.Data), "\n") {
		m := exportDirective.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, sym := range strings.Split(m[1], ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				api.DeclareExport(sym)
			}
		}
	}

	return api.AddResource(build.Resource{
		Type:      build.ResourceJS,
		Data:      file.Data,
		ServePath: file.ServePath,
	})
}

// CSS emits stylesheets as css resources.
type CSS struct{}

// Compile implements Handler.
func (CSS) Compile(api *build.CompileAPI, file build.SourceFile) error {
	return api.AddResource(build.Resource{
		Type:      build.ResourceCSS,
		Data:      file.Data,
		ServePath: file.ServePath,
	})
}

// Templates splits HTML markup into head and body resources so that
// markup-defined template objects exist before code runs.
type Templates struct{}

// Compile implements Handler.
func (Templates) Compile(api *build.CompileAPI, file build.SourceFile) error {
	content := string(file.Data)

	head, hasHead := innerSection(content, "head")
	body, hasBody := innerSection(content, "body")

	if hasHead {
		if err := api.AddResource(build.Resource{
			Type: build.ResourceHead,
			Data: []byte(head),
		}); err != nil {
			return err
		}
	}

	if hasBody {
		return api.AddResource(build.Resource{
			Type: build.ResourceBody,
			Data: []byte(body),
		})
	}

	if !hasHead {
		// Bare markup with neither section is treated as body content.
		return api.AddResource(build.Resource{
			Type: build.ResourceBody,
			Data: file.Data,
		})
	}

	return nil
}

// innerSection extracts the content between <tag> and </tag>. Attribute-
// carrying open tags are not supported; template markup in packages does
// not use them.
func innerSection(content, tag string) (string, bool) {
	open := "<" + tag + ">"
	close := "</" + tag + ">"

	start := strings.Index(content, open)
	if start < 0 {
		return "", false
	}
	rest := content[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// Static emits the file verbatim. This is also the behavior the engine
// falls back to when no handler claims a file.
type Static struct{}

// Compile implements Handler.
func (Static) Compile(api *build.CompileAPI, file build.SourceFile) error {
	return api.AddResource(build.Resource{
		Type:      build.ResourceStatic,
		Data:      file.Data,
		ServePath: file.ServePath,
	})
}

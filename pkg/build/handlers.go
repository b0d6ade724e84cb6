// SPDX-License-Identifier: MPL-2.0

package build

// SourceFile is the single input a handler invocation may read. Handlers
// must not share state across invocations.
type SourceFile struct {
	// Path is the source path relative to the package source root.
	Path string
	// FullPath is the absolute on-disk location.
	FullPath string
	// ServePath is the absolute path the file's output is served under.
	ServePath string
	// Data is the raw file content.
	Data []byte
}

// Handler compiles one source file into resource records through the
// capability API.
type Handler interface {
	Compile(api *CompileAPI, file SourceFile) error
}

// HandlerLookup resolves a handler name from a manifest's extension table
// to its implementation.
type HandlerLookup interface {
	Lookup(name string) (Handler, bool)
}

// resolveHandler picks the unique handler for one extension in one slice.
//
// The package's own registration wins outright, but only in the use role: a
// package's own handlers never apply to its own test compilation. Otherwise
// the direct dependencies' registrations are considered in use-list order:
// zero candidates means the file falls back to a static resource, one is
// used, and two or more is a fatal ambiguity naming the competitors.
func (c *Compiler) resolveHandler(r Role, ext string, candidates []extensionCandidate) (Handler, bool, error) {
	var fromDeps []extensionCandidate
	for _, cand := range candidates {
		if cand.own {
			if r == RoleUse {
				return c.lookupImpl(cand.handler)
			}
			continue
		}
		fromDeps = append(fromDeps, cand)
	}

	switch len(fromDeps) {
	case 0:
		return nil, false, nil
	case 1:
		return c.lookupImpl(fromDeps[0].handler)
	default:
		names := make([]string, len(fromDeps))
		for i, cand := range fromDeps {
			names[i] = cand.owner
		}
		return nil, false, &AmbiguousHandlerError{Extension: ext, Candidates: names}
	}
}

func (c *Compiler) lookupImpl(name string) (Handler, bool, error) {
	h, ok := c.Handlers.Lookup(name)
	if !ok {
		return nil, false, &NotFoundError{
			Kind: "handler",
			Name: name,
			Hint: "the manifest names a handler that is not registered with this build",
		}
	}
	return h, true, nil
}

// SPDX-License-Identifier: MPL-2.0

package linker

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Prelinker is the reference Linker implementation. It scopes each fragment
// in a closure (unless the global namespace is requested), optionally
// combines fragments into a single served file, and emits a boundary marker
// the final link stage can locate and replace.
type Prelinker struct{}

// Prelink implements the Linker interface.
func (Prelinker) Prelink(in Input) (*Output, error) {
	boundary, err := newBoundary()
	if err != nil {
		return nil, err
	}

	out := &Output{
		Boundary: boundary,
		Exports:  uniqueSorted(in.ForceExport),
	}

	if len(in.Files) == 0 {
		return out, nil
	}

	if in.CombinedServePath != "" {
		var buf bytes.Buffer
		writePreamble(&buf, in, boundary)
		for _, f := range in.Files {
			writeFragment(&buf, f, !in.UseGlobalNamespace)
		}
		out.Files = []File{{ServePath: in.CombinedServePath, Data: buf.Bytes()}}
		return out, nil
	}

	for i, f := range in.Files {
		var buf bytes.Buffer
		if i == 0 {
			writePreamble(&buf, in, boundary)
		}
		writeFragment(&buf, f, !in.UseGlobalNamespace)
		out.Files = append(out.Files, File{ServePath: f.ServePath, Data: buf.Bytes()})
	}

	return out, nil
}

// newBoundary produces the opaque splice marker. It must be unguessable
// enough to never collide with user code.
func newBoundary() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate link boundary: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// writePreamble emits the import splice point. The final link stage replaces
// the boundary comment with the real import preamble loaded from the import
// stub serve path.
func writePreamble(buf *bytes.Buffer, in Input, boundary string) {
	name := in.Name
	if name == "" {
		name = "app"
	}
	fmt.Fprintf(buf, "/* package %s */\n", name)
	fmt.Fprintf(buf, "/* imports %s <- %s */\n", boundary, in.ImportStubServePath)
}

func writeFragment(buf *bytes.Buffer, f SourceFile, scoped bool) {
	fmt.Fprintf(buf, "// %s\n", f.ServePath)
	if scoped {
		buf.WriteString("(function () {\n")
	}
	buf.Write(f.Data)
	if len(f.Data) > 0 && !bytes.HasSuffix(f.Data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	if scoped {
		buf.WriteString("})();\n")
	}
}

func uniqueSorted(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var out []string
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

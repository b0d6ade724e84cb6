// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ExtensionConflictId
	FuzzyVersionPinId
	PackageNotFoundId
	SourceTreeEscapeId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No package manifest found!

We looked for a package.cue but the directory does not contain one.

## Things you can try:
- Check you are pointing at a package directory, not its parent
- Create a minimal manifest:
~~~cue
summary: "My package"

onUse: {
	files: [{paths: ["main.js"], where: ["client", "server"]}]
}
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse package manifest!

The package.cue file contains syntax errors or invalid declarations.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A ` + "`where`" + ` entry that is not "client" or "server"
- Fuzzy npm version pins (use exact versions like "1.2.3")

## Things you can try:
- Check the error message above for the failing field path
- Run with verbose mode for more details:
~~~
$ meteor --verbose show <package>
~~~`,
	}

	extensionConflictIssue = &Issue{
		id: ExtensionConflictId,
		mdMsg: `
# Conflicting source handlers!

Two or more of the package's dependencies register a handler for the same
file extension, and the build cannot pick between them.

## Things you can try:
- Drop one of the competing packages from the use list
- Register the extension in the package itself; a package's own handler
  always wins for its own sources
- Rename the affected source files to an uncontested extension`,
	}

	fuzzyVersionPinIssue = &Issue{
		id: FuzzyVersionPinId,
		mdMsg: `
# Fuzzy npm version pin!

npm sub-dependencies must be pinned to exact versions so builds stay
reproducible. Ranges, wildcards, and partial versions are rejected.

## Examples:
~~~cue
npm: {
	"left-pad": "1.3.0"   // OK: exact
	// "left-pad": "^1.3.0"  rejected: range
	// "left-pad": "1.3"     rejected: partial
}
~~~`,
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

The package was not found in any search layer.

## Search layers (in order of precedence):
1. ` + "`<app>/packages/<name>`" + `
2. Directories listed in METEOR_PACKAGE_DIRS
3. The versioned store, through the release manifest

## Things you can try:
- List what is resolvable right now:
~~~
$ meteor list
~~~
- Check for typos in the package name
- Add the directory holding the package to METEOR_PACKAGE_DIRS`,
	}

	sourceTreeEscapeIssue = &Issue{
		id: SourceTreeEscapeId,
		mdMsg: `
# Source tree escape detected!

While scanning for sources, a file path normalized to a location outside
the package's source root. This is an internal invariant violation, most
often caused by a symlink pointing out of the tree.

## Things you can try:
- Remove or replace symlinks that leave the package directory
- Keep every compiled source physically under the package root`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the meteor configuration file.

## Things you can try:
- Check the configuration syntax (the file is CUE)
- Remove the config file to fall back to defaults
- Override the package search path directly:
~~~
$ METEOR_PACKAGE_DIRS=/path/to/packages meteor list
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		extensionConflictIssue.Id():  extensionConflictIssue,
		fuzzyVersionPinIssue.Id():    fuzzyVersionPinIssue,
		packageNotFoundIssue.Id():    packageNotFoundIssue,
		sourceTreeEscapeIssue.Id():   sourceTreeEscapeIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

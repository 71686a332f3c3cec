// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ModuleNotFoundId Id = iota + 1
	MetaParseErrorId
	RegistafileParseErrorId
	DependencyCycleId
	ModuleCollisionId
	DuplicateMemberId
	AbstractPropertyId
	UnresolvedBaseId
	EmissionFailedId
	ConfigLoadFailedId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look the issue up
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages covering the issue
	extLinks []HttpLink  // external links that might be useful
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

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# No declaration module found!

We searched for a module directory but couldn't find one in the expected
locations.

## Search locations (in order of precedence):
1. The directory passed on the command line
2. The current directory
3. Paths listed under ` + "`search_paths`" + ` in your config file

## Things you can try:
- Create a module in your current directory:
~~~
$ mkdir mylib.registamod
$ $EDITOR mylib.registamod/registamod.cue
~~~

- Or point at an existing one:
~~~
$ regista generate ./path/to/mylib.registamod
~~~

## Minimal registamod.cue:
~~~cue
module:  "com.example.mylib"
version: "0.1.0"
~~~`,
	}

	metaParseErrorIssue = &Issue{
		id: MetaParseErrorId,
		mdMsg: `
# Failed to parse registamod.cue!

The module metadata file contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- A module identifier that is not reverse-DNS shaped
- A ` + "`requires`" + ` entry without a path

## Things you can try:
- Check the error message above for the specific field
- Validate your CUE syntax with the cue command-line tool
- Run with verbose mode for more details:
~~~
$ regista --verbose validate
~~~`,
	}

	registafileParseErrorIssue = &Issue{
		id: RegistafileParseErrorId,
		mdMsg: `
# Failed to parse registafile.cue!

Your declaration file contains syntax errors or invalid declarations.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Duplicate declaration names in one scope
- A static declaration carrying constructors
- Declarations nested deeper than the supported bound

## Things you can try:
- Check the error message above for the offending declaration
- Validate the file in isolation:
~~~
$ regista validate ./mylib.registamod
~~~

## Example of a valid declaration:
~~~cue
decls: [
	{
		name: "Red"
		extends: {name: "Color"}
		ctors: [
			{base: [3, "Red"]}
		]
	},
]
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Module dependency cycle!

The ` + "`requires`" + ` chains of your modules loop back on themselves, so
there is no valid load order.

## Things you can try:
- Read the cycle listed above and pick the edge that should not exist
- Move shared declarations into a module both sides can require
- Remove the ` + "`requires`" + ` entry that closes the loop`,
	}

	moduleCollisionIssue = &Issue{
		id: ModuleCollisionId,
		mdMsg: `
# Two modules claim the same identifier!

Two different directories declare the same ` + "`module`" + ` value, and the
loader cannot tell which one a requirement means.

## Things you can try:
- Rename one of the modules to a distinct reverse-DNS identifier
- Remove the stale copy if one directory is an old duplicate
- Check your ` + "`search_paths`" + ` config for directories that overlap`,
	}

	duplicateMemberIssue = &Issue{
		id: DuplicateMemberId,
		mdMsg: `
# Ambiguous duplicate declarations!

Several modules declare a member with the same name and none of them
extends the others, so no most-derived declaration exists. The last one
discovered was kept.

## Things you can try:
- Make the intended override extend the declaration it replaces
- Rename the declarations if they are genuinely different members
- Tighten module ` + "`exports`" + ` so only one declaration is visible`,
	}

	abstractPropertyIssue = &Issue{
		id: AbstractPropertyId,
		mdMsg: `
# Registry marker has an abstract property!

A registry cannot materialize members while its marker chain still has an
unimplemented property, so only the empty sentinel was generated.

## Things you can try:
- Give the property a concrete value in the marker declaration
- Implement the property in every member instead, then drop it from the
  marker
- Remove the property if nothing reads it`,
	}

	unresolvedBaseIssue = &Issue{
		id: UnresolvedBaseId,
		mdMsg: `
# Registry base type cannot be resolved!

The marker's base chain names a declaration that no visible module
provides, so only the empty sentinel was generated.

## Things you can try:
- Add the module that declares the base type to ` + "`requires`" + `
- Check the base type name for typos
- Make sure the declaring module exports it (or exports ` + "`\"*\"`" + `)`,
	}

	emissionFailedIssue = &Issue{
		id: EmissionFailedId,
		mdMsg: `
# Code generation failed for a registry!

Rendering one registry failed; its siblings were still generated.

## Things you can try:
- Read the diagnostic above for the registry and cause
- Run with verbose mode for the full detail:
~~~
$ regista --verbose generate
~~~
- Re-run after fixing the offending declaration`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file exists but could not be read or validated.

## Things you can try:
- Check the file for syntax errors
- Show the effective configuration:
~~~
$ regista config show
~~~
- Delete the file to fall back to defaults`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write generated output!

Generation succeeded but the output directory rejected the write.

## Things you can try:
- Check that the output directory exists and is writable
- Check free disk space
- Point ` + "`out_dir`" + ` at a directory you own`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():        moduleNotFoundIssue,
		metaParseErrorIssue.Id():        metaParseErrorIssue,
		registafileParseErrorIssue.Id(): registafileParseErrorIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		moduleCollisionIssue.Id():       moduleCollisionIssue,
		duplicateMemberIssue.Id():       duplicateMemberIssue,
		abstractPropertyIssue.Id():      abstractPropertyIssue,
		unresolvedBaseIssue.Id():        unresolvedBaseIssue,
		emissionFailedIssue.Id():        emissionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		outputWriteFailedIssue.Id():     outputWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

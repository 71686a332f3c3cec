// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// File names are spelled out here rather than imported from pkg/registamod
// so packages under test can use these fixtures without an import cycle.
const (
	moduleSuffix  = ".registamod"
	metaFileName  = "registamod.cue"
	declsFileName = "registafile.cue"
	modulePerm    = 0o755
)

// ModuleFixture describes one declaration module to materialize on disk.
type ModuleFixture struct {
	// Name is the directory base name, without the .registamod suffix.
	Name string
	// Meta is the registamod.cue content.
	Meta string
	// Decls is the registafile.cue content; empty omits the file.
	Decls string
}

// WriteModule materializes a single module directory under root and
// returns its path.
func WriteModule(t testing.TB, root string, fixture ModuleFixture) string {
	t.Helper()

	dir := filepath.Join(root, fixture.Name+moduleSuffix)
	MustMkdirAll(t, dir, modulePerm)
	MustWriteFile(t, filepath.Join(dir, metaFileName), fixture.Meta)
	if fixture.Decls != "" {
		MustWriteFile(t, filepath.Join(dir, declsFileName), fixture.Decls)
	}
	return dir
}

// WriteModules materializes every fixture under root and returns the path
// of the first, which callers conventionally treat as the root module.
func WriteModules(t testing.TB, root string, fixtures ...ModuleFixture) string {
	t.Helper()

	if len(fixtures) == 0 {
		t.Fatal("WriteModules requires at least one fixture")
	}

	first := ""
	for i, f := range fixtures {
		dir := WriteModule(t, root, f)
		if i == 0 {
			first = dir
		}
	}
	return first
}

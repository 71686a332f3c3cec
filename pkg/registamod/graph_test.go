// SPDX-License-Identifier: MPL-2.0

package registamod

import (
	"errors"
	"strings"
	"testing"

	"github.com/regista/regista/internal/testutil"
)

func metaWith(id string, requires ...string) string {
	var sb strings.Builder
	sb.WriteString("module: \"" + id + "\"\n")
	sb.WriteString("exports: [\"*\"]\n")
	if len(requires) > 0 {
		sb.WriteString("requires: [\n")
		for _, r := range requires {
			sb.WriteString("\t{path: \"../" + r + ModuleSuffix + "\"},\n")
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func TestLoadModule(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteModule(t, root, testutil.ModuleFixture{
		Name: "palette",
		Meta: metaWith("com.example.palette"),
		Decls: `decls: [
	{name: "Color", abstract: true},
]`,
	})

	mod, err := LoadModule(dir)
	if err != nil {
		t.Fatalf("LoadModule() error = %v", err)
	}
	if mod.ID() != "com.example.palette" {
		t.Errorf("ID() = %q", mod.ID())
	}
	if mod.Decls == nil {
		t.Fatal("Decls should be parsed when registafile.cue exists")
	}
	if mod.Decls.ModuleID != "com.example.palette" {
		t.Errorf("declarations should carry the owning module ID, got %q", mod.Decls.ModuleID)
	}
}

func TestLoadModule_MetadataOnly(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteModule(t, root, testutil.ModuleFixture{
		Name: "empty",
		Meta: metaWith("com.example.empty"),
	})

	mod, err := LoadModule(dir)
	if err != nil {
		t.Fatalf("LoadModule() error = %v", err)
	}
	if mod.Decls != nil {
		t.Error("metadata-only module should have nil Decls")
	}
}

func TestLoadGraph_ScanOrder(t *testing.T) {
	root := t.TempDir()
	// app requires lib and ui; lib requires core. Depth-first order:
	// app, lib, core, ui.
	appDir := testutil.WriteModules(t, root,
		testutil.ModuleFixture{Name: "app", Meta: metaWith("com.example.app", "lib", "ui")},
		testutil.ModuleFixture{Name: "lib", Meta: metaWith("com.example.lib", "core")},
		testutil.ModuleFixture{Name: "core", Meta: metaWith("com.example.core")},
		testutil.ModuleFixture{Name: "ui", Meta: metaWith("com.example.ui")},
	)

	g, err := LoadGraph(appDir)
	if err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}

	if g.Root().ID() != "com.example.app" {
		t.Errorf("Root() = %q", g.Root().ID())
	}

	want := []string{"com.example.app", "com.example.lib", "com.example.core", "com.example.ui"}
	mods := g.Modules()
	if len(mods) != len(want) {
		t.Fatalf("Modules() = %d, want %d", len(mods), len(want))
	}
	for i, id := range want {
		if mods[i].ID() != id {
			t.Errorf("Modules()[%d] = %q, want %q", i, mods[i].ID(), id)
		}
	}

	if _, ok := g.Lookup("com.example.core"); !ok {
		t.Error("Lookup should find transitively required modules")
	}
	if _, ok := g.Lookup("com.example.absent"); ok {
		t.Error("Lookup should miss unknown identifiers")
	}
}

func TestLoadGraph_DiamondLoadsOnce(t *testing.T) {
	root := t.TempDir()
	appDir := testutil.WriteModules(t, root,
		testutil.ModuleFixture{Name: "app", Meta: metaWith("com.example.app", "left", "right")},
		testutil.ModuleFixture{Name: "left", Meta: metaWith("com.example.left", "base")},
		testutil.ModuleFixture{Name: "right", Meta: metaWith("com.example.right", "base")},
		testutil.ModuleFixture{Name: "base", Meta: metaWith("com.example.base")},
	)

	g, err := LoadGraph(appDir)
	if err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}

	count := 0
	for _, m := range g.Modules() {
		if m.ID() == "com.example.base" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared requirement loaded %d times, want 1", count)
	}
}

func TestLoadGraph_Cycle(t *testing.T) {
	root := t.TempDir()
	aDir := testutil.WriteModules(t, root,
		testutil.ModuleFixture{Name: "a", Meta: metaWith("com.example.a", "b")},
		testutil.ModuleFixture{Name: "b", Meta: metaWith("com.example.b", "a")},
	)

	_, err := LoadGraph(aDir)
	if err == nil {
		t.Fatal("requirement cycle should fail")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should name the cycle, got %v", err)
	}
}

func TestLoadGraph_IdentifierCollision(t *testing.T) {
	root := t.TempDir()
	appDir := testutil.WriteModules(t, root,
		testutil.ModuleFixture{Name: "app", Meta: metaWith("com.example.app", "first", "second")},
		testutil.ModuleFixture{Name: "first", Meta: metaWith("com.example.dup")},
		testutil.ModuleFixture{Name: "second", Meta: metaWith("com.example.dup")},
	)

	_, err := LoadGraph(appDir)
	var collision *ModuleCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected ModuleCollisionError, got %v", err)
	}
	if collision.ModuleID != "com.example.dup" {
		t.Errorf("ModuleID = %q", collision.ModuleID)
	}
}

func TestLoadGraph_Fingerprint(t *testing.T) {
	declsA := `decls: [{name: "Color", abstract: true}]`

	buildGraph := func(t *testing.T, decls string) *Graph {
		t.Helper()
		root := t.TempDir()
		dir := testutil.WriteModule(t, root, testutil.ModuleFixture{
			Name:  "palette",
			Meta:  metaWith("com.example.palette"),
			Decls: decls,
		})
		g, err := LoadGraph(dir)
		if err != nil {
			t.Fatalf("LoadGraph() error = %v", err)
		}
		return g
	}

	g1 := buildGraph(t, declsA)
	g2 := buildGraph(t, declsA)
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Error("identical content should produce identical fingerprints")
	}

	g3 := buildGraph(t, `decls: [{name: "Shade", abstract: true}]`)
	if g1.Fingerprint() == g3.Fingerprint() {
		t.Error("changed declarations should change the fingerprint")
	}
}

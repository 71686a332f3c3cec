// SPDX-License-Identifier: MPL-2.0

package registamod

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/regista/regista/internal/dag"
	"github.com/regista/regista/pkg/registafile"
)

type (
	// Module is one loaded declaration module: metadata plus (optionally)
	// its parsed declarations.
	Module struct {
		// Meta is the parsed registamod.cue (always present after load).
		Meta *Registamod

		// Decls is the parsed registafile.cue, nil for metadata-only
		// modules.
		Decls *registafile.Registafile

		// Path is the absolute filesystem path to the module directory.
		Path string
	}

	// Graph is an immutable snapshot of a root module and all transitively
	// required modules, in scan order: the root first, then requirements
	// depth-first in declared order. Requirements reachable through multiple
	// paths appear once.
	Graph struct {
		root        *Module
		modules     []*Module
		byID        map[string]*Module
		fingerprint uint64
	}

	// ModuleCollisionError is returned when two distinct directories claim
	// the same module identifier.
	ModuleCollisionError struct {
		ModuleID   string
		FirstPath  string
		SecondPath string
	}

	// moduleFingerprint is the hashed per-module summary feeding the graph
	// fingerprint.
	moduleFingerprint struct {
		ID      string
		Version string
		Decls   []registafile.Decl
		Consts  map[string]any
	}
)

// Error implements the error interface.
func (e *ModuleCollisionError) Error() string {
	return fmt.Sprintf(
		"module identifier collision: %q declared in both:\n  - %s\n  - %s",
		e.ModuleID, e.FirstPath, e.SecondPath)
}

// ID returns the module identifier.
func (m *Module) ID() string { return m.Meta.Module }

// LoadModule loads a single module directory: registamod.cue (required) and
// registafile.cue (optional).
func LoadModule(dir string) (*Module, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module path %s: %w", dir, err)
	}

	meta, err := Parse(filepath.Join(absDir, MetaFileName))
	if err != nil {
		return nil, fmt.Errorf("module at %s: %w", absDir, err)
	}

	mod := &Module{Meta: meta, Path: absDir}

	declPath := filepath.Join(absDir, registafile.FileName)
	if _, statErr := os.Stat(declPath); statErr == nil {
		decls, parseErr := registafile.Parse(declPath)
		if parseErr != nil {
			return nil, parseErr
		}
		decls.ModuleID = meta.Module
		mod.Decls = decls
	}

	return mod, nil
}

// LoadGraph loads the module rooted at rootDir and all transitively
// required modules. Requirement cycles and module-identifier collisions are
// errors; everything else about a dependency (including having no
// declarations at all) is fine.
func LoadGraph(rootDir string) (*Graph, error) {
	g := &Graph{byID: make(map[string]*Module)}
	edges := dag.New()

	var visit func(dir, requiredBy string) (*Module, error)
	visit = func(dir, requiredBy string) (*Module, error) {
		mod, err := LoadModule(dir)
		if err != nil {
			return nil, err
		}

		if existing, ok := g.byID[mod.ID()]; ok {
			if existing.Path != mod.Path {
				return nil, &ModuleCollisionError{
					ModuleID:   mod.ID(),
					FirstPath:  existing.Path,
					SecondPath: mod.Path,
				}
			}
			// Already loaded through another requirement path; only the
			// edge is new.
			if requiredBy != "" {
				edges.AddEdge(requiredBy, mod.ID())
			}
			return existing, nil
		}

		g.byID[mod.ID()] = mod
		g.modules = append(g.modules, mod)
		edges.AddNode(mod.ID())
		if requiredBy != "" {
			edges.AddEdge(requiredBy, mod.ID())
		}

		for _, req := range mod.Meta.Requires {
			reqDir := req.Path
			if !filepath.IsAbs(reqDir) {
				reqDir = filepath.Join(mod.Path, req.Path)
			}
			if _, err := visit(reqDir, mod.ID()); err != nil {
				return nil, err
			}
		}
		return mod, nil
	}

	root, err := visit(rootDir, "")
	if err != nil {
		return nil, err
	}
	g.root = root

	if _, err := edges.TopologicalSort(); err != nil {
		return nil, fmt.Errorf("module graph of %s: %w", root.ID(), err)
	}

	if err := g.computeFingerprint(); err != nil {
		return nil, err
	}
	return g, nil
}

// Root returns the graph's root module (the current build unit).
func (g *Graph) Root() *Module { return g.root }

// Modules returns all modules in scan order, root first.
func (g *Graph) Modules() []*Module { return g.modules }

// Lookup returns the module with the given identifier.
func (g *Graph) Lookup(id string) (*Module, bool) {
	m, ok := g.byID[id]
	return m, ok
}

// Fingerprint is a content hash over every module's identity and
// declarations. Two graphs with the same fingerprint produce the same
// discovery results, which makes it the memoization key for cross-module
// queries.
func (g *Graph) Fingerprint() uint64 { return g.fingerprint }

func (g *Graph) computeFingerprint() error {
	summaries := make([]moduleFingerprint, 0, len(g.modules))
	for _, m := range g.modules {
		fp := moduleFingerprint{ID: m.ID(), Version: m.Meta.Version}
		if m.Decls != nil {
			fp.Decls = m.Decls.Decls
			fp.Consts = m.Decls.Consts
		}
		summaries = append(summaries, fp)
	}

	h, err := hashstructure.Hash(summaries, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to fingerprint module graph: %w", err)
	}
	g.fingerprint = h
	return nil
}

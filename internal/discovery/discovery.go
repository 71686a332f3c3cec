// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"sync"

	"github.com/regista/regista/internal/scan"
	"github.com/regista/regista/pkg/registafile"
	"github.com/regista/regista/pkg/registamod"
)

type (
	// Candidate is one discovered declaration together with its originating
	// module.
	Candidate struct {
		Decl   *registafile.Decl
		Module *registamod.Module
	}

	// Service answers cross-module declaration queries. The zero value is
	// not usable; construct with New. A Service is intended to live for one
	// build pass and may be shared across concurrently processed build
	// units: the only mutable state is the monotonic query cache.
	Service struct {
		cache sync.Map // queryKey -> []Candidate or declIndex
	}

	queryKind uint8

	queryKey struct {
		kind  queryKind
		arg   string
		graph uint64
	}

	declIndex map[string]Candidate
)

const (
	queryInherit queryKind = iota
	queryAnnotation
	queryIndex
)

// New creates a Service with an empty query cache.
func New() *Service {
	return &Service{}
}

// FQN returns the module-qualified declaration name.
func (c Candidate) FQN() string {
	return c.Module.ID() + "." + c.Decl.Name
}

// FindByInheritance returns the concrete declarations whose base chain or
// implemented-capability set contains baseType, in scan order across the
// visible module graph. baseType and graph are required; passing a zero
// value is a wiring bug and panics.
func (s *Service) FindByInheritance(baseType string, graph *registamod.Graph) []Candidate {
	if baseType == "" {
		panic("discovery: FindByInheritance called with empty baseType")
	}
	if graph == nil {
		panic("discovery: FindByInheritance called with nil graph")
	}

	key := queryKey{kind: queryInherit, arg: baseType, graph: graph.Fingerprint()}
	if cached, ok := s.cache.Load(key); ok {
		return cached.([]Candidate)
	}

	var matches []Candidate
	for _, c := range s.visibleDecls(graph) {
		if !c.Decl.IsConcrete() {
			continue
		}
		if s.inherits(c, baseType, graph) {
			matches = append(matches, c)
		}
	}

	actual, _ := s.cache.LoadOrStore(key, matches)
	return actual.([]Candidate)
}

// FindByAnnotation returns the declarations bearing an annotation whose
// name matches case-insensitively (with or without the standard suffix), in
// scan order across the visible module graph. An annotation name nothing
// declares yields an empty result, not an error. name and graph are
// required; a zero value panics.
func (s *Service) FindByAnnotation(name string, graph *registamod.Graph) []Candidate {
	if name == "" {
		panic("discovery: FindByAnnotation called with empty name")
	}
	if graph == nil {
		panic("discovery: FindByAnnotation called with nil graph")
	}

	key := queryKey{kind: queryAnnotation, arg: name, graph: graph.Fingerprint()}
	if cached, ok := s.cache.Load(key); ok {
		return cached.([]Candidate)
	}

	var matches []Candidate
	for _, c := range s.visibleDecls(graph) {
		for i := range c.Decl.Annotations {
			if registafile.AnnotationNameMatches(c.Decl.Annotations[i].Name, name) {
				matches = append(matches, c)
				break
			}
		}
	}

	actual, _ := s.cache.LoadOrStore(key, matches)
	return actual.([]Candidate)
}

// ResolveDecl resolves a type name to its declaration within the visible
// graph. When several visible modules declare the name, the first in scan
// order wins (override resolution handles the duplicates that matter).
func (s *Service) ResolveDecl(name string, graph *registamod.Graph) (Candidate, bool) {
	if graph == nil {
		panic("discovery: ResolveDecl called with nil graph")
	}
	c, ok := s.index(graph)[name]
	return c, ok
}

// ResolveRef resolves a type reference, honoring its module qualifier when
// present.
func (s *Service) ResolveRef(ref *registafile.TypeRef, graph *registamod.Graph) (Candidate, bool) {
	if ref == nil {
		return Candidate{}, false
	}
	if ref.Module == "" {
		return s.ResolveDecl(ref.Name, graph)
	}

	m, ok := graph.Lookup(ref.Module)
	if !ok {
		return Candidate{}, false
	}
	for d := range scan.Scan(m.Decls) {
		if d.Name == ref.Name {
			return Candidate{Decl: d, Module: m}, true
		}
	}
	return Candidate{}, false
}

// BaseChain returns the resolved base-type chain of c, nearest base first,
// following extends links through the visible graph. Unresolvable links end
// the chain; a cycle guard bounds the walk.
func (s *Service) BaseChain(c Candidate, graph *registamod.Graph) []Candidate {
	var chain []Candidate
	seen := map[string]bool{c.FQN(): true}

	cur := c
	for cur.Decl.Extends != nil {
		next, ok := s.ResolveRef(cur.Decl.Extends, graph)
		if !ok || seen[next.FQN()] {
			break
		}
		seen[next.FQN()] = true
		chain = append(chain, next)
		cur = next
	}
	return chain
}

// inherits reports whether the candidate's base chain or any implemented
// capability (its own or a base's) contains baseType. Every capability is
// checked, not just the first.
func (s *Service) inherits(c Candidate, baseType string, graph *registamod.Graph) bool {
	for _, impl := range c.Decl.Implements {
		if impl == baseType {
			return true
		}
	}
	if c.Decl.Extends != nil && c.Decl.Extends.Name == baseType {
		return true
	}
	for _, base := range s.BaseChain(c, graph) {
		if base.Decl.Name == baseType {
			return true
		}
		for _, impl := range base.Decl.Implements {
			if impl == baseType {
				return true
			}
		}
	}
	return false
}

// visibleDecls walks every visible module's declaration tree in scan order:
// the root first, then requirements in graph order, each module's tree
// depth-first.
func (s *Service) visibleDecls(graph *registamod.Graph) []Candidate {
	var out []Candidate
	rootID := graph.Root().ID()
	for _, m := range graph.Modules() {
		if m.ID() != rootID && !m.Meta.ExportsTo(rootID) {
			continue
		}
		for d := range scan.Scan(m.Decls) {
			out = append(out, Candidate{Decl: d, Module: m})
		}
	}
	return out
}

// index returns the name -> declaration index for the graph, built at most
// once per graph fingerprint.
func (s *Service) index(graph *registamod.Graph) declIndex {
	key := queryKey{kind: queryIndex, graph: graph.Fingerprint()}
	if cached, ok := s.cache.Load(key); ok {
		return cached.(declIndex)
	}

	idx := make(declIndex)
	for _, c := range s.visibleDecls(graph) {
		if _, exists := idx[c.Decl.Name]; !exists {
			idx[c.Decl.Name] = c
		}
	}

	actual, _ := s.cache.LoadOrStore(key, idx)
	return actual.(declIndex)
}

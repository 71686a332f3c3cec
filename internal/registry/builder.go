// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"

	"github.com/regista/regista/internal/diag"
	"github.com/regista/regista/internal/discovery"
	"github.com/regista/regista/pkg/registafile"
	"github.com/regista/regista/pkg/registamod"
)

// Build converts a discovered marker and its member candidates into a
// Definition. Structural violations come back as diagnostics on a degraded
// (empty) definition, never as errors: the sibling registries of a build
// pass are unaffected. marker, graph and svc are required; nil panics.
func Build(marker discovery.Candidate, members []discovery.Candidate, graph *registamod.Graph, svc *discovery.Service) diag.Result[Definition] {
	if marker.Decl == nil {
		panic("registry: Build called with zero marker")
	}
	if graph == nil {
		panic("registry: Build called with nil graph")
	}
	if svc == nil {
		panic("registry: Build called with nil discovery service")
	}

	ann := marker.Decl.FindAnnotation(registafile.CollectionAnnotation)
	if ann == nil {
		panic(fmt.Sprintf("registry: marker %s has no collection annotation", marker.FQN()))
	}

	def := &Definition{
		ModuleID:               marker.Module.ID(),
		BaseType:               baseTypeOf(marker, ann),
		Collection:             collectionNameOf(marker, ann),
		ReturnType:             returnTypeOf(marker, ann),
		AlwaysStatic:           ann.NamedBool("alwaysStatic"),
		UseSingletonInstances:  ann.NamedBool("useSingletonInstances"),
		GenerateFactoryMethods: ann.NamedBool("generateFactoryMethods"),
		UseDictionaryStorage:   ann.NamedBool("useDictionaryStorage"),
		RestrictToModule:       ann.NamedBool("restrictToCurrentModule"),
		StrategyName:           ann.NamedString("strategy"),
	}

	chain := svc.BaseChain(marker, graph)
	def.InheritsFromRegistryBase = inheritsRegistryBase(marker, chain)
	def.BaseParams = baseParamsOf(marker, chain)
	def.Lookups = collectLookups(marker, chain)

	var diags []diag.Diagnostic

	if marker.Decl.Extends != nil && marker.Decl.Extends.Name != RegistryBaseName {
		if _, ok := svc.ResolveRef(marker.Decl.Extends, graph); !ok {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeUnresolvedBase,
				Category: diag.CategoryStructure,
				Registry: def.Collection,
				Message:  fmt.Sprintf("base type %q of marker %s cannot be resolved", marker.Decl.Extends.Name, marker.FQN()),
				Path:     markerPath(marker),
			})
		}
	}

	if prop, where := findAbstractProperty(marker, chain); prop != "" {
		diags = append(diags, diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     diag.CodeAbstractProperty,
			Category: diag.CategoryStructure,
			Registry: def.Collection,
			Message: fmt.Sprintf(
				"base type %s exposes abstract property %q; registries carry per-member data via constructor parameters",
				where, prop),
			Path: markerPath(marker),
		})
	}

	if len(diags) > 0 {
		// Structural violation: the registry degrades to its empty
		// sentinel but still emits, so lookups on it stay total.
		def.Degraded = true
		return diag.OkResult(def, diags...)
	}

	for _, c := range members {
		if def.RestrictToModule && c.Module.ID() != marker.Module.ID() {
			continue
		}
		def.Members = append(def.Members, buildMember(c, def.BaseParams))
	}

	return diag.OkResult(def)
}

func buildMember(c discovery.Candidate, baseParams []registafile.Param) Member {
	m := Member{
		TypeName:   c.Decl.Name,
		FQN:        c.FQN(),
		IsAbstract: c.Decl.Abstract,
		IsStatic:   c.Decl.Static,
	}

	m.DisplayName = c.Decl.Name
	if ann := c.Decl.FindAnnotation(registafile.MemberAnnotation); ann != nil {
		if name, ok := ann.StringArg(1); ok && name != "" {
			m.DisplayName = name
		} else if name := ann.NamedString("name"); name != "" {
			m.DisplayName = name
		}
	}

	var consts map[string]any
	if c.Module.Decls != nil {
		consts = c.Module.Decls.Consts
	}

	m.Ctors = CaptureCtors(c.Decl, baseParams, consts)
	m.Identity, m.HasIdentity = ExtractIdentity(c.Decl, baseParams, consts)
	return m
}

// CollectionName returns the marker's declared collection name without
// building the full definition.
func CollectionName(marker discovery.Candidate) string {
	ann := marker.Decl.FindAnnotation(registafile.CollectionAnnotation)
	if ann == nil {
		return marker.Decl.Name
	}
	return collectionNameOf(marker, ann)
}

// TaggedFor reports whether a member annotation binds its declaration to
// the given marker: the target type argument must match the marker's type
// name and, when the optional collection filter is present (third
// positional argument or named "collection"), it must match the marker's
// collection name.
func TaggedFor(ann *registafile.Annotation, marker discovery.Candidate) bool {
	target, ok := ann.StringArg(0)
	if !ok || target != marker.Decl.Name {
		return false
	}
	filter, ok := ann.StringArg(2)
	if !ok {
		filter = ann.NamedString("collection")
	}
	return filter == "" || filter == CollectionName(marker)
}

// baseTypeOf reads the base-type identity to group by: annotation arg 1,
// falling back to the marker's own name.
func baseTypeOf(marker discovery.Candidate, ann *registafile.Annotation) string {
	if name, ok := ann.StringArg(0); ok && name != "" {
		return name
	}
	return marker.Decl.Name
}

// collectionNameOf resolves the declared collection name: explicit arg 2,
// else the marker's own name.
func collectionNameOf(marker discovery.Candidate, ann *registafile.Annotation) string {
	if name, ok := ann.StringArg(1); ok && name != "" {
		return name
	}
	if name := ann.NamedString("name"); name != "" {
		return name
	}
	return marker.Decl.Name
}

// returnTypeOf resolves the declared return/capability type: an explicit
// returnType argument wins; otherwise the second type argument of the
// marker's base when doubly parameterized, else the first, else the top
// type.
func returnTypeOf(marker discovery.Candidate, ann *registafile.Annotation) string {
	if rt := ann.NamedString("returnType"); rt != "" {
		return rt
	}
	if marker.Decl.Extends != nil {
		switch args := marker.Decl.Extends.TypeArgs; {
		case len(args) >= 2:
			return args[1]
		case len(args) == 1:
			return args[0]
		}
	}
	return TopType
}

func inheritsRegistryBase(marker discovery.Candidate, chain []discovery.Candidate) bool {
	if marker.Decl.Extends != nil && marker.Decl.Extends.Name == RegistryBaseName {
		return true
	}
	for _, base := range chain {
		if base.Decl.Name == RegistryBaseName {
			return true
		}
		if base.Decl.Extends != nil && base.Decl.Extends.Name == RegistryBaseName {
			return true
		}
	}
	return false
}

// baseParamsOf finds the registry base constructor's parameter list: the
// marker's first public constructor, else the nearest base's.
func baseParamsOf(marker discovery.Candidate, chain []discovery.Candidate) []registafile.Param {
	if ctors := marker.Decl.PublicCtors(); len(ctors) > 0 {
		return ctors[0].Params
	}
	for _, base := range chain {
		if ctors := base.Decl.PublicCtors(); len(ctors) > 0 {
			return ctors[0].Params
		}
	}
	return nil
}

// collectLookups walks the marker and its base chain collecting properties
// carrying the lookup annotation, recording the declared accessor name.
func collectLookups(marker discovery.Candidate, chain []discovery.Candidate) []LookupProperty {
	var lookups []LookupProperty
	seen := make(map[string]bool)

	collect := func(decl *registafile.Decl) {
		for i := range decl.Properties {
			p := &decl.Properties[i]
			ann := p.FindAnnotation(registafile.LookupAnnotation)
			if ann == nil || seen[p.Name] {
				continue
			}
			seen[p.Name] = true

			accessor := ""
			if a, ok := ann.StringArg(0); ok {
				accessor = a
			} else {
				accessor = ann.NamedString("accessor")
			}
			lookups = append(lookups, LookupProperty{
				Name:     p.Name,
				Type:     p.Type,
				Accessor: accessor,
			})
		}
	}

	collect(marker.Decl)
	for _, base := range chain {
		collect(base.Decl)
	}
	return lookups
}

// findAbstractProperty returns the first abstract property on the marker or
// its chain, with the declaring type's name.
func findAbstractProperty(marker discovery.Candidate, chain []discovery.Candidate) (prop, where string) {
	for i := range marker.Decl.Properties {
		if marker.Decl.Properties[i].Abstract {
			return marker.Decl.Properties[i].Name, marker.Decl.Name
		}
	}
	for _, base := range chain {
		for i := range base.Decl.Properties {
			if base.Decl.Properties[i].Abstract {
				return base.Decl.Properties[i].Name, base.Decl.Name
			}
		}
	}
	return "", ""
}

func markerPath(marker discovery.Candidate) string {
	if marker.Module.Decls != nil {
		return marker.Module.Decls.FilePath
	}
	return marker.Module.Path
}

// SPDX-License-Identifier: MPL-2.0

package registafile

import (
	"strings"
)

const (
	// FileName is the declaration file name inside a module directory.
	FileName = "registafile.cue"

	// CollectionAnnotation marks an abstract base type as a registry
	// collection marker.
	CollectionAnnotation = "RegistryCollection"

	// MemberAnnotation marks a concrete type as a member of a registry.
	MemberAnnotation = "RegistryMember"

	// LookupAnnotation marks a base-type property as a lookup key; its first
	// argument names the accessor method to generate.
	LookupAnnotation = "RegistryLookup"

	// AnnotationSuffix may be appended to annotation names in declarations;
	// queries match with or without it.
	AnnotationSuffix = "Annotation"

	// MaxDeclDepth bounds recursion into nested type scopes. Hand-written
	// declarations never get close; the bound protects against synthetic
	// nesting in generated inputs.
	MaxDeclDepth = 32
)

type (
	// Registafile is the parsed content of a registafile.cue.
	Registafile struct {
		// Consts are module-level named constants usable in base-call
		// expressions.
		Consts map[string]any `json:"consts,omitempty"`

		// Decls are the top-level type declarations.
		Decls []Decl `json:"decls"`

		// FilePath is where this file was loaded from (not in CUE).
		FilePath string `json:"-"`

		// ModuleID is the owning module identifier (not in CUE, set by the
		// module loader).
		ModuleID string `json:"-"`
	}

	// TypeRef is a reference to another type, optionally parameterized.
	// Module qualifies the reference to a specific module's declaration;
	// without it the name resolves across the visible graph in scan order.
	// Overrides use the qualified form to extend the declaration they
	// replace.
	TypeRef struct {
		Name     string   `json:"name"`
		Module   string   `json:"module,omitempty"`
		TypeArgs []string `json:"typeArgs,omitempty"`
	}

	// Annotation is a structured marker attached to a declaration or
	// property. Args are positional; Named holds named arguments.
	Annotation struct {
		Name  string         `json:"name"`
		Args  []any          `json:"args,omitempty"`
		Named map[string]any `json:"named,omitempty"`
	}

	// Param is one constructor parameter.
	Param struct {
		Name string `json:"name"`
		Type string `json:"type"`
		// Default is the default value literal as source text (optional).
		Default string `json:"default,omitempty"`
	}

	// Constructor is one constructor signature of a declaration.
	//
	// Base holds the base-constructor invocation in whichever of the three
	// supported spellings the author used:
	//   - compact positional list:  base: [3, "Red"]
	//   - structural named form:    base: {id: 3, name: "Red"}
	//   - full body form:           base: {args: [3, "Red"]}
	// It decodes to []any for the list form and map[string]any otherwise.
	// Individual arguments are literals, {expr: "..."} constant expressions,
	// or {param: "..."} references to this constructor's own parameters.
	Constructor struct {
		Public bool    `json:"public"`
		Params []Param `json:"params,omitempty"`
		Base   any     `json:"base,omitempty"`
	}

	// Property is a declared property of a type.
	Property struct {
		Name        string       `json:"name"`
		Type        string       `json:"type"`
		Abstract    bool         `json:"abstract,omitempty"`
		Annotations []Annotation `json:"annotations,omitempty"`
	}

	// Decl is one type declaration. Types holds nested scope declarations.
	Decl struct {
		Name        string       `json:"name"`
		Abstract    bool         `json:"abstract,omitempty"`
		Static      bool         `json:"static,omitempty"`
		Extends     *TypeRef     `json:"extends,omitempty"`
		Implements  []string     `json:"implements,omitempty"`
		Annotations []Annotation `json:"annotations,omitempty"`
		Ctors       []Constructor `json:"ctors,omitempty"`
		Properties  []Property   `json:"properties,omitempty"`
		Types       []Decl       `json:"types,omitempty"`
	}
)

// IsConcrete reports whether the declaration can contribute a registry
// member (neither abstract nor static).
func (d *Decl) IsConcrete() bool {
	return !d.Abstract && !d.Static
}

// FindAnnotation returns the first annotation matching name
// case-insensitively, with or without the standard suffix. Returns nil when
// no annotation matches.
func (d *Decl) FindAnnotation(name string) *Annotation {
	for i := range d.Annotations {
		if AnnotationNameMatches(d.Annotations[i].Name, name) {
			return &d.Annotations[i]
		}
	}
	return nil
}

// PublicCtors returns the declaration's public constructors in declared
// order.
func (d *Decl) PublicCtors() []Constructor {
	var out []Constructor
	for _, c := range d.Ctors {
		if c.Public {
			out = append(out, c)
		}
	}
	return out
}

// FindAnnotation returns the first property annotation matching name, or nil.
func (p *Property) FindAnnotation(name string) *Annotation {
	for i := range p.Annotations {
		if AnnotationNameMatches(p.Annotations[i].Name, name) {
			return &p.Annotations[i]
		}
	}
	return nil
}

// AnnotationNameMatches reports whether declared matches query
// case-insensitively, treating the standard suffix as optional on either
// side.
func AnnotationNameMatches(declared, query string) bool {
	d := strings.ToLower(strings.TrimSuffix(declared, AnnotationSuffix))
	q := strings.ToLower(strings.TrimSuffix(query, AnnotationSuffix))
	return d == q
}

// Arg returns the i-th positional argument, if present.
func (a *Annotation) Arg(i int) (any, bool) {
	if i < 0 || i >= len(a.Args) {
		return nil, false
	}
	return a.Args[i], true
}

// StringArg returns the i-th positional argument as a string. The second
// return is false when the argument is absent or not a string.
func (a *Annotation) StringArg(i int) (string, bool) {
	v, ok := a.Arg(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// NamedString returns the named argument as a string, or "" when absent.
func (a *Annotation) NamedString(name string) string {
	if v, ok := a.Named[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// NamedBool returns the named argument as a bool, or false when absent.
func (a *Annotation) NamedBool(name string) bool {
	if v, ok := a.Named[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

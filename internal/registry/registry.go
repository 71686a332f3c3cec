// SPDX-License-Identifier: MPL-2.0

// Package registry converts discovered declarations and their annotation
// arguments into immutable, content-hashed registry models.
//
// A Definition describes one registry: its marker, collection name, return
// type, generation flags, lookup properties and members. Definitions are
// built fresh per build pass, never mutated afterwards, and compared by
// content hash - never by reference.
package registry

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/regista/regista/pkg/registafile"
)

const (
	// RegistryBaseName is the intrinsic registry base type. A marker whose
	// chain reaches it sets InheritsFromRegistryBase; the name resolves
	// even when no module declares it.
	RegistryBaseName = "RegistryBase"

	// TopType is the return type used when the marker's base carries no
	// type arguments.
	TopType = "any"
)

const (
	// ArgLiteral is a literal base-call argument.
	ArgLiteral ArgKind = iota
	// ArgExpr is a constant expression argument ({expr: "..."}).
	ArgExpr
	// ArgParamRef forwards one of the constructor's own parameters
	// ({param: "..."}).
	ArgParamRef
)

type (
	// ArgKind discriminates base-call argument forms.
	ArgKind uint8

	// Arg is one normalized base-call argument.
	Arg struct {
		Kind ArgKind
		// Value is the literal or constant-folded value. Meaningful when
		// Constant is true.
		Value any
		// Expr is the source expression for ArgExpr arguments.
		Expr string
		// Param names the referenced constructor parameter for ArgParamRef.
		Param string
		// Constant reports whether Value holds a compile-time constant.
		Constant bool
	}

	// CtorSig is one captured public constructor: its full parameter list
	// and its base call normalized to positional order.
	CtorSig struct {
		Params   []registafile.Param
		BaseArgs []Arg
	}

	// LookupProperty is a base-chain property carrying the lookup
	// annotation; Accessor is the declared accessor-method name to
	// generate.
	LookupProperty struct {
		Name     string
		Type     string
		Accessor string
	}

	// Member is one registry member model. Immutable once built.
	Member struct {
		// TypeName is the originating declaration name.
		TypeName string
		// FQN is the module-qualified name.
		FQN string
		// DisplayName comes from the member annotation, falling back to the
		// type name.
		DisplayName string
		// Ctors are the captured public constructors, in declared order.
		Ctors []CtorSig
		// IsAbstract / IsStatic mirror the declaration flags.
		IsAbstract bool
		IsStatic   bool
		// Identity is the numeric identity recovered from the base call;
		// HasIdentity is false when no compile-time constant was found.
		Identity    int
		HasIdentity bool
	}

	// Definition is one registry model. Immutable once built; equality and
	// cache keys are content-based via Hash.
	Definition struct {
		// ModuleID is the marker's originating module.
		ModuleID string
		// BaseType is the base-type identity members are grouped by.
		BaseType string
		// Collection is the declared collection name.
		Collection string
		// ReturnType is the declared return/capability type.
		ReturnType string

		// Generation flags.
		AlwaysStatic             bool
		UseSingletonInstances    bool
		GenerateFactoryMethods   bool
		UseDictionaryStorage     bool
		InheritsFromRegistryBase bool
		RestrictToModule         bool
		// StrategyName is an explicit strategy override ("Service",
		// "DependencyInjection").
		StrategyName string

		// BaseParams is the registry base constructor's parameter list;
		// member base calls resolve named arguments against it.
		BaseParams []registafile.Param

		// Lookups are the lookup-property descriptors collected by walking
		// the base-type chain.
		Lookups []LookupProperty

		// Members in scan order.
		Members []Member

		// Degraded marks a registry reduced to its empty sentinel by a
		// structural violation.
		Degraded bool

		hash     uint64
		hashOnce bool
	}
)

// Hash returns the definition's content hash, used as the
// incremental-cache invalidation key. Computed on first use.
func (d *Definition) Hash() uint64 {
	if !d.hashOnce {
		h, err := hashstructure.Hash(d, hashstructure.FormatV2, nil)
		if err != nil {
			// hashstructure only fails on unhashable kinds, which the
			// model does not contain.
			panic(fmt.Sprintf("registry: failed to hash definition %s: %v", d.Collection, err))
		}
		d.hash = h
		d.hashOnce = true
	}
	return d.hash
}

// Equal reports content equality.
func (d *Definition) Equal(other *Definition) bool {
	if other == nil {
		return false
	}
	return d.Hash() == other.Hash()
}
